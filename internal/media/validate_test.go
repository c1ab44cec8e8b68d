package media

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/craftline/shopadmin/internal/errs"
	"github.com/craftline/shopadmin/internal/model"
)

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name    string
		att     *model.Attachment
		wantErr error
	}{
		{"ok png", &model.Attachment{Name: "a.png", ContentType: "image/png", Data: []byte{1}}, nil},
		{"ok webp", &model.Attachment{Name: "a.webp", ContentType: "image/webp", Data: []byte{1}}, nil},
		{"nil", nil, errs.ErrInvalidMediaType},
		{"wrong type", &model.Attachment{Name: "a.mp4", ContentType: "video/mp4", Data: []byte{1}}, errs.ErrInvalidMediaType},
		{"no type", &model.Attachment{Name: "a", Data: []byte{1}}, errs.ErrInvalidMediaType},
		{"too large", &model.Attachment{Name: "a.png", ContentType: "image/png", Data: make([]byte, MaxImageSize+1)}, errs.ErrMediaTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImage(tt.att)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ValidateImage() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateVideo(t *testing.T) {
	ok := &model.Attachment{Name: "a.mp4", ContentType: "video/mp4", Data: []byte{1}}
	if err := ValidateVideo(ok); err != nil {
		t.Fatalf("ValidateVideo: %v", err)
	}
	img := &model.Attachment{Name: "a.png", ContentType: "image/png", Data: []byte{1}}
	if err := ValidateVideo(img); !errors.Is(err, errs.ErrInvalidMediaType) {
		t.Fatalf("err = %v, want ErrInvalidMediaType", err)
	}
	big := &model.Attachment{Name: "a.mp4", ContentType: "video/mp4", Data: make([]byte, MaxVideoSize+1)}
	if err := ValidateVideo(big); !errors.Is(err, errs.ErrMediaTooLarge) {
		t.Fatalf("err = %v, want ErrMediaTooLarge", err)
	}
}

func TestLoadAttachment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(path, []byte("fake-png"), 0o600); err != nil {
		t.Fatal(err)
	}

	att, err := LoadAttachment(path)
	if err != nil {
		t.Fatalf("LoadAttachment: %v", err)
	}
	if att.Name != "photo.png" {
		t.Fatalf("name = %q", att.Name)
	}
	if att.ContentType != "image/png" {
		t.Fatalf("content type = %q, want image/png", att.ContentType)
	}
	if string(att.Data) != "fake-png" {
		t.Fatalf("data = %q", att.Data)
	}

	if _, err := LoadAttachment(filepath.Join(dir, "missing.png")); err == nil {
		t.Fatal("want error for missing file")
	}
}
