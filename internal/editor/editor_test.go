package editor

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/craftline/shopadmin/internal/errs"
	"github.com/craftline/shopadmin/internal/media"
	"github.com/craftline/shopadmin/internal/model"
)

func TestAddDetailTrimsAndDedupes(t *testing.T) {
	e := New(FlowCreate, nil, nil, nil)
	if !e.AddDetail("  hand made ") {
		t.Fatal("first add rejected")
	}
	if e.AddDetail("hand made") {
		t.Fatal("duplicate accepted")
	}
	if e.AddDetail("   ") {
		t.Fatal("blank accepted")
	}
	if len(e.Draft().Details) != 1 || e.Draft().Details[0] != "hand made" {
		t.Fatalf("details = %v", e.Draft().Details)
	}
}

func TestRemoveDetail(t *testing.T) {
	e := New(FlowCreate, nil, nil, nil)
	e.AddDetail("a")
	e.AddDetail("b")
	e.RemoveDetail("a")
	if len(e.Draft().Details) != 1 || e.Draft().Details[0] != "b" {
		t.Fatalf("details = %v", e.Draft().Details)
	}
}

func TestAddFAQRequiresBothSides(t *testing.T) {
	e := New(FlowCreate, nil, nil, nil)
	if e.AddFAQ("question only", "") {
		t.Fatal("accepted FAQ without answer")
	}
	if e.AddFAQ("", "answer only") {
		t.Fatal("accepted FAQ without question")
	}
	if !e.AddFAQ("Is it handmade?", "Yes.") {
		t.Fatal("rejected valid FAQ")
	}
}

func TestRemoveFAQBoundsChecked(t *testing.T) {
	e := New(FlowCreate, nil, nil, nil)
	e.AddFAQ("q1", "a1")
	e.AddFAQ("q2", "a2")
	e.RemoveFAQ(5)
	e.RemoveFAQ(-1)
	if len(e.Draft().FAQs) != 2 {
		t.Fatalf("faqs = %d, want 2", len(e.Draft().FAQs))
	}
	e.RemoveFAQ(0)
	if len(e.Draft().FAQs) != 1 || e.Draft().FAQs[0].Question != "q2" {
		t.Fatalf("faqs = %v", e.Draft().FAQs)
	}
}

func TestAttachVideoSmallSkipsCompressor(t *testing.T) {
	ran := false
	comp := media.NewCompressor(nil, func(ctx context.Context, src, dst string) error {
		ran = true
		return os.WriteFile(dst, []byte("x"), 0o600)
	})
	e := New(FlowCreate, nil, comp, nil)
	v, err := e.Store().Add("gold")
	if err != nil {
		t.Fatal(err)
	}

	att := &model.Attachment{Name: "clip.mp4", ContentType: "video/mp4", Data: make([]byte, 1024)}
	res, err := e.AttachVideo(context.Background(), v.ID, att)
	if err != nil {
		t.Fatalf("AttachVideo: %v", err)
	}
	if ran {
		t.Fatal("under-threshold video must not be re-encoded")
	}
	if res.Attachment != att || v.Video != att {
		t.Fatal("original attachment must be stored as-is")
	}
}

func TestAttachVideoCompressesOversized(t *testing.T) {
	comp := media.NewCompressor(nil, func(ctx context.Context, src, dst string) error {
		return os.WriteFile(dst, []byte("small"), 0o600)
	})
	e := New(FlowCreate, nil, comp, nil)
	v, err := e.Store().Add("gold")
	if err != nil {
		t.Fatal(err)
	}

	att := &model.Attachment{Name: "clip.mp4", ContentType: "video/mp4", Data: make([]byte, media.CompressThreshold+1)}
	res, err := e.AttachVideo(context.Background(), v.ID, att)
	if err != nil {
		t.Fatalf("AttachVideo: %v", err)
	}
	if res.Skipped {
		t.Fatalf("skipped: %s", res.Reason)
	}
	if v.Video == nil || v.Video.Name != "clip-compressed.webm" {
		t.Fatalf("stored video = %+v", v.Video)
	}
}

func TestAttachVideoEncoderFailureStoresOriginal(t *testing.T) {
	comp := media.NewCompressor(nil, func(ctx context.Context, src, dst string) error {
		return errors.New("no encoder")
	})
	e := New(FlowCreate, nil, comp, nil)
	v, err := e.Store().Add("gold")
	if err != nil {
		t.Fatal(err)
	}

	att := &model.Attachment{Name: "clip.mp4", ContentType: "video/mp4", Data: make([]byte, media.CompressThreshold+1)}
	res, err := e.AttachVideo(context.Background(), v.ID, att)
	if err != nil {
		t.Fatalf("AttachVideo: %v", err)
	}
	if !res.Skipped || res.Reason == "" {
		t.Fatal("encoder failure must be reported via Skipped")
	}
	if v.Video != att {
		t.Fatal("original must be attached when compression fails")
	}
}

func TestAttachVideoRejectsWrongType(t *testing.T) {
	e := New(FlowCreate, nil, nil, nil)
	v, err := e.Store().Add("gold")
	if err != nil {
		t.Fatal(err)
	}
	att := &model.Attachment{Name: "a.png", ContentType: "image/png", Data: []byte{1}}
	if _, err := e.AttachVideo(context.Background(), v.ID, att); !errors.Is(err, errs.ErrInvalidMediaType) {
		t.Fatalf("err = %v, want ErrInvalidMediaType", err)
	}
	if v.Video != nil {
		t.Fatal("rejected attachment must not be stored")
	}
}

func TestLoadProductRequiresEditFlow(t *testing.T) {
	e := New(FlowCreate, nil, nil, nil)
	if err := e.LoadProduct(context.Background(), "x"); err == nil {
		t.Fatal("create flow must refuse LoadProduct")
	}
}

func TestSubmitRefusesWhileCompressing(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	comp := media.NewCompressor(nil, func(ctx context.Context, src, dst string) error {
		close(started)
		<-release
		return os.WriteFile(dst, []byte("x"), 0o600)
	})
	e := New(FlowCreate, nil, comp, nil)
	e.Draft().Name = "Bracelet"
	e.Draft().Price = "10"
	e.Draft().Category = "Bracelets"
	v, err := e.Store().Add("gold")
	if err != nil {
		t.Fatal(err)
	}
	img := &model.Attachment{Name: "g.png", ContentType: "image/png", Data: []byte{1}}
	if err := e.Store().AttachImage(v.ID, img); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		att := &model.Attachment{Name: "clip.mp4", ContentType: "video/mp4", Data: make([]byte, media.CompressThreshold+1)}
		_, _ = e.AttachVideo(context.Background(), v.ID, att)
	}()

	<-started
	if _, err := e.Submit(context.Background()); !errors.Is(err, errs.ErrCompressionInProgress) {
		t.Fatalf("err = %v, want ErrCompressionInProgress", err)
	}
	close(release)
	<-done
}

func TestTrimFloat(t *testing.T) {
	for _, tt := range []struct {
		in   float64
		want string
	}{
		{49.9, "49.9"},
		{50, "50"},
		{12.25, "12.25"},
	} {
		if got := trimFloat(tt.in); got != tt.want {
			t.Errorf("trimFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
