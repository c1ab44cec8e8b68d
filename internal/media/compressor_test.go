package media

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/craftline/shopadmin/internal/model"
)

func videoAttachment(name string, size int) *model.Attachment {
	return &model.Attachment{Name: name, ContentType: "video/mp4", Data: make([]byte, size)}
}

func TestNeedsCompression(t *testing.T) {
	c := NewCompressor(nil, nil)
	if c.NeedsCompression(videoAttachment("small.mp4", CompressThreshold)) {
		t.Fatal("at-threshold file must not need compression")
	}
	if !c.NeedsCompression(videoAttachment("big.mp4", CompressThreshold+1)) {
		t.Fatal("above-threshold file must need compression")
	}
}

func TestCompressSuccess(t *testing.T) {
	run := func(ctx context.Context, src, dst string) error {
		return os.WriteFile(dst, []byte("tiny"), 0o600)
	}
	c := NewCompressor(nil, run)

	res := c.Compress(context.Background(), videoAttachment("clip.mp4", CompressThreshold+1))
	if res.Skipped {
		t.Fatalf("skipped: %s", res.Reason)
	}
	if res.Attachment.Name != "clip-compressed.webm" {
		t.Fatalf("name = %q, want clip-compressed.webm", res.Attachment.Name)
	}
	if res.Attachment.ContentType != "video/webm" {
		t.Fatalf("content type = %q", res.Attachment.ContentType)
	}
	if string(res.Attachment.Data) != "tiny" {
		t.Fatalf("data = %q", res.Attachment.Data)
	}
}

func TestCompressFailureDegradesToOriginal(t *testing.T) {
	run := func(ctx context.Context, src, dst string) error {
		return errors.New("encoder exploded")
	}
	c := NewCompressor(nil, run)

	orig := videoAttachment("clip.mp4", CompressThreshold+1)
	res := c.Compress(context.Background(), orig)
	if !res.Skipped {
		t.Fatal("failed encode must report Skipped")
	}
	if res.Attachment != orig {
		t.Fatal("failed encode must return the original attachment")
	}
	if res.Reason == "" {
		t.Fatal("skip must carry a reason")
	}
}

func TestCompressEmptyOutputDegrades(t *testing.T) {
	run := func(ctx context.Context, src, dst string) error {
		return os.WriteFile(dst, nil, 0o600)
	}
	c := NewCompressor(nil, run)

	res := c.Compress(context.Background(), videoAttachment("clip.mp4", CompressThreshold+1))
	if !res.Skipped {
		t.Fatal("empty encoder output must degrade to the original")
	}
}

func TestInFlightGauge(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	run := func(ctx context.Context, src, dst string) error {
		close(started)
		<-release
		return os.WriteFile(dst, []byte("x"), 0o600)
	}
	c := NewCompressor(nil, run)

	if c.InFlight() != 0 {
		t.Fatalf("InFlight = %d, want 0", c.InFlight())
	}

	done := make(chan Result, 1)
	go func() {
		done <- c.Compress(context.Background(), videoAttachment("clip.mp4", CompressThreshold+1))
	}()

	<-started
	if c.InFlight() != 1 {
		t.Fatalf("InFlight during run = %d, want 1", c.InFlight())
	}

	close(release)
	res := <-done
	if res.Skipped {
		t.Fatalf("skipped: %s", res.Reason)
	}
	if c.InFlight() != 0 {
		t.Fatalf("InFlight after run = %d, want 0", c.InFlight())
	}
}

func TestCompressedName(t *testing.T) {
	if got := compressedName("clip.mp4"); got != "clip-compressed.webm" {
		t.Fatalf("compressedName = %q", got)
	}
	if got := compressedName("noext"); got != "noext-compressed.webm" {
		t.Fatalf("compressedName = %q", got)
	}
}
