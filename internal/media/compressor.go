package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/craftline/shopadmin/internal/model"
)

// Encoding parameters for the re-encode pass.
const (
	// CompressThreshold is the size above which a video gets re-encoded
	// before upload.
	CompressThreshold = 5 << 20 // 5 MB

	targetBitrate = "1500k"
	targetFPS     = "30"

	// maxEncodeTime bounds worst-case latency of a single encode run.
	maxEncodeTime = 30 * time.Second
)

// Runner re-encodes the video at src into dst. Injectable so tests run
// without a real encoder on the machine.
type Runner func(ctx context.Context, src, dst string) error

// Result is the outcome of a compression attempt. A failed encode is not an
// error: the original attachment is returned with Skipped set, so callers can
// log the degradation explicitly instead of guessing from the file size.
type Result struct {
	Attachment *model.Attachment
	Skipped    bool
	Reason     string
}

// Compressor shrinks oversized videos before they are attached to a variant.
// The in-flight count acts as the coordination gate between compression and
// submission: while it is non-zero, submission must be refused.
type Compressor struct {
	log      *zap.Logger
	run      Runner
	inFlight atomic.Int64
}

// NewCompressor returns a Compressor using the given runner, or the ffmpeg
// runner when nil.
func NewCompressor(log *zap.Logger, run Runner) *Compressor {
	if log == nil {
		log = zap.NewNop()
	}
	if run == nil {
		run = FFmpegRunner
	}
	return &Compressor{log: log, run: run}
}

// NeedsCompression reports whether the attachment is above the threshold.
func (c *Compressor) NeedsCompression(att *model.Attachment) bool {
	return att.Size() > CompressThreshold
}

// InFlight returns the number of compression runs currently in progress.
func (c *Compressor) InFlight() int64 {
	return c.inFlight.Load()
}

// Compress re-encodes the video at a fixed bitrate and frame rate, capped to
// maxEncodeTime of wall clock. Any encoding error degrades to the original
// file: a broken encoder must never block upload capability.
func (c *Compressor) Compress(ctx context.Context, att *model.Attachment) Result {
	c.inFlight.Add(1)
	defer c.inFlight.Add(-1)

	start := time.Now()
	out, err := c.encode(ctx, att)
	if err != nil {
		c.log.Warn("video compression skipped, using original",
			zap.String("file", att.Name),
			zap.Int64("size", att.Size()),
			zap.Error(err),
		)
		return Result{Attachment: att, Skipped: true, Reason: err.Error()}
	}

	c.log.Info("video compressed",
		zap.String("file", att.Name),
		zap.Int64("from", att.Size()),
		zap.Int64("to", out.Size()),
		zap.Duration("dur", time.Since(start)),
	)
	return Result{Attachment: out}
}

func (c *Compressor) encode(ctx context.Context, att *model.Attachment) (*model.Attachment, error) {
	ctx, cancel := context.WithTimeout(ctx, maxEncodeTime)
	defer cancel()

	dir, err := os.MkdirTemp("", "shopadmin-compress-*")
	if err != nil {
		return nil, fmt.Errorf("tempdir: %w", err)
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "src"+filepath.Ext(att.Name))
	dst := filepath.Join(dir, "out.webm")
	if err := os.WriteFile(src, att.Data, 0o600); err != nil {
		return nil, fmt.Errorf("write source: %w", err)
	}

	if err := c.run(ctx, src, dst); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("encode: empty output")
	}

	return &model.Attachment{
		Name:        compressedName(att.Name),
		ContentType: "video/webm",
		Data:        data,
	}, nil
}

// compressedName maps "clip.mp4" to "clip-compressed.webm".
func compressedName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return base + "-compressed.webm"
}

// FFmpegRunner shells out to ffmpeg for the re-encode. Audio is dropped, as
// the upload player mutes variant clips anyway.
func FFmpegRunner(ctx context.Context, src, dst string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-i", src,
		"-c:v", "libvpx-vp9",
		"-b:v", targetBitrate,
		"-r", targetFPS,
		"-an",
		dst,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, tail(out, 200))
	}
	return nil
}

func tail(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[len(b)-n:])
}
