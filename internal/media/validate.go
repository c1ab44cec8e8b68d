// Package media validates variant attachments and compresses oversized videos.
package media

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/craftline/shopadmin/internal/errs"
	"github.com/craftline/shopadmin/internal/model"
)

// Size caps, matching what the backend accepts.
const (
	MaxImageSize = 50 << 20  // 50 MB
	MaxVideoSize = 100 << 20 // 100 MB
)

// ValidateImage accepts an attachment whose content type begins with "image/"
// and whose size is within MaxImageSize. Conversion to the backend's storage
// format is the server's job; only type and size are checked here.
func ValidateImage(att *model.Attachment) error {
	if att == nil || !strings.HasPrefix(att.ContentType, "image/") {
		return fmt.Errorf("%w: %s", errs.ErrInvalidMediaType, contentType(att))
	}
	if att.Size() > MaxImageSize {
		return fmt.Errorf("%w: image %s is %dB (max %dB)", errs.ErrMediaTooLarge, att.Name, att.Size(), int64(MaxImageSize))
	}
	return nil
}

// ValidateVideo accepts an attachment whose content type begins with "video/"
// and whose size is within MaxVideoSize.
func ValidateVideo(att *model.Attachment) error {
	if att == nil || !strings.HasPrefix(att.ContentType, "video/") {
		return fmt.Errorf("%w: %s", errs.ErrInvalidMediaType, contentType(att))
	}
	if att.Size() > MaxVideoSize {
		return fmt.Errorf("%w: video %s is %dB (max %dB)", errs.ErrMediaTooLarge, att.Name, att.Size(), int64(MaxVideoSize))
	}
	return nil
}

func contentType(att *model.Attachment) string {
	if att == nil {
		return "<nil>"
	}
	if att.ContentType == "" {
		return "unknown"
	}
	return att.ContentType
}

// LoadAttachment reads a file into an Attachment. The content type comes from
// the extension when registered, otherwise from sniffing the first bytes.
func LoadAttachment(path string) (*model.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	name := filepath.Base(path)
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return &model.Attachment{Name: name, ContentType: ct, Data: data}, nil
}
