package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"github.com/craftline/shopadmin/internal/model"
)

// TestimonialDraft carries the testimonial form plus optional file uploads.
type TestimonialDraft struct {
	CustomerName string
	Headline     string
	Content      string
	Rating       int
	ProductID    string
	ProductName  string
	Location     string
	Language     string
	Featured     bool
	SortOrder    int
	Published    bool

	Avatar *model.Attachment
	Media  []*model.Attachment
}

// TestimonialCreate posts a new testimonial as multipart form data.
func (c *Client) TestimonialCreate(ctx context.Context, d TestimonialDraft) error {
	body, contentType, err := buildTestimonialForm(d, nil)
	if err != nil {
		return err
	}
	return c.doMultipart(ctx, http.MethodPost, "/api/testimonials", body, contentType, nil)
}

// TestimonialUpdate replaces a testimonial. keepMedia lists stored media URLs
// the server should retain alongside any newly uploaded files.
func (c *Client) TestimonialUpdate(ctx context.Context, id string, d TestimonialDraft, keepMedia []string) error {
	if keepMedia == nil {
		keepMedia = []string{}
	}
	body, contentType, err := buildTestimonialForm(d, keepMedia)
	if err != nil {
		return err
	}
	return c.doMultipart(ctx, http.MethodPut, "/api/testimonials/"+id, body, contentType, nil)
}

func buildTestimonialForm(d TestimonialDraft, keepMedia []string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	lang := d.Language
	if lang == "" {
		lang = "en"
	}
	fields := [][2]string{
		{"customerName", d.CustomerName},
		{"headline", d.Headline},
		{"content", d.Content},
		{"rating", strconv.Itoa(d.Rating)},
		{"productId", d.ProductID},
		{"productName", d.ProductName},
		{"location", d.Location},
		{"language", lang},
		{"featured", strconv.FormatBool(d.Featured)},
		{"sortOrder", strconv.Itoa(d.SortOrder)},
		{"published", strconv.FormatBool(d.Published)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f[0], err)
		}
	}

	if keepMedia != nil {
		b, err := json.Marshal(keepMedia)
		if err != nil {
			return nil, "", fmt.Errorf("marshal keepMedia: %w", err)
		}
		if err := w.WriteField("keepMedia", string(b)); err != nil {
			return nil, "", fmt.Errorf("write keepMedia: %w", err)
		}
	}

	if d.Avatar != nil {
		if err := writeFile(w, "avatar", d.Avatar); err != nil {
			return nil, "", err
		}
	}
	for _, m := range d.Media {
		if err := writeFile(w, "media", m); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, field string, att *model.Attachment) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, att.Name))
	h.Set("Content-Type", att.ContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part %s: %w", field, err)
	}
	if _, err := part.Write(att.Data); err != nil {
		return fmt.Errorf("write part %s: %w", field, err)
	}
	return nil
}
