// Package submit flattens a product draft and its variant store into the
// multipart payload the backend expects.
package submit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/craftline/shopadmin/internal/errs"
	"github.com/craftline/shopadmin/internal/model"
	"github.com/craftline/shopadmin/internal/variant"
)

// InFlightGauge reports how many video compressions are still running.
// Submission is refused while the count is non-zero.
type InFlightGauge interface {
	InFlight() int64
}

// Payload is a transport-ready request body.
type Payload struct {
	Body        *bytes.Buffer
	ContentType string
}

// Build validates the draft and store, then produces the multipart payload:
// scalar fields as plain values, details/faqs/colors/variantStocks as
// JSON-encoded arrays, and per-index variantImage{i}/variantVideo{i} file
// parts only where a new file was chosen — omission tells the backend to keep
// the previously stored media for that color. Build is a pure read of current
// state; it never mutates the store.
func Build(draft *model.ProductDraft, store *variant.Store, gauge InFlightGauge) (*Payload, error) {
	if err := validate(draft, store, gauge); err != nil {
		return nil, err
	}

	live := store.Live()
	colors := make([]string, len(live))
	stocks := make([]int, len(live))
	for i, v := range live {
		colors[i] = v.Color
		stocks[i] = v.Stock
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"name", draft.Name},
		{"price", draft.Price},
		{"category", draft.Category},
		{"subcategory", draft.Subcategory},
		{"stock", strconv.Itoa(draft.Stock)},
		{"bestseller", strconv.FormatBool(draft.Bestseller)},
		{"description", draft.Description},
		{"difficulty", difficulty(draft)},
	}
	if draft.ID != "" {
		fields = append([][2]string{{"id", draft.ID}}, fields...)
	}
	if draft.Size != "" {
		fields = append(fields, [2]string{"size", draft.Size})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("write field %s: %w", f[0], err)
		}
	}

	if err := writeJSONField(w, "details", orEmpty(draft.Details)); err != nil {
		return nil, err
	}
	if err := writeJSONField(w, "faqs", orEmptyFAQs(draft.FAQs)); err != nil {
		return nil, err
	}
	if err := writeJSONField(w, "colors", colors); err != nil {
		return nil, err
	}
	if err := writeJSONField(w, "variantStocks", stocks); err != nil {
		return nil, err
	}

	for i, v := range live {
		if v.Image != nil {
			if err := writeFilePart(w, fmt.Sprintf("variantImage%d", i), v.Image); err != nil {
				return nil, err
			}
		}
		if v.Video != nil {
			if err := writeFilePart(w, fmt.Sprintf("variantVideo%d", i), v.Video); err != nil {
				return nil, err
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}
	return &Payload{Body: &buf, ContentType: w.FormDataContentType()}, nil
}

// validate fails the whole build; no partial payload is ever produced.
func validate(draft *model.ProductDraft, store *variant.Store, gauge InFlightGauge) error {
	for _, f := range [][2]string{
		{"name", draft.Name},
		{"price", draft.Price},
		{"category", draft.Category},
	} {
		if strings.TrimSpace(f[1]) == "" {
			return fmt.Errorf("%w: %s", errs.ErrMissingRequiredField, f[0])
		}
	}
	if gauge != nil && gauge.InFlight() > 0 {
		return errs.ErrCompressionInProgress
	}

	live := store.Live()
	if len(live) == 0 {
		return errs.ErrNoVariants
	}
	for _, v := range live {
		if !v.HasMedia() {
			return fmt.Errorf("%w: %q", errs.ErrNoMediaForVariant, v.Color)
		}
	}
	return nil
}

func difficulty(draft *model.ProductDraft) string {
	if draft.Difficulty == "" {
		return "easy"
	}
	return draft.Difficulty
}

func writeJSONField(w *multipart.Writer, name string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := w.WriteField(name, string(b)); err != nil {
		return fmt.Errorf("write field %s: %w", name, err)
	}
	return nil
}

func writeFilePart(w *multipart.Writer, field string, att *model.Attachment) error {
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

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyFAQs(f []model.FAQ) []model.FAQ {
	if f == nil {
		return []model.FAQ{}
	}
	return f
}
