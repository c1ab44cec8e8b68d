// Package editor orchestrates the product create and edit flows: a scalar
// draft, the variant store, the compressor gate and the API client.
package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/craftline/shopadmin/internal/api"
	"github.com/craftline/shopadmin/internal/media"
	"github.com/craftline/shopadmin/internal/model"
	"github.com/craftline/shopadmin/internal/submit"
	"github.com/craftline/shopadmin/internal/variant"
)

// Flow selects create or edit behavior. The two flows share all editing
// operations; they differ in initial state and persistence target.
type Flow int

const (
	FlowCreate Flow = iota
	FlowEdit
)

// Editor is the variant collection editor instantiated once per flow.
type Editor struct {
	flow   Flow
	draft  model.ProductDraft
	store  *variant.Store
	comp   *media.Compressor
	client *api.Client
	log    *zap.Logger
}

// New constructs an editor for the given flow.
func New(flow Flow, client *api.Client, comp *media.Compressor, log *zap.Logger) *Editor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Editor{
		flow:   flow,
		store:  variant.New(),
		comp:   comp,
		client: client,
		log:    log,
	}
}

// Draft exposes the scalar form for direct field edits.
func (e *Editor) Draft() *model.ProductDraft { return &e.draft }

// Store exposes the variant collection.
func (e *Editor) Store() *variant.Store { return e.store }

// Categories loads the category list (fetched once when a flow starts).
func (e *Editor) Categories(ctx context.Context) ([]model.Category, error) {
	return e.client.CategoryList(ctx)
}

// LoadProduct seeds the edit flow from a persisted product: scalar fields,
// details, FAQs, and server-origin variants with their existing media URLs.
func (e *Editor) LoadProduct(ctx context.Context, id string) error {
	if e.flow != FlowEdit {
		return fmt.Errorf("load product: not an edit flow")
	}
	p, err := e.client.ProductSingle(ctx, id)
	if err != nil {
		return fmt.Errorf("load product %s: %w", id, err)
	}

	e.draft = model.ProductDraft{
		ID:          p.ID,
		Name:        p.Name,
		Price:       trimFloat(p.Price),
		Category:    p.Category,
		Subcategory: p.Subcategory,
		Stock:       p.Stock,
		Bestseller:  p.Bestseller,
		Description: p.Description,
		Difficulty:  p.Difficulty,
		Size:        p.Size,
		Details:     append([]string(nil), p.Details...),
		FAQs:        append([]model.FAQ(nil), p.FAQs...),
	}
	if e.draft.Difficulty == "" {
		e.draft.Difficulty = "easy"
	}
	return e.store.SeedFromProduct(p)
}

// AddDetail appends a bullet point, skipping empties and duplicates.
func (e *Editor) AddDetail(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	for _, d := range e.draft.Details {
		if d == t {
			return false
		}
	}
	e.draft.Details = append(e.draft.Details, t)
	return true
}

// RemoveDetail drops a bullet point by value.
func (e *Editor) RemoveDetail(text string) {
	out := e.draft.Details[:0]
	for _, d := range e.draft.Details {
		if d != text {
			out = append(out, d)
		}
	}
	e.draft.Details = out
}

// AddFAQ appends a question/answer pair; both sides are required.
func (e *Editor) AddFAQ(question, answer string) bool {
	if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
		return false
	}
	e.draft.FAQs = append(e.draft.FAQs, model.FAQ{Question: question, Answer: answer})
	return true
}

// RemoveFAQ drops the pair at index i.
func (e *Editor) RemoveFAQ(i int) {
	if i < 0 || i >= len(e.draft.FAQs) {
		return
	}
	e.draft.FAQs = append(e.draft.FAQs[:i], e.draft.FAQs[i+1:]...)
}

// AttachVideo validates and assigns a video, compressing it first when it is
// above the threshold. Compression failure is non-fatal: the original file is
// attached and the skip reason is reported in the result.
func (e *Editor) AttachVideo(ctx context.Context, id uuid.UUID, att *model.Attachment) (media.Result, error) {
	if err := media.ValidateVideo(att); err != nil {
		return media.Result{}, err
	}
	res := media.Result{Attachment: att}
	if e.comp != nil && e.comp.NeedsCompression(att) {
		res = e.comp.Compress(ctx, att)
	}
	if err := e.store.AttachVideo(id, res.Attachment); err != nil {
		return media.Result{}, err
	}
	return res, nil
}

// Submit validates, builds the multipart payload and posts it. On a
// successful create the form resets to empty; the edit flow keeps its state
// (the caller navigates away). Submission is refused while any compression is
// still in flight.
func (e *Editor) Submit(ctx context.Context) (*model.Product, error) {
	var gauge submit.InFlightGauge
	if e.comp != nil {
		gauge = e.comp
	}
	payload, err := submit.Build(&e.draft, e.store, gauge)
	if err != nil {
		return nil, err
	}

	var p *model.Product
	if e.flow == FlowEdit {
		p, err = e.client.ProductUpdate(ctx, payload)
	} else {
		p, err = e.client.ProductAdd(ctx, payload)
	}
	if err != nil {
		return nil, err
	}

	e.log.Info("product submitted",
		zap.String("name", e.draft.Name),
		zap.Int("variants", e.store.Len()),
		zap.Bool("update", e.flow == FlowEdit),
	)

	if e.flow == FlowCreate {
		e.draft = model.ProductDraft{}
		e.store.Reset()
	}
	return p, nil
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
