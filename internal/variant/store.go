// Package variant implements the ordered collection of product color variants
// edited in the create and edit flows.
package variant

import (
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/craftline/shopadmin/internal/errs"
	"github.com/craftline/shopadmin/internal/media"
	"github.com/craftline/shopadmin/internal/model"
)

// MaxVariants bounds how many live variants a single product may hold.
const MaxVariants = 30

// Normalize maps raw user input to the canonical color form: trimmed and
// lower-cased. An empty result is an invalid color.
func Normalize(color string) string {
	return strings.ToLower(strings.TrimSpace(color))
}

// Store is an insertion-ordered collection of variants. Each record carries a
// stable generated ID, so renames mutate a field instead of re-keying three
// parallel maps; color uniqueness among live variants is enforced on every
// add and rename. The store is mutated only by the editing flow's single
// goroutine, so it carries no lock.
type Store struct {
	variants []*model.Variant
}

// New returns an empty store.
func New() *Store { return &Store{} }

// Add appends a new live variant for the normalized color with stock 0 and
// no media.
func (s *Store) Add(color string) (*model.Variant, error) {
	norm := Normalize(color)
	if norm == "" {
		return nil, errs.ErrInvalidKey
	}
	if s.findLiveByColor(norm, uuid.Nil) != nil {
		return nil, fmt.Errorf("%w: %q", errs.ErrDuplicateKey, norm)
	}
	if len(s.Live()) >= MaxVariants {
		return nil, fmt.Errorf("%w: max %d", errs.ErrVariantLimit, MaxVariants)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	v := &model.Variant{ID: id, Color: norm}
	s.variants = append(s.variants, v)
	return v, nil
}

// Remove tombstones a server-origin variant (undoable) and deletes a local
// one outright, since there is nothing server-side to reconcile.
func (s *Store) Remove(id uuid.UUID) error {
	for i, v := range s.variants {
		if v.ID != id {
			continue
		}
		if v.ServerOrigin {
			v.Removed = true
			return nil
		}
		s.variants = append(s.variants[:i], s.variants[i+1:]...)
		return nil
	}
	return errs.ErrNotFound
}

// Undo clears the tombstone, unless reviving the color would collide with a
// live variant added in the meantime.
func (s *Store) Undo(id uuid.UUID) error {
	v := s.Get(id)
	if v == nil {
		return errs.ErrNotFound
	}
	if !v.Removed {
		return nil
	}
	if s.findLiveByColor(v.Color, id) != nil {
		return fmt.Errorf("%w: %q", errs.ErrDuplicateKey, v.Color)
	}
	v.Removed = false
	return nil
}

// Rename changes the variant's color in place. Stock, image and video stay on
// the record, and the variant keeps its position in iteration order.
func (s *Store) Rename(id uuid.UUID, newColor string) error {
	v := s.Get(id)
	if v == nil {
		return errs.ErrNotFound
	}
	norm := Normalize(newColor)
	if norm == "" {
		return errs.ErrInvalidKey
	}
	if norm == v.Color {
		return nil
	}
	if s.findLiveByColor(norm, id) != nil {
		return fmt.Errorf("%w: %q", errs.ErrDuplicateKey, norm)
	}
	v.Color = norm
	return nil
}

// SetStock sets the variant's stock count; invalid (negative) input clamps to 0.
func (s *Store) SetStock(id uuid.UUID, n int) error {
	v := s.Get(id)
	if v == nil {
		return errs.ErrNotFound
	}
	if n < 0 {
		n = 0
	}
	v.Stock = n
	return nil
}

// AttachImage validates and assigns a new image, replacing any prior one.
// On validation failure the existing attachment is left untouched.
func (s *Store) AttachImage(id uuid.UUID, att *model.Attachment) error {
	v := s.Get(id)
	if v == nil {
		return errs.ErrNotFound
	}
	if err := media.ValidateImage(att); err != nil {
		return err
	}
	v.Image = att
	return nil
}

// AttachVideo validates and assigns a new video, replacing any prior one.
func (s *Store) AttachVideo(id uuid.UUID, att *model.Attachment) error {
	v := s.Get(id)
	if v == nil {
		return errs.ErrNotFound
	}
	if err := media.ValidateVideo(att); err != nil {
		return err
	}
	v.Video = att
	return nil
}

// Get returns the variant with the given ID, removed or not, or nil.
func (s *Store) Get(id uuid.UUID) *model.Variant {
	for _, v := range s.variants {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// GetByColor returns the live variant with the given (raw or normalized)
// color, or nil.
func (s *Store) GetByColor(color string) *model.Variant {
	return s.findLiveByColor(Normalize(color), uuid.Nil)
}

// Live returns non-removed variants in insertion order. This order drives the
// positional indexes of the submission payload.
func (s *Store) Live() []*model.Variant {
	out := make([]*model.Variant, 0, len(s.variants))
	for _, v := range s.variants {
		if !v.Removed {
			out = append(out, v)
		}
	}
	return out
}

// All returns every variant, tombstones included, in insertion order.
func (s *Store) All() []*model.Variant {
	return append([]*model.Variant(nil), s.variants...)
}

// Len counts live variants.
func (s *Store) Len() int { return len(s.Live()) }

// Reset discards all variants (create flow, after a successful submission).
func (s *Store) Reset() { s.variants = nil }

// SeedFromProduct loads persisted variants for the edit flow. Seeded records
// are marked server-origin so removal tombstones instead of deleting.
func (s *Store) SeedFromProduct(p *model.Product) error {
	s.variants = nil
	for _, pv := range p.Variants {
		v, err := s.Add(pv.Color)
		if err != nil {
			return fmt.Errorf("seed variant %q: %w", pv.Color, err)
		}
		v.Stock = pv.Stock
		v.ServerOrigin = true
		if len(pv.Images) > 0 {
			v.ExistingImageURL = pv.Images[0]
		}
		if len(pv.Videos) > 0 {
			v.ExistingVideoURL = pv.Videos[0]
		}
	}
	return nil
}

func (s *Store) findLiveByColor(norm string, exclude uuid.UUID) *model.Variant {
	for _, v := range s.variants {
		if !v.Removed && v.ID != exclude && v.Color == norm {
			return v
		}
	}
	return nil
}
