// Package model defines domain entities shared by the editor, client and dev server.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Attachment is a file chosen for upload: name, declared content type and raw bytes.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the attachment size in bytes.
func (a *Attachment) Size() int64 {
	if a == nil {
		return 0
	}
	return int64(len(a.Data))
}

// FAQ is a question/answer pair attached to a product.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Variant is a single purchasable configuration of a product, distinguished
// by color. The record is addressed by a stable generated ID; the color name
// is just a mutable field, so a rename never re-keys media or stock.
type Variant struct {
	ID    uuid.UUID // stable local identity, never sent to the server
	Color string    // normalized: trimmed, lower-cased, unique among live variants
	Stock int

	Image *Attachment // newly chosen image, nil if none
	Video *Attachment // newly chosen video, nil if none

	// References to previously persisted media (edit flow). Present when the
	// variant was loaded from a prior save and no replacement file was chosen.
	ExistingImageURL string
	ExistingVideoURL string

	// Removed marks a tombstone: excluded from submission, kept for undo.
	Removed bool

	// ServerOrigin is true when the variant was seeded from a fetched product.
	// Only server-origin variants tombstone on remove; local ones are deleted.
	ServerOrigin bool
}

// HasMedia reports whether the variant resolves to at least one media
// reference: a newly attached file or a previously persisted URL.
func (v *Variant) HasMedia() bool {
	return v.Image != nil || v.ExistingImageURL != "" || v.Video != nil || v.ExistingVideoURL != ""
}

// KeepsExistingMedia reports whether submission will rely on field omission
// to tell the backend to reuse the stored image for this color.
func (v *Variant) KeepsExistingMedia() bool {
	return v.Image == nil && v.ExistingImageURL != ""
}

// ProductDraft holds the scalar product fields plus details/FAQ lists.
// Variants live in their own store.
type ProductDraft struct {
	ID          string // set in edit flow only
	Name        string
	Price       string
	Category    string
	Subcategory string
	Stock       int
	Bestseller  bool
	Description string
	Difficulty  string
	Size        string
	Details     []string
	FAQs        []FAQ
}

// Product is the server's representation of a persisted product.
type Product struct {
	ID          string           `json:"_id"`
	Name        string           `json:"name"`
	Price       float64          `json:"price"`
	Category    string           `json:"category"`
	Subcategory string           `json:"subcategory"`
	Stock       int              `json:"stock"`
	Bestseller  bool             `json:"bestseller"`
	Description string           `json:"description"`
	Difficulty  string           `json:"difficulty"`
	Size        string           `json:"size"`
	Details     []string         `json:"details"`
	FAQs        []FAQ            `json:"faqs"`
	Variants    []ProductVariant `json:"variants"`
}

// ProductVariant is a persisted variant as returned by the server, with
// resolved media URLs.
type ProductVariant struct {
	ID     string   `json:"_id"`
	Color  string   `json:"color"`
	Stock  int      `json:"stock"`
	Images []string `json:"images"`
	Videos []string `json:"videos"`
}

// Category groups products, with an optional list of subcategories.
type Category struct {
	ID            string   `json:"_id"`
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

// Offer is a discount code, optionally scoped to categories.
type Offer struct {
	ID                   string    `json:"_id"`
	Code                 string    `json:"code"`
	DiscountPercentage   float64   `json:"discountPercentage"`
	Description          string    `json:"description"`
	Categories           []string  `json:"categories"` // category IDs; empty means global
	ApplyToSubcategories bool      `json:"applyToSubcategories"`
	ExpiresAt            time.Time `json:"expiresAt"`
}

// Testimonial is a curated customer review.
type Testimonial struct {
	ID           string   `json:"_id"`
	CustomerName string   `json:"customerName"`
	Headline     string   `json:"headline"`
	Content      string   `json:"content"`
	Rating       int      `json:"rating"`
	ProductID    string   `json:"productId"`
	ProductName  string   `json:"productName"`
	Location     string   `json:"location"`
	Language     string   `json:"language"`
	Featured     bool     `json:"featured"`
	SortOrder    int      `json:"sortOrder"`
	Published    bool     `json:"published"`
	AvatarURL    string   `json:"avatar"`
	Media        []string `json:"media"`
}
