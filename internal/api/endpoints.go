package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/craftline/shopadmin/internal/model"
	"github.com/craftline/shopadmin/internal/submit"
)

// Login authenticates the admin and returns the bearer token. The token is
// not stored on the client; call SetToken once the caller has persisted it.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		envelope
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/user/admin", body, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &Error{Status: http.StatusOK, Message: "login response carried no token"}
	}
	return out.Token, nil
}

// CategoryList fetches all categories with their subcategories.
func (c *Client) CategoryList(ctx context.Context) ([]model.Category, error) {
	var out struct {
		envelope
		Categories []model.Category `json:"categories"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/category/list", nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// CategoryAdd creates a new top-level category.
func (c *Client) CategoryAdd(ctx context.Context, name string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/category/add", map[string]string{"name": name}, nil)
}

// SubcategoryAdd appends a subcategory to an existing category.
func (c *Client) SubcategoryAdd(ctx context.Context, categoryName, subcategory string) error {
	body := map[string]string{"categoryName": categoryName, "subcategory": subcategory}
	return c.doJSON(ctx, http.MethodPost, "/api/category/add-subcategory", body, nil)
}

// ProductList fetches all products.
func (c *Client) ProductList(ctx context.Context) ([]model.Product, error) {
	var out struct {
		envelope
		Products []model.Product `json:"products"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/product/list", nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// ProductSingle fetches one product with its persisted variants; this seeds
// the edit flow's variant store.
func (c *Client) ProductSingle(ctx context.Context, id string) (*model.Product, error) {
	var out struct {
		envelope
		Product *model.Product `json:"product"`
	}
	body := map[string]string{"productId": id}
	if err := c.doJSON(ctx, http.MethodPost, "/api/product/single", body, &out); err != nil {
		return nil, err
	}
	if out.Product == nil {
		return nil, &Error{Status: http.StatusOK, Message: "product missing from response"}
	}
	return out.Product, nil
}

// ProductAdd submits a new product as multipart form data.
func (c *Client) ProductAdd(ctx context.Context, p *submit.Payload) (*model.Product, error) {
	return c.postProduct(ctx, "/api/product/add", p)
}

// ProductUpdate submits changes to an existing product as multipart form data.
func (c *Client) ProductUpdate(ctx context.Context, p *submit.Payload) (*model.Product, error) {
	return c.postProduct(ctx, "/api/product/update", p)
}

func (c *Client) postProduct(ctx context.Context, path string, p *submit.Payload) (*model.Product, error) {
	var out struct {
		envelope
		Product *model.Product `json:"product"`
	}
	if err := c.doMultipart(ctx, http.MethodPost, path, p.Body.Bytes(), p.ContentType, &out); err != nil {
		return nil, err
	}
	return out.Product, nil
}

// ProductRemove deletes a product.
func (c *Client) ProductRemove(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/product/remove", map[string]string{"id": id}, nil)
}

// OfferDraft is the payload for creating a discount offer.
type OfferDraft struct {
	Code                 string   `json:"code"`
	DiscountPercentage   float64  `json:"discountPercentage"`
	Description          string   `json:"description"`
	ExpiresAt            string   `json:"expiresAt"` // RFC3339 or date-only; empty means no expiry
	Categories           []string `json:"categories"`
	ApplyToSubcategories bool     `json:"applyToSubcategories"`
}

// OfferActive lists currently active offers.
func (c *Client) OfferActive(ctx context.Context) ([]model.Offer, error) {
	var out struct {
		envelope
		Offers []model.Offer `json:"offers"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/offer/active", nil, &out); err != nil {
		return nil, err
	}
	return out.Offers, nil
}

// OfferAdd creates an offer. An empty Categories list makes it global.
func (c *Client) OfferAdd(ctx context.Context, d OfferDraft) error {
	if d.Code == "" {
		return fmt.Errorf("offer code required")
	}
	if d.DiscountPercentage <= 0 || d.DiscountPercentage > 100 {
		return fmt.Errorf("discount percentage must be in (0, 100]")
	}
	if d.Categories == nil {
		d.Categories = []string{}
	}
	return c.doJSON(ctx, http.MethodPost, "/api/offer/add", d, nil)
}

// OfferDelete removes an offer by ID.
func (c *Client) OfferDelete(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/offer/delete/"+id, nil, nil)
}

// ReorderItem pairs a testimonial ID with its new position.
type ReorderItem struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sortOrder"`
}

// TestimonialsAll lists every testimonial, published or not.
func (c *Client) TestimonialsAll(ctx context.Context) ([]model.Testimonial, error) {
	var out struct {
		envelope
		Data []model.Testimonial `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/testimonials/all", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// TestimonialDelete removes a testimonial.
func (c *Client) TestimonialDelete(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/testimonials/"+id, nil, nil)
}

// TestimonialSetStatus patches the published/featured flags.
func (c *Client) TestimonialSetStatus(ctx context.Context, id string, patch map[string]bool) error {
	return c.doJSON(ctx, http.MethodPatch, "/api/testimonials/"+id+"/status", patch, nil)
}

// TestimonialsReorder persists a new display order.
func (c *Client) TestimonialsReorder(ctx context.Context, items []ReorderItem) error {
	body := map[string][]ReorderItem{"items": items}
	return c.doJSON(ctx, http.MethodPatch, "/api/testimonials/reorder", body, nil)
}

// ParseExpiry is a helper for CLI input: accepts RFC3339 or YYYY-MM-DD.
func ParseExpiry(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(time.RFC3339, s); err == nil {
		return s, nil
	}
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d.Format(time.RFC3339), nil
	}
	return "", fmt.Errorf("invalid expiry %q (want RFC3339 or YYYY-MM-DD)", s)
}
