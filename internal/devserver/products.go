package devserver

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/craftline/shopadmin/internal/model"
)

const maxUploadMemory = 32 << 20

func (s *Server) handleProductList(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok(c, gin.H{"products": append([]model.Product(nil), s.products...)})
}

func (s *Server) handleProductSingle(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
		fail(c, http.StatusBadRequest, "productId required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == req.ProductID {
			ok(c, gin.H{"product": s.products[i]})
			return
		}
	}
	fail(c, http.StatusNotFound, "product not found")
}

func (s *Server) handleProductAdd(c *gin.Context) {
	p, err := s.productFromForm(c, nil)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	p.ID = newID()

	s.mu.Lock()
	s.products = append(s.products, *p)
	s.mu.Unlock()

	ok(c, gin.H{"message": "Product added successfully", "product": p})
}

func (s *Server) handleProductUpdate(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		fail(c, http.StatusBadRequest, "invalid multipart form")
		return
	}
	id := c.Request.FormValue("id")
	if id == "" {
		fail(c, http.StatusBadRequest, "id required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		p, err := s.productFromForm(c, &s.products[i])
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		p.ID = id
		s.products[i] = *p
		ok(c, gin.H{"message": "Product updated", "product": p})
		return
	}
	fail(c, http.StatusNotFound, "product not found")
}

func (s *Server) handleProductRemove(c *gin.Context) {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		fail(c, http.StatusBadRequest, "id required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == req.ID {
			s.products = append(s.products[:i], s.products[i+1:]...)
			ok(c, gin.H{"message": "Product removed"})
			return
		}
	}
	fail(c, http.StatusNotFound, "product not found")
}

// productFromForm assembles a product from the multipart submission. For
// updates, prev supplies the stored variants: a variant index with no
// uploaded file falls back to the previous media for the same color — absence
// of the field signals keep-existing.
func (s *Server) productFromForm(c *gin.Context, prev *model.Product) (*model.Product, error) {
	if c.Request.MultipartForm == nil {
		if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
			return nil, fmt.Errorf("invalid multipart form")
		}
	}
	form := c.Request.FormValue

	name := strings.TrimSpace(form("name"))
	priceStr := form("price")
	category := form("category")
	if name == "" || priceStr == "" || category == "" {
		return nil, fmt.Errorf("name, price and category are required")
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q", priceStr)
	}

	var colors []string
	if err := parseJSONField(form("colors"), &colors); err != nil {
		return nil, fmt.Errorf("invalid colors: %w", err)
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("at least one variant is required")
	}
	var stocks []int
	if v := form("variantStocks"); v != "" {
		if err := parseJSONField(v, &stocks); err != nil {
			return nil, fmt.Errorf("invalid variantStocks: %w", err)
		}
		if len(stocks) != len(colors) {
			return nil, fmt.Errorf("variantStocks length %d does not match colors length %d", len(stocks), len(colors))
		}
	}
	var details []string
	if err := parseJSONField(form("details"), &details); err != nil {
		return nil, fmt.Errorf("invalid details: %w", err)
	}
	var faqs []model.FAQ
	if err := parseJSONField(form("faqs"), &faqs); err != nil {
		return nil, fmt.Errorf("invalid faqs: %w", err)
	}

	stock, _ := strconv.Atoi(form("stock"))
	bestseller, _ := strconv.ParseBool(form("bestseller"))

	variants := make([]model.ProductVariant, len(colors))
	for i, color := range colors {
		v := model.ProductVariant{ID: newID(), Color: color, Images: []string{}, Videos: []string{}}
		if stocks != nil {
			v.Stock = stocks[i]
		}

		// keep-existing source: same color, or same position after a rename
		prevV := findVariant(prev, color)
		if prevV == nil && prev != nil && i < len(prev.Variants) {
			prevV = &prev.Variants[i]
		}
		if prevV != nil {
			v.ID = prevV.ID
		}

		if fh := formFile(c, fmt.Sprintf("variantImage%d", i)); fh != nil {
			v.Images = []string{mediaURL(fh.Filename)}
		} else if prevV != nil {
			v.Images = append([]string{}, prevV.Images...)
		}

		if fh := formFile(c, fmt.Sprintf("variantVideo%d", i)); fh != nil {
			v.Videos = []string{mediaURL(fh.Filename)}
		} else if prevV != nil {
			v.Videos = append([]string{}, prevV.Videos...)
		}

		if len(v.Images) == 0 && len(v.Videos) == 0 {
			return nil, fmt.Errorf("variant %q must have an image or video", color)
		}
		variants[i] = v
	}

	difficulty := form("difficulty")
	if difficulty == "" {
		difficulty = "easy"
	}

	return &model.Product{
		Name:        name,
		Price:       price,
		Category:    category,
		Subcategory: form("subcategory"),
		Stock:       stock,
		Bestseller:  bestseller,
		Description: form("description"),
		Difficulty:  difficulty,
		Size:        form("size"),
		Details:     orEmptyStrings(details),
		FAQs:        orEmptyFAQs(faqs),
		Variants:    variants,
	}, nil
}

func findVariant(p *model.Product, color string) *model.ProductVariant {
	if p == nil {
		return nil
	}
	for i := range p.Variants {
		if strings.EqualFold(p.Variants[i].Color, color) {
			return &p.Variants[i]
		}
	}
	return nil
}

func formFile(c *gin.Context, field string) *multipart.FileHeader {
	if c.Request.MultipartForm == nil {
		return nil
	}
	if fhs := c.Request.MultipartForm.File[field]; len(fhs) > 0 {
		return fhs[0]
	}
	return nil
}

// parseJSONField accepts a JSON-encoded array or an empty string.
func parseJSONField(raw string, out any) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}

func orEmptyStrings(s []string) []string {
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
