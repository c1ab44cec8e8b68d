package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/craftline/shopadmin/internal/model"
)

func (s *Server) handleOfferActive(c *gin.Context) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	active := make([]model.Offer, 0, len(s.offers))
	for _, o := range s.offers {
		if o.ExpiresAt.IsZero() || o.ExpiresAt.After(now) {
			active = append(active, o)
		}
	}
	ok(c, gin.H{"offers": active})
}

func (s *Server) handleOfferAdd(c *gin.Context) {
	var req struct {
		Code                 string   `json:"code"`
		DiscountPercentage   float64  `json:"discountPercentage"`
		Description          string   `json:"description"`
		ExpiresAt            string   `json:"expiresAt"`
		Categories           []string `json:"categories"`
		ApplyToSubcategories bool     `json:"applyToSubcategories"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		fail(c, http.StatusBadRequest, "offer code required")
		return
	}
	if req.DiscountPercentage <= 0 || req.DiscountPercentage > 100 {
		fail(c, http.StatusBadRequest, "discount percentage must be between 0 and 100")
		return
	}

	var expires time.Time
	if req.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid expiresAt")
			return
		}
		expires = t
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.offers {
		if o.Code == code {
			fail(c, http.StatusConflict, "offer code already exists")
			return
		}
	}
	s.offers = append(s.offers, model.Offer{
		ID:                   newID(),
		Code:                 code,
		DiscountPercentage:   req.DiscountPercentage,
		Description:          req.Description,
		Categories:           orEmptyStrings(req.Categories),
		ApplyToSubcategories: req.ApplyToSubcategories,
		ExpiresAt:            expires,
	})
	ok(c, gin.H{"message": "offer created"})
}

func (s *Server) handleOfferDelete(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.offers {
		if s.offers[i].ID == id {
			s.offers = append(s.offers[:i], s.offers[i+1:]...)
			ok(c, gin.H{"message": "offer deleted"})
			return
		}
	}
	fail(c, http.StatusNotFound, "offer not found")
}
