// Package devserver is an in-memory implementation of the store backend's
// admin API. It exists for local development and as the round-trip fixture in
// client tests; nothing it stores survives a restart.
package devserver

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/craftline/shopadmin/internal/model"
)

// Server holds all state behind a single mutex; the dev server trades
// throughput for simplicity.
type Server struct {
	cfg Config
	log *zap.Logger

	mu           sync.Mutex
	categories   []model.Category
	products     []model.Product
	offers       []model.Offer
	testimonials []model.Testimonial
}

// New constructs a Server.
func New(cfg Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{cfg: cfg, log: log}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog)

	api := r.Group("/api")
	api.POST("/user/admin", s.handleAdminLogin)

	api.GET("/category/list", s.handleCategoryList)
	api.POST("/category/add", s.requireAuth, s.handleCategoryAdd)
	api.POST("/category/add-subcategory", s.requireAuth, s.handleSubcategoryAdd)

	api.GET("/product/list", s.handleProductList)
	api.POST("/product/single", s.handleProductSingle)
	api.POST("/product/add", s.requireAuth, s.handleProductAdd)
	api.POST("/product/update", s.requireAuth, s.handleProductUpdate)
	api.POST("/product/remove", s.requireAuth, s.handleProductRemove)

	api.GET("/offer/active", s.handleOfferActive)
	api.POST("/offer/add", s.requireAuth, s.handleOfferAdd)
	api.DELETE("/offer/delete/:id", s.requireAuth, s.handleOfferDelete)

	api.GET("/testimonials/all", s.requireAuth, s.handleTestimonialsAll)
	api.POST("/testimonials", s.requireAuth, s.handleTestimonialCreate)
	api.PATCH("/testimonials/reorder", s.requireAuth, s.handleTestimonialsReorder)
	api.PUT("/testimonials/:id", s.requireAuth, s.handleTestimonialUpdate)
	api.DELETE("/testimonials/:id", s.requireAuth, s.handleTestimonialDelete)
	api.PATCH("/testimonials/:id/status", s.requireAuth, s.handleTestimonialStatus)

	return r
}

func (s *Server) requestLog(c *gin.Context) {
	c.Next()
	s.log.Info("http",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
	)
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "message": msg})
}

func ok(c *gin.Context, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = true
	c.JSON(http.StatusOK, body)
}

func newID() string {
	id, _ := uuid.NewV4()
	return id.String()
}

// mediaURL fabricates a stable-looking hosted URL for an uploaded file.
func mediaURL(filename string) string {
	return "https://cdn.craftline.dev/media/" + newID() + "/" + filename
}

// ---- categories ----

func (s *Server) handleCategoryList(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cats := append([]model.Category(nil), s.categories...)
	ok(c, gin.H{"categories": cats})
}

func (s *Server) handleCategoryAdd(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, http.StatusBadRequest, "category name required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cat := range s.categories {
		if strings.EqualFold(cat.Name, req.Name) {
			fail(c, http.StatusConflict, "category already exists")
			return
		}
	}
	s.categories = append(s.categories, model.Category{
		ID:            newID(),
		Name:          req.Name,
		Subcategories: []string{},
	})
	ok(c, gin.H{"message": "category added"})
}

func (s *Server) handleSubcategoryAdd(c *gin.Context) {
	var req struct {
		CategoryName string `json:"categoryName"`
		Subcategory  string `json:"subcategory"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.CategoryName == "" || strings.TrimSpace(req.Subcategory) == "" {
		fail(c, http.StatusBadRequest, "categoryName and subcategory required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if !strings.EqualFold(s.categories[i].Name, req.CategoryName) {
			continue
		}
		for _, sub := range s.categories[i].Subcategories {
			if strings.EqualFold(sub, req.Subcategory) {
				fail(c, http.StatusConflict, "subcategory already exists")
				return
			}
		}
		s.categories[i].Subcategories = append(s.categories[i].Subcategories, req.Subcategory)
		ok(c, gin.H{"message": "subcategory added"})
		return
	}
	fail(c, http.StatusNotFound, "category not found")
}
