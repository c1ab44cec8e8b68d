package devserver

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/craftline/shopadmin/internal/model"
)

var (
	errInvalidForm              = errors.New("invalid multipart form")
	errMissingTestimonialFields = errors.New("customerName and content are required")
)

func (s *Server) handleTestimonialsAll(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := append([]model.Testimonial(nil), s.testimonials...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].SortOrder < items[j].SortOrder })
	ok(c, gin.H{"data": items})
}

func (s *Server) handleTestimonialCreate(c *gin.Context) {
	t, err := testimonialFromForm(c, nil)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	t.ID = newID()

	s.mu.Lock()
	s.testimonials = append(s.testimonials, *t)
	s.mu.Unlock()

	ok(c, gin.H{"message": "testimonial created", "data": t})
}

func (s *Server) handleTestimonialUpdate(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.testimonials {
		if s.testimonials[i].ID != id {
			continue
		}
		t, err := testimonialFromForm(c, &s.testimonials[i])
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		t.ID = id
		s.testimonials[i] = *t
		ok(c, gin.H{"message": "testimonial updated", "data": t})
		return
	}
	fail(c, http.StatusNotFound, "testimonial not found")
}

func (s *Server) handleTestimonialDelete(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.testimonials {
		if s.testimonials[i].ID == id {
			s.testimonials = append(s.testimonials[:i], s.testimonials[i+1:]...)
			ok(c, gin.H{"message": "testimonial deleted"})
			return
		}
	}
	fail(c, http.StatusNotFound, "testimonial not found")
}

func (s *Server) handleTestimonialStatus(c *gin.Context) {
	id := c.Param("id")
	var patch struct {
		Published *bool `json:"published"`
		Featured  *bool `json:"featured"`
	}
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, "invalid status patch")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.testimonials {
		if s.testimonials[i].ID != id {
			continue
		}
		if patch.Published != nil {
			s.testimonials[i].Published = *patch.Published
		}
		if patch.Featured != nil {
			s.testimonials[i].Featured = *patch.Featured
		}
		ok(c, gin.H{"message": "status updated"})
		return
	}
	fail(c, http.StatusNotFound, "testimonial not found")
}

func (s *Server) handleTestimonialsReorder(c *gin.Context) {
	var req struct {
		Items []struct {
			ID        string `json:"id"`
			SortOrder int    `json:"sortOrder"`
		} `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid reorder payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range req.Items {
		for i := range s.testimonials {
			if s.testimonials[i].ID == item.ID {
				s.testimonials[i].SortOrder = item.SortOrder
			}
		}
	}
	ok(c, gin.H{"message": "reordered"})
}

// testimonialFromForm reads the multipart testimonial form. On update, prev
// media listed in keepMedia survives alongside any newly uploaded files.
func testimonialFromForm(c *gin.Context, prev *model.Testimonial) (*model.Testimonial, error) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, errInvalidForm
	}
	form := c.Request.FormValue

	rating, _ := strconv.Atoi(form("rating"))
	sortOrder, _ := strconv.Atoi(form("sortOrder"))
	featured, _ := strconv.ParseBool(form("featured"))
	published, _ := strconv.ParseBool(form("published"))

	t := &model.Testimonial{
		CustomerName: form("customerName"),
		Headline:     form("headline"),
		Content:      form("content"),
		Rating:       rating,
		ProductID:    form("productId"),
		ProductName:  form("productName"),
		Location:     form("location"),
		Language:     form("language"),
		Featured:     featured,
		SortOrder:    sortOrder,
		Published:    published,
		Media:        []string{},
	}
	if t.CustomerName == "" || t.Content == "" {
		return nil, errMissingTestimonialFields
	}
	if t.Language == "" {
		t.Language = "en"
	}

	var keep []string
	if err := parseJSONField(form("keepMedia"), &keep); err != nil {
		return nil, errInvalidForm
	}
	t.Media = append(t.Media, keep...)

	if fh := formFile(c, "avatar"); fh != nil {
		t.AvatarURL = mediaURL(fh.Filename)
	} else if prev != nil {
		t.AvatarURL = prev.AvatarURL
	}
	if c.Request.MultipartForm != nil {
		for _, fh := range c.Request.MultipartForm.File["media"] {
			t.Media = append(t.Media, mediaURL(fh.Filename))
		}
	}
	return t, nil
}
