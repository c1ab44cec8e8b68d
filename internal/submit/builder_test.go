package submit

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"testing"

	"github.com/craftline/shopadmin/internal/errs"
	"github.com/craftline/shopadmin/internal/model"
	"github.com/craftline/shopadmin/internal/variant"
)

type gauge int64

func (g gauge) InFlight() int64 { return int64(g) }

type filePart struct {
	filename    string
	contentType string
	data        string
}

// parsePayload replays the built body through a multipart reader, returning
// plain fields and file parts keyed by field name.
func parsePayload(t *testing.T, p *Payload) (map[string]string, map[string]filePart) {
	t.Helper()
	_, params, err := mime.ParseMediaType(p.ContentType)
	if err != nil {
		t.Fatalf("parse content type: %v", err)
	}
	r := multipart.NewReader(p.Body, params["boundary"])

	fields := map[string]string{}
	files := map[string]filePart{}
	for {
		part, err := r.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next part: %v", err)
		}
		data, err := io.ReadAll(part)
		if err != nil {
			t.Fatalf("read part: %v", err)
		}
		if part.FileName() == "" {
			fields[part.FormName()] = string(data)
			continue
		}
		files[part.FormName()] = filePart{
			filename:    part.FileName(),
			contentType: part.Header.Get("Content-Type"),
			data:        string(data),
		}
	}
	return fields, files
}

func validDraft() *model.ProductDraft {
	return &model.ProductDraft{
		Name:     "Celtic Knot Bracelet",
		Price:    "49.90",
		Category: "Bracelets",
	}
}

func storeWith(t *testing.T, colors ...string) *variant.Store {
	t.Helper()
	s := variant.New()
	for _, color := range colors {
		v, err := s.Add(color)
		if err != nil {
			t.Fatalf("add %q: %v", color, err)
		}
		img := &model.Attachment{Name: color + ".png", ContentType: "image/png", Data: []byte(color)}
		if err := s.AttachImage(v.ID, img); err != nil {
			t.Fatalf("attach %q: %v", color, err)
		}
	}
	return s
}

func TestBuildPayloadShape(t *testing.T) {
	draft := validDraft()
	draft.Subcategory = "Leather"
	draft.Stock = 12
	draft.Bestseller = true
	draft.Description = "Hand-braided."
	draft.Size = "18cm"
	draft.Details = []string{"vegetable-tanned"}
	draft.FAQs = []model.FAQ{{Question: "Waterproof?", Answer: "No."}}

	s := storeWith(t, "gold", "silver")
	v := s.GetByColor("silver")
	if err := s.SetStock(v.ID, 4); err != nil {
		t.Fatal(err)
	}
	if err := s.AttachVideo(v.ID, &model.Attachment{Name: "silver.mp4", ContentType: "video/mp4", Data: []byte("vid")}); err != nil {
		t.Fatal(err)
	}

	p, err := Build(draft, s, gauge(0))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	fields, files := parsePayload(t, p)

	want := map[string]string{
		"name":          "Celtic Knot Bracelet",
		"price":         "49.90",
		"category":      "Bracelets",
		"subcategory":   "Leather",
		"stock":         "12",
		"bestseller":    "true",
		"description":   "Hand-braided.",
		"difficulty":    "easy",
		"size":          "18cm",
		"details":       `["vegetable-tanned"]`,
		"faqs":          `[{"question":"Waterproof?","answer":"No."}]`,
		"colors":        `["gold","silver"]`,
		"variantStocks": `[0,4]`,
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("field %s = %q, want %q", k, fields[k], v)
		}
	}
	if _, present := fields["id"]; present {
		t.Error("create payload must not carry an id field")
	}

	img0, ok := files["variantImage0"]
	if !ok || img0.filename != "gold.png" || img0.contentType != "image/png" {
		t.Errorf("variantImage0 = %+v", img0)
	}
	if _, ok := files["variantImage1"]; !ok {
		t.Error("variantImage1 missing")
	}
	vid1, ok := files["variantVideo1"]
	if !ok || vid1.filename != "silver.mp4" || vid1.data != "vid" {
		t.Errorf("variantVideo1 = %+v", vid1)
	}
	if _, ok := files["variantVideo0"]; ok {
		t.Error("variantVideo0 must be absent when no video is attached")
	}
}

func TestBuildUpdateCarriesIDAndOmitsKeptMedia(t *testing.T) {
	draft := validDraft()
	draft.ID = "abc123"

	// edit flow: seeded variant keeps its stored media, nothing re-uploaded
	s := variant.New()
	p := &model.Product{Variants: []model.ProductVariant{
		{Color: "gold", Stock: 2, Images: []string{"https://cdn/x/gold.jpg"}},
	}}
	if err := s.SeedFromProduct(p); err != nil {
		t.Fatal(err)
	}

	payload, err := Build(draft, s, gauge(0))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	fields, files := parsePayload(t, payload)

	if fields["id"] != "abc123" {
		t.Fatalf("id = %q", fields["id"])
	}
	if len(files) != 0 {
		t.Fatalf("kept media must produce no file parts, got %d", len(files))
	}
	if fields["colors"] != `["gold"]` {
		t.Fatalf("colors = %q", fields["colors"])
	}
}

func TestBuildExcludesRemovedVariants(t *testing.T) {
	s := variant.New()
	p := &model.Product{Variants: []model.ProductVariant{
		{Color: "gold", Images: []string{"u1"}},
		{Color: "silver", Images: []string{"u2"}},
	}}
	if err := s.SeedFromProduct(p); err != nil {
		t.Fatal(err)
	}
	// removed variant has no media after tombstoning but must not block Build
	if err := s.Remove(s.GetByColor("silver").ID); err != nil {
		t.Fatal(err)
	}

	payload, err := Build(validDraft(), s, gauge(0))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	fields, _ := parsePayload(t, payload)
	if fields["colors"] != `["gold"]` {
		t.Fatalf("colors = %q, want only gold", fields["colors"])
	}
	if fields["variantStocks"] != `[0]` {
		t.Fatalf("variantStocks = %q", fields["variantStocks"])
	}
}

func TestBuildEmptyCollectionsEncodeAsEmptyArrays(t *testing.T) {
	payload, err := Build(validDraft(), storeWith(t, "gold"), gauge(0))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	fields, _ := parsePayload(t, payload)
	if fields["details"] != "[]" || fields["faqs"] != "[]" {
		t.Fatalf("details = %q, faqs = %q, want []", fields["details"], fields["faqs"])
	}
	if _, present := fields["size"]; present {
		t.Error("empty size must be omitted")
	}
}

func TestBuildRefusals(t *testing.T) {
	t.Run("missing name", func(t *testing.T) {
		draft := validDraft()
		draft.Name = "  "
		_, err := Build(draft, storeWith(t, "gold"), gauge(0))
		if !errors.Is(err, errs.ErrMissingRequiredField) {
			t.Fatalf("err = %v, want ErrMissingRequiredField", err)
		}
	})
	t.Run("missing price", func(t *testing.T) {
		draft := validDraft()
		draft.Price = ""
		_, err := Build(draft, storeWith(t, "gold"), gauge(0))
		if !errors.Is(err, errs.ErrMissingRequiredField) {
			t.Fatalf("err = %v, want ErrMissingRequiredField", err)
		}
	})
	t.Run("compression in flight", func(t *testing.T) {
		_, err := Build(validDraft(), storeWith(t, "gold"), gauge(2))
		if !errors.Is(err, errs.ErrCompressionInProgress) {
			t.Fatalf("err = %v, want ErrCompressionInProgress", err)
		}
	})
	t.Run("no variants", func(t *testing.T) {
		_, err := Build(validDraft(), variant.New(), gauge(0))
		if !errors.Is(err, errs.ErrNoVariants) {
			t.Fatalf("err = %v, want ErrNoVariants", err)
		}
	})
	t.Run("variant without media", func(t *testing.T) {
		s := variant.New()
		if _, err := s.Add("bare"); err != nil {
			t.Fatal(err)
		}
		_, err := Build(validDraft(), s, gauge(0))
		if !errors.Is(err, errs.ErrNoMediaForVariant) {
			t.Fatalf("err = %v, want ErrNoMediaForVariant", err)
		}
	})
}
