package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/craftline/shopadmin/internal/editor"
	"github.com/craftline/shopadmin/internal/media"
	"github.com/craftline/shopadmin/internal/model"
)

// stringList is a repeatable flag value.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ";") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// variantSpec is one -variant argument:
//
//	-variant color=gold,stock=3,image=./gold.jpg,video=./gold.mp4
type variantSpec struct {
	Color string
	Stock int
	Image string
	Video string
}

func parseVariantSpec(raw string) (variantSpec, error) {
	spec := variantSpec{}
	for _, part := range strings.Split(raw, ",") {
		key, val, found := strings.Cut(part, "=")
		if !found {
			return spec, fmt.Errorf("variant spec %q: want key=value pairs", raw)
		}
		switch strings.TrimSpace(key) {
		case "color":
			spec.Color = val
		case "stock":
			n, err := strconv.Atoi(val)
			if err != nil {
				return spec, fmt.Errorf("variant spec %q: bad stock %q", raw, val)
			}
			spec.Stock = n
		case "image":
			spec.Image = val
		case "video":
			spec.Video = val
		default:
			return spec, fmt.Errorf("variant spec %q: unknown key %q", raw, key)
		}
	}
	if spec.Color == "" {
		return spec, fmt.Errorf("variant spec %q: color is required", raw)
	}
	return spec, nil
}

// applyVariantSpec adds the variant and attaches its media. Videos go through
// the editor so oversized files get compressed on the way in.
func applyVariantSpec(ctx context.Context, ed *editor.Editor, spec variantSpec) error {
	v, err := ed.Store().Add(spec.Color)
	if err != nil {
		return fmt.Errorf("add variant %q: %w", spec.Color, err)
	}
	if spec.Stock != 0 {
		if err := ed.Store().SetStock(v.ID, spec.Stock); err != nil {
			return err
		}
	}
	if spec.Image != "" {
		att, err := media.LoadAttachment(spec.Image)
		if err != nil {
			return fmt.Errorf("variant %q: %w", spec.Color, err)
		}
		if err := ed.Store().AttachImage(v.ID, att); err != nil {
			return fmt.Errorf("variant %q: %w", spec.Color, err)
		}
	}
	if spec.Video != "" {
		if err := attachVideoPath(ctx, ed, v, spec.Video); err != nil {
			return fmt.Errorf("variant %q: %w", spec.Color, err)
		}
	}
	return nil
}

func attachVideoPath(ctx context.Context, ed *editor.Editor, v *model.Variant, path string) error {
	att, err := media.LoadAttachment(path)
	if err != nil {
		return err
	}
	res, err := ed.AttachVideo(ctx, v.ID, att)
	if err != nil {
		return err
	}
	if res.Skipped && res.Reason != "" {
		fmt.Fprintf(os.Stderr, "note: %s uploaded uncompressed: %s\n", path, res.Reason)
	}
	return nil
}

// productFlags registers the scalar draft flags on fs and returns a closure
// that copies set values into the draft. product-add applies every flag;
// product-edit applies only those explicitly passed, leaving loaded values
// untouched.
func productFlags(fs *flag.FlagSet) func(draft *model.ProductDraft, onlySet bool) {
	name := fs.String("name", "", "product name")
	price := fs.String("price", "", "price")
	category := fs.String("category", "", "category name")
	subcategory := fs.String("subcategory", "", "subcategory name")
	stock := fs.Int("stock", 0, "overall stock")
	bestseller := fs.Bool("bestseller", false, "mark as bestseller")
	description := fs.String("description", "", "description")
	difficulty := fs.String("difficulty", "", "difficulty (easy|medium|hard)")
	size := fs.String("size", "", "size")

	return func(draft *model.ProductDraft, onlySet bool) {
		set := map[string]bool{}
		if onlySet {
			fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		}
		use := func(n string) bool { return !onlySet || set[n] }

		if use("name") {
			draft.Name = *name
		}
		if use("price") {
			draft.Price = *price
		}
		if use("category") {
			draft.Category = *category
		}
		if use("subcategory") {
			draft.Subcategory = *subcategory
		}
		if use("stock") {
			draft.Stock = *stock
		}
		if use("bestseller") {
			draft.Bestseller = *bestseller
		}
		if use("description") {
			draft.Description = *description
		}
		if use("difficulty") {
			draft.Difficulty = *difficulty
		}
		if use("size") {
			draft.Size = *size
		}
	}
}

func cmdProductAdd(ctx context.Context, args []string, url string, log *zap.Logger) {
	fs := flag.NewFlagSet("product-add", flag.ExitOnError)
	apply := productFlags(fs)
	var variants, details, faqs stringList
	fs.Var(&variants, "variant", "variant spec color=...,stock=...,image=...[,video=...] (repeatable)")
	fs.Var(&details, "detail", "detail bullet point (repeatable)")
	fs.Var(&faqs, "faq", "FAQ as question|answer (repeatable)")
	_ = fs.Parse(args)

	ed := editor.New(editor.FlowCreate, authedClient(url, log), media.NewCompressor(log, nil), log)
	apply(ed.Draft(), false)

	for _, d := range details {
		ed.AddDetail(d)
	}
	for _, f := range faqs {
		q, a, found := strings.Cut(f, "|")
		if !found || !ed.AddFAQ(q, a) {
			fail(fmt.Errorf("faq %q: want question|answer", f))
		}
	}
	for _, raw := range variants {
		spec, err := parseVariantSpec(raw)
		if err != nil {
			fail(err)
		}
		if err := applyVariantSpec(ctx, ed, spec); err != nil {
			fail(err)
		}
	}

	p, err := ed.Submit(ctx)
	if err != nil {
		fail(err)
	}
	if p != nil {
		fmt.Printf("created %s\n", p.ID)
	} else {
		fmt.Println("ok")
	}
}

func cmdProductEdit(ctx context.Context, args []string, url string, log *zap.Logger) {
	fs := flag.NewFlagSet("product-edit", flag.ExitOnError)
	id := fs.String("id", "", "product id")
	apply := productFlags(fs)
	var variants, renames, removes, undos, setStocks, images, videos, details, faqs stringList
	fs.Var(&variants, "variant", "add a variant: color=...,stock=...,image=...[,video=...] (repeatable)")
	fs.Var(&renames, "rename", "rename a variant: old=new (repeatable)")
	fs.Var(&removes, "remove", "remove a variant by color (repeatable)")
	fs.Var(&undos, "undo", "undo a removal by color (repeatable)")
	fs.Var(&setStocks, "set-stock", "set variant stock: color=n (repeatable)")
	fs.Var(&images, "image", "replace variant image: color=path (repeatable)")
	fs.Var(&videos, "video", "replace variant video: color=path (repeatable)")
	fs.Var(&details, "detail", "add a detail bullet point (repeatable)")
	fs.Var(&faqs, "faq", "add a FAQ as question|answer (repeatable)")
	_ = fs.Parse(args)
	if *id == "" {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}

	ed := editor.New(editor.FlowEdit, authedClient(url, log), media.NewCompressor(log, nil), log)
	if err := ed.LoadProduct(ctx, *id); err != nil {
		fail(err)
	}
	apply(ed.Draft(), true)

	byColor := func(color string) *model.Variant {
		v := ed.Store().GetByColor(color)
		if v == nil {
			fail(fmt.Errorf("no variant with color %q", color))
		}
		return v
	}

	for _, raw := range renames {
		oldColor, newColor, found := strings.Cut(raw, "=")
		if !found {
			fail(fmt.Errorf("rename %q: want old=new", raw))
		}
		if err := ed.Store().Rename(byColor(oldColor).ID, newColor); err != nil {
			fail(err)
		}
	}
	for _, raw := range setStocks {
		color, nStr, found := strings.Cut(raw, "=")
		if !found {
			fail(fmt.Errorf("set-stock %q: want color=n", raw))
		}
		n, err := strconv.Atoi(nStr)
		if err != nil {
			fail(fmt.Errorf("set-stock %q: bad count", raw))
		}
		if err := ed.Store().SetStock(byColor(color).ID, n); err != nil {
			fail(err)
		}
	}
	for _, raw := range images {
		color, path, found := strings.Cut(raw, "=")
		if !found {
			fail(fmt.Errorf("image %q: want color=path", raw))
		}
		att, err := media.LoadAttachment(path)
		if err != nil {
			fail(err)
		}
		if err := ed.Store().AttachImage(byColor(color).ID, att); err != nil {
			fail(err)
		}
	}
	for _, raw := range videos {
		color, path, found := strings.Cut(raw, "=")
		if !found {
			fail(fmt.Errorf("video %q: want color=path", raw))
		}
		if err := attachVideoPath(ctx, ed, byColor(color), path); err != nil {
			fail(err)
		}
	}
	for _, color := range removes {
		if err := ed.Store().Remove(byColor(color).ID); err != nil {
			fail(err)
		}
	}
	for _, color := range undos {
		// removed variants are invisible to GetByColor, so scan all
		var target *model.Variant
		for _, v := range ed.Store().All() {
			if v.Removed && v.Color == strings.ToLower(strings.TrimSpace(color)) {
				target = v
				break
			}
		}
		if target == nil {
			fail(fmt.Errorf("no removed variant with color %q", color))
		}
		if err := ed.Store().Undo(target.ID); err != nil {
			fail(err)
		}
	}
	for _, d := range details {
		ed.AddDetail(d)
	}
	for _, f := range faqs {
		q, a, found := strings.Cut(f, "|")
		if !found || !ed.AddFAQ(q, a) {
			fail(fmt.Errorf("faq %q: want question|answer", f))
		}
	}
	for _, raw := range variants {
		spec, err := parseVariantSpec(raw)
		if err != nil {
			fail(err)
		}
		if err := applyVariantSpec(ctx, ed, spec); err != nil {
			fail(err)
		}
	}

	if _, err := ed.Submit(ctx); err != nil {
		fail(err)
	}
	fmt.Println("ok")
}
