package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/craftline/shopadmin/internal/api"
	"github.com/craftline/shopadmin/internal/media"
)

func cmdTestimonialAdd(ctx context.Context, args []string, url string, log *zap.Logger) {
	fs := flag.NewFlagSet("testimonial-add", flag.ExitOnError)
	customer := fs.String("customer", "", "customer name")
	headline := fs.String("headline", "", "headline")
	content := fs.String("content", "", "testimonial text")
	rating := fs.Int("rating", 5, "rating 1-5")
	productID := fs.String("product-id", "", "related product id")
	productName := fs.String("product-name", "", "related product name")
	location := fs.String("location", "", "customer location")
	language := fs.String("language", "", "language code (default en)")
	featured := fs.Bool("featured", false, "mark featured")
	published := fs.Bool("published", false, "publish immediately")
	sortOrder := fs.Int("sort-order", 0, "display position")
	avatar := fs.String("avatar", "", "avatar image path")
	var mediaPaths stringList
	fs.Var(&mediaPaths, "media", "media file path (repeatable)")
	_ = fs.Parse(args)

	if *customer == "" || *content == "" {
		fmt.Fprintln(os.Stderr, "need -customer and -content")
		os.Exit(1)
	}

	d := api.TestimonialDraft{
		CustomerName: *customer,
		Headline:     *headline,
		Content:      *content,
		Rating:       *rating,
		ProductID:    *productID,
		ProductName:  *productName,
		Location:     *location,
		Language:     *language,
		Featured:     *featured,
		SortOrder:    *sortOrder,
		Published:    *published,
	}
	if *avatar != "" {
		att, err := media.LoadAttachment(*avatar)
		if err != nil {
			fail(err)
		}
		if err := media.ValidateImage(att); err != nil {
			fail(err)
		}
		d.Avatar = att
	}
	for _, p := range mediaPaths {
		att, err := media.LoadAttachment(p)
		if err != nil {
			fail(err)
		}
		d.Media = append(d.Media, att)
	}

	if err := authedClient(url, log).TestimonialCreate(ctx, d); err != nil {
		fail(err)
	}
	fmt.Println("ok")
}
