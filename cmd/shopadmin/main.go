// Command shopadmin is a CLI client for the Craftline store admin API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/craftline/shopadmin/internal/api"
	"github.com/craftline/shopadmin/internal/errs"
)

// ---- config/token store ----

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "shopadmin")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "shopadmin")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

func saveToken(tok string, exp time.Time) error {
	_ = os.MkdirAll(cfgDir(), 0o700)
	f, err := os.Create(tokenPath())
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenFile{AccessToken: tok, ExpiresAt: exp})
}

func loadToken() (string, error) {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	if tf.AccessToken == "" || time.Now().After(tf.ExpiresAt) {
		return "", errors.New("no valid token (login required)")
	}
	return tf.AccessToken, nil
}

// ---- utils ----

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	if errors.Is(err, errs.ErrUnauthorized) {
		fmt.Fprintln(os.Stderr, "authentication failed (run `shopadmin login`)")
		os.Exit(1)
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		fmt.Fprintf(os.Stderr, "server error: %s\n", apiErr.Error())
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Minute)
}

// authedClient builds a client carrying the cached token.
func authedClient(url string, log *zap.Logger) *api.Client {
	token, err := loadToken()
	if err != nil {
		fail(err)
	}
	return api.New(url, api.WithToken(token), api.WithLogger(log))
}

func usage() {
	fmt.Fprintf(os.Stderr, `shopadmin CLI
Usage:
  shopadmin -url http://HOST:PORT [-v] <cmd> [args]

Commands:
  version
  login            -email <e> -password <p>      (saves token)
  categories
  category-add     -name <name>
  subcategory-add  -category <name> -name <sub>
  products
  product-show     -id <id>
  product-add      [scalar flags] -variant color=...,stock=...,image=...[,video=...]
  product-edit     -id <id> [scalar flags] [-variant ...] [-rename old=new] [-remove color] [-set-stock color=n] [-image color=path] [-video color=path]
  product-rm       -id <id>
  offers
  offer-add        -code <c> -percent <n> [-description d] [-expires YYYY-MM-DD] [-categories id1,id2] [-subcategories]
  offer-rm         -id <id>
  testimonials
  testimonial-add      -customer <name> -content <text> [flags]
  testimonial-rm       -id <id>
  testimonial-status   -id <id> [-published true|false] [-featured true|false]
  testimonial-reorder  -ids id1,id2,...
`)
	os.Exit(2)
}

var (
	version   = "dev"
	buildDate = "unknown"
)

// main dispatches subcommands; the backend URL comes from -url or the
// SHOPADMIN_URL environment (with .env loaded first).
func main() {
	_ = godotenv.Load()

	defaultURL := os.Getenv("SHOPADMIN_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:4000"
	}

	url := flag.String("url", defaultURL, "backend base URL")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	log := zap.NewNop()
	if *verbose {
		log, _ = zap.NewDevelopment()
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := withTimeout()
	defer cancel()

	switch cmd {

	case "version":
		fmt.Printf("shopadmin %s (%s)\n", version, buildDate)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", os.Getenv("SHOPADMIN_EMAIL"), "admin email")
		password := fs.String("password", os.Getenv("SHOPADMIN_PASSWORD"), "admin password")
		_ = fs.Parse(args)
		if *email == "" || *password == "" {
			fmt.Fprintln(os.Stderr, "need -email and -password")
			os.Exit(1)
		}

		cli := api.New(*url, api.WithLogger(log))
		token, err := cli.Login(ctx, *email, *password)
		if err != nil {
			fail(err)
		}

		// parse exp from the JWT; fall back to a short TTL
		var claims jwt.RegisteredClaims
		_, _ = jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) { return nil, nil },
			jwt.WithoutClaimsValidation(),
		)
		exp := time.Now().Add(15 * time.Minute)
		if claims.ExpiresAt != nil {
			exp = claims.ExpiresAt.Time
		}
		if err := saveToken(token, exp); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "categories":
		cli := api.New(*url, api.WithLogger(log))
		cats, err := cli.CategoryList(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(cats)

	case "category-add":
		fs := flag.NewFlagSet("category-add", flag.ExitOnError)
		name := fs.String("name", "", "category name")
		_ = fs.Parse(args)
		if *name == "" {
			fmt.Fprintln(os.Stderr, "need -name")
			os.Exit(1)
		}
		if err := authedClient(*url, log).CategoryAdd(ctx, *name); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "subcategory-add":
		fs := flag.NewFlagSet("subcategory-add", flag.ExitOnError)
		category := fs.String("category", "", "parent category name")
		name := fs.String("name", "", "subcategory name")
		_ = fs.Parse(args)
		if *category == "" || *name == "" {
			fmt.Fprintln(os.Stderr, "need -category and -name")
			os.Exit(1)
		}
		if err := authedClient(*url, log).SubcategoryAdd(ctx, *category, *name); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "products":
		cli := api.New(*url, api.WithLogger(log))
		products, err := cli.ProductList(ctx)
		if err != nil {
			fail(err)
		}
		// short listing: one row per product
		type row struct{ ID, Name, Category string }
		rows := make([]row, 0, len(products))
		for _, p := range products {
			rows = append(rows, row{ID: p.ID, Name: p.Name, Category: p.Category})
		}
		printJSON(rows)

	case "product-show":
		fs := flag.NewFlagSet("product-show", flag.ExitOnError)
		id := fs.String("id", "", "product id")
		_ = fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		cli := api.New(*url, api.WithLogger(log))
		p, err := cli.ProductSingle(ctx, *id)
		if err != nil {
			fail(err)
		}
		printJSON(p)

	case "product-rm":
		fs := flag.NewFlagSet("product-rm", flag.ExitOnError)
		id := fs.String("id", "", "product id")
		_ = fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		if err := authedClient(*url, log).ProductRemove(ctx, *id); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "product-add":
		cmdProductAdd(ctx, args, *url, log)
	case "product-edit":
		cmdProductEdit(ctx, args, *url, log)

	case "offers":
		offers, err := authedClient(*url, log).OfferActive(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(offers)

	case "offer-add":
		fs := flag.NewFlagSet("offer-add", flag.ExitOnError)
		code := fs.String("code", "", "offer code")
		percent := fs.Float64("percent", 0, "discount percentage")
		description := fs.String("description", "", "description")
		expires := fs.String("expires", "", "expiry (RFC3339 or YYYY-MM-DD)")
		categories := fs.String("categories", "", "comma-separated category IDs (empty = global)")
		subcats := fs.Bool("subcategories", false, "apply to subcategories")
		_ = fs.Parse(args)

		expiresAt, err := api.ParseExpiry(*expires)
		if err != nil {
			fail(err)
		}
		draft := api.OfferDraft{
			Code:                 *code,
			DiscountPercentage:   *percent,
			Description:          *description,
			ExpiresAt:            expiresAt,
			Categories:           splitList(*categories),
			ApplyToSubcategories: *subcats,
		}
		if err := authedClient(*url, log).OfferAdd(ctx, draft); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "offer-rm":
		fs := flag.NewFlagSet("offer-rm", flag.ExitOnError)
		id := fs.String("id", "", "offer id")
		_ = fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		if err := authedClient(*url, log).OfferDelete(ctx, *id); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "testimonials":
		items, err := authedClient(*url, log).TestimonialsAll(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(items)

	case "testimonial-add":
		cmdTestimonialAdd(ctx, args, *url, log)

	case "testimonial-rm":
		fs := flag.NewFlagSet("testimonial-rm", flag.ExitOnError)
		id := fs.String("id", "", "testimonial id")
		_ = fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		if err := authedClient(*url, log).TestimonialDelete(ctx, *id); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "testimonial-status":
		fs := flag.NewFlagSet("testimonial-status", flag.ExitOnError)
		id := fs.String("id", "", "testimonial id")
		published := fs.String("published", "", "true|false")
		featured := fs.String("featured", "", "true|false")
		_ = fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		patch := map[string]bool{}
		if *published != "" {
			patch["published"] = *published == "true"
		}
		if *featured != "" {
			patch["featured"] = *featured == "true"
		}
		if len(patch) == 0 {
			fmt.Fprintln(os.Stderr, "need -published or -featured")
			os.Exit(1)
		}
		if err := authedClient(*url, log).TestimonialSetStatus(ctx, *id, patch); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "testimonial-reorder":
		fs := flag.NewFlagSet("testimonial-reorder", flag.ExitOnError)
		ids := fs.String("ids", "", "comma-separated testimonial IDs in the new order")
		_ = fs.Parse(args)
		list := splitList(*ids)
		if len(list) == 0 {
			fmt.Fprintln(os.Stderr, "need -ids")
			os.Exit(1)
		}
		items := make([]api.ReorderItem, len(list))
		for i, id := range list {
			items[i] = api.ReorderItem{ID: id, SortOrder: i}
		}
		if err := authedClient(*url, log).TestimonialsReorder(ctx, items); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	default:
		usage()
	}
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
