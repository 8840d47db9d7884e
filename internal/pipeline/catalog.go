package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/law-makers/storescrape/internal/engine"
	"github.com/law-makers/storescrape/internal/engine/batch"
	"github.com/law-makers/storescrape/internal/engine/product"
	"github.com/law-makers/storescrape/internal/match"
	"github.com/law-makers/storescrape/internal/output"
	"github.com/law-makers/storescrape/internal/targets"
	urlutil "github.com/law-makers/storescrape/internal/utils/url"
	"github.com/law-makers/storescrape/pkg/models"
	"github.com/rs/zerolog/log"
)

// DefaultListingPath is the catalog page listing every product
const DefaultListingPath = "/collections/all"

// CatalogOptions configures a catalog run
type CatalogOptions struct {
	BaseURL     string
	ListingPath string
	TargetsPath string
	Column      string
	Threshold   int
	Concurrency int
	// Strict treats a non-2xx product page as an error instead of parsing it
	Strict bool

	// OnListing is called once with the number of product links found
	OnListing func(total int)
	// OnProduct is called after each product, possibly concurrently
	OnProduct func(models.ProductResult)
}

// Catalog scrapes every listed product whose title matches a target name
type Catalog struct {
	fetcher PageFetcher
	writer  *output.Writer
	opts    CatalogOptions
}

// NewCatalog creates a catalog driver
func NewCatalog(fetcher PageFetcher, writer *output.Writer, opts CatalogOptions) *Catalog {
	if opts.ListingPath == "" {
		opts.ListingPath = DefaultListingPath
	}
	return &Catalog{fetcher: fetcher, writer: writer, opts: opts}
}

// Run loads the targets, reads the listing and processes every product link.
// Failing to load targets or fetch the listing aborts the run; per product
// failures are recorded in the results and never stop the loop. Results are
// in listing order. On cancellation the partial results are returned with
// ctx.Err().
func (c *Catalog) Run(ctx context.Context) ([]models.ProductResult, error) {
	names, err := targets.Load(c.opts.TargetsPath, c.opts.Column)
	if err != nil {
		return nil, fmt.Errorf("failed to load targets: %w", err)
	}
	matcher := match.New(names, c.opts.Threshold)

	log.Info().
		Int("targets", matcher.Len()).
		Int("threshold", matcher.Threshold()).
		Msg("Loaded target names")

	listingURL := urlutil.ResolveURL(c.opts.BaseURL, c.opts.ListingPath)
	page, err := c.fetcher.Fetch(ctx, models.RequestOptions{URL: listingURL, StrictStatus: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", engine.ErrListingFailure, err)
	}

	links := product.ProductLinks(page.Doc, c.opts.BaseURL)
	log.Info().Str("url", listingURL).Int("products", len(links)).Msg("Found product links")
	if c.opts.OnListing != nil {
		c.opts.OnListing(len(links))
	}

	runner := batch.New(c.opts.Concurrency)
	results, done := batch.Process(ctx, runner, links,
		func(ctx context.Context, link string) models.ProductResult {
			return c.processProduct(ctx, matcher, link)
		},
		func(_ int, r models.ProductResult) {
			if c.opts.OnProduct != nil {
				c.opts.OnProduct(r)
			}
		})

	for i := range results {
		if !done[i] {
			results[i] = models.ProductResult{URL: links[i], Err: ctx.Err()}
		}
	}

	return results, ctx.Err()
}

func (c *Catalog) processProduct(ctx context.Context, matcher *match.Matcher, link string) (res models.ProductResult) {
	start := time.Now()
	res.URL = link
	defer func() { res.Duration = time.Since(start) }()

	page, err := c.fetcher.Fetch(ctx, models.RequestOptions{URL: link, StrictStatus: c.opts.Strict})
	if err != nil {
		log.Error().Err(err).Str("url", link).Msg("Failed to scrape product")
		res.Err = err
		return res
	}

	title, ok := product.Title(page.Doc)
	if !ok {
		log.Warn().Str("url", page.URL).Int("status", page.StatusCode).Msg("Title not found, skipping")
		res.Skipped = true
		res.Err = &engine.TitleNotFoundError{URL: link}
		return res
	}
	res.Title = title

	matched, target := matcher.IsMatch(title)
	if !matched {
		log.Info().Str("title", title).Msg("No match, skipping")
		res.Skipped = true
		return res
	}
	res.MatchedTarget = target
	log.Info().Str("title", title).Str("target", target).Msg("Matched product")

	record, err := product.Extract(page.Doc, product.Options{BaseURL: c.opts.BaseURL, PageURL: page.URL})
	if err != nil {
		res.Err = err
		return res
	}

	written, err := c.writer.WriteProduct(ctx, c.writer.FolderName(record.Title), record)
	if err != nil {
		log.Error().Err(err).Str("url", link).Msg("Failed to save product")
		res.Err = err
		return res
	}

	res.Folder = written.Folder
	res.Images = written.Saved()
	res.FailedImages = written.Failed()
	return res
}
