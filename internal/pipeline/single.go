package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/law-makers/storescrape/internal/engine"
	"github.com/law-makers/storescrape/internal/engine/product"
	"github.com/law-makers/storescrape/internal/output"
	urlutil "github.com/law-makers/storescrape/internal/utils/url"
	"github.com/law-makers/storescrape/pkg/models"
	"github.com/rs/zerolog/log"
)

// SingleOptions configures single product runs
type SingleOptions struct {
	BaseURL string
	// NoArchive leaves the folder in place without zipping it
	NoArchive bool
}

// Single scrapes one product page into a folder and zips it
type Single struct {
	fetcher PageFetcher
	writer  *output.Writer
	opts    SingleOptions
}

// NewSingle creates a single product driver
func NewSingle(fetcher PageFetcher, writer *output.Writer, opts SingleOptions) *Single {
	return &Single{fetcher: fetcher, writer: writer, opts: opts}
}

// Run scrapes input, a full URL or a path on the storefront, and returns the
// zip path (or the folder path with NoArchive). Any failure aborts the run
// except individual image downloads.
func (s *Single) Run(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%w: empty input", engine.ErrInvalidURL)
	}

	productURL := urlutil.ResolveInput(s.opts.BaseURL, input)
	if err := urlutil.ValidateURL(productURL); err != nil {
		return "", fmt.Errorf("%w: %v", engine.ErrInvalidURL, err)
	}

	page, err := s.fetcher.Fetch(ctx, models.RequestOptions{URL: productURL, StrictStatus: true})
	if err != nil {
		return "", err
	}

	record, err := product.Extract(page.Doc, product.Options{
		BaseURL:          s.opts.BaseURL,
		PageURL:          page.URL,
		IncludeMainMedia: true,
	})
	if err != nil {
		return "", err
	}

	written, err := s.writer.WriteProduct(ctx, s.writer.FolderName(record.Title), record)
	if err != nil {
		return "", err
	}

	log.Info().
		Str("title", record.Title).
		Str("folder", written.Folder).
		Int("images", written.Saved()).
		Int("failed_images", written.Failed()).
		Msg("Product saved")

	if s.opts.NoArchive {
		return written.Folder, nil
	}

	zipPath, err := output.ArchiveFolder(written.Folder)
	if err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", written.Folder, err)
	}
	return zipPath, nil
}
