// Package pipeline drives the two scraping workflows: the catalog run that
// keeps only products matching a target list, and the single product run that
// ends in a zip archive.
package pipeline

import (
	"context"

	"github.com/law-makers/storescrape/internal/engine/static"
	"github.com/law-makers/storescrape/pkg/models"
)

// PageFetcher retrieves and parses one page
type PageFetcher interface {
	Fetch(ctx context.Context, opts models.RequestOptions) (*static.Page, error)
}

// FormatError renders err the way the form surface shows it
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return "Error: " + err.Error()
}
