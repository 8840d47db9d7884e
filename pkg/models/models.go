package models

import "time"

// ProductRecord is the data extracted from a single product page.
type ProductRecord struct {
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	DescriptionHTML string   `json:"-"`
	ImageURLs       []string `json:"image_urls,omitempty"`
}

// ProductResult is the outcome of processing one product URL in a pipeline run.
type ProductResult struct {
	URL           string        `json:"url"`
	Title         string        `json:"title,omitempty"`
	MatchedTarget string        `json:"matched_target,omitempty"`
	Folder        string        `json:"folder,omitempty"`
	Images        int           `json:"images"`
	FailedImages  int           `json:"failed_images"`
	Skipped       bool          `json:"skipped"`
	Err           error         `json:"-"`
	Duration      time.Duration `json:"duration"`
}

// Saved reports whether the product was written to disk.
func (r ProductResult) Saved() bool {
	return !r.Skipped && r.Err == nil && r.Folder != ""
}

// RequestOptions contains options for a single page fetch
type RequestOptions struct {
	URL          string
	StrictStatus bool
}
