// internal/engine/errors.go
package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for classifying failures with errors.Is
var (
	ErrFetch          = errors.New("fetch failed")
	ErrTitleNotFound  = errors.New("title not found")
	ErrImageDownload  = errors.New("image download failed")
	ErrInvalidURL     = errors.New("invalid URL")
	ErrParseError     = errors.New("failed to parse response")
	ErrListingFailure = errors.New("catalog listing unavailable")
)

// FetchError is returned when a page cannot be retrieved, either because of a
// network failure (StatusCode == 0) or a non-success status code.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch URL: %s (status code: %d)", e.URL, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch URL: %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to fetch URL: %s", e.URL)
}

// Unwrap returns the underlying network error, if any
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches ErrFetch
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// GetStatusCode lets the retry package classify the error
func (e *FetchError) GetStatusCode() int {
	return e.StatusCode
}

// NewFetchError creates a FetchError for a bad status code
func NewFetchError(url string, statusCode int) *FetchError {
	return &FetchError{URL: url, StatusCode: statusCode}
}

// TitleNotFoundError means the page does not match the storefront template.
type TitleNotFoundError struct {
	URL string
}

func (e *TitleNotFoundError) Error() string {
	if e.URL == "" {
		return "title not found"
	}
	return fmt.Sprintf("title not found for %s", e.URL)
}

// Is matches ErrTitleNotFound
func (e *TitleNotFoundError) Is(target error) bool {
	return target == ErrTitleNotFound
}

// ImageDownloadError describes a single failed image. It is never fatal.
type ImageDownloadError struct {
	URL  string
	Path string
	Err  error
}

func (e *ImageDownloadError) Error() string {
	return fmt.Sprintf("failed to download %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error
func (e *ImageDownloadError) Unwrap() error {
	return e.Err
}

// Is matches ErrImageDownload
func (e *ImageDownloadError) Is(target error) bool {
	return target == ErrImageDownload
}
