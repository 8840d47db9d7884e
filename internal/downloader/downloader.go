// internal/downloader/downloader.go
package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/law-makers/storescrape/internal/engine"
	"github.com/law-makers/storescrape/internal/ratelimit"
	"github.com/rs/zerolog/log"
)

// Job is one file to fetch and the exact path to write it to
type Job struct {
	URL      string
	FilePath string
}

// Result represents the result of a download operation
type Result struct {
	URL       string
	FilePath  string
	Size      int64
	Success   bool
	Error     error
	StartTime time.Time
	Duration  time.Duration
}

// Downloader streams remote files to disk
type Downloader struct {
	client    *http.Client
	userAgent string
	limiter   ratelimit.RateLimiter
}

// NewDownloader creates a Downloader sharing the given client and limiter.
// A nil limiter disables throttling.
func NewDownloader(client *http.Client, userAgent string, limiter ratelimit.RateLimiter) *Downloader {
	if client == nil {
		client = &http.Client{}
	}
	return &Downloader{
		client:    client,
		userAgent: userAgent,
		limiter:   limiter,
	}
}

// Download fetches job.URL into job.FilePath. Failures are reported through
// Result.Error as *engine.ImageDownloadError and never panic or abort.
func (d *Downloader) Download(ctx context.Context, job Job) *Result {
	result := &Result{
		URL:       job.URL,
		FilePath:  job.FilePath,
		StartTime: time.Now(),
	}

	fail := func(err error) *Result {
		result.Error = &engine.ImageDownloadError{URL: job.URL, Path: job.FilePath, Err: err}
		result.Duration = time.Since(result.StartTime)
		return result
	}

	if _, err := url.ParseRequestURI(job.URL); err != nil {
		return fail(fmt.Errorf("invalid URL: %w", err))
	}

	if err := os.MkdirAll(filepath.Dir(job.FilePath), 0755); err != nil {
		return fail(fmt.Errorf("failed to create output directory: %w", err))
	}

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx, job.URL); err != nil {
			return fail(err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.URL, nil)
	if err != nil {
		return fail(fmt.Errorf("failed to create request: %w", err))
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fail(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(fmt.Errorf("bad status: %s", resp.Status))
	}

	outFile, err := os.Create(job.FilePath)
	if err != nil {
		return fail(fmt.Errorf("failed to create file: %w", err))
	}

	// Stream to disk
	bytesWritten, err := io.Copy(outFile, resp.Body)
	closeErr := outFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(job.FilePath)
		return fail(fmt.Errorf("failed to write file: %w", err))
	}

	result.Size = bytesWritten
	result.Success = true
	result.Duration = time.Since(result.StartTime)

	log.Debug().
		Str("url", job.URL).
		Str("file", job.FilePath).
		Int64("bytes", bytesWritten).
		Dur("duration", result.Duration).
		Msg("Download completed")

	return result
}
