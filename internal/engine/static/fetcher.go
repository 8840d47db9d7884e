// internal/engine/static/fetcher.go
package static

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/storescrape/internal/engine"
	"github.com/law-makers/storescrape/internal/ratelimit"
	"github.com/law-makers/storescrape/internal/retry"
	"github.com/law-makers/storescrape/pkg/models"
	"github.com/rs/zerolog/log"
)

// Page is a fetched and parsed HTML document. It lives for one request only.
// URL is the address the document was served from after redirects.
type Page struct {
	URL          string
	StatusCode   int
	Doc          *goquery.Document
	ResponseTime time.Duration
}

// Fetcher retrieves storefront pages over plain HTTP and parses them with goquery
type Fetcher struct {
	client    *http.Client
	limiter   ratelimit.RateLimiter
	retry     retry.Config
	userAgent string
	headers   map[string]string
}

// New creates a Fetcher. A nil limiter disables throttling.
func New(client *http.Client, limiter ratelimit.RateLimiter, retryCfg retry.Config, userAgent string, headers map[string]string) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{
		client:    client,
		limiter:   limiter,
		retry:     retryCfg,
		userAgent: userAgent,
		headers:   headers,
	}
}

// Name returns the name of this fetcher
func (f *Fetcher) Name() string {
	return "StaticFetcher"
}

// Fetch retrieves and parses a page. With opts.StrictStatus a non-2xx response
// is a *engine.FetchError; without it the body is parsed whatever the status.
func (f *Fetcher) Fetch(ctx context.Context, opts models.RequestOptions) (*Page, error) {
	var page *Page
	err := retry.Do(ctx, f.retry, func() error {
		p, err := f.fetchOnce(ctx, opts)
		if err != nil {
			return err
		}
		page = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, opts models.RequestOptions) (*Page, error) {
	start := time.Now()

	log.Debug().
		Str("url", opts.URL).
		Str("fetcher", f.Name()).
		Bool("strict", opts.StrictStatus).
		Msg("Starting fetch")

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, opts.URL); err != nil {
			return nil, &engine.FetchError{URL: opts.URL, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return nil, &engine.FetchError{URL: opts.URL, Err: fmt.Errorf("%w: %v", engine.ErrInvalidURL, err)}
	}

	req.Header.Set("User-Agent", f.userAgent)
	for key, value := range f.headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &engine.FetchError{URL: opts.URL, Err: err}
	}
	defer resp.Body.Close()

	if opts.StrictStatus && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return nil, engine.NewFetchError(opts.URL, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn().
			Str("url", opts.URL).
			Int("status", resp.StatusCode).
			Msg("Non-success status, parsing body anyway")
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrParseError, err)
	}

	finalURL := opts.URL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	page := &Page{
		URL:          finalURL,
		StatusCode:   resp.StatusCode,
		Doc:          doc,
		ResponseTime: time.Since(start),
	}

	log.Debug().
		Str("url", opts.URL).
		Int("status", resp.StatusCode).
		Int64("response_time_ms", page.ResponseTime.Milliseconds()).
		Msg("Fetch completed")

	return page, nil
}
