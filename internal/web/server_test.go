package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/law-makers/storescrape/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScraper struct {
	path string
	err  error
	got  string
}

func (f *fakeScraper) Run(ctx context.Context, input string) (string, error) {
	f.got = input
	return f.path, f.err
}

func postScrape(t *testing.T, s *Server, input string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"url": {input}}
	req := httptest.NewRequest(http.MethodPost, "/scrape", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestForm(t *testing.T) {
	s := NewServer(&fakeScraper{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>"+FormTitle+"</title>")
	assert.Contains(t, rec.Body.String(), `name="url"`)
}

func TestScrape_ReturnsArchive(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "cica_cream.zip")
	require.NoError(t, os.WriteFile(zipPath, []byte("PK-fake"), 0644))

	scraper := &fakeScraper{path: zipPath}
	rec := postScrape(t, NewServer(scraper), "/products/cica")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/products/cica", scraper.got)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="cica_cream.zip"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK-fake", rec.Body.String())
}

func TestScrape_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		text   string
	}{
		{
			name:   "fetch",
			err:    engine.NewFetchError("https://shop.example.com/products/x", 404),
			status: http.StatusUnprocessableEntity,
			text:   "Error: failed to fetch URL: https://shop.example.com/products/x (status code: 404)",
		},
		{
			name:   "title",
			err:    &engine.TitleNotFoundError{URL: "https://shop.example.com/"},
			status: http.StatusUnprocessableEntity,
			text:   "Error: title not found for https://shop.example.com/",
		},
		{
			name:   "io",
			err:    errors.New("disk full"),
			status: http.StatusInternalServerError,
			text:   "Error: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postScrape(t, NewServer(&fakeScraper{err: tt.err}), "<b>input</b>")

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.text)
			// user input is escaped when echoed back
			assert.Contains(t, rec.Body.String(), "&lt;b&gt;input&lt;/b&gt;")
		})
	}
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	NewServer(&fakeScraper{}).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestListenAndServe_Shutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewServer(&fakeScraper{}).ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	assert.NoError(t, <-done)
}
