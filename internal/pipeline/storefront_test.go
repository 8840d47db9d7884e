package pipeline

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/law-makers/storescrape/internal/downloader"
	"github.com/law-makers/storescrape/internal/engine/static"
	"github.com/law-makers/storescrape/internal/output"
	"github.com/law-makers/storescrape/internal/retry"
	"github.com/law-makers/storescrape/internal/targets"
	"github.com/stretchr/testify/require"
)

const listingHTML = `<!DOCTYPE html>
<html><body>
	<a class="full-unstyled-link" href="/products/reedle">VT Reedle Shot 100</a>
	<a class="full-unstyled-link" href="/products/reedle">VT Reedle Shot 100</a>
	<a class="full-unstyled-link" href="/products/cica">Cica Cream</a>
	<a class="full-unstyled-link" href="/products/toner">Hydrating Toner</a>
	<a class="full-unstyled-link" href="/products/broken">Broken</a>
	<a class="full-unstyled-link" href="/pages/about">About</a>
</body></html>`

const reedleHTML = `<!DOCTYPE html>
<html><body>
	<h2 class="h1">VT Reedle Shot 100</h2>
	<div class="product__description"><p>Micro needle essence</p><p>50ml</p></div>
	<div class="product__media media--transparent"><img src="/files/main.webp"></div>
	<ul class="thumbnail-list">
		<li><img src="/files/a.jpg?v=1"></li>
		<li><img src="/files/a.jpg?v=1"></li>
		<li><img src="/files/b.png"></li>
	</ul>
</body></html>`

const cicaHTML = `<!DOCTYPE html>
<html><body>
	<h2 class="h1">Cica Cream</h2>
	<ul class="thumbnail-list"><li><img src="/files/missing.jpg"></li></ul>
</body></html>`

const tonerHTML = `<!DOCTYPE html>
<html><body><h2 class="h1">Hydrating Toner</h2></body></html>`

// newStorefront serves a tiny storefront. When listingStatus is not 200 the
// listing page fails.
func newStorefront(t *testing.T, listingStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	page := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(body))
		}
	}
	mux.HandleFunc("/collections/all", func(w http.ResponseWriter, r *http.Request) {
		if listingStatus != http.StatusOK {
			http.Error(w, "down", listingStatus)
			return
		}
		w.Write([]byte(listingHTML))
	})
	mux.HandleFunc("/products/reedle", page(reedleHTML))
	mux.HandleFunc("/products/cica", page(cicaHTML))
	mux.HandleFunc("/products/toner", page(tonerHTML))
	mux.HandleFunc("/products/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusInternalServerError)
	})
	mux.HandleFunc("/files/missing.jpg", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("image " + r.URL.Path))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newFetcher() *static.Fetcher {
	return static.New(&http.Client{Timeout: 5 * time.Second}, nil, retry.DefaultConfig(), "Mozilla/5.0", nil)
}

func newWriter(root string) *output.Writer {
	dl := downloader.NewDownloader(&http.Client{Timeout: 5 * time.Second}, "Mozilla/5.0", nil)
	return output.NewWriter(root, downloader.NewWorkerPool(dl, 2), false)
}

func writeTargets(t *testing.T, names ...string) string {
	t.Helper()
	content := targets.DefaultColumn + "\n"
	for _, n := range names {
		content += n + "\n"
	}
	path := filepath.Join(t.TempDir(), "targets.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
