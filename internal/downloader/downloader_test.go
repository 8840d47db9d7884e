package downloader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/law-makers/storescrape/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDownloader() *Downloader {
	return NewDownloader(&http.Client{Timeout: 10 * time.Second}, "Mozilla/5.0", nil)
}

func TestDownload_Success(t *testing.T) {
	content := "jpeg bytes"
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(content))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "nested", "serum_1.jpg")
	result := newTestDownloader().Download(context.Background(), Job{URL: server.URL + "/a.jpg", FilePath: path})

	require.True(t, result.Success, "download failed: %v", result.Error)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
	assert.Equal(t, int64(len(content)), result.Size)
	assert.Equal(t, "Mozilla/5.0", gotUA)
}

func TestDownload_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "missing_1.jpg")
	result := newTestDownloader().Download(context.Background(), Job{URL: server.URL + "/missing.jpg", FilePath: path})

	assert.False(t, result.Success)
	assert.True(t, errors.Is(result.Error, engine.ErrImageDownload))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no file should be left behind")
}

func TestDownload_InvalidURL(t *testing.T) {
	result := newTestDownloader().Download(context.Background(), Job{URL: "not a url", FilePath: filepath.Join(t.TempDir(), "x")})

	var dlErr *engine.ImageDownloadError
	require.ErrorAs(t, result.Error, &dlErr)
	assert.Equal(t, "not a url", dlErr.URL)
}

func TestWorkerPool_PreservesOrder(t *testing.T) {
	var inFlight, peak int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		w.Write([]byte(r.URL.Path))
	}))
	defer server.Close()

	dir := t.TempDir()
	jobs := []Job{
		{URL: server.URL + "/1.jpg", FilePath: filepath.Join(dir, "p_1.jpg")},
		{URL: server.URL + "/2.jpg", FilePath: filepath.Join(dir, "p_2.jpg")},
		{URL: server.URL + "/3.jpg", FilePath: filepath.Join(dir, "p_3.jpg")},
	}

	pool := NewWorkerPool(newTestDownloader(), 2)
	results := pool.DownloadBatch(context.Background(), jobs)

	require.Len(t, results, len(jobs))
	for i, r := range results {
		assert.True(t, r.Success, "job %d failed: %v", i, r.Error)
		assert.Equal(t, jobs[i].FilePath, r.FilePath)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestWorkerPool_ClampsConcurrency(t *testing.T) {
	assert.Equal(t, 1, NewWorkerPool(newTestDownloader(), 0).Concurrency())
	assert.Equal(t, MaxWorkers, NewWorkerPool(newTestDownloader(), 500).Concurrency())
}

func TestWorkerPool_Empty(t *testing.T) {
	results := NewWorkerPool(newTestDownloader(), 3).DownloadBatch(context.Background(), nil)
	assert.Empty(t, results)
}
