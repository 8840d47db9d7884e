package output

import (
	"archive/zip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/law-makers/storescrape/internal/downloader"
	"github.com/law-makers/storescrape/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken.jpg" {
			http.Error(w, "gone", http.StatusGone)
			return
		}
		w.Write([]byte("img:" + r.URL.Path))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestWriter(root string, markdown bool) *Writer {
	dl := downloader.NewDownloader(&http.Client{Timeout: 5 * time.Second}, "Mozilla/5.0", nil)
	return NewWriter(root, downloader.NewWorkerPool(dl, 1), markdown)
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestWriteProduct(t *testing.T) {
	server := newImageServer(t)
	root := t.TempDir()
	w := newTestWriter(root, false)

	record := &models.ProductRecord{
		Title:       "VT Reedle Shot 100",
		Description: "Line one\nLine two",
		ImageURLs: []string{
			server.URL + "/a.jpg?v=2",
			server.URL + "/broken.jpg",
			server.URL + "/c.png",
		},
	}

	name := w.FolderName(record.Title)
	res, err := w.WriteProduct(context.Background(), name, record)
	require.NoError(t, err)

	folder := filepath.Join(root, "vt_reedle_shot_100")
	assert.Equal(t, folder, res.Folder)
	assert.Equal(t, 2, res.Saved())
	assert.Equal(t, 1, res.Failed())

	desc, err := os.ReadFile(filepath.Join(folder, DescriptionFile))
	require.NoError(t, err)
	assert.Equal(t, "Line one\nLine two", string(desc))

	assert.Equal(t, []string{
		"description.txt",
		"vt_reedle_shot_100_1.jpg",
		"vt_reedle_shot_100_3.png",
	}, listDir(t, folder))

	img, err := os.ReadFile(filepath.Join(folder, "vt_reedle_shot_100_1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "img:/a.jpg", string(img))
}

func TestWriteProduct_OverwritesDescription(t *testing.T) {
	root := t.TempDir()
	w := newTestWriter(root, false)
	record := &models.ProductRecord{Title: "Serum", Description: "a much longer first description"}

	_, err := w.WriteProduct(context.Background(), "serum", record)
	require.NoError(t, err)

	record.Description = "short"
	_, err = w.WriteProduct(context.Background(), "serum", record)
	require.NoError(t, err)

	desc, err := os.ReadFile(filepath.Join(root, "serum", DescriptionFile))
	require.NoError(t, err)
	assert.Equal(t, "short", string(desc))
}

func TestWriteProduct_Markdown(t *testing.T) {
	root := t.TempDir()
	w := newTestWriter(root, true)
	record := &models.ProductRecord{
		URL:             "https://shop.example.com/products/serum",
		Title:           "Serum",
		Description:     "Hydrating",
		DescriptionHTML: `<p><strong>Hydrating</strong> <a href="/pages/usage">usage</a></p><script>x()</script>`,
	}

	_, err := w.WriteProduct(context.Background(), "serum", record)
	require.NoError(t, err)

	md, err := os.ReadFile(filepath.Join(root, "serum", "description.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Serum")
	assert.Contains(t, string(md), "**Hydrating**")
	assert.Contains(t, string(md), "(https://shop.example.com/pages/usage)")
	assert.NotContains(t, string(md), "x()")
}

func TestArchiveFolder(t *testing.T) {
	root := t.TempDir()
	folder := filepath.Join(root, "serum")
	require.NoError(t, os.MkdirAll(folder, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "description.txt"), []byte("desc"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "serum_1.jpg"), []byte("jpg"), 0644))

	// stale archive is replaced
	require.NoError(t, os.WriteFile(folder+".zip", []byte("stale"), 0644))

	zipPath, err := ArchiveFolder(folder)
	require.NoError(t, err)
	assert.Equal(t, folder+".zip", zipPath)

	zr, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"description.txt", "serum_1.jpg"}, names)
}

func TestArchiveFolder_Missing(t *testing.T) {
	_, err := ArchiveFolder(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestSaveReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	results := []models.ProductResult{
		{URL: "u1", Title: "A", MatchedTarget: "a", Folder: "out/a", Images: 2},
		{URL: "u2", Title: "B", Skipped: true},
		{URL: "u3", Err: os.ErrNotExist},
	}

	require.NoError(t, SaveReport(results, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"url,title,matched_target,folder,images,failed_images,status,error\n"+
			"u1,A,a,out/a,2,0,saved,\n"+
			"u2,B,,,0,0,skipped,\n"+
			"u3,,,,0,0,error,file does not exist\n",
		string(data))
}
