package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/law-makers/storescrape/internal/downloader"
	"github.com/law-makers/storescrape/pkg/models"
	"github.com/rs/zerolog/log"
)

// DescriptionFile is the name of the description text file in each folder
const DescriptionFile = "description.txt"

// Writer persists product records under a root directory
type Writer struct {
	root     string
	pool     *downloader.WorkerPool
	names    *NameRegistry
	markdown bool
}

// WriteResult summarises one WriteProduct call
type WriteResult struct {
	Folder string
	Images []*downloader.Result
}

// Saved returns the number of images written
func (w WriteResult) Saved() int {
	n := 0
	for _, r := range w.Images {
		if r.Success {
			n++
		}
	}
	return n
}

// Failed returns the number of images that could not be downloaded
func (w WriteResult) Failed() int {
	return len(w.Images) - w.Saved()
}

// NewWriter creates a Writer. When markdown is set a description.md is written
// next to description.txt.
func NewWriter(root string, pool *downloader.WorkerPool, markdown bool) *Writer {
	return &Writer{
		root:     root,
		pool:     pool,
		names:    NewNameRegistry(),
		markdown: markdown,
	}
}

// Root returns the output root directory
func (w *Writer) Root() string {
	return w.root
}

// FolderName reserves the folder name for a title within this writer's run
func (w *Writer) FolderName(title string) string {
	return w.names.Reserve(title)
}

// WriteProduct creates {root}/{name}, writes the description and downloads
// every image to {name}_{i}{ext}. Image failures are logged and reported in
// the result; only folder and description errors are returned.
func (w *Writer) WriteProduct(ctx context.Context, name string, record *models.ProductRecord) (*WriteResult, error) {
	folder := filepath.Join(w.root, name)
	if err := os.MkdirAll(folder, 0755); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	if err := os.WriteFile(filepath.Join(folder, DescriptionFile), []byte(record.Description), 0644); err != nil {
		return nil, fmt.Errorf("failed to write description: %w", err)
	}

	if w.markdown && record.DescriptionHTML != "" {
		if err := SaveMarkdown(record, filepath.Join(folder, "description.md")); err != nil {
			log.Warn().Err(err).Str("folder", folder).Msg("Failed to write markdown description")
		}
	}

	jobs := make([]downloader.Job, 0, len(record.ImageURLs))
	for i, imgURL := range record.ImageURLs {
		filename := fmt.Sprintf("%s_%d%s", name, i+1, ImageExt(imgURL))
		jobs = append(jobs, downloader.Job{URL: imgURL, FilePath: filepath.Join(folder, filename)})
	}

	results := w.pool.DownloadBatch(ctx, jobs)
	for _, r := range results {
		if r.Success {
			log.Info().Str("file", r.FilePath).Msg("Saved image")
			continue
		}
		log.Warn().Err(r.Error).Str("url", r.URL).Msg("Failed to download image")
	}

	return &WriteResult{Folder: folder, Images: results}, nil
}
