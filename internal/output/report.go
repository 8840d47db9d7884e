package output

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/law-makers/storescrape/pkg/models"
)

var reportHeader = []string{"url", "title", "matched_target", "folder", "images", "failed_images", "status", "error"}

// SaveReport writes one CSV row per product result
func SaveReport(results []models.ProductResult, filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(reportHeader); err != nil {
		return err
	}

	for _, r := range results {
		errMsg := ""
		if r.Err != nil {
			errMsg = r.Err.Error()
		}
		row := []string{
			r.URL,
			r.Title,
			r.MatchedTarget,
			r.Folder,
			strconv.Itoa(r.Images),
			strconv.Itoa(r.FailedImages),
			status(r),
			errMsg,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}

func status(r models.ProductResult) string {
	switch {
	case r.Err != nil:
		return "error"
	case r.Skipped:
		return "skipped"
	default:
		return "saved"
	}
}
