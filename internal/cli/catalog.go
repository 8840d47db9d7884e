// internal/cli/catalog.go
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/law-makers/storescrape/internal/config"
	"github.com/law-makers/storescrape/internal/output"
	"github.com/law-makers/storescrape/internal/ui"
	"github.com/law-makers/storescrape/pkg/models"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Scrape catalog products matching a target spreadsheet",
	Long: `Reads the storefront's full product listing and fuzzy-matches every product
title against the target names in a spreadsheet column.

Matched products are saved as {output}/{name}/description.txt plus their
thumbnail images. Unmatched products are skipped. A failing product never stops
the run; a failing listing page does.`,
	Example: `  # Scrape with the default spreadsheet and column
  storescrape catalog

  # Use an Excel workbook and a stricter match
  storescrape catalog --targets prices.xlsx --threshold 90

  # Four products at a time, with a CSV report
  storescrape catalog -c 4 --image-workers 4 --report report.csv`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	config.RegisterCatalogFlags(catalogCmd)
}

// jsonResult adds the error text that ProductResult does not marshal
type jsonResult struct {
	models.ProductResult
	Error string `json:"error,omitempty"`
}

func runCatalog(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}
	cfg := a.Config

	log.Debug().
		Str("targets", cfg.TargetsPath).
		Str("column", cfg.Column).
		Int("threshold", cfg.Threshold).
		Int("concurrency", cfg.Concurrency).
		Str("output", cfg.OutputDir).
		Msg("Starting catalog run")

	var bar *progressbar.ProgressBar
	onListing := func(total int) {
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Scraping products"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetVisibility(!cfg.JSONLog && cfg.LogLevel != "error"),
		)
	}
	onProduct := func(models.ProductResult) {
		if bar != nil {
			bar.Add(1)
		}
	}

	start := time.Now()
	results, runErr := a.Catalog(onListing, onProduct).Run(cmd.Context())
	if bar != nil {
		bar.Finish()
	}

	if cfg.Report != "" && len(results) > 0 {
		if err := output.SaveReport(results, cfg.Report); err != nil {
			log.Error().Err(err).Str("file", cfg.Report).Msg("Failed to write report")
		} else {
			log.Info().Str("file", cfg.Report).Msg("Report saved")
		}
	}

	if runErr != nil && results == nil {
		return runErr
	}

	if cfg.JSONLog {
		if err := printJSONResults(results); err != nil {
			return err
		}
	} else {
		printSummary(results, cfg.OutputDir, time.Since(start))
	}

	return runErr
}

func printJSONResults(results []models.ProductResult) error {
	out := make([]jsonResult, 0, len(results))
	for _, r := range results {
		jr := jsonResult{ProductResult: r}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		out = append(out, jr)
	}

	content, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Println(string(content))
	return nil
}

type runCounts struct {
	saved, skipped, failed, images, failedImages int
}

// countResults tallies a catalog run. Skipped products count as skipped even
// when they carry an error, as a missing title does.
func countResults(results []models.ProductResult) runCounts {
	var c runCounts
	for _, r := range results {
		switch {
		case r.Saved():
			c.saved++
		case r.Skipped:
			c.skipped++
		case r.Err != nil:
			c.failed++
		}
		c.images += r.Images
		c.failedImages += r.FailedImages
	}
	return c
}

func printSummary(results []models.ProductResult, outputDir string, elapsed time.Duration) {
	counts := countResults(results)
	saved, skipped, failed := counts.saved, counts.skipped, counts.failed
	images, failedImages := counts.images, counts.failedImages

	if saved > 0 {
		fmt.Println("\n" + ui.Bold("Saved products:"))
		fmt.Println(strings.Repeat("=", 80))
		for _, r := range results {
			if !r.Saved() {
				continue
			}
			fmt.Printf("%s %s %s\n", ui.Success("✓"), ui.Value(r.Title), ui.Dim("("+r.MatchedTarget+")"))
			fmt.Printf("  %s %s  %s %d\n", ui.Dim("Folder:"), ui.Value(r.Folder), ui.Dim("Images:"), r.Images)
		}
		fmt.Println(strings.Repeat("=", 80))
	}

	fmt.Printf("\n%s\n", ui.Bold("Summary:"))
	fmt.Println(ui.Field("Products:", ui.Value(fmt.Sprintf("%d", len(results)))))
	fmt.Println(ui.Field("Saved:", ui.Success(fmt.Sprintf("%d", saved))))
	fmt.Println(ui.Field("Skipped:", ui.Info(fmt.Sprintf("%d", skipped))))
	fmt.Println(ui.Field("Failed:", ui.Error(fmt.Sprintf("%d", failed))))
	fmt.Println(ui.Field("Images:", ui.Value(fmt.Sprintf("%d saved, %d failed", images, failedImages))))
	fmt.Println(ui.Field("Elapsed:", ui.Value(elapsed.Round(time.Millisecond).String())))
	fmt.Println(ui.Field("Output Directory:", ui.Value(outputDir)))
}
