package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Log in JSON format")
	cmd.PersistentFlags().String("config", "", "Path to configuration file (optional)")
	cmd.PersistentFlags().String("proxy", "", "HTTP proxy, or a comma separated list to rotate through")
	cmd.PersistentFlags().Duration("timeout", DefaultHTTPTimeout, "Timeout for each HTTP request (0 = none)")
	cmd.PersistentFlags().String("user-agent", DefaultUserAgent, "User-Agent header sent with every request")
	cmd.PersistentFlags().String("base-url", DefaultBaseURL, "Storefront origin")
	cmd.PersistentFlags().StringP("output", "o", DefaultOutputDir, "Root directory for product folders")
	cmd.PersistentFlags().Int("retries", DefaultRetries, "Extra attempts for failed page fetches")
	cmd.PersistentFlags().StringArrayP("header", "H", nil, `Extra request header, repeatable (e.g. -H "Accept-Language: en")`)
	cmd.PersistentFlags().Float64("rate-limit", DefaultRateLimitRPS, "Requests per second per host (0 = unlimited)")
}

// RegisterCatalogFlags registers the flags of the catalog command
func RegisterCatalogFlags(cmd *cobra.Command) {
	cmd.Flags().String("targets", DefaultTargetsPath, "Spreadsheet (.csv, .xlsx) holding target product names")
	cmd.Flags().String("column", DefaultColumn, "Header of the column holding target names")
	cmd.Flags().Int("threshold", DefaultThreshold, "Minimum fuzzy match score (1-100)")
	cmd.Flags().IntP("concurrency", "c", DefaultConcurrency, "Products processed at once (0 = auto)")
	cmd.Flags().Int("image-workers", DefaultImageWorkers, "Concurrent image downloads per product")
	cmd.Flags().Bool("strict", false, "Treat non-2xx product pages as errors")
	cmd.Flags().Bool("markdown", false, "Also write description.md")
	cmd.Flags().String("report", "", "Write a CSV report of every product to this path")
}

// RegisterGetFlags registers the flags of the get command
func RegisterGetFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-archive", false, "Keep the folder without creating a zip")
	cmd.Flags().Bool("markdown", false, "Also write description.md")
	cmd.Flags().Int("image-workers", DefaultImageWorkers, "Concurrent image downloads")
}

// RegisterServeFlags registers the flags of the serve command
func RegisterServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("addr", DefaultAddr, "Listen address")
	cmd.Flags().Int("image-workers", DefaultImageWorkers, "Concurrent image downloads")
}
