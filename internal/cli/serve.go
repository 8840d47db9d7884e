// internal/cli/serve.go
package cli

import (
	"fmt"

	"github.com/law-makers/storescrape/internal/config"
	"github.com/law-makers/storescrape/internal/web"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a web form that scrapes one product into a zip",
	Long: `Starts an HTTP server with a single form. Submitting a product URL or path
runs the same scrape as "storescrape get" and returns the zip archive as a
download, or shows the error.`,
	Example: `  # Listen on the default address
  storescrape serve

  # Listen on localhost only
  storescrape serve --addr 127.0.0.1:8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	config.RegisterServeFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	// downloads always need the archive
	a.Config.NoArchive = false

	return web.NewServer(a.Single()).ListenAndServe(cmd.Context(), a.Config.Addr)
}
