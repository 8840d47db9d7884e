// internal/cli/get.go
package cli

import (
	"fmt"

	"github.com/law-makers/storescrape/internal/config"
	"github.com/law-makers/storescrape/internal/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <url-or-path>",
	Short: "Scrape one product page into a zip archive",
	Long: `Scrapes a single product page: its title, description, thumbnails and main
image are saved under {output}/{name}/ and the folder is zipped to
{output}/{name}.zip.

Anything not starting with "http" is treated as a path on the storefront.`,
	Example: `  # Full URL
  storescrape get https://globalvt-cosmetics.com/products/reedle-shot-100

  # Path on the default storefront
  storescrape get /products/reedle-shot-100

  # Keep the folder, skip the zip
  storescrape get /products/reedle-shot-100 --no-archive`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
	config.RegisterGetFlags(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	log.Info().Str("input", args[0]).Msg("Scraping product")
	path, err := a.Single().Run(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	log.Info().Str("file", path).Msg("Output saved")
	fmt.Printf("%s Saved to %s\n", ui.Success("✓"), path)
	return nil
}
