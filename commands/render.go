package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/penwyp/go-daylog/internal/site"
	"github.com/spf13/cobra"
)

var (
	renderIndex       string
	renderOut         string
	renderCheckImages bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the JSON embedded in a page",
	Long: `Reads the data-json script of a page and renders its days into the page.
A page whose embedded JSON is empty or malformed is left as it is.`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVar(&renderIndex, "index", "", "Page to render (default from config)")
	renderCmd.Flags().StringVar(&renderOut, "out", "", "Output path (default: overwrite the page)")
	renderCmd.Flags().BoolVar(&renderCheckImages, "check-images", false,
		"Check image candidates on disk and drop unloadable images")
}

func runRender(cmd *cobra.Command, args []string) error {
	in := firstNonEmpty(renderIndex, cfg.Site.Index)
	out := firstNonEmpty(renderOut, in)

	r := site.NewRenderer(cfg.Site.AssetURL, cfg.Site.FallbackRoot,
		cfg.Build.CheckImages || renderCheckImages, filepath.Dir(out))
	rendered, err := site.RenderPage(cmd.Context(), r, in, out)
	if err != nil {
		return err
	}

	if rendered {
		fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s\n", out)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "No usable data in %s, page left unchanged\n", in)
	}
	return nil
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := ensureDir(dir); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
