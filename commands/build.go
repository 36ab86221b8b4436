package commands

import (
	"fmt"
	"io"

	"github.com/penwyp/go-daylog/internal/site"
	"github.com/spf13/cobra"
)

var buildFlags siteFlags

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the page for a date range",
	Long: `Parses the daily notes in the range, writes data.json, copies the referenced
images into the site, embeds the data into the index page, renders it and
writes a dated copy named index-YYYYMMDD-YYYYMMDD.html.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildFlags.register(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	sc, err := buildFlags.siteConfig(cfg)
	if err != nil {
		return err
	}

	res, err := site.NewBuilder(sc).Run(cmd.Context())
	if err != nil {
		return err
	}
	printBuildReport(cmd.OutOrStdout(), sc, res)
	return nil
}

func printBuildReport(w io.Writer, sc site.Config, res *site.Result) {
	if sc.DataPath != "" {
		fmt.Fprintf(w, "Wrote %d day(s) into %s and embedded into %s\n", res.Days, sc.DataPath, res.IndexPath)
	} else {
		fmt.Fprintf(w, "Embedded %d day(s) into %s\n", res.Days, res.IndexPath)
	}
	fmt.Fprintf(w, "Also wrote range file: %s\n", res.RangePath)

	if len(res.Failed) > 0 {
		fmt.Fprintln(w, "Notes that could not be read (skipped):")
		for _, f := range res.Failed {
			fmt.Fprintf(w, " - %s\n", f)
		}
	}

	if !sc.CopyImages {
		return
	}
	fmt.Fprintf(w, "Images copied: %d -> %s\n", res.Images.Copied, sc.SiteImages)
	if len(res.Images.Missing) > 0 {
		fmt.Fprintln(w, "Images not found (skipped):")
		for _, m := range res.Images.Missing {
			fmt.Fprintf(w, " - %s\n", m)
		}
	}
}
