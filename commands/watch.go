package commands

import (
	"fmt"
	"time"

	"github.com/penwyp/go-daylog/internal/site"
	"github.com/penwyp/go-daylog/internal/util"
	"github.com/spf13/cobra"
)

var (
	watchFlags    siteFlags
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the page whenever a daily note changes",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchFlags.register(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0,
		"Quiet period before rebuilding (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	sc, err := watchFlags.siteConfig(cfg)
	if err != nil {
		return err
	}

	debounce := cfg.GetDebounce()
	if watchDebounce > 0 {
		debounce = watchDebounce
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", sc.VaultDaily)

	return site.NewBuilder(sc).Watch(cmd.Context(), debounce, func(res *site.Result, err error) {
		if err != nil {
			util.LogError("Build failed", util.F("error", err))
			fmt.Fprintf(out, "[%s] build failed: %v\n", time.Now().Format("15:04:05"), err)
			return
		}
		fmt.Fprintf(out, "[%s] ", time.Now().Format("15:04:05"))
		printBuildReport(out, sc, res)
	})
}
