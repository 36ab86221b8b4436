package commands

import (
	"fmt"
	"os"

	"github.com/penwyp/go-daylog/internal/core/model"
	"github.com/penwyp/go-daylog/internal/presentation/formatter"
	"github.com/penwyp/go-daylog/internal/site"
	"github.com/spf13/cobra"
)

var (
	summaryStart      string
	summaryEnd        string
	summaryData       string
	summaryVaultDaily string
	summaryOutput     string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print a per-day summary of sleep, exercise and diet",
	Long: `Summarizes days either from the notes in a date range (--start/--end) or from
a JSON document such as data.json (--data).`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&summaryStart, "start", "", "Start date (MM-DD or YYYY-MM-DD)")
	summaryCmd.Flags().StringVar(&summaryEnd, "end", "", "End date (MM-DD or YYYY-MM-DD)")
	summaryCmd.Flags().StringVar(&summaryData, "data", "", "Read days from a JSON document instead of notes")
	summaryCmd.Flags().StringVar(&summaryVaultDaily, "vault-daily", "", "Daily notes directory (default from config)")
	summaryCmd.Flags().StringVarP(&summaryOutput, "output", "o", "table",
		"Output format (table, json, csv, summary)")
}

func runSummary(cmd *cobra.Command, args []string) error {
	days, err := summaryDays(cmd)
	if err != nil {
		return err
	}

	f, err := formatter.New(summaryOutput, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if table, ok := f.(*formatter.TableFormatter); ok && cmd.OutOrStdout() == os.Stdout {
		table.WithTerminal()
	}
	return f.Format(formatter.SummarizeDays(days))
}

func summaryDays(cmd *cobra.Command) ([]model.LogDay, error) {
	if summaryData != "" {
		raw, err := os.ReadFile(summaryData)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", summaryData, err)
		}
		doc, err := model.ParseDocument(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", summaryData, err)
		}
		return doc.Days, nil
	}

	if summaryStart == "" || summaryEnd == "" {
		return nil, fmt.Errorf("either --data or both --start and --end are required")
	}
	start, end, err := parseRange(summaryStart, summaryEnd, cfg.Build.DefaultYear)
	if err != nil {
		return nil, err
	}

	b := site.NewBuilder(site.Config{
		VaultDaily:  firstNonEmpty(summaryVaultDaily, cfg.Vault.Daily),
		Start:       start,
		End:         end,
		Concurrency: cfg.Build.Concurrency,
		CacheDir:    cacheDir(cfg),
	})
	days, _, err := b.Collect(cmd.Context())
	return days, err
}
