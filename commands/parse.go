package commands

import (
	"fmt"

	"github.com/penwyp/go-daylog/internal/core/model"
	"github.com/penwyp/go-daylog/internal/data/notes"
	"github.com/spf13/cobra"
)

var parseOutput string

var parseCmd = &cobra.Command{
	Use:   "parse <note.md>",
	Short: "Parse one daily note to JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "data.json",
		`Output JSON path ("-" for stdout)`)
}

func runParse(cmd *cobra.Command, args []string) error {
	day, err := notes.NewParser(1).ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to parse note: %w", err)
	}

	data, err := model.NewSingleDay(day).MarshalIndent()
	if err != nil {
		return fmt.Errorf("failed to encode day: %w", err)
	}

	if parseOutput == "-" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	if err := writeOutput(parseOutput, data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", parseOutput)
	return nil
}
