package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/penwyp/go-daylog/internal/util"
)

const (
	flagsColumn = 7
	minWidth    = 4
)

type TableFormatter struct {
	w       io.Writer
	headers []string
	// maxWidth limits the whole table; the flags column is truncated to fit.
	maxWidth int
	color    bool
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		w: w,
		headers: []string{
			"Date", "Sleep (h)", "Sleep", "Workouts", "Exercise (min)",
			"Meals", "Last Meal", "Flags",
		},
	}
}

// WithTerminal sizes the table to the terminal and enables colors when
// stdout supports them.
func (f *TableFormatter) WithTerminal() *TableFormatter {
	f.maxWidth = util.TerminalWidth()
	f.color = util.IsColorTerminal()
	return f
}

func (f *TableFormatter) Format(data []DaySummary) error {
	rows := make([][]string, 0, len(data)+1)
	var hours float64
	var workouts, minutes, meals, flagged int
	for _, d := range data {
		rows = append(rows, f.rowValues(d))
		hours += d.SleepHours
		workouts += d.Workouts
		minutes += d.ExerciseMinutes
		meals += d.Meals
		if len(d.Flags()) > 0 {
			flagged++
		}
	}

	avg := "-"
	if len(data) > 0 {
		avg = "avg " + strconv.FormatFloat(hours/float64(len(data)), 'f', 1, 64)
	}
	total := []string{
		"Total", avg, "", strconv.Itoa(workouts), strconv.Itoa(minutes),
		strconv.Itoa(meals), "", util.FormatCount(flagged, "day", "days"),
	}

	widths := f.calculateColumnWidths(append(rows, total))

	var b strings.Builder
	f.writeBorder(&b, widths, "top")
	f.writeRow(&b, f.headers, widths, false)
	f.writeBorder(&b, widths, "middle")
	for i, row := range rows {
		f.writeRow(&b, row, widths, data[i].LateSleep || data[i].LateEating)
	}
	f.writeBorder(&b, widths, "middle")
	f.writeRow(&b, total, widths, false)
	f.writeBorder(&b, widths, "bottom")

	_, err := io.WriteString(f.w, b.String())
	return err
}

func (f *TableFormatter) rowValues(d DaySummary) []string {
	return []string{
		d.Date,
		formatHours(d.SleepHours),
		orDash(d.Sleep),
		strconv.Itoa(d.Workouts),
		strconv.Itoa(d.ExerciseMinutes),
		strconv.Itoa(d.Meals),
		orDash(d.LastMeal),
		orDash(strings.Join(d.Flags(), ", ")),
	}
}

// calculateColumnWidths measures display width, so CJK flags line up.
func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, row := range rows {
		for i, value := range row {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}

	if f.maxWidth > 0 {
		// each column adds two padding cells and one border
		total := 1
		for _, w := range widths {
			total += w + 3
		}
		if over := total - f.maxWidth; over > 0 {
			widths[flagsColumn] = max(minWidth, widths[flagsColumn]-over)
		}
	}
	return widths
}

// writeBorder writes table borders (top, middle, bottom)
func (f *TableFormatter) writeBorder(b *strings.Builder, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	b.WriteString("\n")
}

// writeRow left-aligns text columns and right-aligns numbers.
func (f *TableFormatter) writeRow(b *strings.Builder, values []string, widths []int, flagged bool) {
	b.WriteString("│")
	for i, value := range values {
		value = util.TruncateString(value, widths[i])
		var cell string
		switch i {
		case 1, 3, 4, 5:
			cell = util.PadString(value, widths[i], false)
		default:
			cell = util.PadString(value, widths[i], true)
		}
		if i == flagsColumn && flagged {
			cell = util.Colorize(cell, util.ColorRed, f.color)
		}
		fmt.Fprintf(b, " %s │", cell)
	}
	b.WriteString("\n")
}
