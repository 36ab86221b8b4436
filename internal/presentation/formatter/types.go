// Package formatter prints per-day summaries of a daily log to a terminal or
// as JSON/CSV.
package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/penwyp/go-daylog/internal/core/dayview"
	"github.com/penwyp/go-daylog/internal/core/imagepath"
	"github.com/penwyp/go-daylog/internal/core/model"
	"github.com/penwyp/go-daylog/internal/core/timefmt"
	"github.com/penwyp/go-daylog/internal/util"
)

// DaySummary is the per-day row of every output format.
type DaySummary struct {
	Date            string  `json:"date"`
	SleepHours      float64 `json:"sleep_hours"`
	Sleep           string  `json:"sleep"`
	LateSleep       bool    `json:"late_sleep"`
	Workouts        int     `json:"workouts"`
	ExerciseMinutes int     `json:"exercise_minutes"`
	Meals           int     `json:"meals"`
	LastMeal        string  `json:"last_meal"`
	LateEating      bool    `json:"late_eating"`
	Photos          int     `json:"photos"`
}

// Flags lists the day's warnings, without the icon padding used on the page.
func (s DaySummary) Flags() []string {
	var flags []string
	if s.LateSleep {
		flags = append(flags, strings.TrimSpace(dayview.LateSleepWarning))
	}
	if s.LateEating {
		flags = append(flags, strings.TrimSpace(dayview.LateEatingWarning))
	}
	return flags
}

// Summarize reduces a day to its summary row. Values that cannot be read as
// numbers or times do not contribute to totals.
func Summarize(day model.LogDay) DaySummary {
	flags := dayview.ComputeFlags(day)
	s := DaySummary{
		Date:       day.Date,
		LateSleep:  flags.LateSleep,
		LateEating: flags.LateEating,
	}

	var ranges []string
	for _, e := range day.Sleep {
		if h, err := strconv.ParseFloat(e.Hours.Trimmed(), 64); err == nil {
			s.SleepHours += h
		}
		start := timefmt.FormatDisplayTime(e.Start.String())
		end := timefmt.FormatDisplayTime(e.End.String())
		if r := util.JoinNonEmpty("-", start, end); r != "" {
			ranges = append(ranges, r)
		}
	}
	s.Sleep = strings.Join(ranges, ", ")

	for _, e := range day.Exercise {
		if e.Type.IsZero() && e.Duration.IsZero() && e.Start.IsZero() {
			continue
		}
		s.Workouts++
		if m, err := strconv.Atoi(e.Duration.Trimmed()); err == nil {
			s.ExerciseMinutes += m
		}
	}

	last := -1
	var images []string
	for _, d := range day.Diet {
		images = append(images, d.Images...)
		if d.Time.IsZero() && d.Item.IsZero() {
			continue
		}
		s.Meals++
		if m, ok := timefmt.ParseMinutes(d.Time.String()); ok && m > last {
			last = m
		}
	}
	s.LastMeal = util.FormatClock(last)
	s.Photos = len(imagepath.Dedupe(images))

	return s
}

// SummarizeDays summarizes days in order.
func SummarizeDays(days []model.LogDay) []DaySummary {
	rows := make([]DaySummary, len(days))
	for i, day := range days {
		rows[i] = Summarize(day)
	}
	return rows
}

// Formatter writes summaries in one output format.
type Formatter interface {
	Format(data []DaySummary) error
}

// New returns the formatter for format: table, json, csv or summary.
func New(format string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "table":
		return NewTableFormatter(w), nil
	case "json":
		return NewJSONFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	case "summary":
		return NewSummaryFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s (valid: table, json, csv, summary)", format)
	}
}

func formatHours(h float64) string {
	if h == 0 {
		return "-"
	}
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
