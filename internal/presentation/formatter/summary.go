package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-daylog/internal/util"
)

// SummaryFormatter writes a short report over all days.
type SummaryFormatter struct {
	w io.Writer
}

func NewSummaryFormatter(w io.Writer) *SummaryFormatter {
	return &SummaryFormatter{w: w}
}

func (f *SummaryFormatter) Format(data []DaySummary) error {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "Daily Log Summary Report")
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b)

	if len(data) == 0 {
		fmt.Fprintln(&b, "No data to summarize")
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, rule)
		_, err := io.WriteString(f.w, b.String())
		return err
	}

	first, last := data[0].Date, data[len(data)-1].Date
	if first == last {
		fmt.Fprintf(&b, "Date Range: %s\n", first)
	} else {
		fmt.Fprintf(&b, "Date Range: %s to %s\n", first, last)
	}
	fmt.Fprintln(&b)

	var hours float64
	var sleepDays, lateSleep, lateEating, workouts, minutes, meals, photos int
	for _, d := range data {
		if d.SleepHours > 0 {
			hours += d.SleepHours
			sleepDays++
		}
		if d.LateSleep {
			lateSleep++
		}
		if d.LateEating {
			lateEating++
		}
		workouts += d.Workouts
		minutes += d.ExerciseMinutes
		meals += d.Meals
		photos += d.Photos
	}

	fmt.Fprintln(&b, "Sleep:")
	if sleepDays > 0 {
		fmt.Fprintf(&b, "  Average: %.1f h over %s\n", hours/float64(sleepDays), util.FormatCount(sleepDays, "day", "days"))
	} else {
		fmt.Fprintln(&b, "  Average: -")
	}
	fmt.Fprintf(&b, "  Late nights: %s\n", util.FormatCount(lateSleep, "day", "days"))
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Exercise:")
	fmt.Fprintf(&b, "  Workouts: %d\n", workouts)
	fmt.Fprintf(&b, "  Minutes: %d\n", minutes)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Diet:")
	fmt.Fprintf(&b, "  Meals: %d\n", meals)
	fmt.Fprintf(&b, "  Late eating: %s\n", util.FormatCount(lateEating, "day", "days"))
	fmt.Fprintf(&b, "  Photos: %d\n", photos)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, rule)

	_, err := io.WriteString(f.w, b.String())
	return err
}
