package formatter

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

type CSVFormatter struct {
	w io.Writer
}

func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{w: w}
}

func (f *CSVFormatter) Format(data []DaySummary) error {
	w := csv.NewWriter(f.w)

	headers := []string{
		"Date", "Sleep Hours", "Sleep", "Late Sleep", "Workouts",
		"Exercise Minutes", "Meals", "Last Meal", "Late Eating", "Photos",
	}
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, row := range data {
		record := []string{
			row.Date,
			strconv.FormatFloat(row.SleepHours, 'f', -1, 64),
			strings.ReplaceAll(row.Sleep, ", ", ";"),
			strconv.FormatBool(row.LateSleep),
			strconv.Itoa(row.Workouts),
			strconv.Itoa(row.ExerciseMinutes),
			strconv.Itoa(row.Meals),
			row.LastMeal,
			strconv.FormatBool(row.LateEating),
			strconv.Itoa(row.Photos),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
