package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the layout of daily note names and LogDay dates.
	DateLayout = "2006-01-02"
	// CompactDateLayout is used in generated range file names.
	CompactDateLayout = "20060102"
)

// ParseDate accepts "YYYY-MM-DD" or "MM-DD"; the short form is placed in
// defaultYear.
func ParseDate(s string, defaultYear int) (time.Time, error) {
	s = strings.TrimSpace(s)

	if len(s) == 5 {
		parts := strings.SplitN(s, "-", 2)
		if len(parts) != 2 {
			return time.Time{}, fmt.Errorf("invalid date %q: expected MM-DD or YYYY-MM-DD", s)
		}
		month, err1 := strconv.Atoi(parts[0])
		day, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: expected MM-DD or YYYY-MM-DD", s)
		}
		t := time.Date(defaultYear, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if t.Month() != time.Month(month) || t.Day() != day {
			return time.Time{}, fmt.Errorf("invalid date %q: day out of range", s)
		}
		return t, nil
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected MM-DD or YYYY-MM-DD", s)
	}
	return t, nil
}

// OrderRange returns the two dates in ascending order.
func OrderRange(start, end time.Time) (time.Time, time.Time) {
	if start.After(end) {
		return end, start
	}
	return start, end
}

// DaysInRange lists every calendar day from start to end inclusive.
func DaysInRange(start, end time.Time) []time.Time {
	start, end = OrderRange(start, end)

	var days []time.Time
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		days = append(days, cur)
	}
	return days
}
