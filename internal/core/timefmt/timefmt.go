// Package timefmt normalizes hand-entered clock times such as "930",
// "0930" and "9:30".
package timefmt

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	MinutesPerDay = 24 * 60

	// LateSleepBefore ends the after-midnight window [0, LateSleepBefore)
	// in which falling asleep counts as a late night.
	LateSleepBefore = 6 * 60
	// LateEatingFrom is the first minute at which a meal counts as late.
	LateEatingFrom = 20 * 60
)

var (
	bareDigits = regexp.MustCompile(`^\d{1,4}$`)
	colonTime  = regexp.MustCompile(`^\s*(\d{1,2})\s*:\s*(\d{2})\s*$`)
)

// FormatDisplayTime renders 1-4 bare digits as "H:MM" after left-padding to
// four digits ("930" -> "9:30", "5" -> "0:05"). Any other input, including
// values that already contain a colon, is returned trimmed and otherwise
// unchanged, so the function is idempotent.
func FormatDisplayTime(raw string) string {
	s := strings.TrimSpace(raw)
	if !bareDigits.MatchString(s) {
		return s
	}

	padded := strings.Repeat("0", 4-len(s)) + s
	hour, _ := strconv.Atoi(padded[:2])
	return strconv.Itoa(hour) + ":" + padded[2:]
}

// ParseMinutes converts a time to minutes since midnight. The colon form is
// read directly, so "25:30" is 1530. Otherwise the digits of the input are
// used, three digits as H MM and four as HH MM, and the result wraps into a
// single day ("2400" is 0). ok is false when there is no usable time.
func ParseMinutes(raw string) (minutes int, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	if m := colonTime.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		return hour*60 + minute, true
	}

	digits := onlyDigits(s)
	var hourPart, minutePart string
	switch len(digits) {
	case 3:
		hourPart, minutePart = digits[:1], digits[1:]
	case 4:
		hourPart, minutePart = digits[:2], digits[2:]
	default:
		return 0, false
	}

	hour, _ := strconv.Atoi(hourPart)
	minute, _ := strconv.Atoi(minutePart)
	return (hour*60 + minute) % MinutesPerDay, true
}

func onlyDigits(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// IsLateSleep reports whether a sleep start falls between midnight and 06:00.
func IsLateSleep(start string) bool {
	m, ok := ParseMinutes(start)
	return ok && m >= 0 && m < LateSleepBefore
}

// IsLateEating reports whether a meal time is 20:00 or later.
func IsLateEating(mealTime string) bool {
	m, ok := ParseMinutes(mealTime)
	return ok && m >= LateEatingFrom
}
