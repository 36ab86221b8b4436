// Package dayview derives the display segments and warning flags for one
// LogDay. It is a pure transform; rendering lives in the presentation layer.
package dayview

import (
	"regexp"
	"strings"

	"github.com/penwyp/go-daylog/internal/core/imagepath"
	"github.com/penwyp/go-daylog/internal/core/model"
	"github.com/penwyp/go-daylog/internal/core/timefmt"
)

const (
	SleepTitle    = "💤 睡覺時間"
	ExerciseTitle = "🏃‍♀️ 運動"
	DietTitle     = "🍎 飲食"

	LateSleepWarning  = "  ❌ 晚睡"
	LateEatingWarning = "  ❌ 八點後進食"

	ClockIcon     = "⏰ "
	PartSeparator = " | "
	HoursSuffix   = " 小時"
	MinutesSuffix = "分鐘"
)

var allDigits = regexp.MustCompile(`^\d+$`)

// Flags are the per-day warnings. They are computed once and feed both the
// card title and the row label of a section.
type Flags struct {
	LateSleep  bool
	LateEating bool
}

// ComputeFlags checks every sleep start and diet time of the day. Entries
// without a parseable time never raise a flag.
func ComputeFlags(day model.LogDay) Flags {
	var flags Flags
	for _, s := range day.Sleep {
		if timefmt.IsLateSleep(s.Start.String()) {
			flags.LateSleep = true
			break
		}
	}
	for _, d := range day.Diet {
		if timefmt.IsLateEating(d.Time.String()) {
			flags.LateEating = true
			break
		}
	}
	return flags
}

// Heading is a section title with its optional warning suffix.
type Heading struct {
	Title   string
	Warning string
}

func (h Heading) String() string {
	return h.Title + h.Warning
}

func newHeading(title string, warn bool, warning string) Heading {
	h := Heading{Title: title}
	if warn {
		h.Warning = warning
	}
	return h
}

// SleepSegment is one sleep entry; either part may be empty but not both.
type SleepSegment struct {
	Hours string
	Range string
}

// Text renders the segment as "⏰ <hours> | <range>".
func (s SleepSegment) Text() string {
	return ClockIcon + joinParts(s.Hours, s.Range)
}

type SleepSection struct {
	Heading  Heading
	Segments []SleepSegment
}

// Line joins every segment of the day with a space.
func (s *SleepSection) Line() string {
	texts := make([]string, len(s.Segments))
	for i, seg := range s.Segments {
		texts[i] = seg.Text()
	}
	return strings.Join(texts, " ")
}

// ListSection is a section rendered as one line per entry.
type ListSection struct {
	Heading Heading
	Lines   []string
}

// Photo is one deduplicated diet image with its candidate URLs.
type Photo struct {
	Source     string
	Candidates []string
}

// DayView is the formatted day. A nil section is absent and must not be
// rendered at all.
type DayView struct {
	Date     string
	Notes    []string
	Flags    Flags
	Sleep    *SleepSection
	Exercise *ListSection
	Diet     *ListSection
	Photos   []Photo
}

// Formatter formats days using a specific image resolver.
type Formatter struct {
	resolver *imagepath.Resolver
}

func NewFormatter(resolver *imagepath.Resolver) *Formatter {
	if resolver == nil {
		resolver = imagepath.NewResolver("", "")
	}
	return &Formatter{resolver: resolver}
}

var defaultFormatter = NewFormatter(nil)

// Format formats day with the default image locations.
func Format(day model.LogDay) DayView {
	return defaultFormatter.Format(day)
}

func (f *Formatter) Format(day model.LogDay) DayView {
	flags := ComputeFlags(day)

	view := DayView{
		Date:  day.Date,
		Notes: fitnessNotes(day.FitnessNotes),
		Flags: flags,
	}

	if segments := sleepSegments(day.Sleep); len(segments) > 0 {
		view.Sleep = &SleepSection{
			Heading:  newHeading(SleepTitle, flags.LateSleep, LateSleepWarning),
			Segments: segments,
		}
	}

	if lines := exerciseLines(day.Exercise); len(lines) > 0 {
		view.Exercise = &ListSection{
			Heading: newHeading(ExerciseTitle, false, ""),
			Lines:   lines,
		}
	}

	if lines := dietLines(day.Diet); len(lines) > 0 {
		view.Diet = &ListSection{
			Heading: newHeading(DietTitle, flags.LateEating, LateEatingWarning),
			Lines:   lines,
		}
	}

	view.Photos = f.photos(day.Diet)
	return view
}

func sleepSegments(entries []model.SleepEntry) []SleepSegment {
	var segments []SleepSegment
	for _, s := range entries {
		var seg SleepSegment
		if !s.Hours.IsZero() {
			seg.Hours = s.Hours.String() + HoursSuffix
		}
		seg.Range = timeRange(s.Start.String(), s.End.String())
		if seg.Hours == "" && seg.Range == "" {
			continue
		}
		segments = append(segments, seg)
	}
	return segments
}

func timeRange(start, end string) string {
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start
	default:
		return end
	}
}

func exerciseLines(entries []model.ExerciseEntry) []string {
	var lines []string
	for _, e := range entries {
		var duration string
		if d := e.Duration.Trimmed(); d != "" {
			if allDigits.MatchString(d) {
				d += MinutesSuffix
			}
			duration = ClockIcon + d
		}
		line := joinParts(e.Type.Trimmed(), duration, timefmt.FormatDisplayTime(e.Start.String()))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func dietLines(entries []model.DietEntry) []string {
	var lines []string
	for _, d := range entries {
		var timeText string
		if !d.Time.IsZero() {
			timeText = ClockIcon + timefmt.FormatDisplayTime(d.Time.String())
		}
		line := joinParts(timeText, d.Item.String())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func (f *Formatter) photos(entries []model.DietEntry) []Photo {
	var raws []string
	for _, d := range entries {
		raws = append(raws, d.Images...)
	}

	var photos []Photo
	for _, raw := range imagepath.Dedupe(raws) {
		photos = append(photos, Photo{
			Source:     raw,
			Candidates: f.resolver.Candidates(raw),
		})
	}
	return photos
}

func fitnessNotes(notes []string) []string {
	var kept []string
	for _, n := range notes {
		if strings.TrimSpace(n) != "" {
			kept = append(kept, n)
		}
	}
	return kept
}

// joinParts joins the non-empty parts with " | ".
func joinParts(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, PartSeparator)
}
