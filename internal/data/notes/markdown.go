package notes

import (
	"bufio"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/penwyp/go-daylog/internal/core/model"
)

// Headings select a section when they contain one of these keywords,
// checked in this order.
const (
	SleepKeyword    = "睡眠"
	ExerciseKeyword = "運動"
	DietKeyword     = "飲食"
	FitnessKeyword  = "健身"
)

// Field labels. Values follow the full-width colon.
const (
	fieldSep = "："

	sleepStartLabel = "睡覺時間"
	sleepEndLabel   = "起床時間"
	sleepHoursLabel = "持續時間(H)"

	exerciseTypeLabel     = "種類"
	exerciseStartLabel    = "開始時間"
	exerciseDurationLabel = "持續時間"

	dietTimeLabel  = "飲食時間(HHMM)"
	dietItemLabel  = "飲食項目"
	dietPhotoLabel = "飲食照片"
)

var (
	inlineFieldRe = regexp.MustCompile(`\s*\[[^\]]*::[^\]]*\]`)
	wikiImageRe   = regexp.MustCompile(`!\[\[([^\]]+)\]\]`)
	dietPhotoRe   = regexp.MustCompile(`\[diet_photo::\s*([^\]]+?)\s*\]`)
	headingRe     = regexp.MustCompile(`^#{1,6}\s`)
	bulletRe      = regexp.MustCompile(`^(?:[-*+]|\d+[.)])\s+`)
)

type section int

const (
	sectionNone section = iota
	sectionSleep
	sectionExercise
	sectionDiet
	sectionFitness
)

func sectionOf(heading string) section {
	switch {
	case strings.Contains(heading, SleepKeyword):
		return sectionSleep
	case strings.Contains(heading, ExerciseKeyword):
		return sectionExercise
	case strings.Contains(heading, DietKeyword):
		return sectionDiet
	case strings.Contains(heading, FitnessKeyword):
		return sectionFitness
	default:
		return sectionNone
	}
}

// StripInlineFields removes Dataview inline fields such as "[key:: value]".
func StripInlineFields(s string) string {
	return strings.TrimSpace(inlineFieldRe.ReplaceAllString(s, ""))
}

// ExtractImages returns the targets of "![[...]]" embeds, without any
// "|size" alias, followed by the first "[diet_photo:: ...]" field when it is
// not already listed.
func ExtractImages(s string) []string {
	var images []string
	for _, m := range wikiImageRe.FindAllStringSubmatch(s, -1) {
		target, _, _ := strings.Cut(m[1], "|")
		if target = strings.TrimSpace(target); target != "" {
			images = append(images, target)
		}
	}
	if m := dietPhotoRe.FindStringSubmatch(s); m != nil {
		p := strings.TrimSpace(m[1])
		if p != "" && !slices.Contains(images, p) {
			images = append(images, p)
		}
	}
	return images
}

func stripWikiImages(s string) string {
	return wikiImageRe.ReplaceAllString(s, "")
}

type pendingSleep struct {
	start, end string
	hours      string
	hoursSet   bool
}

type pendingExercise struct {
	kind, start, duration string
}

type pendingDiet struct {
	time, item string
	images     []string
}

// noteReader is the line state machine for one note.
type noteReader struct {
	day     model.LogDay
	section section
	inCode  bool

	sleep    pendingSleep
	exercise pendingExercise
	diet     pendingDiet
}

// Parse reads a daily note. date becomes the day's date verbatim.
func Parse(r io.Reader, date string) (model.LogDay, error) {
	nr := &noteReader{day: model.NewLogDay(date)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		nr.line(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return model.LogDay{}, err
	}

	nr.flushSection()
	return nr.day, nil
}

func (nr *noteReader) line(raw string) {
	line := strings.TrimSpace(raw)

	if strings.HasPrefix(line, "```") {
		nr.inCode = !nr.inCode
		return
	}
	if nr.inCode {
		return
	}

	if headingRe.MatchString(line) {
		nr.flushSection()
		nr.section = sectionOf(line)
		return
	}

	switch nr.section {
	case sectionSleep:
		nr.sleepLine(line)
	case sectionExercise:
		nr.exerciseLine(line)
	case sectionDiet:
		nr.dietLine(line)
	case sectionFitness:
		nr.fitnessLine(line)
	}
}

func field(line, label string) (string, bool) {
	rest, ok := strings.CutPrefix(line, label+fieldSep)
	if !ok {
		return "", false
	}
	return StripInlineFields(rest), true
}

func (nr *noteReader) sleepLine(line string) {
	if v, ok := field(line, sleepStartLabel); ok {
		nr.sleep.start = v
		return
	}
	if v, ok := field(line, sleepEndLabel); ok {
		nr.sleep.end = v
		return
	}
	if v, ok := field(line, sleepHoursLabel); ok {
		nr.sleep.hours = v
		nr.sleep.hoursSet = true
		nr.flushSleep()
	}
}

func (nr *noteReader) exerciseLine(line string) {
	if v, ok := field(line, exerciseTypeLabel); ok {
		nr.flushExercise()
		nr.exercise.kind = v
		return
	}
	if v, ok := field(line, exerciseStartLabel); ok {
		nr.exercise.start = v
		return
	}
	if v, ok := field(line, exerciseDurationLabel); ok {
		nr.exercise.duration = v
		nr.flushExercise()
	}
}

func (nr *noteReader) dietLine(line string) {
	if v, ok := field(line, dietTimeLabel); ok {
		nr.flushDiet()
		nr.diet.time = v
		return
	}
	if rest, ok := strings.CutPrefix(line, dietItemLabel+fieldSep); ok {
		nr.diet.images = append(nr.diet.images, ExtractImages(rest)...)
		nr.diet.item = StripInlineFields(stripWikiImages(rest))
		return
	}
	if strings.HasPrefix(line, dietPhotoLabel+fieldSep) {
		nr.diet.images = append(nr.diet.images, ExtractImages(line)...)
		return
	}

	// Continuation lines may carry images and more item text.
	nr.diet.images = append(nr.diet.images, ExtractImages(line)...)
	if clean := StripInlineFields(stripWikiImages(line)); clean != "" {
		if nr.diet.item != "" {
			nr.diet.item += " " + clean
		} else {
			nr.diet.item = clean
		}
	}
}

func (nr *noteReader) fitnessLine(line string) {
	note := StripInlineFields(bulletRe.ReplaceAllString(line, ""))
	if note != "" {
		nr.day.FitnessNotes = append(nr.day.FitnessNotes, note)
	}
}

func (nr *noteReader) flushSection() {
	switch nr.section {
	case sectionSleep:
		nr.flushSleep()
	case sectionExercise:
		nr.flushExercise()
	case sectionDiet:
		nr.flushDiet()
	}
}

// flushSleep records the pending entry only once start, end and the hours
// line were all seen. Hours that are not a number are dropped.
func (nr *noteReader) flushSleep() {
	s := nr.sleep
	nr.sleep = pendingSleep{}
	if s.start == "" || s.end == "" || !s.hoursSet {
		return
	}

	entry := model.SleepEntry{Start: model.Text(s.start), End: model.Text(s.end)}
	if h, err := strconv.ParseFloat(s.hours, 64); err == nil {
		entry.Hours = model.Text(strconv.FormatFloat(h, 'f', -1, 64))
	}
	nr.day.Sleep = append(nr.day.Sleep, entry)
}

func (nr *noteReader) flushExercise() {
	e := nr.exercise
	nr.exercise = pendingExercise{}
	if e.kind == "" && e.start == "" && e.duration == "" {
		return
	}
	nr.day.Exercise = append(nr.day.Exercise, model.ExerciseEntry{
		Type:     model.Text(e.kind),
		Start:    model.Text(e.start),
		Duration: model.Text(e.duration),
	})
}

func (nr *noteReader) flushDiet() {
	d := nr.diet
	nr.diet = pendingDiet{}
	if d.time == "" && d.item == "" && len(d.images) == 0 {
		return
	}

	var images []string
	for _, img := range d.images {
		if img != "" && !slices.Contains(images, img) {
			images = append(images, img)
		}
	}
	nr.day.Diet = append(nr.day.Diet, model.DietEntry{
		Time:   model.Text(d.time),
		Item:   model.Text(strings.TrimSpace(d.item)),
		Images: images,
	})
}
