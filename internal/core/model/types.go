package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// Text is a loosely typed scalar from hand-written log data. It accepts a
// JSON string, a number or null; numbers keep the shortest decimal form a
// browser would print (7.0 becomes "7"). Objects and arrays read as absent.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || string(raw) == "null" {
		*t = ""
		return nil
	}

	switch c := raw[0]; {
	case c == '"':
		var s string
		if err := sonic.Unmarshal(raw, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	case c == '-' || (c >= '0' && c <= '9'):
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return fmt.Errorf("invalid number %s: %w", raw, err)
		}
		*t = Text(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	case string(raw) == "true" || string(raw) == "false":
		*t = Text(raw)
		return nil
	}

	*t = ""
	return nil
}

func (t Text) String() string {
	return string(t)
}

// Trimmed returns the value without surrounding whitespace.
func (t Text) Trimmed() string {
	return strings.TrimSpace(string(t))
}

// IsZero reports whether the field was absent or empty.
func (t Text) IsZero() bool {
	return t == ""
}

type SleepEntry struct {
	Hours Text `json:"hours,omitempty"`
	Start Text `json:"start,omitempty"`
	End   Text `json:"end,omitempty"`
}

type ExerciseEntry struct {
	Type     Text `json:"type,omitempty"`
	Duration Text `json:"duration,omitempty"`
	Start    Text `json:"start,omitempty"`
}

type DietEntry struct {
	Time   Text     `json:"time,omitempty"`
	Item   Text     `json:"item,omitempty"`
	Images []string `json:"images,omitempty"`
}

// LogDay is one calendar day of sleep, exercise and diet records.
type LogDay struct {
	Date         string          `json:"date"`
	Sleep        []SleepEntry    `json:"sleep"`
	Exercise     []ExerciseEntry `json:"exercise"`
	Diet         []DietEntry     `json:"diet"`
	FitnessNotes []string        `json:"fitness_notes,omitempty"`
}

// UnmarshalJSON reads a day leniently: the date may be a number, and entries
// or list items of the wrong type are dropped instead of failing the day.
// Only a value that is not an object is an error.
func (d *LogDay) UnmarshalJSON(data []byte) error {
	if raw := bytes.TrimSpace(data); len(raw) == 0 || raw[0] != '{' {
		return fmt.Errorf("day must be an object, got %s", raw)
	}

	var aux struct {
		Date         Text            `json:"date"`
		Sleep        json.RawMessage `json:"sleep"`
		Exercise     json.RawMessage `json:"exercise"`
		Diet         json.RawMessage `json:"diet"`
		FitnessNotes textList        `json:"fitness_notes"`
	}
	if err := sonic.Unmarshal(data, &aux); err != nil {
		return err
	}

	*d = LogDay{
		Date:         aux.Date.String(),
		Sleep:        looseList[SleepEntry](aux.Sleep),
		Exercise:     looseList[ExerciseEntry](aux.Exercise),
		Diet:         looseList[DietEntry](aux.Diet),
		FitnessNotes: aux.FitnessNotes,
	}
	return nil
}

func (e *DietEntry) UnmarshalJSON(data []byte) error {
	var aux struct {
		Time   Text     `json:"time"`
		Item   Text     `json:"item"`
		Images textList `json:"images"`
	}
	if err := sonic.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = DietEntry{Time: aux.Time, Item: aux.Item, Images: aux.Images}
	return nil
}

// textList is a list of loose scalars. A lone scalar is a one-item list;
// blank items and items that are not scalars are dropped.
type textList []string

func (l *textList) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	var items []Text
	if len(raw) > 0 && raw[0] == '[' {
		if err := sonic.Unmarshal(raw, &items); err != nil {
			items = nil
		}
	} else {
		var one Text
		if err := one.UnmarshalJSON(raw); err == nil {
			items = []Text{one}
		}
	}

	var out []string
	for _, item := range items {
		if !item.IsZero() {
			out = append(out, item.String())
		}
	}
	*l = out
	return nil
}

// looseList decodes a JSON array, skipping elements that do not decode as T.
// An absent or non-array value yields nil.
func looseList[T any](raw json.RawMessage) []T {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}
	var items []json.RawMessage
	if err := sonic.Unmarshal(raw, &items); err != nil {
		return nil
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := sonic.Unmarshal(item, &v); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// NewLogDay returns a day with empty, non-nil entry lists so it serializes
// as arrays rather than nulls.
func NewLogDay(date string) LogDay {
	return LogDay{
		Date:     date,
		Sleep:    []SleepEntry{},
		Exercise: []ExerciseEntry{},
		Diet:     []DietEntry{},
	}
}
