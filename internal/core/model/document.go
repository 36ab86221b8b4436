package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

// ErrEmptyDocument is returned for a blank or null input document.
var ErrEmptyDocument = errors.New("empty document")

// DocumentKind tells which input shape a Document was parsed from.
type DocumentKind int

const (
	// KindNone is an object with neither a non-empty "days" nor a "date".
	KindNone DocumentKind = iota
	// KindSingle is a single LogDay object.
	KindSingle
	// KindMulti is {"days": [...]} with at least one day.
	KindMulti
)

func (k DocumentKind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindMulti:
		return "multi"
	default:
		return "none"
	}
}

// Document is the embedded input, resolved once into one of three shapes.
type Document struct {
	Kind DocumentKind
	Days []LogDay
}

type multiDayPayload struct {
	Days []LogDay `json:"days"`
}

type shapeHint struct {
	Days json.RawMessage `json:"days"`
	Date Text            `json:"date"`
}

// ParseDocument decodes the embedded JSON document. A non-empty "days" list
// takes precedence over a top-level "date". Days that are not objects are
// dropped from the list.
func ParseDocument(data []byte) (*Document, error) {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ErrEmptyDocument
	}

	var shape shapeHint
	if err := sonic.Unmarshal(raw, &shape); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	if days := looseList[LogDay](shape.Days); len(days) > 0 {
		return &Document{Kind: KindMulti, Days: days}, nil
	}

	if !shape.Date.IsZero() {
		var day LogDay
		if err := sonic.Unmarshal(raw, &day); err != nil {
			return nil, fmt.Errorf("failed to decode day: %w", err)
		}
		return &Document{Kind: KindSingle, Days: []LogDay{day}}, nil
	}

	return &Document{Kind: KindNone}, nil
}

// NewMultiDay wraps days as a multi-day document; no days yields KindNone.
func NewMultiDay(days []LogDay) *Document {
	if len(days) == 0 {
		return &Document{Kind: KindNone}
	}
	return &Document{Kind: KindMulti, Days: days}
}

// NewSingleDay wraps one day.
func NewSingleDay(day LogDay) *Document {
	return &Document{Kind: KindSingle, Days: []LogDay{day}}
}

// Title is the page title: "<first> ~ <last>" for several days, the date for
// one day and empty for KindNone.
func (d *Document) Title() string {
	switch d.Kind {
	case KindMulti:
		return fmt.Sprintf("%s ~ %s", d.Days[0].Date, d.Days[len(d.Days)-1].Date)
	case KindSingle:
		return d.Days[0].Date
	default:
		return ""
	}
}

// Payload is the value to serialize for this document's shape.
func (d *Document) Payload() interface{} {
	switch d.Kind {
	case KindMulti:
		return multiDayPayload{Days: d.Days}
	case KindSingle:
		return d.Days[0]
	default:
		return struct{}{}
	}
}

// Marshal encodes the document back to its input shape.
func (d *Document) Marshal() ([]byte, error) {
	return sonic.Marshal(d.Payload())
}

// MarshalIndent encodes the document with two-space indentation.
func (d *Document) MarshalIndent() ([]byte, error) {
	return sonic.MarshalIndent(d.Payload(), "", "  ")
}
