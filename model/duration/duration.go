// Package duration parses human-readable interval strings such as "2 hours"
// or "30seconds" into a value and a normalized unit.
package duration

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/viant/parsly"
)

// Unit is a recognised interval unit, always in singular lowercase form
type Unit string

const (
	Second Unit = "second"
	Minute Unit = "minute"
	Hour   Unit = "hour"
	Day    Unit = "day"
	Week   Unit = "week"
	Month  Unit = "month"
)

// Units lists every recognised unit from smallest to largest
var Units = []Unit{Second, Minute, Hour, Day, Week, Month}

// Duration represents a parsed interval
type Duration struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  Unit    `json:"unit" yaml:"unit"`
}

// FormatError is returned when a string does not match <number><whitespace?><unit>
type FormatError struct {
	Input string
	cause error
}

func (e *FormatError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("invalid duration format %q: %v", e.Input, e.cause)
	}
	return fmt.Sprintf("invalid duration format %q", e.Input)
}

func (e *FormatError) Unwrap() error {
	return e.cause
}

// New creates a duration, it panics on an unknown unit and is meant for constants
func New(value float64, unit Unit) *Duration {
	if !unit.IsValid() {
		panic(fmt.Sprintf("unsupported duration unit %q", unit))
	}
	return &Duration{Value: value, Unit: unit}
}

// Parse parses text in the form "<number><whitespace?><unit>", where unit may be
// pluralised and is matched case-insensitively.
func Parse(text string) (*Duration, error) {
	cursor := parsly.NewCursor("", []byte(strings.TrimSpace(text)), 0)

	matched := cursor.MatchOne(numberToken)
	if matched.Code != numberToken.Code {
		return nil, &FormatError{Input: text}
	}
	value, err := strconv.ParseFloat(matched.Text(cursor), 64)
	if err != nil {
		return nil, &FormatError{Input: text, cause: err}
	}

	matched = cursor.MatchAfterOptional(whitespaceToken, unitToken)
	if matched.Code != unitToken.Code {
		return nil, &FormatError{Input: text}
	}
	unit, ok := normalizeUnit(matched.Text(cursor))
	if !ok {
		return nil, &FormatError{Input: text}
	}
	if cursor.HasMore() {
		return nil, &FormatError{Input: text}
	}
	return &Duration{Value: value, Unit: unit}, nil
}

// IsValid reports whether text parses as a duration
func IsValid(text string) bool {
	_, err := Parse(text)
	return err == nil
}

func normalizeUnit(text string) (Unit, bool) {
	lower := strings.ToLower(text)
	for _, unit := range Units {
		if lower == string(unit) || lower == string(unit)+"s" {
			return unit, true
		}
	}
	return "", false
}

// IsValid reports whether u is a recognised singular unit
func (u Unit) IsValid() bool {
	for _, candidate := range Units {
		if u == candidate {
			return true
		}
	}
	return false
}

// Length returns the wall-clock length of a single unit; a month counts as 30 days
func (u Unit) Length() time.Duration {
	switch u {
	case Second:
		return time.Second
	case Minute:
		return time.Minute
	case Hour:
		return time.Hour
	case Day:
		return 24 * time.Hour
	case Week:
		return 7 * 24 * time.Hour
	case Month:
		return 30 * 24 * time.Hour
	}
	return 0
}

// AsTime converts the duration to time.Duration
func (d *Duration) AsTime() time.Duration {
	if d == nil {
		return 0
	}
	return time.Duration(d.Value * float64(d.Unit.Length()))
}

// String renders the canonical form, for example "1 hour" or "2.5 days"
func (d *Duration) String() string {
	if d == nil {
		return ""
	}
	value := strconv.FormatFloat(d.Value, 'f', -1, 64)
	if d.Value == 1 {
		return value + " " + string(d.Unit)
	}
	return value + " " + string(d.Unit) + "s"
}

// Clone returns a copy of d
func (d *Duration) Clone() *Duration {
	if d == nil {
		return nil
	}
	clone := *d
	return &clone
}
