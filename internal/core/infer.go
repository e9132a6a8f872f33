package core

import (
	"regexp"
	"strings"
	"time"
)

// DataType is the inferred or declared type of a column.
type DataType string

const (
	TypeString  DataType = "string"
	TypeNumber  DataType = "number"
	TypeDate    DataType = "date"
	TypeBoolean DataType = "boolean"
)

// Valid reports whether t is one of the four known types.
func (t DataType) Valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeDate, TypeBoolean:
		return true
	}
	return false
}

// TypeSampleSize is how many leading rows of a column are inspected.
const TypeSampleSize = 5

// TypeMatchRatio is the fraction of non-empty sample values that must match
// a recognizer for the type to be accepted. The comparison is strict.
const TypeMatchRatio = 0.8

const isoDateLayout = "2006-01-02"

// Date recognizer patterns. A string must match one of these AND resolve to
// a real calendar date.
var datePatterns = []struct {
	re     *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`^(\d{4}-\d{1,2}-\d{1,2})`), "2006-1-2"},
	{regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4})`), "1/2/2006"},
	{regexp.MustCompile(`^(\d{1,2}-\d{1,2}-\d{4})`), "1-2-2006"},
}

var booleanLiterals = map[string]bool{
	"true": true, "false": true,
	"1": true, "0": true,
	"yes": true, "no": true,
}

// InferType classifies sampled values as boolean, date, number or string.
// Empty values are dropped first; an all-empty sample is a string column.
// Boolean and date are checked before number because their literals are
// stricter and would otherwise be swallowed by the numeric test.
func InferType(values []Value) DataType {
	sample := make([]Value, 0, len(values))
	for _, v := range values {
		if !v.IsEmpty() {
			sample = append(sample, v)
		}
	}
	if len(sample) == 0 {
		return TypeString
	}

	switch {
	case matchRatio(sample, isBooleanValue) > TypeMatchRatio:
		return TypeBoolean
	case matchRatio(sample, isDateValue) > TypeMatchRatio:
		return TypeDate
	case matchRatio(sample, isNumberValue) > TypeMatchRatio:
		return TypeNumber
	default:
		return TypeString
	}
}

func matchRatio(sample []Value, match func(Value) bool) float64 {
	n := 0
	for _, v := range sample {
		if match(v) {
			n++
		}
	}
	return float64(n) / float64(len(sample))
}

func isBooleanValue(v Value) bool {
	switch v.Kind {
	case KindBool:
		return true
	case KindNumber:
		return v.Num == 0 || v.Num == 1
	case KindString:
		return booleanLiterals[strings.ToLower(strings.TrimSpace(v.Str))]
	}
	return false
}

func isDateValue(v Value) bool {
	switch v.Kind {
	case KindDate:
		return true
	case KindString:
		_, ok := ParseDate(v.Str)
		return ok
	}
	return false
}

func isNumberValue(v Value) bool {
	switch v.Kind {
	case KindNumber:
		return true
	case KindString:
		_, ok := parseCleanNumber(v.Str)
		return ok
	}
	return false
}

// ParseDate parses the date prefix of s when it matches YYYY-MM-DD,
// MM/DD/YYYY or MM-DD-YYYY. Impossible dates such as 2024-02-30 are rejected.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		// time.Parse validates day-of-month, so 02/30/2024 fails here.
		t, err := time.Parse(p.layout, m[1])
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

// DateOf returns the calendar date carried by a cell, if any.
func DateOf(v Value) (time.Time, bool) {
	switch v.Kind {
	case KindDate:
		return v.Time, true
	case KindString:
		return ParseDate(v.Str)
	}
	return time.Time{}, false
}
