package core

// value.go defines the scalar cell type shared by every stage of the pipeline.
//
// Uploaded files carry dynamically typed cells: CSV and spreadsheet cells are
// strings that may look like numbers, JSON cells are native scalars. All of
// them are normalized into a Value so the type inferencer, mapper and
// aggregators can switch on Kind instead of guessing at runtime.

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// ValueKind identifies which field of a Value is populated.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindDate
)

// String returns the lowercase kind name.
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	default:
		return "null"
	}
}

// Value is a single cell. The zero Value is Null.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	Time time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// String wraps s.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number wraps f.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Bool wraps b.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Date wraps t.
func Date(t time.Time) Value { return Value{Kind: KindDate, Time: t} }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// IsEmpty reports whether the value is null or a blank string.
// Empty values are ignored by type inference and aggregation.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindNull:
		return true
	case KindString:
		return strings.TrimSpace(v.Str) == ""
	default:
		return false
	}
}

// String renders the literal form of the value. Numbers use the shortest
// representation that round-trips, dates use YYYY-MM-DD when there is no
// time component.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindDate:
		if v.Time.Hour() == 0 && v.Time.Minute() == 0 && v.Time.Second() == 0 {
			return v.Time.Format(isoDateLayout)
		}
		return v.Time.Format(time.RFC3339)
	default:
		return ""
	}
}

// MarshalJSON encodes the value as the matching JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindDate:
		return json.Marshal(v.String())
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a JSON scalar. Objects and arrays are kept as their
// compact JSON text so rows stay flat.
func (v *Value) UnmarshalJSON(b []byte) error {
	*v = valueFromJSON(b)
	return nil
}

// Row maps source column names to cells. Rows of one Table share a key set.
type Row map[string]Value

// Get returns the cell for column, or Null when absent.
func (r Row) Get(column string) Value {
	if r == nil {
		return Null()
	}
	return r[column]
}

// Table is the uniform output of the file parser.
type Table struct {
	Columns []string // Source column names in file order
	Rows    []Row
}

// currencyReplacer strips the decorations that appear in exported money and
// percentage columns.
var currencyReplacer = strings.NewReplacer(
	"$", "",
	",", "",
	"%", "",
	"\u20ac", "", // Euro
	"\u00a3", "", // Pound
	"\u00a5", "", // Yen
	"\u00a0", "", // Non-breaking space
	" ", "",
	"\t", "",
)

// cleanNumeric returns s with currency symbols, separators, percent signs and
// whitespace removed.
func cleanNumeric(s string) string {
	return currencyReplacer.Replace(strings.TrimSpace(s))
}

// parseCleanNumber parses a cleaned numeric string and rejects NaN/Inf.
func parseCleanNumber(s string) (float64, bool) {
	s = cleanNumeric(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ToNumber coerces a cell to a float. Strings are cleaned of "$", ",", "%" and
// whitespace first. Anything unparseable yields 0 so aggregations never see NaN.
func ToNumber(v Value) float64 {
	switch v.Kind {
	case KindNumber:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return 0
		}
		return v.Num
	case KindString:
		f, _ := parseCleanNumber(v.Str)
		return f
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// typeCell applies dynamic typing to a raw text cell from CSV or a
// spreadsheet: plain numeric text becomes Number and true/false become Bool.
// Decorated values such as "$1,200" stay String; the inferencer and ToNumber
// handle those.
func typeCell(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Null()
	}
	switch strings.ToLower(s) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if looksNumeric(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) {
			return Number(f)
		}
	}
	return String(raw)
}

// looksNumeric rejects strings strconv accepts but a spreadsheet user would
// not call a number ("Inf", "0x1F", "1_000") and codes with leading zeros.
func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	digits := 0
	for i, c := range s {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' || c == 'e' || c == 'E':
		case (c == '-' || c == '+') && (i == 0 || s[i-1] == 'e' || s[i-1] == 'E'):
		default:
			return false
		}
	}
	if digits == 0 {
		return false
	}
	// Keep zip codes and zero-padded IDs as text.
	body := strings.TrimLeft(s, "+-")
	if len(body) > 1 && body[0] == '0' && body[1] != '.' {
		return false
	}
	return true
}

// valueFromJSON converts a raw JSON token into a Value.
func valueFromJSON(b []byte) Value {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "" || s == "null":
		return Null()
	case s == "true":
		return Bool(true)
	case s == "false":
		return Bool(false)
	case s[0] == '"':
		var str string
		if err := json.Unmarshal([]byte(s), &str); err != nil {
			return String(s)
		}
		return String(str)
	case s[0] == '{' || s[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, []byte(s)); err != nil {
			return String(s)
		}
		return String(buf.String())
	default:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Number(f)
		}
		return String(s)
	}
}
