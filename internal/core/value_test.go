package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestToNumber(t *testing.T) {
	tests := []struct {
		name  string
		input Value
		want  float64
	}{
		{name: "number", input: Number(42.5), want: 42.5},
		{name: "plain string", input: String("17"), want: 17},
		{name: "currency", input: String("$1,234.56"), want: 1234.56},
		{name: "euro with spaces", input: String(" € 99 "), want: 99},
		{name: "percent", input: String("12.5%"), want: 12.5},
		{name: "negative", input: String("-$40"), want: -40},
		{name: "unparseable", input: String("n/a"), want: 0},
		{name: "empty", input: String(""), want: 0},
		{name: "null", input: Null(), want: 0},
		{name: "bool true", input: Bool(true), want: 1},
		{name: "date", input: Date(time.Now()), want: 0},
		{name: "string NaN", input: String("NaN"), want: 0},
		{name: "string Inf", input: String("Inf"), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToNumber(tt.input); got != tt.want {
				t.Errorf("ToNumber(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTypeCell(t *testing.T) {
	tests := []struct {
		raw  string
		want ValueKind
	}{
		{raw: "", want: KindNull},
		{raw: "   ", want: KindNull},
		{raw: "42", want: KindNumber},
		{raw: "-3.5", want: KindNumber},
		{raw: "0.75", want: KindNumber},
		{raw: "1e3", want: KindNumber},
		{raw: "0", want: KindNumber},
		{raw: "TRUE", want: KindBool},
		{raw: "false", want: KindBool},
		{raw: "007", want: KindString},
		{raw: "$12", want: KindString},
		{raw: "Inf", want: KindString},
		{raw: "0x1F", want: KindString},
		{raw: "2024-01-15", want: KindString},
		{raw: "Acme", want: KindString},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := typeCell(tt.raw).Kind; got != tt.want {
				t.Errorf("typeCell(%q).Kind = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValue_String(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{name: "null", v: Null(), want: ""},
		{name: "string", v: String("abc"), want: "abc"},
		{name: "integer number", v: Number(100), want: "100"},
		{name: "fraction", v: Number(199.99), want: "199.99"},
		{name: "bool", v: Bool(true), want: "true"},
		{name: "date", v: Date(day), want: "2024-01-15"},
		{name: "timestamp", v: Date(day.Add(90 * time.Minute)), want: "2024-01-15T01:30:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValue_JSON(t *testing.T) {
	row := Row{
		"a": Number(1.5),
		"b": String("x"),
		"c": Null(),
		"d": Bool(false),
	}
	b, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"a":1.5,"b":"x","c":null,"d":false}`
	if string(b) != want {
		t.Errorf("Marshal = %s, want %s", b, want)
	}

	var back Row
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back["a"].Kind != KindNumber || back["c"].Kind != KindNull || back["d"].Kind != KindBool {
		t.Errorf("Unmarshal kinds = %v %v %v", back["a"].Kind, back["c"].Kind, back["d"].Kind)
	}
}

func TestValue_IsEmpty(t *testing.T) {
	if !Null().IsEmpty() || !String("  ").IsEmpty() {
		t.Error("null and blank strings should be empty")
	}
	if Number(0).IsEmpty() || Bool(false).IsEmpty() {
		t.Error("zero and false are values, not empty")
	}
}
