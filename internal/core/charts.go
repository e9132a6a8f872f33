package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// SeriesKind names a chart series.
type SeriesKind string

const (
	SeriesRevenueByDate     SeriesKind = "revenue-by-date"
	SeriesRevenueByCategory SeriesKind = "revenue-by-category"
	SeriesCustomerSegments  SeriesKind = "customer-segments"
)

// SeriesKinds lists every supported series.
func SeriesKinds() []SeriesKind {
	return []SeriesKind{SeriesRevenueByDate, SeriesRevenueByCategory, SeriesCustomerSegments}
}

// ParseSeriesKind validates a series name from a request or flag.
func ParseSeriesKind(s string) (SeriesKind, error) {
	k := SeriesKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SeriesKinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSeries, s)
}

// ChartRecord is one point of a series. Date series fill Date, categorical
// series fill Name. On the wire a date point is {"date", "revenue"} and a
// categorical point is {"name", "value"}.
type ChartRecord struct {
	Name  string
	Date  string
	Value float64
}

type chartRecordJSON struct {
	Name    string   `json:"name,omitempty"`
	Date    string   `json:"date,omitempty"`
	Revenue *float64 `json:"revenue,omitempty"`
	Value   *float64 `json:"value,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r ChartRecord) MarshalJSON() ([]byte, error) {
	out := chartRecordJSON{Name: r.Name, Date: r.Date}
	v := r.Value
	if r.Date != "" {
		out.Revenue = &v
	} else {
		out.Value = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. It accepts either value key.
func (r *ChartRecord) UnmarshalJSON(b []byte) error {
	var in chartRecordJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*r = ChartRecord{Name: in.Name, Date: in.Date}
	switch {
	case in.Revenue != nil:
		r.Value = *in.Revenue
	case in.Value != nil:
		r.Value = *in.Value
	}
	return nil
}

// Customer value tiers, highest first.
const (
	SegmentHigh    = "High Value"
	SegmentMedium  = "Medium Value"
	SegmentLow     = "Low Value"
	SegmentMinimal = "Minimal"
)

// Lower bounds of the customer value tiers.
const (
	HighValueMin   = 5000
	MediumValueMin = 1000
	LowValueMin    = 100
)

// OtherCategory labels rows with no category value.
const OtherCategory = "Other"

// GenerateSeries derives a chart series. It returns an empty, non-nil slice
// when the columns the series needs are not mapped.
func GenerateSeries(data *ProcessedData, kind SeriesKind) []ChartRecord {
	if data == nil {
		return []ChartRecord{}
	}
	amountCols := mappedColumns(data.Mappings, amountFields...)
	if len(amountCols) == 0 {
		return []ChartRecord{}
	}

	switch kind {
	case SeriesRevenueByDate:
		return revenueByDate(data, amountCols)
	case SeriesRevenueByCategory:
		return revenueByCategory(data, amountCols)
	case SeriesCustomerSegments:
		return customerSegments(data, amountCols)
	}
	return []ChartRecord{}
}

func revenueByDate(data *ProcessedData, amountCols []string) []ChartRecord {
	dateCol, ok := dateColumn(data.Mappings)
	if !ok {
		return []ChartRecord{}
	}

	sums := make(map[string]decimal.Decimal)
	for _, row := range data.Data {
		t, ok := DateOf(row.Get(dateCol))
		if !ok {
			continue
		}
		amount, ok := firstValue(row, amountCols)
		if !ok {
			continue
		}
		day := t.Format(isoDateLayout)
		sums[day] = sums[day].Add(decimal.NewFromFloat(ToNumber(amount)))
	}

	out := make([]ChartRecord, 0, len(sums))
	for day, sum := range sums {
		out = append(out, ChartRecord{Date: day, Value: sum.InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func revenueByCategory(data *ProcessedData, amountCols []string) []ChartRecord {
	catCol, ok := firstMappedColumn(data.Mappings, categoryFields...)
	if !ok {
		return []ChartRecord{}
	}

	sums := make(map[string]decimal.Decimal)
	for _, row := range data.Data {
		amount, ok := firstValue(row, amountCols)
		if !ok {
			continue
		}
		name := OtherCategory
		if v := row.Get(catCol); !v.IsEmpty() {
			name = strings.TrimSpace(v.String())
		}
		sums[name] = sums[name].Add(decimal.NewFromFloat(ToNumber(amount)))
	}

	out := make([]ChartRecord, 0, len(sums))
	for name, sum := range sums {
		out = append(out, ChartRecord{Name: name, Value: sum.InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func customerSegments(data *ProcessedData, amountCols []string) []ChartRecord {
	custCol, ok := firstMappedColumn(data.Mappings, customerFields...)
	if !ok {
		return []ChartRecord{}
	}

	totals := make(map[string]decimal.Decimal)
	for _, row := range data.Data {
		key := rowKey(row.Get(custCol))
		if key == "" {
			continue
		}
		sum := totals[key]
		if amount, ok := firstValue(row, amountCols); ok {
			sum = sum.Add(decimal.NewFromFloat(ToNumber(amount)))
		}
		totals[key] = sum
	}

	var high, medium, low, minimal int
	for _, total := range totals {
		switch v := total.InexactFloat64(); {
		case v >= HighValueMin:
			high++
		case v >= MediumValueMin:
			medium++
		case v >= LowValueMin:
			low++
		default:
			minimal++
		}
	}

	return []ChartRecord{
		{Name: SegmentHigh, Value: float64(high)},
		{Name: SegmentMedium, Value: float64(medium)},
		{Name: SegmentLow, Value: float64(low)},
		{Name: SegmentMinimal, Value: float64(minimal)},
	}
}

// dateColumn returns the first mapped column that holds dates, judged by its
// inferred type or a business field named like a date.
func dateColumn(mappings []ColumnMapping) (string, bool) {
	for _, m := range mappings {
		if !m.Mapped {
			continue
		}
		if m.DataType == TypeDate || hasWord(m.BusinessField, "date") {
			return m.SourceColumn, true
		}
	}
	return "", false
}

func hasWord(s, word string) bool {
	for _, w := range strings.Fields(strings.ToLower(s)) {
		if w == word {
			return true
		}
	}
	return false
}
