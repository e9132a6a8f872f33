package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestGenerateSeries_RevenueByDate(t *testing.T) {
	tests := []struct {
		name    string
		mapping map[string]string
		rows    []Row
		want    []ChartRecord
	}{
		{
			name:    "same day is summed",
			mapping: map[string]string{"day": "Order Date", "amt": FieldRevenue},
			rows: []Row{
				{"day": String("2024-01-15"), "amt": Number(100)},
				{"day": String("01/15/2024"), "amt": Number(50)},
			},
			want: []ChartRecord{{Date: "2024-01-15", Value: 150}},
		},
		{
			name:    "sorted ascending and unparseable dates skipped",
			mapping: map[string]string{"day": "Order Date", "amt": FieldRevenue},
			rows: []Row{
				{"day": String("2024-03-01"), "amt": Number(3)},
				{"day": String("not a date"), "amt": Number(99)},
				{"day": Date(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)), "amt": Number(1)},
				{"day": String("2024-02-01T10:00:00Z"), "amt": Number(2)},
				{"day": String("2024-02-05"), "amt": Null()},
			},
			want: []ChartRecord{
				{Date: "2024-01-02", Value: 1},
				{Date: "2024-02-01", Value: 2},
				{Date: "2024-03-01", Value: 3},
			},
		},
		{
			name:    "no date column",
			mapping: map[string]string{"amt": FieldRevenue, "who": FieldCustomerName},
			rows:    []Row{{"amt": Number(1), "who": String("a")}},
			want:    []ChartRecord{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateSeries(dataset(tt.mapping, tt.rows...), SeriesRevenueByDate)
			assertRecords(t, got, tt.want)
		})
	}
}

func TestGenerateSeries_RevenueByCategory(t *testing.T) {
	data := dataset(map[string]string{"cat": FieldCategory, "amt": FieldRevenue},
		Row{"cat": String("Books"), "amt": Number(10)},
		Row{"cat": String("Games "), "amt": Number(40)},
		Row{"cat": String("Books"), "amt": Number(30)},
		Row{"cat": Null(), "amt": Number(5)},
		Row{"cat": String("Toys"), "amt": Number(40)},
	)

	want := []ChartRecord{
		{Name: "Books", Value: 40},
		{Name: "Games", Value: 40},
		{Name: "Toys", Value: 40},
		{Name: OtherCategory, Value: 5},
	}
	assertRecords(t, GenerateSeries(data, SeriesRevenueByCategory), want)
}

func TestGenerateSeries_CustomerSegments(t *testing.T) {
	data := dataset(map[string]string{"cust": FieldCustomerID, "amt": FieldRevenue},
		Row{"cust": String("c1"), "amt": Number(3000)},
		Row{"cust": String("c1"), "amt": Number(2500)},
		Row{"cust": String("c2"), "amt": Number(1000)},
		Row{"cust": String("c3"), "amt": Number(100)},
		Row{"cust": String("c4"), "amt": Number(99.99)},
		Row{"cust": String("c5"), "amt": Null()},
		Row{"cust": Null(), "amt": Number(10000)},
	)

	want := []ChartRecord{
		{Name: SegmentHigh, Value: 1},
		{Name: SegmentMedium, Value: 1},
		{Name: SegmentLow, Value: 1},
		{Name: SegmentMinimal, Value: 2},
	}
	assertRecords(t, GenerateSeries(data, SeriesCustomerSegments), want)
}

func TestGenerateSeries_Unavailable(t *testing.T) {
	tests := []struct {
		name string
		data *ProcessedData
		kind SeriesKind
	}{
		{name: "nil data", data: nil, kind: SeriesRevenueByDate},
		{name: "no amount column", data: dataset(map[string]string{"cat": FieldCategory}, Row{"cat": String("a")}), kind: SeriesRevenueByCategory},
		{name: "no customer column", data: dataset(map[string]string{"amt": FieldRevenue}, Row{"amt": Number(1)}), kind: SeriesCustomerSegments},
		{name: "unknown kind", data: dataset(map[string]string{"amt": FieldRevenue}, Row{"amt": Number(1)}), kind: "pie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateSeries(tt.data, tt.kind)
			if got == nil || len(got) != 0 {
				t.Errorf("GenerateSeries() = %#v, want empty non-nil slice", got)
			}
		})
	}
}

func TestParseSeriesKind(t *testing.T) {
	tests := []struct {
		in      string
		want    SeriesKind
		wantErr bool
	}{
		{in: "revenue-by-date", want: SeriesRevenueByDate},
		{in: " Revenue-By-Category ", want: SeriesRevenueByCategory},
		{in: "customer-segments", want: SeriesCustomerSegments},
		{in: "pie", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeriesKind(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownSeries) {
					t.Errorf("ParseSeriesKind(%q) error = %v, want ErrUnknownSeries", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseSeriesKind(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestDateColumn(t *testing.T) {
	tests := []struct {
		name     string
		mappings []ColumnMapping
		want     string
		wantOK   bool
	}{
		{
			name:     "inferred date type",
			mappings: []ColumnMapping{{SourceColumn: "when", BusinessField: "Fiscal Period", DataType: TypeDate, Mapped: true}},
			want:     "when", wantOK: true,
		},
		{
			name:     "field named like a date",
			mappings: []ColumnMapping{{SourceColumn: "d", BusinessField: "Ship Date", DataType: TypeString, Mapped: true}},
			want:     "d", wantOK: true,
		},
		{
			name:     "word must match whole",
			mappings: []ColumnMapping{{SourceColumn: "u", BusinessField: "Last Updated", DataType: TypeString, Mapped: true}},
		},
		{
			name:     "unmapped date ignored",
			mappings: []ColumnMapping{{SourceColumn: "d", DataType: TypeDate}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := dateColumn(tt.mappings)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("dateColumn() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestChartRecord_JSON(t *testing.T) {
	tests := []struct {
		name   string
		record ChartRecord
		want   string
	}{
		{name: "date point", record: ChartRecord{Date: "2024-01-15", Value: 150}, want: `{"date":"2024-01-15","revenue":150}`},
		{name: "zero revenue", record: ChartRecord{Date: "2024-01-16"}, want: `{"date":"2024-01-16","revenue":0}`},
		{name: "category point", record: ChartRecord{Name: "Widgets", Value: 42.5}, want: `{"name":"Widgets","value":42.5}`},
		{name: "segment count", record: ChartRecord{Name: SegmentMinimal}, want: `{"name":"Minimal","value":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.record)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(b) != tt.want {
				t.Errorf("Marshal = %s, want %s", b, tt.want)
			}
			var back ChartRecord
			if err := json.Unmarshal(b, &back); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if back != tt.record {
				t.Errorf("decoded %+v, want %+v", back, tt.record)
			}
		})
	}
}

func assertRecords(t *testing.T, got, want []ChartRecord) {
	t.Helper()
	if got == nil {
		t.Fatal("series is nil")
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records %+v, want %d %+v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i].Name != want[i].Name || got[i].Date != want[i].Date || !approx(got[i].Value, want[i].Value) {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
