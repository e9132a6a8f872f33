package core

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

// mappedData returns a dataset with n mapped columns out of total.
func mappedData(n, total int) *ProcessedData {
	fields := []string{FieldRevenue, FieldCustomerEmail, "Order Date", "Region", "Active", FieldTotalAmount, "Customer ID"}
	data := &ProcessedData{ID: "ds"}
	row := Row{}
	for i := range total {
		col := fmt.Sprintf("col%d", i)
		data.Columns = append(data.Columns, col)
		row[col] = Number(float64(i))
		m := ColumnMapping{SourceColumn: col, DataType: TypeNumber}
		if i < n {
			m.BusinessField = fields[i]
			m.Confidence = 90
			m.Mapped = true
		}
		data.Mappings = append(data.Mappings, m)
	}
	data.Data = []Row{row}
	data.RowCount = 1
	return data
}

func TestWorkspace_LoadStage(t *testing.T) {
	tests := []struct {
		name   string
		data   *ProcessedData
		want   Stage
		canAna bool
	}{
		{name: "nil resets", data: nil, want: StageUpload},
		{name: "few mapped stays in preview", data: mappedData(2, 6), want: StagePreview},
		{name: "three mapped advances", data: mappedData(3, 6), want: StageMapping},
		{name: "five mapped can analyze", data: mappedData(5, 6), want: StageMapping, canAna: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorkspace(testCatalog(t))
			if got := w.Load(tt.data); got != tt.want {
				t.Errorf("Load() = %q, want %q", got, tt.want)
			}
			if w.Stage() != tt.want {
				t.Errorf("Stage() = %q, want %q", w.Stage(), tt.want)
			}
			if w.CanAnalyze() != tt.canAna {
				t.Errorf("CanAnalyze() = %v, want %v", w.CanAnalyze(), tt.canAna)
			}
		})
	}
}

func TestWorkspace_EmptyErrors(t *testing.T) {
	w := NewWorkspace(testCatalog(t))

	if _, err := w.Snapshot(); !errors.Is(err, ErrNoDataset) {
		t.Errorf("Snapshot() error = %v, want ErrNoDataset", err)
	}
	if _, err := w.Toggle("a", "Revenue"); !errors.Is(err, ErrNoDataset) {
		t.Errorf("Toggle() error = %v, want ErrNoDataset", err)
	}
	if _, err := w.Dashboard(); !errors.Is(err, ErrNoDataset) {
		t.Errorf("Dashboard() error = %v, want ErrNoDataset", err)
	}
	if err := w.SetStage(StagePreview); !errors.Is(err, ErrNoDataset) {
		t.Errorf("SetStage() error = %v, want ErrNoDataset", err)
	}
	if err := w.SetStage(StageUpload); err != nil {
		t.Errorf("SetStage(upload) error = %v", err)
	}
}

func TestWorkspace_ToggleRoundTrip(t *testing.T) {
	w := NewWorkspace(testCatalog(t))
	w.Load(mappedData(3, 5))

	// col0 is mapped to Revenue: toggling it off clears the mapping.
	data, err := w.Toggle("col0", "revenue")
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if m := data.Mappings[0]; m.Mapped || m.BusinessField != "" || m.Confidence != 0 {
		t.Errorf("after toggle off = %+v, want unmapped", m)
	}

	// Toggling again maps it back as a manual mapping.
	data, err = w.Toggle("col0", "Revenue")
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if m := data.Mappings[0]; !m.Mapped || m.BusinessField != "Revenue" || m.Confidence != ManualConfidence {
		t.Errorf("after toggle on = %+v", m)
	}

	// And off once more.
	data, _ = w.Toggle("col0", "Revenue")
	if m := data.Mappings[0]; m.Mapped || m.BusinessField != "" || m.Confidence != 0 {
		t.Errorf("after second toggle off = %+v", m)
	}
}

func TestWorkspace_ManualFloorFollowsThreshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
		want      int
	}{
		{name: "unset uses default", threshold: 0, want: ManualConfidence},
		{name: "default threshold", threshold: 70, want: ManualConfidence},
		{name: "threshold above floor", threshold: 92, want: 92},
		{name: "threshold above ceiling", threshold: 100, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorkspace(testCatalog(t))
			w.SetThreshold(tt.threshold)
			w.Load(mappedData(3, 5))
			threshold := max(tt.threshold, DefaultMatchConfig().Threshold)

			data, err := w.Toggle("col4", "Region")
			if err != nil {
				t.Fatalf("Toggle() error = %v", err)
			}
			data, err = w.ReplaceMappings([]ColumnMapping{{SourceColumn: "col3", BusinessField: "Active", Confidence: 10, Mapped: true}})
			if err != nil {
				t.Fatalf("ReplaceMappings() error = %v", err)
			}
			for _, col := range []int{3, 4} {
				m := data.Mappings[col]
				if m.Confidence != tt.want {
					t.Errorf("%s confidence = %d, want %d", m.SourceColumn, m.Confidence, tt.want)
				}
				if m.Mapped != (m.Confidence >= threshold) {
					t.Errorf("%s Mapped = %v with confidence %d and threshold %d", m.SourceColumn, m.Mapped, m.Confidence, threshold)
				}
			}
		})
	}
}

func TestWorkspace_ToggleErrors(t *testing.T) {
	w := NewWorkspace(testCatalog(t))
	w.Load(mappedData(3, 5))

	if _, err := w.Toggle("missing", "Revenue"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("Toggle(unknown column) error = %v, want ErrUnknownColumn", err)
	}
	if _, err := w.Toggle("col4", "Shipping Cost"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Toggle(unknown field) error = %v, want ErrUnknownField", err)
	}
	if _, err := w.Toggle("col4", "  "); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Toggle(blank field) error = %v, want ErrUnknownField", err)
	}
}

func TestWorkspace_SetMappingConfidence(t *testing.T) {
	w := NewWorkspace(testCatalog(t))
	data := mappedData(3, 5)
	data.Mappings[0].Confidence = 97
	data.Mappings[1].Confidence = 72
	w.Load(data)

	tests := []struct {
		name   string
		column string
		field  string
		want   int
	}{
		{name: "same field keeps higher score", column: "col0", field: "Revenue", want: 97},
		{name: "same field raised to floor", column: "col1", field: "customer_email", want: ManualConfidence},
		{name: "new field uses floor", column: "col2", field: "Region", want: ManualConfidence},
		{name: "unmapped column", column: "col4", field: "Active", want: ManualConfidence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := w.SetMapping(tt.column, tt.field)
			if err != nil {
				t.Fatalf("SetMapping() error = %v", err)
			}
			for _, m := range got.Mappings {
				if m.SourceColumn != tt.column {
					continue
				}
				if !m.Mapped || m.Confidence != tt.want {
					t.Errorf("mapping = %+v, want confidence %d", m, tt.want)
				}
			}
		})
	}
}

func TestWorkspace_AnalysisGate(t *testing.T) {
	w := NewWorkspace(testCatalog(t))
	w.Load(mappedData(4, 6))

	if err := w.SetStage(StageAnalysis); !errors.Is(err, ErrInsufficientMappings) {
		t.Fatalf("SetStage(analysis) with 4 mapped error = %v", err)
	}
	if _, err := w.Series(SeriesRevenueByDate); !errors.Is(err, ErrInsufficientMappings) {
		t.Errorf("Series() error = %v, want ErrInsufficientMappings", err)
	}

	if _, err := w.SetMapping("col4", "Active"); err != nil {
		t.Fatalf("SetMapping() error = %v", err)
	}
	if err := w.SetStage(StageAnalysis); err != nil {
		t.Fatalf("SetStage(analysis) with 5 mapped error = %v", err)
	}
	if _, err := w.Dashboard(); err != nil {
		t.Errorf("Dashboard() error = %v", err)
	}

	// Dropping below the gate leaves analysis.
	if _, err := w.ClearMapping("col0"); err != nil {
		t.Fatalf("ClearMapping() error = %v", err)
	}
	if w.Stage() != StageMapping {
		t.Errorf("Stage() = %q, want %q", w.Stage(), StageMapping)
	}
	if w.CanAnalyze() {
		t.Error("CanAnalyze() = true with 4 mapped")
	}

	if err := w.SetStage("done"); err == nil {
		t.Error("SetStage(unknown) should fail")
	}
}

func TestWorkspace_ReplaceMappings(t *testing.T) {
	w := NewWorkspace(testCatalog(t))
	w.Load(mappedData(3, 5))

	data, err := w.ReplaceMappings([]ColumnMapping{
		{SourceColumn: "col0", Mapped: false, BusinessField: "Revenue"},
		{SourceColumn: "col3", Mapped: true, BusinessField: "region", Confidence: 99},
		{SourceColumn: "col4", Mapped: true, BusinessField: ""},
	})
	if err != nil {
		t.Fatalf("ReplaceMappings() error = %v", err)
	}

	byCol := make(map[string]ColumnMapping)
	for _, m := range data.Mappings {
		byCol[m.SourceColumn] = m
	}
	if m := byCol["col0"]; m.Mapped || m.BusinessField != "" {
		t.Errorf("col0 = %+v, want cleared", m)
	}
	if m := byCol["col1"]; !m.Mapped || m.BusinessField != FieldCustomerEmail {
		t.Errorf("col1 = %+v, want untouched", m)
	}
	if m := byCol["col3"]; !m.Mapped || m.BusinessField != "Region" || m.Confidence != ManualConfidence {
		t.Errorf("col3 = %+v", m)
	}
	if m := byCol["col4"]; m.Mapped {
		t.Errorf("col4 = %+v, blank field should clear", m)
	}

	if _, err := w.ReplaceMappings([]ColumnMapping{{SourceColumn: "nope", Mapped: true, BusinessField: "Revenue"}}); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("ReplaceMappings(unknown) error = %v, want ErrUnknownColumn", err)
	}
	// A failed replace leaves the mappings unchanged.
	after, _ := w.Mappings()
	if len(after) != len(data.Mappings) || after[3] != data.Mappings[3] {
		t.Errorf("mappings changed after failed replace: %+v", after)
	}
}

func TestWorkspace_SnapshotIsolation(t *testing.T) {
	w := NewWorkspace(testCatalog(t))
	src := mappedData(3, 5)
	w.Load(src)

	// Later edits to the loaded value do not leak in.
	src.Mappings[0].BusinessField = "changed"
	snap, _ := w.Snapshot()
	if snap.Mappings[0].BusinessField != FieldRevenue {
		t.Errorf("workspace shares the loaded mappings")
	}

	// Overrides do not change an earlier snapshot.
	if _, err := w.ClearMapping("col1"); err != nil {
		t.Fatal(err)
	}
	if !snap.Mappings[1].Mapped {
		t.Errorf("override changed an earlier snapshot")
	}
}

func TestWorkspace_Reset(t *testing.T) {
	w := NewWorkspace(testCatalog(t))
	w.Load(mappedData(5, 5))
	w.Reset()

	if w.Stage() != StageUpload || w.CanAnalyze() {
		t.Errorf("after Reset stage = %q, canAnalyze = %v", w.Stage(), w.CanAnalyze())
	}
	if _, err := w.Snapshot(); !errors.Is(err, ErrNoDataset) {
		t.Errorf("Snapshot() after Reset error = %v", err)
	}
}

func TestWorkspace_ConcurrentToggle(t *testing.T) {
	w := NewWorkspace(testCatalog(t))
	w.Load(mappedData(5, 5))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			col := fmt.Sprintf("col%d", i%5)
			_, _ = w.Toggle(col, "Gross Margin Percent")
			_ = w.CanAnalyze()
			_, _ = w.Snapshot()
		}()
	}
	wg.Wait()

	mappings, err := w.Mappings()
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range mappings {
		if m.Mapped != (m.BusinessField != "") {
			t.Errorf("inconsistent mapping %+v", m)
		}
		if !m.Mapped && m.Confidence != 0 {
			t.Errorf("unmapped column kept confidence: %+v", m)
		}
	}
}

func TestWorkspace_WithoutCatalog(t *testing.T) {
	w := NewWorkspace(nil)
	w.Load(mappedData(1, 2))

	data, err := w.SetMapping("col1", "Anything Goes")
	if err != nil {
		t.Fatalf("SetMapping() error = %v", err)
	}
	if data.Mappings[1].BusinessField != "Anything Goes" {
		t.Errorf("mapping = %+v", data.Mappings[1])
	}
}
