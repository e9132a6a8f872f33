package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/datalens/internal/core"
)

const salesCSV = "Revenue,Order Date,Customer Email,Region,Product Name,memo\n" +
	"\"$1,200.00\",2024-01-15,a@example.com,EMEA,Widget,qqq\n" +
	"300,2024-01-16,b@example.com,North,Gadget,\n" +
	"500,2024-01-16,a@example.com,EMEA,Widget,\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the CLI in-process and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMapCommand(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)

	out, err := run(t, "map", path)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	for _, want := range []string{"COLUMN", "Customer Email", "5 of 6 columns mapped, 3 rows, stage mapping"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "map", path, "--json")
	if err != nil {
		t.Fatalf("map --json: %v", err)
	}
	var mappings []core.ColumnMapping
	if err := json.Unmarshal([]byte(out), &mappings); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(mappings) != 6 || mappings[0].BusinessField != core.FieldRevenue || mappings[5].Mapped {
		t.Errorf("mappings = %+v", mappings)
	}
}

func TestMapCommand_Overrides(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)

	out, err := run(t, "map", path, "--json", "--map", "memo=Category", "--map", "Region=")
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	var mappings []core.ColumnMapping
	if err := json.Unmarshal([]byte(out), &mappings); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m := mappings[5]; !m.Mapped || m.BusinessField != "Category" || m.Confidence < core.ManualConfidence {
		t.Errorf("memo = %+v", m)
	}
	if mappings[3].Mapped {
		t.Errorf("Region should be unmapped: %+v", mappings[3])
	}

	if _, err := run(t, "map", path, "--map", "memo"); err == nil || !strings.Contains(err.Error(), "column=Field") {
		t.Errorf("bad override error = %v", err)
	}
	if _, err := run(t, "map", path, "--map", "missing=Region"); !errors.Is(err, core.ErrUnknownColumn) {
		t.Errorf("unknown column error = %v", err)
	}
}

func TestMetricsCommand(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)

	out, err := run(t, "metrics", path, "--json")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	var m core.DashboardMetrics
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.TotalRevenue != 2000 || m.TotalTransactions != 3 {
		t.Errorf("metrics = %+v", m)
	}

	out, err = run(t, "metrics", path)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if !strings.Contains(out, "Total revenue") || !strings.Contains(out, "2000.00") {
		t.Errorf("table output:\n%s", out)
	}

	// Unmapping one column drops below the analysis minimum.
	_, err = run(t, "metrics", path, "--map", "Region=")
	if !errors.Is(err, core.ErrInsufficientMappings) {
		t.Errorf("gated metrics error = %v", err)
	}
}

func TestSeriesCommand(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)

	out, err := run(t, "series", path, "--kind", "revenue-by-date", "--json")
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	var records []core.ChartRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 2 || records[1].Date != "2024-01-16" || records[1].Value != 800 {
		t.Errorf("records = %+v", records)
	}

	out, err = run(t, "series", path, "--kind", "customer-segments")
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if !strings.Contains(out, core.SegmentHigh) || !strings.Contains(out, core.SegmentMinimal) {
		t.Errorf("segments output:\n%s", out)
	}

	if _, err := run(t, "series", path, "--kind", "pie"); !errors.Is(err, core.ErrUnknownSeries) {
		t.Errorf("unknown kind error = %v", err)
	}
}

func TestCatalogCommand(t *testing.T) {
	out, err := run(t, "catalog", "--category", "financial")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if !strings.HasPrefix(out, "Financial (") || !strings.Contains(out, "total_amount") {
		t.Errorf("output:\n%s", out)
	}

	out, err = run(t, "catalog", "--yaml")
	if err != nil {
		t.Fatalf("catalog --yaml: %v", err)
	}
	c, err := core.LoadCatalog(strings.NewReader(out))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if c.Len() != core.DefaultCatalog().Len() {
		t.Errorf("round trip has %d fields, want %d", c.Len(), core.DefaultCatalog().Len())
	}

	custom := writeFile(t, "custom.yaml", "fields:\n  - id: sku_code\n    name: SKU Code\n    category: Custom\n    type: string\n")
	out, err = run(t, "catalog", "--catalog", custom, "--catalog-mode", "replace", "--json")
	if err != nil {
		t.Fatalf("catalog --catalog: %v", err)
	}
	var groups []core.CategoryGroup
	if err := json.Unmarshal([]byte(out), &groups); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(groups) != 1 || groups[0].Category != "Custom" || groups[0].Fields[0].ID != "sku_code" {
		t.Errorf("groups = %+v", groups)
	}

	if _, err := run(t, "catalog", "--category", "nope"); err == nil {
		t.Error("unknown category should fail")
	}
	if _, err := run(t, "catalog", "--catalog-mode", "merge"); err == nil {
		t.Error("invalid catalog mode should fail validation")
	}
}

func TestExplainCommand(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)

	out, err := run(t, "explain", path, "Customer Email", "--limit", "3")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	for _, want := range []string{`column "Customer Email" inferred as string`, "mapped to Customer Email", "SCORE"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "explain", path, "Revenue", "--json", "--limit", "1")
	if err != nil {
		t.Fatalf("explain --json: %v", err)
	}
	var cands []core.Candidate
	if err := json.Unmarshal([]byte(out), &cands); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cands) != 1 || cands[0].Field.Name != core.FieldRevenue {
		t.Errorf("candidates = %+v", cands)
	}

	if _, err := run(t, "explain", path, "missing"); !errors.Is(err, core.ErrUnknownColumn) {
		t.Errorf("missing column error = %v", err)
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{name: "unsupported", args: []string{"map", writeFile(t, "report.pdf", "%PDF")}, code: "FILE006"},
		{name: "empty", args: []string{"map", writeFile(t, "empty.csv", "a,b\n")}, code: "FILE005"},
		{name: "malformed json", args: []string{"map", writeFile(t, "data.json", "[1,")}, code: "FILE002"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := core.MapError(err).Code; got != tt.code {
				t.Errorf("code = %q, want %q (%v)", got, tt.code, err)
			}
		})
	}

	if _, err := run(t, "map"); err == nil {
		t.Error("map without a file should fail")
	}
	if _, err := run(t, "map", filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("missing file should fail")
	}
}
