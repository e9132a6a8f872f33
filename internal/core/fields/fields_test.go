package fields

import (
	"context"
	"testing"

	"github.com/JonMunkholm/datalens/internal/core"
)

func TestCatalog_Size(t *testing.T) {
	c := core.DefaultCatalog()
	if c.Len() < 150 {
		t.Errorf("catalog has %d fields, want at least 150", c.Len())
	}
	if c.Len() != core.FieldCount() {
		t.Errorf("Len() = %d, FieldCount() = %d", c.Len(), core.FieldCount())
	}
}

func TestCatalog_FieldsUsedByAnalysis(t *testing.T) {
	c := core.DefaultCatalog()

	// Names the metrics and chart code look for.
	names := []string{
		core.FieldRevenue, core.FieldTotalAmount, core.FieldProfit,
		core.FieldStockQuantity, core.FieldReorderPoint, core.FieldUnitCost,
		core.FieldProductID, core.FieldSKU, core.FieldProductName,
		core.FieldCategory, core.FieldProductCategory,
		core.FieldCustomerID, core.FieldCustomerEmail, core.FieldCustomerName,
		"Cost", "Date", "Order Date", "Transaction Date",
	}
	for _, name := range names {
		f, ok := c.Lookup(name)
		if !ok {
			t.Errorf("catalog is missing %q", name)
			continue
		}
		if f.Name != name {
			t.Errorf("Lookup(%q).Name = %q", name, f.Name)
		}
	}
}

func TestCatalog_EveryFieldHasExamples(t *testing.T) {
	for _, f := range core.DefaultCatalog().Fields() {
		if len(f.Examples) == 0 {
			t.Errorf("field %s has no examples", f.ID)
		}
		if f.Description == "" {
			t.Errorf("field %s has no description", f.ID)
		}
	}
}

func TestCatalog_CategoryOrder(t *testing.T) {
	groups := core.DefaultCatalog().ByCategory()
	if len(groups) != 12 {
		t.Fatalf("got %d categories, want 12", len(groups))
	}
	if groups[0].Category != "Financial" {
		t.Errorf("first category = %q, want Financial", groups[0].Category)
	}
	if groups[0].Fields[0].Name != core.FieldRevenue {
		t.Errorf("first field = %q, want Revenue", groups[0].Fields[0].Name)
	}
}

func TestDefaultCatalog_MapsCommonExports(t *testing.T) {
	m := core.NewMapper(core.DefaultCatalog(), core.DefaultMatchConfig())

	columns := []string{"Revenue", "date", "Customer Email", "SKU", "Stock Quantity"}
	rows := []core.Row{
		{
			"Revenue":        core.String("$199.99"),
			"date":           core.String("2024-01-15"),
			"Customer Email": core.String("ann@example.com"),
			"SKU":            core.String("SKU-1"),
			"Stock Quantity": core.Number(12),
		},
		{
			"Revenue":        core.String("$50.00"),
			"date":           core.String("2024-01-16"),
			"Customer Email": core.String("bob@example.com"),
			"SKU":            core.String("SKU-2"),
			"Stock Quantity": core.Number(0),
		},
	}

	mappings, err := m.MapColumns(context.Background(), columns, rows)
	if err != nil {
		t.Fatalf("MapColumns: %v", err)
	}

	want := map[string]string{
		"Revenue":        core.FieldRevenue,
		"date":           "Date",
		"Customer Email": core.FieldCustomerEmail,
		"SKU":            core.FieldSKU,
		"Stock Quantity": core.FieldStockQuantity,
	}
	for _, mp := range mappings {
		if mp.BusinessField != want[mp.SourceColumn] {
			t.Errorf("%s mapped to %q, want %q", mp.SourceColumn, mp.BusinessField, want[mp.SourceColumn])
		}
		if !mp.Mapped {
			t.Errorf("%s should be mapped (confidence %d)", mp.SourceColumn, mp.Confidence)
		}
	}

	rev := mappings[0]
	if rev.Confidence < 95 {
		t.Errorf("Revenue confidence = %d, want >= 95", rev.Confidence)
	}
	if rev.DataType != core.TypeNumber {
		t.Errorf("Revenue type = %q, want number", rev.DataType)
	}
}
