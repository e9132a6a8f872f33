package core

// metrics.go derives dashboard KPIs from a ProcessedData snapshot.
//
// Every figure uses mapped columns when they exist and otherwise falls back
// to a fixed estimation ratio. Partial mappings are the normal case, so
// nothing here returns an error.

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Business field names the aggregators look for.
const (
	FieldRevenue         = "Revenue"
	FieldTotalAmount     = "Total Amount"
	FieldProfit          = "Profit"
	FieldUnitCost        = "Unit Cost"
	FieldStockQuantity   = "Stock Quantity"
	FieldReorderPoint    = "Reorder Point"
	FieldProductID       = "Product ID"
	FieldSKU             = "SKU"
	FieldProductName     = "Product Name"
	FieldCategory        = "Category"
	FieldProductCategory = "Product Category"
	FieldCustomerID      = "Customer ID"
	FieldCustomerEmail   = "Customer Email"
	FieldCustomerName    = "Customer Name"
)

// Estimation ratios used when the relevant columns are not mapped.
const (
	ProfitRatio         = 0.30 // profit as a share of revenue
	InventoryValueRatio = 0.40 // stock value as a share of revenue
	CustomerRatio       = 0.70 // distinct customers per transaction
	ReturningRatio      = 0.30 // returning share of customers
	DefaultReorderPoint = 10   // low-stock threshold without a Reorder Point column
)

// Illustrative growth rates. A single upload has no historical baseline.
const (
	RevenueGrowth  = 12.5
	ProfitGrowth   = 8.3
	CustomerGrowth = 15.2
	OrderGrowth    = 10.1
)

var (
	amountFields   = []string{FieldRevenue, FieldTotalAmount}
	productFields  = []string{FieldProductID, FieldSKU, FieldProductName}
	customerFields = []string{FieldCustomerID, FieldCustomerEmail, FieldCustomerName}
	categoryFields = []string{FieldCategory, FieldProductCategory}
)

// DashboardMetrics is a read-only KPI snapshot of one dataset.
type DashboardMetrics struct {
	TotalRevenue      float64          `json:"totalRevenue"`
	TotalProfit       float64          `json:"totalProfit"`
	TotalTransactions int              `json:"totalTransactions"`
	AverageOrderValue float64          `json:"averageOrderValue"`
	ProfitMargin      float64          `json:"profitMargin"`
	Inventory         InventoryMetrics `json:"inventory"`
	Customers         CustomerMetrics  `json:"customers"`
	Growth            GrowthRates      `json:"growth"`
}

// InventoryMetrics summarizes stock levels.
type InventoryMetrics struct {
	TotalProducts   int     `json:"totalProducts"`
	LowStockItems   int     `json:"lowStockItems"`
	OutOfStockItems int     `json:"outOfStockItems"`
	InventoryValue  float64 `json:"inventoryValue"`
}

// CustomerMetrics summarizes the customer base.
type CustomerMetrics struct {
	TotalCustomers       int     `json:"totalCustomers"`
	NewCustomers         int     `json:"newCustomers"`
	ReturningCustomers   int     `json:"returningCustomers"`
	AverageCustomerValue float64 `json:"averageCustomerValue"`
	RetentionRate        float64 `json:"retentionRate"`
}

// GrowthRates are period-over-period percentages.
type GrowthRates struct {
	Revenue   float64 `json:"revenue"`
	Profit    float64 `json:"profit"`
	Customers float64 `json:"customers"`
	Orders    float64 `json:"orders"`
}

// ComputeMetrics computes the dashboard KPIs. A nil dataset yields zero
// metrics apart from the growth constants.
func ComputeMetrics(data *ProcessedData) DashboardMetrics {
	growth := GrowthRates{
		Revenue:   RevenueGrowth,
		Profit:    ProfitGrowth,
		Customers: CustomerGrowth,
		Orders:    OrderGrowth,
	}
	if data == nil {
		return DashboardMetrics{Growth: growth}
	}

	amountCols := mappedColumns(data.Mappings, amountFields...)
	revenue := sumFirstPerRow(data.Data, amountCols)

	var profit decimal.Decimal
	if profitCols := mappedColumns(data.Mappings, FieldProfit); len(profitCols) > 0 {
		profit = sumFirstPerRow(data.Data, profitCols)
	} else {
		profit = revenue.Mul(decimal.NewFromFloat(ProfitRatio))
	}

	transactions := len(data.Data)

	return DashboardMetrics{
		TotalRevenue:      revenue.InexactFloat64(),
		TotalProfit:       profit.InexactFloat64(),
		TotalTransactions: transactions,
		AverageOrderValue: safeDiv(revenue, decimal.NewFromInt(int64(transactions))),
		ProfitMargin:      safeDiv(profit.Mul(decimal.NewFromInt(100)), revenue),
		Inventory:         computeInventory(data, revenue),
		Customers:         computeCustomers(data, revenue, transactions),
		Growth:            growth,
	}
}

func computeInventory(data *ProcessedData, revenue decimal.Decimal) InventoryMetrics {
	var inv InventoryMetrics

	if col, ok := firstMappedColumn(data.Mappings, productFields...); ok {
		inv.TotalProducts = len(distinctKeys(data.Data, col))
	} else {
		inv.TotalProducts = len(data.Data)
	}

	stockCol, hasStock := firstMappedColumn(data.Mappings, FieldStockQuantity)
	reorderCol, hasReorder := firstMappedColumn(data.Mappings, FieldReorderPoint)
	costCol, hasCost := firstMappedColumn(data.Mappings, FieldUnitCost)

	value := revenue.Mul(decimal.NewFromFloat(InventoryValueRatio))
	if hasStock {
		stockValue := decimal.Zero
		for _, row := range data.Data {
			cell := row.Get(stockCol)
			if cell.IsEmpty() {
				continue
			}
			stock := ToNumber(cell)

			threshold := float64(DefaultReorderPoint)
			if hasReorder {
				if rp := row.Get(reorderCol); !rp.IsEmpty() {
					threshold = ToNumber(rp)
				}
			}

			switch {
			case stock <= 0:
				inv.OutOfStockItems++
			case stock < threshold:
				inv.LowStockItems++
			}

			if hasCost && stock > 0 {
				stockValue = stockValue.Add(decimal.NewFromFloat(stock).Mul(decimal.NewFromFloat(ToNumber(row.Get(costCol)))))
			}
		}
		if hasCost {
			value = stockValue
		}
	}
	inv.InventoryValue = value.InexactFloat64()
	return inv
}

func computeCustomers(data *ProcessedData, revenue decimal.Decimal, transactions int) CustomerMetrics {
	var c CustomerMetrics

	if col, ok := firstMappedColumn(data.Mappings, customerFields...); ok {
		counts := distinctKeys(data.Data, col)
		c.TotalCustomers = len(counts)
		for _, n := range counts {
			if n > 1 {
				c.ReturningCustomers++
			}
		}
	} else {
		c.TotalCustomers = int(math.Round(float64(transactions) * CustomerRatio))
		c.ReturningCustomers = int(math.Round(float64(c.TotalCustomers) * ReturningRatio))
	}

	c.NewCustomers = c.TotalCustomers - c.ReturningCustomers
	total := decimal.NewFromInt(int64(c.TotalCustomers))
	c.AverageCustomerValue = safeDiv(revenue, total)
	c.RetentionRate = safeDiv(decimal.NewFromInt(int64(c.ReturningCustomers)*100), total)
	return c
}

// mappedColumns returns the source columns mapped to any of fields, grouped
// in the order fields are given and in mapping order within a field.
func mappedColumns(mappings []ColumnMapping, fields ...string) []string {
	var cols []string
	for _, f := range fields {
		for _, m := range mappings {
			if m.Mapped && strings.EqualFold(m.BusinessField, f) {
				cols = append(cols, m.SourceColumn)
			}
		}
	}
	return cols
}

// firstMappedColumn returns the first column mapped to the earliest of
// fields that has one.
func firstMappedColumn(mappings []ColumnMapping, fields ...string) (string, bool) {
	cols := mappedColumns(mappings, fields...)
	if len(cols) == 0 {
		return "", false
	}
	return cols[0], true
}

// firstValue returns the first non-empty cell of row among cols.
func firstValue(row Row, cols []string) (Value, bool) {
	for _, c := range cols {
		if v := row.Get(c); !v.IsEmpty() {
			return v, true
		}
	}
	return Value{}, false
}

// sumFirstPerRow sums, over rows, the first non-empty value among cols.
func sumFirstPerRow(rows []Row, cols []string) decimal.Decimal {
	sum := decimal.Zero
	if len(cols) == 0 {
		return sum
	}
	for _, row := range rows {
		if v, ok := firstValue(row, cols); ok {
			sum = sum.Add(decimal.NewFromFloat(ToNumber(v)))
		}
	}
	return sum
}

// distinctKeys counts rows per non-empty key in col. Keys are compared
// trimmed and case-insensitively.
func distinctKeys(rows []Row, col string) map[string]int {
	counts := make(map[string]int)
	for _, row := range rows {
		if k := rowKey(row.Get(col)); k != "" {
			counts[k]++
		}
	}
	return counts
}

func rowKey(v Value) string {
	if v.IsEmpty() {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(v.String()))
}

// safeDiv returns a / b, or 0 when b is zero.
func safeDiv(a, b decimal.Decimal) float64 {
	if b.IsZero() {
		return 0
	}
	return a.Div(b).InexactFloat64()
}
