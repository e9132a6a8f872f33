// Package templates renders the server-side HTML pages as templ components.
package templates

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/datalens/internal/core"
)

// PreviewRows is how many data rows the preview table shows.
const PreviewRows = 10

// IndexView is the data behind the stage-aware home page.
type IndexView struct {
	Stage       core.Stage
	Data        *core.ProcessedData // nil in the upload stage
	Catalog     []core.CategoryGroup
	Extensions  []string
	MaxFileSize int64
	CanAnalyze  bool
	MinMapped   int
}

// DashboardView is the data behind the dashboard page.
type DashboardView struct {
	FileName string
	Metrics  core.DashboardMetrics
	Series   map[core.SeriesKind][]core.ChartRecord
}

// htmlWriter accumulates the first write error so components can render
// straight through without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) printf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><style>` + stylesheet + `</style></head><body>`)
		h.raw(`<header><a href="/">DataLens</a><nav><a href="/">Data</a> <a href="/dashboard">Dashboard</a></nav></header><main>`)
		h.render(ctx, body)
		h.raw(`</main></body></html>`)
		return h.err
	})
}

// ErrorAlert renders a user-facing error with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="alert" role="alert"><strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if action != "" {
			h.raw(`<p>`)
			h.text(action)
			h.raw(`</p>`)
		}
		h.raw(`<small>Code: `)
		h.text(code)
		h.raw(`</small></div>`)
		return h.err
	})
}

// ErrorPage is a full page around ErrorAlert.
func ErrorPage(msg core.UserMessage) templ.Component {
	return Layout("Error", ErrorAlert(msg.Message, msg.Action, msg.Code))
}

// IndexPage renders the home page for the current stage.
func IndexPage(v IndexView) templ.Component {
	var body templ.Component
	switch {
	case v.Data == nil || v.Stage == core.StageUpload:
		body = uploadForm(v)
	case v.Stage == core.StagePreview:
		body = joinComponents(datasetSummary(v), previewTable(v.Data), mappingReview(v))
	default:
		body = joinComponents(datasetSummary(v), mappingReview(v), previewTable(v.Data))
	}
	return Layout("DataLens", body)
}

func joinComponents(cs ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, c := range cs {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

func uploadForm(v IndexView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section><h1>Upload a data file</h1>`)
		h.raw(`<form method="post" action="/upload" enctype="multipart/form-data">`)
		h.raw(`<input type="file" name="file" required accept="`)
		h.text(strings.Join(v.Extensions, ","))
		h.raw(`"> <button type="submit">Upload</button></form><p class="hint">Supported: `)
		h.text(strings.Join(v.Extensions, " "))
		h.printf(` &middot; up to %s</p></section>`, templ.EscapeString(humanBytes(v.MaxFileSize)))
		return h.err
	})
}

func datasetSummary(v IndexView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		d := v.Data
		h := &htmlWriter{w: w}
		h.raw(`<section class="summary"><h1>`)
		h.text(d.FileName)
		h.raw(`</h1><p>`)
		h.printf(`%d rows &middot; %d columns &middot; %d mapped &middot; %s`,
			d.RowCount, len(d.Columns), d.MappedCount(), templ.EscapeString(humanBytes(d.FileSize)))
		h.raw(`</p><p class="stage">Stage: `)
		h.text(string(v.Stage))
		h.raw(`</p>`)
		if v.CanAnalyze {
			h.raw(`<a class="button" href="/dashboard">Open dashboard</a>`)
		} else {
			h.printf(`<p class="hint">Map at least %d columns to open the dashboard.</p>`, v.MinMapped)
		}
		h.raw(`<form method="post" action="/reset"><button type="submit">Upload another file</button></form></section>`)
		return h.err
	})
}

func previewTable(d *core.ProcessedData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section><h2>Preview</h2><div class="scroll"><table><thead><tr>`)
		for _, c := range d.Columns {
			h.raw(`<th>`)
			h.text(c)
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for i, row := range d.Data {
			if i == PreviewRows {
				break
			}
			h.raw(`<tr>`)
			for _, c := range d.Columns {
				h.raw(`<td>`)
				h.text(row.Get(c).String())
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table></div></section>`)
		return h.err
	})
}

func mappingReview(v IndexView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section><h2>Column mappings</h2><table><thead><tr>`)
		h.raw(`<th>Column</th><th>Type</th><th>Business field</th><th>Confidence</th><th></th></tr></thead><tbody>`)
		for _, m := range v.Data.Mappings {
			h.raw(`<tr><td>`)
			h.text(m.SourceColumn)
			h.raw(`</td><td>`)
			h.text(string(m.DataType))
			h.raw(`</td><td>`)
			h.raw(`<form method="post" action="/mappings/toggle">`)
			h.raw(`<input type="hidden" name="column" value="`)
			h.text(m.SourceColumn)
			h.raw(`"><select name="field">`)
			fieldOptions(h, v.Catalog, m.BusinessField)
			h.raw(`</select> <button type="submit">`)
			if m.Mapped {
				h.raw(`Toggle`)
			} else {
				h.raw(`Map`)
			}
			h.raw(`</button></form></td><td>`)
			if m.Mapped {
				h.text(strconv.Itoa(m.Confidence) + "%")
			} else {
				h.raw(`<span class="muted">unmapped</span>`)
			}
			h.raw(`</td><td>`)
			if m.Mapped {
				h.raw(`<span class="badge">mapped</span>`)
			}
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table></section>`)
		return h.err
	})
}

func fieldOptions(h *htmlWriter, groups []core.CategoryGroup, selected string) {
	for _, g := range groups {
		h.raw(`<optgroup label="`)
		h.text(g.Category)
		h.raw(`">`)
		for _, f := range g.Fields {
			h.raw(`<option value="`)
			h.text(f.Name)
			h.raw(`"`)
			if strings.EqualFold(f.Name, selected) {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(f.Name)
			h.raw(`</option>`)
		}
		h.raw(`</optgroup>`)
	}
}

// DashboardPage renders KPI cards and the chart series.
func DashboardPage(v DashboardView) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		m := v.Metrics
		h := &htmlWriter{w: w}
		h.raw(`<section><h1>Dashboard</h1><p class="hint">`)
		h.text(v.FileName)
		h.raw(`</p><div class="cards">`)
		card(h, "Total revenue", money(m.TotalRevenue), m.Growth.Revenue)
		card(h, "Total profit", money(m.TotalProfit), m.Growth.Profit)
		card(h, "Transactions", strconv.Itoa(m.TotalTransactions), m.Growth.Orders)
		card(h, "Average order", money(m.AverageOrderValue), 0)
		card(h, "Profit margin", percent(m.ProfitMargin), 0)
		card(h, "Customers", strconv.Itoa(m.Customers.TotalCustomers), m.Growth.Customers)
		card(h, "Retention", percent(m.Customers.RetentionRate), 0)
		card(h, "Products", strconv.Itoa(m.Inventory.TotalProducts), 0)
		card(h, "Low stock", strconv.Itoa(m.Inventory.LowStockItems), 0)
		card(h, "Out of stock", strconv.Itoa(m.Inventory.OutOfStockItems), 0)
		card(h, "Inventory value", money(m.Inventory.InventoryValue), 0)
		h.raw(`</div></section>`)

		for _, kind := range core.SeriesKinds() {
			barChart(h, kind, v.Series[kind])
		}
		return h.err
	})
	return Layout("Dashboard", body)
}

func card(h *htmlWriter, label, value string, growth float64) {
	h.raw(`<div class="card"><span class="label">`)
	h.text(label)
	h.raw(`</span><span class="value">`)
	h.text(value)
	h.raw(`</span>`)
	if growth != 0 {
		h.printf(`<span class="growth">+%.1f%%</span>`, growth)
	}
	h.raw(`</div>`)
}

var seriesTitles = map[core.SeriesKind]string{
	core.SeriesRevenueByDate:     "Revenue by date",
	core.SeriesRevenueByCategory: "Revenue by category",
	core.SeriesCustomerSegments:  "Customer segments",
}

// barChart draws a series as horizontal CSS bars scaled to the largest value.
func barChart(h *htmlWriter, kind core.SeriesKind, records []core.ChartRecord) {
	h.raw(`<section class="chart"><h2>`)
	h.text(seriesTitles[kind])
	h.raw(`</h2>`)
	if len(records) == 0 {
		h.raw(`<p class="muted">Not enough mapped columns for this chart.</p></section>`)
		return
	}
	peak := 0.0
	for _, r := range records {
		peak = max(peak, r.Value)
	}
	for _, r := range records {
		label := r.Name
		if label == "" {
			label = r.Date
		}
		width := 0.0
		if peak > 0 && r.Value > 0 {
			width = r.Value / peak * 100
		}
		value := money(r.Value)
		if kind == core.SeriesCustomerSegments {
			value = strconv.FormatFloat(r.Value, 'f', -1, 64)
		}
		h.raw(`<div class="bar"><span class="label">`)
		h.text(label)
		h.printf(`</span><span class="track"><span class="fill" style="width:%.1f%%"></span></span><span class="value">`, width)
		h.text(value)
		h.raw(`</span></div>`)
	}
	h.raw(`</section>`)
}

func money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	out := "$" + b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

const stylesheet = `
body{font-family:system-ui,sans-serif;margin:0;color:#1f2937;background:#f9fafb}
header{display:flex;justify-content:space-between;padding:1rem 2rem;background:#111827}
header a{color:#f9fafb;text-decoration:none;margin-left:1rem}
main{max-width:72rem;margin:0 auto;padding:1.5rem}
section{background:#fff;border:1px solid #e5e7eb;border-radius:.5rem;padding:1rem 1.5rem;margin-bottom:1.5rem}
table{border-collapse:collapse;width:100%}th,td{border-bottom:1px solid #e5e7eb;padding:.4rem;text-align:left;font-size:.9rem}
.scroll{overflow-x:auto}.hint,.muted{color:#6b7280}.badge{background:#d1fae5;border-radius:.25rem;padding:0 .4rem}
.alert{background:#fee2e2;border:1px solid #fca5a5;border-radius:.5rem;padding:1rem}
.cards{display:grid;grid-template-columns:repeat(auto-fill,minmax(11rem,1fr));gap:1rem}
.card{border:1px solid #e5e7eb;border-radius:.5rem;padding:.75rem;display:flex;flex-direction:column}
.card .value{font-size:1.4rem;font-weight:600}.growth{color:#059669;font-size:.8rem}
.bar{display:grid;grid-template-columns:10rem 1fr 8rem;gap:.5rem;align-items:center;margin:.25rem 0}
.track{background:#f3f4f6;height:.8rem;border-radius:.4rem}.fill{display:block;height:100%;background:#3b82f6;border-radius:.4rem}
.button,button{background:#2563eb;color:#fff;border:0;border-radius:.3rem;padding:.35rem .8rem;text-decoration:none;cursor:pointer}
`
