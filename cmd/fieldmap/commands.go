package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/datalens/internal/application"
	"github.com/JonMunkholm/datalens/internal/config"
	"github.com/JonMunkholm/datalens/internal/core"
	"github.com/JonMunkholm/datalens/internal/logging"
)

// cli holds the flags shared by every subcommand.
type cli struct {
	out    io.Writer
	errOut io.Writer
	cfg    *config.Config

	logLevel    string
	logFormat   string
	catalogFile string
	catalogMode string
	threshold   int
	overrides   []string
	jsonOutput  bool
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:               "fieldmap",
		Short:             "Classify spreadsheet columns against business fields",
		Long:              `fieldmap parses a CSV, TSV, Excel or JSON file, maps its columns to known business fields and derives dashboard metrics and chart series from the result.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	f := root.PersistentFlags()
	f.StringVar(&c.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	f.StringVar(&c.logFormat, "log-format", "text", "log format: text or json")
	f.StringVar(&c.catalogFile, "catalog", "", "YAML catalog file (overrides CATALOG_FILE)")
	f.StringVar(&c.catalogMode, "catalog-mode", "", "how --catalog combines with the built-in fields: extend or replace")
	f.IntVar(&c.threshold, "threshold", 0, "minimum confidence for a mapped column (overrides MAPPING_THRESHOLD)")
	f.BoolVar(&c.jsonOutput, "json", false, "print JSON instead of a table")

	root.AddCommand(c.mapCmd(), c.metricsCmd(), c.seriesCmd(), c.catalogCmd(), c.explainCmd())
	return root
}

// setup loads configuration from the environment, applies flag overrides
// and sends logs to stderr.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("catalog") {
		cfg.Mapping.CatalogFile = c.catalogFile
	}
	if f.Changed("catalog-mode") {
		cfg.Mapping.CatalogMode = c.catalogMode
	}
	if f.Changed("threshold") {
		cfg.Mapping.Threshold = c.threshold
	}
	cfg.Logging.Level = c.logLevel
	cfg.Logging.Format = c.logFormat
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	logging.SetupWriter(c.errOut, cfg.Logging.Level, cfg.Logging.Format)
	return nil
}

// load runs the pipeline on path and applies any --map overrides.
func (c *cli) load(cmd *cobra.Command, path string) (*core.Service, *core.ProcessedData, error) {
	svc, err := application.NewService(c.cfg, nil)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	size := int64(-1)
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	res, err := svc.Upload(cmd.Context(), path, size, f)
	if err != nil {
		return nil, nil, err
	}
	if len(c.overrides) == 0 {
		return svc, res.Data, nil
	}

	overrides, err := parseOverrides(c.overrides)
	if err != nil {
		return nil, nil, err
	}
	data, err := svc.ReplaceMappings(cmd.Context(), overrides)
	if err != nil {
		return nil, nil, err
	}
	return svc, data, nil
}

// parseOverrides turns "column=Field" pairs into manual mappings. An empty
// field unmaps the column.
func parseOverrides(pairs []string) ([]core.ColumnMapping, error) {
	out := make([]core.ColumnMapping, 0, len(pairs))
	for _, p := range pairs {
		column, field, ok := strings.Cut(p, "=")
		column = strings.TrimSpace(column)
		if !ok || column == "" {
			return nil, fmt.Errorf("invalid --map %q: want column=Field", p)
		}
		field = strings.TrimSpace(field)
		out = append(out, core.ColumnMapping{SourceColumn: column, BusinessField: field, Mapped: field != ""})
	}
	return out, nil
}

func (c *cli) addMapFlag(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&c.overrides, "map", nil, "override a mapping as column=Field (repeatable; empty Field unmaps)")
}

func (c *cli) mapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map <file>",
		Short: "Show how each column maps to a business field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, data, err := c.load(cmd, args[0])
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return c.writeJSON(data.Mappings)
			}

			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "COLUMN\tTYPE\tFIELD\tCONFIDENCE\tMAPPED")
			for _, m := range data.Mappings {
				field := m.BusinessField
				if field == "" {
					field = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", m.SourceColumn, m.DataType, field, m.Confidence, yesNo(m.Mapped))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "\n%d of %d columns mapped, %d rows, stage %s\n",
				data.MappedCount(), len(data.Columns), data.RowCount, svc.Stage())
			if !svc.CanAnalyze() {
				fmt.Fprintf(c.out, "map at least %d columns to compute metrics\n", core.AnalysisMinMapped)
			}
			return nil
		},
	}
	c.addMapFlag(cmd)
	return cmd
}

func (c *cli) metricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics <file>",
		Short: "Compute dashboard metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := c.load(cmd, args[0])
			if err != nil {
				return err
			}
			m, err := svc.Dashboard()
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return c.writeJSON(m)
			}

			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			rows := [][2]string{
				{"Total revenue", money(m.TotalRevenue)},
				{"Total profit", money(m.TotalProfit)},
				{"Transactions", strconv.Itoa(m.TotalTransactions)},
				{"Average order value", money(m.AverageOrderValue)},
				{"Profit margin", pct(m.ProfitMargin)},
				{"Customers", strconv.Itoa(m.Customers.TotalCustomers)},
				{"New customers", strconv.Itoa(m.Customers.NewCustomers)},
				{"Returning customers", strconv.Itoa(m.Customers.ReturningCustomers)},
				{"Average customer value", money(m.Customers.AverageCustomerValue)},
				{"Retention rate", pct(m.Customers.RetentionRate)},
				{"Products", strconv.Itoa(m.Inventory.TotalProducts)},
				{"Low stock", strconv.Itoa(m.Inventory.LowStockItems)},
				{"Out of stock", strconv.Itoa(m.Inventory.OutOfStockItems)},
				{"Inventory value", money(m.Inventory.InventoryValue)},
			}
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1])
			}
			return tw.Flush()
		},
	}
	c.addMapFlag(cmd)
	return cmd
}

func (c *cli) seriesCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "series <file>",
		Short: "Generate a chart series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := core.ParseSeriesKind(kind)
			if err != nil {
				return err
			}
			svc, _, err := c.load(cmd, args[0])
			if err != nil {
				return err
			}
			records, err := svc.Series(k)
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return c.writeJSON(records)
			}

			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			for _, r := range records {
				label := r.Name
				if k == core.SeriesRevenueByDate {
					label = r.Date
				}
				fmt.Fprintf(tw, "%s\t%s\n", label, strconv.FormatFloat(r.Value, 'f', -1, 64))
			}
			return tw.Flush()
		},
	}
	kinds := make([]string, 0, 3)
	for _, k := range core.SeriesKinds() {
		kinds = append(kinds, string(k))
	}
	cmd.Flags().StringVar(&kind, "kind", string(core.SeriesRevenueByDate), "series: "+strings.Join(kinds, ", "))
	c.addMapFlag(cmd)
	return cmd
}

func (c *cli) catalogCmd() *cobra.Command {
	var (
		asYAML   bool
		category string
	)
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the business fields columns are matched against",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := application.BuildCatalog(c.cfg.Mapping)
			if err != nil {
				return err
			}
			if asYAML {
				return catalog.WriteYAML(c.out)
			}

			groups := catalog.ByCategory()
			if category != "" {
				var filtered []core.CategoryGroup
				for _, g := range groups {
					if strings.EqualFold(g.Category, category) {
						filtered = append(filtered, g)
					}
				}
				if len(filtered) == 0 {
					return fmt.Errorf("unknown category %q", category)
				}
				groups = filtered
			}
			if c.jsonOutput {
				return c.writeJSON(groups)
			}

			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			for _, g := range groups {
				fmt.Fprintf(tw, "%s (%d)\n", g.Category, len(g.Fields))
				for _, f := range g.Fields {
					fmt.Fprintf(tw, "  %s\t%s\t%s\n", f.ID, f.Name, f.DataType)
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the catalog as a YAML document usable with --catalog")
	cmd.Flags().StringVar(&category, "category", "", "only list fields in this category")
	return cmd
}

func (c *cli) explainCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "explain <file> <column>",
		Short: "Show the best scoring fields for one column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, data, err := c.load(cmd, args[0])
			if err != nil {
				return err
			}
			column := args[1]
			var current *core.ColumnMapping
			for i := range data.Mappings {
				if data.Mappings[i].SourceColumn == column {
					current = &data.Mappings[i]
					break
				}
			}
			if current == nil {
				return fmt.Errorf("%w: %q", core.ErrUnknownColumn, column)
			}

			samples := core.ColumnValues(data.Data[:min(core.TypeSampleSize, len(data.Data))], column)
			candidates := svc.Mapper().Candidates(column, samples)
			candidates = candidates[:min(max(limit, 0), len(candidates))]
			if c.jsonOutput {
				return c.writeJSON(candidates)
			}

			fmt.Fprintf(c.out, "column %q inferred as %s\n", column, core.InferType(samples))
			if current.Mapped {
				fmt.Fprintf(c.out, "mapped to %s (%d%%)\n\n", current.BusinessField, current.Confidence)
			} else {
				fmt.Fprintf(c.out, "not mapped (threshold %d%%)\n\n", svc.Mapper().Config().Threshold)
			}
			if len(candidates) == 0 {
				fmt.Fprintln(c.out, "no field scored above zero")
				return nil
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SCORE\tFIELD\tCATEGORY\tTYPE")
			for _, cand := range candidates {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", cand.Score, cand.Field.Name, cand.Field.Category, cand.Field.DataType)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 5, "number of candidates to show")
	return cmd
}

func (c *cli) writeJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}
