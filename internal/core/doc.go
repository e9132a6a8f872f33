// Package core provides the business logic for turning an uploaded
// spreadsheet into a mapped dataset with dashboard metrics.
//
// This package holds all domain logic independent of any UI or transport
// layer. The web server and the fieldmap CLI both drive it through
// [Service] or the lower-level functions directly.
//
// # Architecture
//
// The pipeline has four stages:
//
//   - Parsing: [ParseFile] dispatches on the file extension to a registered
//     [Format] (csv, tsv, xlsx, json) and returns a uniform [Table].
//   - Inference: [InferType] classifies each column from a small sample.
//   - Mapping: a [Mapper] scores every column against the business fields of
//     a [Catalog] and keeps the best match above a threshold.
//   - Analysis: [ComputeMetrics] and [GenerateSeries] aggregate mapped
//     columns into KPIs and chart series.
//
// A [Workspace] holds the single current dataset of a session together with
// its review [Stage] and applies manual mapping overrides.
//
// # Field Catalog
//
// Business fields are registered at init time using [Register]. The built-in
// set lives in the fields package:
//
//	core.Register(core.BusinessField{
//	    ID:       "revenue",
//	    Name:     "Revenue",
//	    Category: "Financial",
//	    DataType: core.TypeNumber,
//	    Examples: []string{"$1,250.00", "980.50"},
//	})
//
// A custom catalog can replace or extend the built-in one with [LoadCatalog]
// and [Catalog.Extend].
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE006: File errors (size, format, empty, parse)
//   - MAP001-MAP005: Mapping and analysis errors
//   - UPL002-UPL005: Upload errors (busy, cancelled, timeout)
//   - RATE001: Rate limiting
package core
