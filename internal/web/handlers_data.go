package web

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/datalens/internal/core"
)

// CandidatesResponse lists every field that scored above zero for a column.
type CandidatesResponse struct {
	Column     string           `json:"column"`
	DataType   core.DataType    `json:"dataType"`
	Candidates []core.Candidate `json:"candidates"`
}

// handleDataset returns the current dataset summary with a row preview.
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.Dataset()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toDatasetResponse(data, previewLimit(r)))
}

// handleMappings returns the current column mappings.
func (s *Server) handleMappings(w http.ResponseWriter, r *http.Request) {
	mappings, err := s.service.Mappings()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappings)
}

// handleCandidates explains how a column scores against the catalog.
func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	column := chi.URLParam(r, "column")
	data, err := s.service.Dataset()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if !slices.Contains(data.Columns, column) {
		s.respondError(w, r, fmt.Errorf("%w: %q", core.ErrUnknownColumn, column))
		return
	}

	rows := data.Data[:min(core.TypeSampleSize, len(data.Data))]
	samples := core.ColumnValues(rows, column)
	candidates := s.service.Mapper().Candidates(column, samples)
	limit := parseIntParam(r, "limit", 10)
	writeJSON(w, http.StatusOK, CandidatesResponse{
		Column:     column,
		DataType:   core.InferType(samples),
		Candidates: candidates[:min(limit, len(candidates))],
	})
}

// handleCatalog returns the business fields grouped by category, or as
// YAML with ?format=yaml.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	catalog := s.service.Catalog()
	if r.URL.Query().Get("format") == "yaml" {
		w.Header().Set("Content-Type", "application/yaml")
		if err := catalog.WriteYAML(w); err != nil {
			s.respondError(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, catalog.ByCategory())
}

// handleCatalogField returns one business field by ID or name.
func (s *Server) handleCatalogField(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "field")
	field, ok := s.service.Catalog().Lookup(key)
	if !ok {
		s.respondError(w, r, fmt.Errorf("%w: %q", core.ErrUnknownField, key))
		return
	}
	writeJSON(w, http.StatusOK, field)
}

// handleMetrics returns the dashboard KPIs.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.service.Dashboard()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

// handleChart returns one chart series as JSON, or as a CSV download with
// ?format=csv.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind, err := core.ParseSeriesKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	records, err := s.service.Series(kind)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") != "csv" {
		writeJSON(w, http.StatusOK, records)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, kind))
	label := "name"
	if kind == core.SeriesRevenueByDate {
		label = "date"
	}
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{label, "value"})
	for _, rec := range records {
		key := rec.Name
		if kind == core.SeriesRevenueByDate {
			key = rec.Date
		}
		_ = cw.Write([]string{key, strconv.FormatFloat(rec.Value, 'f', -1, 64)})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		s.respondError(w, r, err)
	}
}
