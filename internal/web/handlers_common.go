package web

// This file contains shared helpers and response shapes used across handlers.

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/datalens/internal/core"
	"github.com/JonMunkholm/datalens/internal/web/templates"
)

// maxJSONBody bounds request bodies of the JSON endpoints.
const maxJSONBody = 1 << 20

// multipartOverhead is the allowance for multipart framing on top of the
// upload size limit.
const multipartOverhead = 64 << 10

// DatasetResponse summarizes the current dataset. Rows holds a preview
// rather than the full table unless requested.
type DatasetResponse struct {
	ID          string               `json:"id"`
	FileName    string               `json:"fileName"`
	FileSize    int64                `json:"fileSize"`
	RowCount    int                  `json:"rowCount"`
	Columns     []string             `json:"columns"`
	Mappings    []core.ColumnMapping `json:"mappings"`
	MappedCount int                  `json:"mappedCount"`
	Stage       core.Stage           `json:"stage"`
	CanAnalyze  bool                 `json:"canAnalyze"`
	UploadedAt  time.Time            `json:"uploadedAt"`
	Rows        []core.Row           `json:"rows"`
}

// StageResponse reports the workspace stage.
type StageResponse struct {
	Stage      core.Stage `json:"stage"`
	CanAnalyze bool       `json:"canAnalyze"`
}

// toDatasetResponse builds the summary with at most rows data rows.
func (s *Server) toDatasetResponse(d *core.ProcessedData, rows int) DatasetResponse {
	return DatasetResponse{
		ID:          d.ID,
		FileName:    d.FileName,
		FileSize:    d.FileSize,
		RowCount:    d.RowCount,
		Columns:     d.Columns,
		Mappings:    d.Mappings,
		MappedCount: d.MappedCount(),
		Stage:       s.service.Stage(),
		CanAnalyze:  s.service.CanAnalyze(),
		UploadedAt:  d.UploadedAt,
		Rows:        d.Data[:min(rows, len(d.Data))],
	}
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// previewLimit reads the rows query parameter. "all" returns every row.
func previewLimit(r *http.Request) int {
	if r.URL.Query().Get("rows") == "all" {
		return int(^uint(0) >> 1)
	}
	return parseIntParam(r, "rows", templates.PreviewRows)
}

// decodeJSON decodes a bounded JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decode body: %v", errBadRequest, err)
	}
	return nil
}

// handleHealth reports liveness and the upload slot state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"stage":   s.service.Stage(),
		"uploads": s.service.UploadLimiterStatus(),
	})
}

// redirectHome sends a browser form post back to the index page.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
