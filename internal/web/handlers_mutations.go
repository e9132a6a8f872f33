package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/datalens/internal/core"
)

// ToggleRequest names a column and the business field to toggle it to.
type ToggleRequest struct {
	Column string `json:"column"`
	Field  string `json:"field"`
}

// StageRequest moves the workspace to another stage.
type StageRequest struct {
	Stage core.Stage `json:"stage"`
}

// handleToggle flips one column mapping.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	data, err := s.toggle(r, req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toDatasetResponse(data, previewLimit(r)))
}

// handleToggleForm is the browser form variant of handleToggle.
func (s *Server) handleToggleForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	req := ToggleRequest{Column: r.PostFormValue("column"), Field: r.PostFormValue("field")}
	if _, err := s.toggle(r, req); err != nil {
		s.respondError(w, r, err)
		return
	}
	redirectHome(w, r)
}

func (s *Server) toggle(r *http.Request, req ToggleRequest) (*core.ProcessedData, error) {
	if strings.TrimSpace(req.Column) == "" || strings.TrimSpace(req.Field) == "" {
		return nil, fmt.Errorf("%w: column and field are required", errBadRequest)
	}
	return s.service.Toggle(r.Context(), req.Column, req.Field)
}

// handleReplaceMappings installs a reviewed mapping list.
func (s *Server) handleReplaceMappings(w http.ResponseWriter, r *http.Request) {
	var mappings []core.ColumnMapping
	if err := decodeJSON(w, r, &mappings); err != nil {
		s.respondError(w, r, err)
		return
	}
	data, err := s.service.ReplaceMappings(r.Context(), mappings)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toDatasetResponse(data, previewLimit(r)))
}

// handleStage reports the workspace stage.
func (s *Server) handleStage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StageResponse{Stage: s.service.Stage(), CanAnalyze: s.service.CanAnalyze()})
}

// handleSetStage moves the workspace between stages.
func (s *Server) handleSetStage(w http.ResponseWriter, r *http.Request) {
	var req StageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	switch req.Stage {
	case core.StageUpload, core.StagePreview, core.StageMapping, core.StageAnalysis:
	default:
		s.respondError(w, r, fmt.Errorf("%w: unknown stage %q", errBadRequest, req.Stage))
		return
	}
	if err := s.service.SetStage(req.Stage); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.handleStage(w, r)
}

// handleReset discards the dataset.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.service.Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// handleResetForm is the browser form variant of handleReset.
func (s *Server) handleResetForm(w http.ResponseWriter, r *http.Request) {
	s.service.Reset(r.Context())
	redirectHome(w, r)
}
