package web

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/datalens/internal/core"
	"github.com/JonMunkholm/datalens/internal/logging"
	"github.com/JonMunkholm/datalens/internal/web/templates"
)

// handleIndex renders the stage-aware home page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := templates.IndexView{
		Stage:       s.service.Stage(),
		Catalog:     s.service.Catalog().ByCategory(),
		Extensions:  core.SupportedExtensions(),
		MaxFileSize: s.service.MaxFileSize(),
		CanAnalyze:  s.service.CanAnalyze(),
		MinMapped:   core.AnalysisMinMapped,
	}
	data, err := s.service.Dataset()
	switch {
	case err == nil:
		view.Data = data
	case !errors.Is(err, core.ErrNoDataset):
		s.respondError(w, r, err)
		return
	}
	s.render(w, r, templates.IndexPage(view))
}

// handleDashboard renders the KPI cards and every chart series.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.Dataset()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	m, err := s.service.Dashboard()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	view := templates.DashboardView{
		FileName: data.FileName,
		Metrics:  m,
		Series:   make(map[core.SeriesKind][]core.ChartRecord),
	}
	for _, kind := range core.SeriesKinds() {
		records, err := s.service.Series(kind)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		view.Series[kind] = records
	}
	if s.service.Stage() != core.StageAnalysis {
		if err := s.service.SetStage(core.StageAnalysis); err != nil {
			logging.FromContext(r.Context()).Warn("advance to analysis", "error", err)
		}
	}
	s.render(w, r, templates.DashboardPage(view))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}
