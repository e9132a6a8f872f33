package core

// workspace.go holds the single in-flight dataset of a session.
//
// A Workspace is owned by its caller (the HTTP server keeps one, the CLI
// creates one per command). Readers always receive copies, so a snapshot
// handed out is never changed by a later override.

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Stage is where a session is in the upload → review → analysis flow.
type Stage string

const (
	StageUpload   Stage = "upload"
	StagePreview  Stage = "preview"
	StageMapping  Stage = "mapping"
	StageAnalysis Stage = "analysis"
)

const (
	// AutoAdvanceMinMapped mapped columns move a fresh upload straight to
	// mapping review.
	AutoAdvanceMinMapped = 3

	// AnalysisMinMapped mapped columns are required before metrics and
	// charts are computed.
	AnalysisMinMapped = 5

	// ManualConfidence is the floor applied when a user maps a column. A
	// workspace threshold above it raises the floor to the threshold.
	ManualConfidence = 85
)

// ProcessedData is one parsed and classified upload.
type ProcessedData struct {
	ID         string          `json:"id"`
	FileName   string          `json:"fileName"`
	FileSize   int64           `json:"fileSize"`
	RowCount   int             `json:"rowCount"`
	Columns    []string        `json:"columns"`
	Data       []Row           `json:"data"`
	Mappings   []ColumnMapping `json:"mappings"`
	UploadedAt time.Time       `json:"uploadedAt"`
}

// MappedCount returns the number of mapped columns.
func (p *ProcessedData) MappedCount() int {
	return CountMapped(p.Mappings)
}

// clone copies the mapping list and column list. Rows are shared; they are
// never modified after parsing.
func (p *ProcessedData) clone() *ProcessedData {
	cp := *p
	cp.Columns = append([]string(nil), p.Columns...)
	cp.Mappings = append([]ColumnMapping(nil), p.Mappings...)
	return &cp
}

// Workspace holds the current dataset and stage. The zero value is not
// usable; call NewWorkspace.
type Workspace struct {
	mu        sync.RWMutex
	data      *ProcessedData
	stage     Stage
	catalog   *Catalog
	threshold int
}

// NewWorkspace creates an empty workspace. Overrides are validated against
// catalog when it is non-nil.
func NewWorkspace(catalog *Catalog) *Workspace {
	return &Workspace{stage: StageUpload, catalog: catalog, threshold: DefaultMatchConfig().Threshold}
}

// SetThreshold sets the mapping threshold the workspace's manual overrides
// must satisfy. It should match the mapper's threshold.
func (w *Workspace) SetThreshold(threshold int) {
	if threshold <= 0 {
		threshold = DefaultMatchConfig().Threshold
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.threshold = threshold
}

// manualFloor is the lowest confidence a manual mapping may carry.
func (w *Workspace) manualFloor() int {
	return max(ManualConfidence, w.threshold)
}

// Load replaces the current dataset and sets the stage from its mappings.
func (w *Workspace) Load(data *ProcessedData) Stage {
	w.mu.Lock()
	defer w.mu.Unlock()

	if data == nil {
		w.data = nil
		w.stage = StageUpload
		return w.stage
	}
	w.data = data.clone()
	if w.data.MappedCount() >= AutoAdvanceMinMapped {
		w.stage = StageMapping
	} else {
		w.stage = StagePreview
	}
	return w.stage
}

// Reset discards the dataset and returns to the upload stage.
func (w *Workspace) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.data = nil
	w.stage = StageUpload
}

// Stage returns the current stage.
func (w *Workspace) Stage() Stage {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stage
}

// SetStage moves between stages. Analysis requires CanAnalyze; every stage
// except upload requires a dataset.
func (w *Workspace) SetStage(s Stage) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch s {
	case StageUpload:
		w.stage = s
		return nil
	case StagePreview, StageMapping:
	case StageAnalysis:
		if w.data != nil && w.data.MappedCount() < AnalysisMinMapped {
			return ErrInsufficientMappings
		}
	default:
		return fmt.Errorf("unknown stage %q", s)
	}
	if w.data == nil {
		return ErrNoDataset
	}
	w.stage = s
	return nil
}

// Snapshot returns a copy of the current dataset.
func (w *Workspace) Snapshot() (*ProcessedData, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.data == nil {
		return nil, ErrNoDataset
	}
	return w.data.clone(), nil
}

// Mappings returns a copy of the current mappings.
func (w *Workspace) Mappings() ([]ColumnMapping, error) {
	snap, err := w.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Mappings, nil
}

// Toggle flips a (column, field) pair. If column is currently mapped to
// field it is unmapped; otherwise it is mapped to field.
func (w *Workspace) Toggle(column, field string) (*ProcessedData, error) {
	return w.update(column, func(m *ColumnMapping) error {
		name, err := w.resolveField(field)
		if err != nil {
			return err
		}
		if m.Mapped && strings.EqualFold(m.BusinessField, name) {
			unmap(m)
			return nil
		}
		return w.mapTo(m, name)
	})
}

// SetMapping maps column to field.
func (w *Workspace) SetMapping(column, field string) (*ProcessedData, error) {
	return w.update(column, func(m *ColumnMapping) error {
		return w.mapTo(m, field)
	})
}

// ClearMapping unmaps column.
func (w *Workspace) ClearMapping(column string) (*ProcessedData, error) {
	return w.update(column, func(m *ColumnMapping) error {
		unmap(m)
		return nil
	})
}

// ReplaceMappings installs a full mapping list, as sent back by a review UI.
// Each entry must name a dataset column. Entries with Mapped set are treated
// as manual mappings; the rest are cleared. Columns absent from the list keep
// their current mapping.
func (w *Workspace) ReplaceMappings(mappings []ColumnMapping) (*ProcessedData, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.data == nil {
		return nil, ErrNoDataset
	}

	next := append([]ColumnMapping(nil), w.data.Mappings...)
	index := make(map[string]int, len(next))
	for i, m := range next {
		index[m.SourceColumn] = i
	}

	for _, in := range mappings {
		i, ok := index[in.SourceColumn]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, in.SourceColumn)
		}
		m := &next[i]
		if !in.Mapped || strings.TrimSpace(in.BusinessField) == "" {
			unmap(m)
			continue
		}
		if err := w.mapWithConfidence(m, in.BusinessField, in.Confidence); err != nil {
			return nil, err
		}
	}

	w.data.Mappings = next
	w.demoteIfNeeded()
	return w.data.clone(), nil
}

// CanAnalyze reports whether enough columns are mapped for analysis.
func (w *Workspace) CanAnalyze() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.data != nil && w.data.MappedCount() >= AnalysisMinMapped
}

// Dashboard computes metrics for the current dataset.
func (w *Workspace) Dashboard() (DashboardMetrics, error) {
	snap, err := w.analyzable()
	if err != nil {
		return DashboardMetrics{}, err
	}
	return ComputeMetrics(snap), nil
}

// Series computes a chart series for the current dataset.
func (w *Workspace) Series(kind SeriesKind) ([]ChartRecord, error) {
	snap, err := w.analyzable()
	if err != nil {
		return nil, err
	}
	return GenerateSeries(snap, kind), nil
}

func (w *Workspace) analyzable() (*ProcessedData, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.data == nil {
		return nil, ErrNoDataset
	}
	if w.data.MappedCount() < AnalysisMinMapped {
		return nil, ErrInsufficientMappings
	}
	return w.data.clone(), nil
}

// update applies fn to the mapping of column under the write lock.
func (w *Workspace) update(column string, fn func(*ColumnMapping) error) (*ProcessedData, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.data == nil {
		return nil, ErrNoDataset
	}

	next := append([]ColumnMapping(nil), w.data.Mappings...)
	for i := range next {
		if next[i].SourceColumn != column {
			continue
		}
		if err := fn(&next[i]); err != nil {
			return nil, err
		}
		w.data.Mappings = next
		w.demoteIfNeeded()
		return w.data.clone(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
}

func (w *Workspace) mapTo(m *ColumnMapping, field string) error {
	return w.mapWithConfidence(m, field, m.Confidence)
}

// mapWithConfidence marks m as manually mapped to field. The confidence floor is
// manualFloor; a higher current score is kept up to the 98 ceiling. The floor
// wins when a threshold above the ceiling is configured.
func (w *Workspace) mapWithConfidence(m *ColumnMapping, field string, confidence int) error {
	name, err := w.resolveField(field)
	if err != nil {
		return err
	}
	if !strings.EqualFold(m.BusinessField, name) {
		confidence = 0
	}
	m.BusinessField = name
	m.Confidence = max(min(confidence, DefaultMatchConfig().MaxConfidence), w.manualFloor())
	m.Mapped = true
	return nil
}

// resolveField returns the catalog name for a field ID or name. Without a
// catalog any non-empty name is accepted as given.
func (w *Workspace) resolveField(field string) (string, error) {
	name := strings.TrimSpace(field)
	if name == "" {
		return "", fmt.Errorf("%w: empty field name", ErrUnknownField)
	}
	if w.catalog == nil {
		return name, nil
	}
	f, ok := w.catalog.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return f.Name, nil
}

func unmap(m *ColumnMapping) {
	m.BusinessField = ""
	m.Confidence = 0
	m.Mapped = false
}

// demoteIfNeeded leaves the analysis stage when overrides drop the mapped
// count below the analysis gate.
func (w *Workspace) demoteIfNeeded() {
	if w.stage == StageAnalysis && w.data.MappedCount() < AnalysisMinMapped {
		w.stage = StageMapping
	}
}
