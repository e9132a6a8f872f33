package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/datalens/internal/logging"
)

// DefaultMaxFileSize is the upload size limit (10 MiB).
const DefaultMaxFileSize int64 = 10 << 20

// Upload outcomes reported to a Recorder.
const (
	OutcomeSuccess     = "success"
	OutcomeTooLarge    = "too_large"
	OutcomeUnsupported = "unsupported"
	OutcomeEmpty       = "empty"
	OutcomeParseError  = "parse_error"
	OutcomeBusy        = "busy"
	OutcomeCancelled   = "cancelled"
	OutcomeError       = "error"
)

// Recorder receives pipeline measurements. The observability/metrics
// package provides the Prometheus implementation.
type Recorder interface {
	ObserveUpload(format, outcome string, bytes int64, elapsed time.Duration)
	ObserveMapping(columns, mapped int, elapsed time.Duration)
	ObserveRows(format string, rows int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveUpload(string, string, int64, time.Duration) {}
func (nopRecorder) ObserveMapping(int, int, time.Duration)             {}
func (nopRecorder) ObserveRows(string, int)                            {}

// ServiceConfig configures a Service. Zero values select defaults.
type ServiceConfig struct {
	MaxFileSize   int64
	MaxConcurrent int
	MaxWait       time.Duration
	Match         MatchConfig
	Catalog       *Catalog  // Defaults to DefaultCatalog()
	Recorder      Recorder  // Defaults to a no-op
	Now           func() time.Time
}

// Service runs the upload pipeline and owns the session workspace.
type Service struct {
	mapper      *Mapper
	workspace   *Workspace
	limiter     *UploadLimiter
	maxFileSize int64
	recorder    Recorder
	now         func() time.Time
}

// NewService creates a Service.
func NewService(cfg ServiceConfig) *Service {
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	concurrent := cfg.MaxConcurrent
	if concurrent <= 0 {
		concurrent = DefaultMaxConcurrentUploads
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	mapper := NewMapper(catalog, cfg.Match)
	workspace := NewWorkspace(catalog)
	workspace.SetThreshold(mapper.Config().Threshold)

	return &Service{
		mapper:      mapper,
		workspace:   workspace,
		limiter:     NewUploadLimiter(concurrent, cfg.MaxWait),
		maxFileSize: maxSize,
		recorder:    recorder,
		now:         now,
	}
}

// UploadResult summarizes a completed upload.
type UploadResult struct {
	Data  *ProcessedData `json:"data"`
	Stage Stage          `json:"stage"`
}

// MaxFileSize returns the upload size limit in bytes.
func (s *Service) MaxFileSize() int64 { return s.maxFileSize }

// Upload parses, classifies and loads a file into the workspace, replacing
// any previous dataset. size is the declared size; a negative value means
// unknown, in which case the limit is enforced while reading.
func (s *Service) Upload(ctx context.Context, fileName string, size int64, r io.Reader) (*UploadResult, error) {
	start := s.now()
	format := formatLabel(fileName)
	log := logging.WithFields(ctx, "file", fileName, "size", size)

	if size > s.maxFileSize {
		err := &FileTooLargeError{Size: size, Limit: s.maxFileSize}
		s.recorder.ObserveUpload(format, OutcomeTooLarge, size, s.now().Sub(start))
		log.Warn("upload rejected", "error", err)
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		s.recorder.ObserveUpload(format, outcomeOf(err), 0, s.now().Sub(start))
		log.Warn("upload slot unavailable", "error", err)
		return nil, err
	}
	defer s.limiter.Release()

	// Read one byte past the limit to detect oversize bodies of unknown size.
	counter := &countingReader{r: io.LimitReader(r, s.maxFileSize+1)}
	buf, err := io.ReadAll(counter)
	if err != nil {
		s.recorder.ObserveUpload(format, OutcomeError, counter.BytesRead(), s.now().Sub(start))
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(buf)) > s.maxFileSize {
		err := &FileTooLargeError{Size: -1, Limit: s.maxFileSize}
		s.recorder.ObserveUpload(format, OutcomeTooLarge, counter.BytesRead(), s.now().Sub(start))
		log.Warn("upload rejected", "error", err)
		return nil, err
	}
	if size < 0 {
		size = int64(len(buf))
	}

	if err := ctx.Err(); err != nil {
		s.recorder.ObserveUpload(format, OutcomeCancelled, size, s.now().Sub(start))
		return nil, err
	}

	table, err := ParseFile(fileName, bytes.NewReader(buf))
	if err != nil {
		s.recorder.ObserveUpload(format, outcomeOf(err), size, s.now().Sub(start))
		log.Warn("upload parse failed", "error", err)
		return nil, err
	}
	s.recorder.ObserveRows(format, len(table.Rows))

	mapStart := s.now()
	mappings, err := s.mapper.MapColumns(ctx, table.Columns, table.Rows)
	if err != nil {
		s.recorder.ObserveUpload(format, outcomeOf(err), size, s.now().Sub(start))
		return nil, err
	}
	mapped := CountMapped(mappings)
	s.recorder.ObserveMapping(len(mappings), mapped, s.now().Sub(mapStart))

	data := &ProcessedData{
		ID:         uuid.New().String(),
		FileName:   filepath.Base(fileName),
		FileSize:   size,
		RowCount:   len(table.Rows),
		Columns:    table.Columns,
		Data:       table.Rows,
		Mappings:   mappings,
		UploadedAt: s.now().UTC(),
	}
	stage := s.workspace.Load(data)

	s.recorder.ObserveUpload(format, OutcomeSuccess, size, s.now().Sub(start))
	log.Info("upload processed",
		"dataset_id", data.ID,
		"rows", data.RowCount,
		"columns", len(data.Columns),
		"mapped", mapped,
		"stage", stage,
		"duration", s.now().Sub(start),
	)

	// Load stored its own copy; data stays this caller's even if another
	// request resets or replaces the workspace meanwhile.
	return &UploadResult{Data: data, Stage: stage}, nil
}

// Dataset returns the current dataset.
func (s *Service) Dataset() (*ProcessedData, error) {
	return s.workspace.Snapshot()
}

// Stage returns the workspace stage.
func (s *Service) Stage() Stage {
	return s.workspace.Stage()
}

// SetStage moves the workspace to another stage.
func (s *Service) SetStage(stage Stage) error {
	return s.workspace.SetStage(stage)
}

// Mappings returns the current column mappings.
func (s *Service) Mappings() ([]ColumnMapping, error) {
	return s.workspace.Mappings()
}

// Toggle flips a manual (column, field) mapping.
func (s *Service) Toggle(ctx context.Context, column, field string) (*ProcessedData, error) {
	data, err := s.workspace.Toggle(column, field)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("mapping toggled", "dataset_id", data.ID, "column", column, "field", field)
	return data, nil
}

// ReplaceMappings installs a reviewed mapping list.
func (s *Service) ReplaceMappings(ctx context.Context, mappings []ColumnMapping) (*ProcessedData, error) {
	data, err := s.workspace.ReplaceMappings(mappings)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("mappings replaced", "dataset_id", data.ID, "mapped", data.MappedCount())
	return data, nil
}

// CanAnalyze reports whether the analysis views are available.
func (s *Service) CanAnalyze() bool {
	return s.workspace.CanAnalyze()
}

// Dashboard computes dashboard metrics for the current dataset.
func (s *Service) Dashboard() (DashboardMetrics, error) {
	return s.workspace.Dashboard()
}

// Series computes a chart series for the current dataset.
func (s *Service) Series(kind SeriesKind) ([]ChartRecord, error) {
	return s.workspace.Series(kind)
}

// Catalog returns the catalog in use.
func (s *Service) Catalog() *Catalog {
	return s.mapper.Catalog()
}

// Mapper returns the column mapper.
func (s *Service) Mapper() *Mapper {
	return s.mapper
}

// Reset discards the current dataset.
func (s *Service) Reset(ctx context.Context) {
	s.workspace.Reset()
	logging.FromContext(ctx).Info("workspace reset")
}

// WaitForUploads blocks until in-flight uploads finish or ctx expires.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// UploadLimiterStatus reports upload slot usage.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// formatLabel returns a bounded label for metrics: the registered format
// name, or "unknown".
func formatLabel(fileName string) string {
	if f, ok := FormatFor(fileName); ok {
		return f.Name
	}
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), "."); ext == "" {
		return "none"
	}
	return "unknown"
}

func outcomeOf(err error) string {
	var (
		unsupported *UnsupportedFormatError
		empty       *EmptyFileError
		parse       *ParseError
		tooLarge    *FileTooLargeError
	)
	switch {
	case errors.As(err, &tooLarge):
		return OutcomeTooLarge
	case errors.As(err, &unsupported):
		return OutcomeUnsupported
	case errors.As(err, &empty):
		return OutcomeEmpty
	case errors.As(err, &parse):
		return OutcomeParseError
	case errors.Is(err, ErrTooManyUploads):
		return OutcomeBusy
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCancelled
	}
	return OutcomeError
}
