package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []string
	rows     int
	mapped   int
}

func (r *fakeRecorder) ObserveUpload(_, outcome string, _ int64, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *fakeRecorder) ObserveMapping(_, mapped int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mapped = mapped
}

func (r *fakeRecorder) ObserveRows(_ string, rows int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = rows
}

func (r *fakeRecorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.outcomes) == 0 {
		return ""
	}
	return r.outcomes[len(r.outcomes)-1]
}

// failReader fails the test if anything reads from it.
type failReader struct{ t *testing.T }

func (f failReader) Read([]byte) (int, error) {
	f.t.Error("upload body was read")
	return 0, errors.New("unexpected read")
}

func newTestService(t *testing.T, rec Recorder) *Service {
	t.Helper()
	return NewService(ServiceConfig{
		MaxFileSize: 1 << 10,
		MaxWait:     50 * time.Millisecond,
		Catalog:     testCatalog(t),
		Recorder:    rec,
		Now:         func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	})
}

const salesCSV = "Revenue,Customer Email,Order Date,Region,notes\n" +
	"\"$1,200.00\",a@example.com,2024-01-15,EMEA,first\n" +
	"300,b@example.com,2024-01-16,North,\n"

func TestService_Upload(t *testing.T) {
	rec := &fakeRecorder{}
	svc := newTestService(t, rec)

	res, err := svc.Upload(context.Background(), "sales.csv", int64(len(salesCSV)), strings.NewReader(salesCSV))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	data := res.Data
	if data.ID == "" {
		t.Error("dataset has no ID")
	}
	if data.FileName != "sales.csv" || data.RowCount != 2 || len(data.Columns) != 5 {
		t.Errorf("data = %+v", data)
	}
	if !data.UploadedAt.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("UploadedAt = %v", data.UploadedAt)
	}
	if len(data.Mappings) != len(data.Columns) {
		t.Fatalf("got %d mappings for %d columns", len(data.Mappings), len(data.Columns))
	}
	for i, m := range data.Mappings {
		if m.SourceColumn != data.Columns[i] {
			t.Errorf("mapping %d is for %q, want %q", i, m.SourceColumn, data.Columns[i])
		}
	}
	if m := data.Mappings[0]; !m.Mapped || m.BusinessField != "Revenue" || m.DataType != TypeNumber {
		t.Errorf("Revenue mapping = %+v", m)
	}
	if data.MappedCount() != 4 {
		t.Errorf("MappedCount() = %d, want 4", data.MappedCount())
	}
	if res.Stage != StageMapping || svc.Stage() != StageMapping {
		t.Errorf("stage = %q, want %q", res.Stage, StageMapping)
	}

	if rec.last() != OutcomeSuccess || rec.rows != 2 || rec.mapped != 4 {
		t.Errorf("recorder = %+v", rec)
	}
}

func TestService_UploadErrors(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		size        int64
		body        string
		check       func(error) bool
		wantOutcome string
	}{
		{
			name:        "unsupported extension",
			file:        "report.pdf",
			size:        4,
			body:        "%PDF",
			check:       func(err error) bool { var e *UnsupportedFormatError; return errors.As(err, &e) },
			wantOutcome: OutcomeUnsupported,
		},
		{
			name:        "header only",
			file:        "empty.csv",
			size:        6,
			body:        "a,b,c\n",
			check:       func(err error) bool { var e *EmptyFileError; return errors.As(err, &e) },
			wantOutcome: OutcomeEmpty,
		},
		{
			name:        "malformed json",
			file:        "bad.json",
			size:        3,
			body:        `[1,`,
			check:       func(err error) bool { var e *ParseError; return errors.As(err, &e) },
			wantOutcome: OutcomeParseError,
		},
		{
			name:        "oversize body of unknown size",
			file:        "big.csv",
			size:        -1,
			body:        "a\n" + strings.Repeat("1\n", 1<<10),
			check:       func(err error) bool { var e *FileTooLargeError; return errors.As(err, &e) && e.Size == -1 },
			wantOutcome: OutcomeTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			svc := newTestService(t, rec)
			_, err := svc.Upload(context.Background(), tt.file, tt.size, strings.NewReader(tt.body))
			if !tt.check(err) {
				t.Fatalf("Upload() error = %v (%T)", err, err)
			}
			if rec.last() != tt.wantOutcome {
				t.Errorf("outcome = %q, want %q", rec.last(), tt.wantOutcome)
			}
			if _, err := svc.Dataset(); !errors.Is(err, ErrNoDataset) {
				t.Errorf("failed upload replaced the dataset: %v", err)
			}
		})
	}
}

func TestService_SizeCheckedBeforeReading(t *testing.T) {
	rec := &fakeRecorder{}
	svc := newTestService(t, rec)

	_, err := svc.Upload(context.Background(), "big.csv", svc.MaxFileSize()+1, failReader{t})
	var tooLarge *FileTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("Upload() error = %v, want FileTooLargeError", err)
	}
	if tooLarge.Size != svc.MaxFileSize()+1 || tooLarge.Limit != svc.MaxFileSize() {
		t.Errorf("error = %+v", tooLarge)
	}
	if rec.last() != OutcomeTooLarge {
		t.Errorf("outcome = %q", rec.last())
	}
}

func TestService_FailedUploadKeepsPreviousDataset(t *testing.T) {
	svc := newTestService(t, nil)
	first, err := svc.Upload(context.Background(), "sales.csv", -1, strings.NewReader(salesCSV))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Upload(context.Background(), "x.pdf", 1, strings.NewReader("x")); err == nil {
		t.Fatal("Upload(pdf) should fail")
	}
	cur, err := svc.Dataset()
	if err != nil || cur.ID != first.Data.ID {
		t.Errorf("Dataset() = %v, %v; want the first upload", cur, err)
	}
	if cur.FileSize != int64(len(salesCSV)) {
		t.Errorf("FileSize = %d, want measured size %d", cur.FileSize, len(salesCSV))
	}
}

func TestService_Busy(t *testing.T) {
	rec := &fakeRecorder{}
	svc := newTestService(t, rec)

	if err := svc.limiter.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer svc.limiter.Release()

	_, err := svc.Upload(context.Background(), "sales.csv", -1, strings.NewReader(salesCSV))
	if !errors.Is(err, ErrTooManyUploads) {
		t.Fatalf("Upload() error = %v, want ErrTooManyUploads", err)
	}
	if rec.last() != OutcomeBusy {
		t.Errorf("outcome = %q, want %q", rec.last(), OutcomeBusy)
	}
	if st := svc.UploadLimiterStatus(); st.Active != 1 || st.Available != 0 {
		t.Errorf("status = %+v", st)
	}
}

func TestService_CancelledContext(t *testing.T) {
	rec := &fakeRecorder{}
	svc := newTestService(t, rec)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Upload(ctx, "sales.csv", -1, strings.NewReader(salesCSV))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Upload() error = %v, want context.Canceled", err)
	}
	if rec.last() != OutcomeCancelled {
		t.Errorf("outcome = %q", rec.last())
	}
}

func TestService_MappingFlow(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	if _, err := svc.Upload(ctx, "sales.csv", -1, strings.NewReader(salesCSV)); err != nil {
		t.Fatal(err)
	}

	if svc.CanAnalyze() {
		t.Fatal("CanAnalyze() with 4 mapped columns")
	}
	if _, err := svc.Dashboard(); !errors.Is(err, ErrInsufficientMappings) {
		t.Errorf("Dashboard() error = %v", err)
	}

	data, err := svc.Toggle(ctx, "notes", "Active")
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if data.MappedCount() != 5 || !svc.CanAnalyze() {
		t.Fatalf("MappedCount() = %d after toggle", data.MappedCount())
	}
	if err := svc.SetStage(StageAnalysis); err != nil {
		t.Fatalf("SetStage() error = %v", err)
	}

	m, err := svc.Dashboard()
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if !approx(m.TotalRevenue, 1500) || m.Customers.TotalCustomers != 2 {
		t.Errorf("metrics = %+v", m)
	}

	series, err := svc.Series(SeriesRevenueByDate)
	if err != nil {
		t.Fatalf("Series() error = %v", err)
	}
	assertRecords(t, series, []ChartRecord{
		{Date: "2024-01-15", Value: 1200},
		{Date: "2024-01-16", Value: 300},
	})

	svc.Reset(ctx)
	if svc.Stage() != StageUpload {
		t.Errorf("Stage() after Reset = %q", svc.Stage())
	}
}

func TestService_ManualMappingMeetsThreshold(t *testing.T) {
	match := DefaultMatchConfig()
	match.Threshold = 95
	svc := NewService(ServiceConfig{Catalog: testCatalog(t), Match: match})
	ctx := context.Background()
	if _, err := svc.Upload(ctx, "sales.csv", -1, strings.NewReader(salesCSV)); err != nil {
		t.Fatal(err)
	}

	data, err := svc.Toggle(ctx, "notes", "Active")
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	m := data.Mappings[4]
	if !m.Mapped || m.Confidence < 95 {
		t.Errorf("manual mapping = %+v, want mapped at confidence >= 95", m)
	}
}

// resetOnSuccess resets the service as soon as an upload reports success,
// standing in for a concurrent reset request.
type resetOnSuccess struct {
	fakeRecorder
	svc *Service
}

func (r *resetOnSuccess) ObserveUpload(format, outcome string, size int64, elapsed time.Duration) {
	r.fakeRecorder.ObserveUpload(format, outcome, size, elapsed)
	if outcome == OutcomeSuccess {
		r.svc.Reset(context.Background())
	}
}

func TestService_UploadResultSurvivesConcurrentReset(t *testing.T) {
	rec := &resetOnSuccess{}
	svc := newTestService(t, rec)
	rec.svc = svc

	res, err := svc.Upload(context.Background(), "sales.csv", -1, strings.NewReader(salesCSV))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if res.Data == nil || res.Data.FileName != "sales.csv" || res.Data.RowCount != 2 {
		t.Fatalf("result = %+v", res.Data)
	}
	if res.Stage != StageMapping {
		t.Errorf("Stage = %q, want %q", res.Stage, StageMapping)
	}
	if _, err := svc.Dataset(); !errors.Is(err, ErrNoDataset) {
		t.Errorf("Dataset() after reset error = %v, want ErrNoDataset", err)
	}
}

func TestService_UploadResultIsDetached(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	res, err := svc.Upload(ctx, "sales.csv", -1, strings.NewReader(salesCSV))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Toggle(ctx, "Revenue", "Revenue"); err != nil {
		t.Fatal(err)
	}
	if m := res.Data.Mappings[0]; !m.Mapped {
		t.Errorf("later toggle changed the upload result: %+v", m)
	}
}

func TestService_WaitForUploads(t *testing.T) {
	svc := newTestService(t, nil)
	if err := svc.limiter.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- svc.WaitForUploads(context.Background()) }()

	select {
	case <-done:
		t.Fatal("WaitForUploads returned while an upload was active")
	case <-time.After(20 * time.Millisecond):
	}

	svc.limiter.Release()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitForUploads() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitForUploads did not return after release")
	}
}

func TestFormatLabel(t *testing.T) {
	tests := map[string]string{
		"a.csv":   "csv",
		"A.TSV":   "tsv",
		"b.xls":   "xlsx",
		"c.json":  "json",
		"d.pdf":   "unknown",
		"noext":   "none",
		"dir/e.X": "unknown",
	}
	for in, want := range tests {
		if got := formatLabel(in); got != want {
			t.Errorf("formatLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
