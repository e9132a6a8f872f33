package core

// mapper.go classifies source columns against a Catalog.
//
// Each (column, field) pair gets a confidence score from name and value
// heuristics; the highest-scoring field wins. Columns are independent, so
// MapColumns scores them in parallel.
//
// Scoring, in order of precedence:
//
//	exact     column equals the field ID or name            ExactScore
//	partial   name contains column, or column contains
//	          the field's first word                        PartialScore
//	example   a field example and a sampled value contain
//	          one another                                   ExampleScore
//	keyword   share of field-name words found in column     × KeywordWeight
//
// A field that scored above zero then gets TypeBonus when the column's
// inferred type equals the field type, or StringBonus when the field is a
// string and the column is not a date. The result is capped at MaxConfidence.

import (
	"context"
	"math"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// MatchConfig holds the scoring constants.
type MatchConfig struct {
	ExactScore    float64
	PartialScore  float64
	ExampleScore  float64
	KeywordWeight float64
	TypeBonus     float64
	StringBonus   float64
	MaxConfidence int
	Threshold     int // Minimum confidence for Mapped
	Workers       int // Concurrent column scorers; <= 0 means GOMAXPROCS
}

// DefaultMatchConfig returns the standard scoring constants.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		ExactScore:    95,
		PartialScore:  80,
		ExampleScore:  70,
		KeywordWeight: 60,
		TypeBonus:     10,
		StringBonus:   5,
		MaxConfidence: 98,
		Threshold:     70,
	}
}

// ColumnMapping is the classification of one source column.
type ColumnMapping struct {
	SourceColumn  string   `json:"sourceColumn"`
	BusinessField string   `json:"businessField"` // Field name, or "" when unmatched
	Confidence    int      `json:"confidence"`
	DataType      DataType `json:"dataType"` // Inferred from the column's values
	Mapped        bool     `json:"mapped"`
}

// Candidate is one field's score for a column.
type Candidate struct {
	Field BusinessField `json:"field"`
	Score int           `json:"score"`
}

// Mapper scores columns against a catalog. It is safe for concurrent use.
type Mapper struct {
	catalog *Catalog
	cfg     MatchConfig
}

// NewMapper creates a mapper for catalog. Zero-valued config fields fall back
// to DefaultMatchConfig.
func NewMapper(catalog *Catalog, cfg MatchConfig) *Mapper {
	def := DefaultMatchConfig()
	if cfg.ExactScore == 0 {
		cfg.ExactScore = def.ExactScore
	}
	if cfg.PartialScore == 0 {
		cfg.PartialScore = def.PartialScore
	}
	if cfg.ExampleScore == 0 {
		cfg.ExampleScore = def.ExampleScore
	}
	if cfg.KeywordWeight == 0 {
		cfg.KeywordWeight = def.KeywordWeight
	}
	if cfg.TypeBonus == 0 {
		cfg.TypeBonus = def.TypeBonus
	}
	if cfg.StringBonus == 0 {
		cfg.StringBonus = def.StringBonus
	}
	if cfg.MaxConfidence <= 0 {
		cfg.MaxConfidence = def.MaxConfidence
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Mapper{catalog: catalog, cfg: cfg}
}

// Catalog returns the catalog the mapper scores against.
func (m *Mapper) Catalog() *Catalog { return m.catalog }

// Config returns the effective scoring constants.
func (m *Mapper) Config() MatchConfig { return m.cfg }

// MapColumns classifies every column using the first TypeSampleSize rows of
// sample. The result has one entry per column in input order. The only
// error is cancellation of ctx.
func (m *Mapper) MapColumns(ctx context.Context, columns []string, sample []Row) ([]ColumnMapping, error) {
	if len(sample) > TypeSampleSize {
		sample = sample[:TypeSampleSize]
	}

	out := make([]ColumnMapping, len(columns))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.Workers)

	for i, col := range columns {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			out[i] = m.MapColumn(col, ColumnValues(sample, col))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// MapColumn classifies one column from its sampled values.
func (m *Mapper) MapColumn(column string, samples []Value) ColumnMapping {
	field, score, inferred := m.BestMatch(column, samples)
	mapping := ColumnMapping{
		SourceColumn: column,
		Confidence:   score,
		DataType:     inferred,
		Mapped:       score >= m.cfg.Threshold,
	}
	if score > 0 {
		mapping.BusinessField = field.Name
	}
	return mapping
}

// BestMatch returns the highest-scoring field for a column. Ties keep the
// field that comes first in the catalog. A zero score means no field matched.
func (m *Mapper) BestMatch(column string, samples []Value) (BusinessField, int, DataType) {
	inferred := InferType(samples)
	probe := newColumnProbe(column, samples)

	var (
		best      BusinessField
		bestScore int
	)
	for _, f := range m.catalog.fields {
		if s := m.score(probe, inferred, f); s > bestScore {
			best, bestScore = f, s
		}
	}
	return best.clone(), bestScore, inferred
}

// Score computes the confidence that column corresponds to field.
func (m *Mapper) Score(column string, samples []Value, field BusinessField) int {
	return m.score(newColumnProbe(column, samples), InferType(samples), field)
}

// Candidates returns every field with a positive score, best first. Equal
// scores keep catalog order.
func (m *Mapper) Candidates(column string, samples []Value) []Candidate {
	inferred := InferType(samples)
	probe := newColumnProbe(column, samples)

	var out []Candidate
	for _, f := range m.catalog.fields {
		if s := m.score(probe, inferred, f); s > 0 {
			out = append(out, Candidate{Field: f.clone(), Score: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// columnProbe is a column name and its sampled values in the normalized form
// the scorer compares.
type columnProbe struct {
	name   string
	values []string
}

func newColumnProbe(column string, samples []Value) columnProbe {
	p := columnProbe{name: normalize(column)}
	for _, v := range samples {
		if v.IsEmpty() {
			continue
		}
		if s := normalize(v.String()); s != "" {
			p.values = append(p.values, s)
		}
	}
	return p
}

func (m *Mapper) score(p columnProbe, inferred DataType, f BusinessField) int {
	name := strings.ToLower(f.Name)
	base := 0.0

	switch {
	case p.name == "":
		// Unnamed columns can only match on values.
		if exampleMatch(p.values, f.Examples) {
			base = m.cfg.ExampleScore
		}
	case p.name == strings.ToLower(f.ID) || p.name == name:
		base = m.cfg.ExactScore
	case strings.Contains(name, p.name) || containsFirstWord(p.name, name):
		base = m.cfg.PartialScore
	case exampleMatch(p.values, f.Examples):
		base = m.cfg.ExampleScore
	default:
		base = keywordOverlap(p.name, name) * m.cfg.KeywordWeight
	}

	if base <= 0 {
		return 0
	}

	switch {
	case inferred == f.DataType:
		base += m.cfg.TypeBonus
	case f.DataType == TypeString && inferred != TypeDate:
		base += m.cfg.StringBonus
	}

	score := int(math.Round(base))
	if score > m.cfg.MaxConfidence {
		score = m.cfg.MaxConfidence
	}
	return score
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsFirstWord(column, fieldName string) bool {
	words := strings.Fields(fieldName)
	return len(words) > 0 && strings.Contains(column, words[0])
}

func exampleMatch(values, examples []string) bool {
	for _, ex := range examples {
		ex = normalize(ex)
		if ex == "" {
			continue
		}
		for _, v := range values {
			if strings.Contains(v, ex) || strings.Contains(ex, v) {
				return true
			}
		}
	}
	return false
}

// keywordOverlap returns the fraction of fieldName's words that appear in
// column.
func keywordOverlap(column, fieldName string) float64 {
	words := strings.Fields(fieldName)
	if len(words) == 0 {
		return 0
	}
	hits := 0
	for _, w := range words {
		if strings.Contains(column, w) {
			hits++
		}
	}
	return float64(hits) / float64(len(words))
}

// ColumnValues extracts one column from rows.
func ColumnValues(rows []Row, column string) []Value {
	out := make([]Value, len(rows))
	for i, r := range rows {
		out[i] = r.Get(column)
	}
	return out
}

// CountMapped returns how many mappings are marked Mapped.
func CountMapped(mappings []ColumnMapping) int {
	n := 0
	for _, m := range mappings {
		if m.Mapped {
			n++
		}
	}
	return n
}
