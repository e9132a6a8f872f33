package core

// parse.go dispatches uploaded files to a format parser by extension.
//
// Format parsers register themselves at init (see parse_csv.go, parse_xlsx.go,
// parse_json.go). Every parser returns a *Table whose rows share the key set
// given by Table.Columns; ParseFile turns a zero-row result into
// EmptyFileError and wraps decoder failures in ParseError.

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ParseFunc decodes one file into a Table.
type ParseFunc func(r io.Reader) (*Table, error)

// Format describes a registered file format.
type Format struct {
	Name       string   // Short name used in ParseError ("csv", "xlsx", "json")
	Extensions []string // Lowercase extensions including the dot
	Parse      ParseFunc
}

var (
	formats   = make(map[string]Format) // keyed by extension
	formatsMu sync.RWMutex
)

// RegisterFormat adds a format parser for each of its extensions.
// Panics if an extension is already registered.
func RegisterFormat(f Format) {
	formatsMu.Lock()
	defer formatsMu.Unlock()

	for _, ext := range f.Extensions {
		ext = strings.ToLower(ext)
		if existing, ok := formats[ext]; ok {
			panic(fmt.Sprintf("extension %s already registered by %s", ext, existing.Name))
		}
		formats[ext] = f
	}
}

// FormatFor returns the format registered for a file name's extension.
func FormatFor(name string) (Format, bool) {
	formatsMu.RLock()
	defer formatsMu.RUnlock()

	f, ok := formats[strings.ToLower(filepath.Ext(name))]
	return f, ok
}

// SupportedExtensions returns every registered extension, sorted.
func SupportedExtensions() []string {
	formatsMu.RLock()
	defer formatsMu.RUnlock()

	exts := make([]string, 0, len(formats))
	for ext := range formats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ParseFile decodes r according to the extension of name.
func ParseFile(name string, r io.Reader) (*Table, error) {
	f, ok := FormatFor(name)
	if !ok {
		return nil, &UnsupportedFormatError{Ext: strings.ToLower(filepath.Ext(name))}
	}

	table, err := f.Parse(r)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, &ParseError{Format: f.Name, Err: err}
	}
	if table == nil || len(table.Rows) == 0 {
		return nil, &EmptyFileError{Name: filepath.Base(name)}
	}
	return table, nil
}

// uniqueColumns disambiguates header names: blank names become "Column N"
// (1-based position) and repeats get a numeric suffix ("amount_2").
func uniqueColumns(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Column %d", i+1)
		}
		base := name
		for seen[name] > 0 {
			seen[base]++
			name = fmt.Sprintf("%s_%d", base, seen[base])
		}
		seen[name]++
		out[i] = name
	}
	return out
}

// isBlankRecord reports whether every field of a record is whitespace.
func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
