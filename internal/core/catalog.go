package core

// catalog.go defines business fields and the ordered Catalog the mapper
// scores columns against.
//
// Catalog order is significant: when two fields score the same for a column
// the earlier one wins. A Catalog is immutable once built; Extend returns a
// new one.

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// BusinessField is a named semantic column type such as "Revenue" or
// "Customer Email".
type BusinessField struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Category    string   `json:"category" yaml:"category"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	DataType    DataType `json:"dataType" yaml:"type"`
	Examples    []string `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// Validate checks the field is usable by the mapper.
func (f BusinessField) Validate() error {
	switch {
	case strings.TrimSpace(f.ID) == "":
		return errors.New("field id is required")
	case strings.TrimSpace(f.Name) == "":
		return fmt.Errorf("field %s: name is required", f.ID)
	case strings.TrimSpace(f.Category) == "":
		return fmt.Errorf("field %s: category is required", f.ID)
	case !f.DataType.Valid():
		return fmt.Errorf("field %s: invalid type %q", f.ID, f.DataType)
	}
	return nil
}

func (f BusinessField) clone() BusinessField {
	f.Examples = append([]string(nil), f.Examples...)
	return f
}

// Catalog is an ordered, immutable set of business fields with unique IDs
// and unique names (case-insensitive).
type Catalog struct {
	fields []BusinessField
	byID   map[string]int
	byName map[string]int
}

// NewCatalog validates fields and builds a catalog in the given order.
func NewCatalog(fields ...BusinessField) (*Catalog, error) {
	c := &Catalog{
		fields: make([]BusinessField, 0, len(fields)),
		byID:   make(map[string]int, len(fields)),
		byName: make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		id := strings.ToLower(f.ID)
		name := strings.ToLower(f.Name)
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("duplicate field id %q", f.ID)
		}
		if _, dup := c.byName[name]; dup {
			return nil, fmt.Errorf("duplicate field name %q", f.Name)
		}
		c.byID[id] = len(c.fields)
		c.byName[name] = len(c.fields)
		c.fields = append(c.fields, f.clone())
	}
	return c, nil
}

// Len returns the number of fields.
func (c *Catalog) Len() int { return len(c.fields) }

// Fields returns a copy of the fields in catalog order.
func (c *Catalog) Fields() []BusinessField {
	out := make([]BusinessField, len(c.fields))
	for i, f := range c.fields {
		out[i] = f.clone()
	}
	return out
}

// Lookup finds a field by ID or display name, case-insensitively.
func (c *Catalog) Lookup(idOrName string) (BusinessField, bool) {
	key := strings.ToLower(strings.TrimSpace(idOrName))
	if i, ok := c.byName[key]; ok {
		return c.fields[i].clone(), true
	}
	if i, ok := c.byID[key]; ok {
		return c.fields[i].clone(), true
	}
	return BusinessField{}, false
}

// CategoryGroup is one category with its fields in catalog order.
type CategoryGroup struct {
	Category string          `json:"category"`
	Fields   []BusinessField `json:"fields"`
}

// ByCategory groups fields by category, ordered by each category's first
// appearance in the catalog.
func (c *Catalog) ByCategory() []CategoryGroup {
	var groups []CategoryGroup
	index := make(map[string]int)
	for _, f := range c.fields {
		i, ok := index[f.Category]
		if !ok {
			i = len(groups)
			index[f.Category] = i
			groups = append(groups, CategoryGroup{Category: f.Category})
		}
		groups[i].Fields = append(groups[i].Fields, f.clone())
	}
	return groups
}

// Extend returns a new catalog where fields whose ID already exists replace
// the original in place and new fields are appended.
func (c *Catalog) Extend(fields ...BusinessField) (*Catalog, error) {
	merged := c.Fields()
	for _, f := range fields {
		if i, ok := c.byID[strings.ToLower(f.ID)]; ok {
			merged[i] = f
			continue
		}
		merged = append(merged, f)
	}
	return NewCatalog(merged...)
}

// catalogFile is the YAML document layout.
type catalogFile struct {
	Fields []BusinessField `yaml:"fields"`
}

// DecodeCatalogFields reads the fields of a YAML catalog document without
// validating them as a whole.
func DecodeCatalogFields(r io.Reader) ([]BusinessField, error) {
	var doc catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog file is empty")
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return doc.Fields, nil
}

// LoadCatalog reads a YAML catalog document:
//
//	fields:
//	  - id: revenue
//	    name: Revenue
//	    category: Financial
//	    type: number
//	    examples: ["$1,250.00", "980.5"]
func LoadCatalog(r io.Reader) (*Catalog, error) {
	fields, err := DecodeCatalogFields(r)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errors.New("catalog has no fields")
	}
	return NewCatalog(fields...)
}

// WriteYAML encodes the catalog in the format LoadCatalog reads.
func (c *Catalog) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(catalogFile{Fields: c.fields}); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return enc.Close()
}
