package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

func init() {
	RegisterFormat(Format{Name: "json", Extensions: []string{".json"}, Parse: ParseJSON})
}

// ParseJSON decodes either a top-level array of record objects or an object
// whose "data" property is such an array. Columns are ordered by first
// appearance across records, and keys absent from a record are Null.
//
// The document is walked token by token rather than unmarshalled into maps
// so the key order of the file survives.
func ParseJSON(r io.Reader) (*Table, error) {
	dec := json.NewDecoder(newTextReader(r))

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var table *Table
	switch tok {
	case json.Delim('['):
		table, err = decodeRecords(dec)
	case json.Delim('{'):
		table, err = decodeDataEnvelope(dec)
	default:
		return nil, fmt.Errorf("expected an array of records or an object with a \"data\" array, got %s", describeToken(tok))
	}
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON: unexpected data after top-level value")
	}

	for _, row := range table.Rows {
		for _, col := range table.Columns {
			if _, ok := row[col]; !ok {
				row[col] = Null()
			}
		}
	}
	return table, nil
}

// decodeDataEnvelope reads the remainder of an object whose opening brace has
// been consumed, looking for the "data" array.
func decodeDataEnvelope(dec *json.Decoder) (*Table, error) {
	var table *Table
	for dec.More() {
		key, err := objectKey(dec)
		if err != nil {
			return nil, err
		}
		if key != "data" || table != nil {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("invalid JSON in %q: %w", key, err)
			}
			continue
		}

		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid JSON in \"data\": %w", err)
		}
		if tok != json.Delim('[') {
			return nil, fmt.Errorf("\"data\" must be an array of records, got %s", describeToken(tok))
		}
		if table, err = decodeRecords(dec); err != nil {
			return nil, err
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if table == nil {
		return nil, errors.New("object has no \"data\" array; expected an array of records or {\"data\": [...]}")
	}
	return table, nil
}

// decodeRecords reads the elements of an array whose opening bracket has been
// consumed. Every element must be an object.
func decodeRecords(dec *json.Decoder) (*Table, error) {
	table := &Table{}
	seen := make(map[string]bool)

	for i := 0; dec.More(); i++ {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid JSON in record %d: %w", i+1, err)
		}
		if tok != json.Delim('{') {
			return nil, fmt.Errorf("record %d is %s, expected an object", i+1, describeToken(tok))
		}

		row := make(Row)
		for dec.More() {
			key, err := objectKey(dec)
			if err != nil {
				return nil, err
			}
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, fmt.Errorf("invalid JSON in record %d field %q: %w", i+1, key, err)
			}
			if !seen[key] {
				seen[key] = true
				table.Columns = append(table.Columns, key)
			}
			row[key] = valueFromJSON(raw)
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("invalid JSON in record %d: %w", i+1, err)
		}
		table.Rows = append(table.Rows, row)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return table, nil
}

func objectKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("invalid JSON: expected object key, got %s", describeToken(tok))
	}
	return key, nil
}

func describeToken(tok json.Token) string {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '[':
			return "an array"
		case '{':
			return "an object"
		}
		return fmt.Sprintf("%q", string(v))
	case string:
		return "a string"
	case float64, json.Number:
		return "a number"
	case bool:
		return "a boolean"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%T", tok)
}
