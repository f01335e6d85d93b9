// Package jsonfile reads a JSON array of objects into tabular records.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/masomo/roster/internal/tabular"
)

// ErrNotArray is returned when the document is not a JSON array.
var ErrNotArray = errors.New("expected a JSON array of objects")

// ReadFile loads path. See Read.
func ReadFile(path string) ([]tabular.Column, []tabular.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a JSON array of objects. Columns come out in the order keys
// are first seen; every column is sortable. Numbers keep their exact text
// (json.Number) and RFC 3339 strings become times so they sort
// chronologically.
func Read(r io.Reader) ([]tabular.Column, []tabular.Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("reading JSON: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, nil, ErrNotArray
	}

	var (
		keys    []string
		seen    = make(map[string]bool)
		records []tabular.Record
	)
	for i := 0; dec.More(); i++ {
		rec, order, err := readObject(dec)
		if err != nil {
			return nil, nil, fmt.Errorf("element %d: %w", i, err)
		}
		for _, k := range order {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("reading JSON: %w", err)
	}

	columns := make([]tabular.Column, len(keys))
	for i, k := range keys {
		columns[i] = tabular.Column{Key: k, Title: k, Sortable: true}
	}
	return columns, records, nil
}

// readObject decodes one object, remembering its key order.
func readObject(dec *json.Decoder) (tabular.Record, []string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, ErrNotArray
	}

	rec := make(tabular.Record)
	var order []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", key, err)
		}
		if _, dup := rec[key]; !dup {
			order = append(order, key)
		}
		rec[key] = convert(v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return rec, order, nil
}

func convert(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return s
}
