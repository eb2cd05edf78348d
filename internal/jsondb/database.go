package jsondb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"os"
)

var (
	// ErrInvalidDatabase is returned when the document is not a JSON object.
	ErrInvalidDatabase = errors.New("invalid database")
	// ErrInvalidTable is returned when the requested table is missing or is not an array.
	ErrInvalidTable = errors.New("invalid database table")
)

// Database is a JSON document on disk.
type Database struct {
	path     string
	readFile func(name string) ([]byte, error)
}

// Option configures a Database.
type Option func(*Database)

// WithReadFile overrides the function used to read the document.
func WithReadFile(readFile func(name string) ([]byte, error)) Option {
	return func(d *Database) {
		d.readFile = readFile
	}
}

// Open returns a Database for the document at path.
//
// The file is not touched until an iteration starts.
func Open(path string, opts ...Option) *Database {
	d := &Database{path: path, readFile: os.ReadFile}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Path returns the location of the document. It identifies the database in
// error messages.
func (d *Database) Path() string {
	return d.path
}

// Entries returns an iterator over the raw rows of table.
//
// Each iteration reads the whole document once. Rows are decoded with
// json.Number for numbers so callers can check integers exactly. On failure a
// single (nil, err) pair is yielded and the iteration ends.
func (d *Database) Entries(ctx context.Context, table string) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		rows, err := d.loadTable(table)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, raw := range rows {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			row, err := decodeRow(raw)
			if err != nil {
				yield(nil, fmt.Errorf("%w (%s): %s: %w", ErrInvalidTable, d.path, table, err))
				return
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// Tables returns the names of every table in the document.
func (d *Database) Tables() ([]string, error) {
	doc, err := d.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	return names, nil
}

func (d *Database) load() (map[string]json.RawMessage, error) {
	contents, err := d.readFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read database %s: %w", d.path, err)
	}
	return parseDocument(d.path, contents)
}

func (d *Database) loadTable(table string) ([]json.RawMessage, error) {
	doc, err := d.load()
	if err != nil {
		return nil, err
	}
	raw, ok := doc[table]
	if !ok {
		return nil, fmt.Errorf("%w (%s): %q does not exist", ErrInvalidTable, d.path, table)
	}
	if !isArray(raw) {
		return nil, fmt.Errorf("%w (%s): %q is not an array", ErrInvalidTable, d.path, table)
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w (%s): %q: %w", ErrInvalidTable, d.path, table, err)
	}
	return rows, nil
}

// parseDocument splits the document into its tables without decoding rows.
func parseDocument(path string, contents []byte) (map[string]json.RawMessage, error) {
	if !isObject(contents) {
		return nil, fmt.Errorf("%w (%s): not a JSON object", ErrInvalidDatabase, path)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("%w (%s): %w", ErrInvalidDatabase, path, err)
	}
	return doc, nil
}

func decodeRow(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var row any
	if err := dec.Decode(&row); err != nil {
		return nil, err
	}
	return row, nil
}

func isObject(b []byte) bool {
	b = bytes.TrimLeft(b, " \t\r\n")
	return len(b) > 0 && b[0] == '{'
}

func isArray(b []byte) bool {
	b = bytes.TrimLeft(b, " \t\r\n")
	return len(b) > 0 && b[0] == '['
}
