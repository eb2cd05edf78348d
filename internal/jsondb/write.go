package jsondb

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// WriteTable replaces the rows of table in the document at path.
//
// Other tables are preserved as is. A missing file is created. An existing
// file that is not a valid document is an error rather than being clobbered.
func WriteTable[T any](path, table string, rows []T) error {
	doc := map[string]json.RawMessage{}
	contents, err := os.ReadFile(path) //nolint:gosec // G304: path is operator supplied
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("failed to read database %s: %w", path, err)
	default:
		if doc, err = parseDocument(path, contents); err != nil {
			return err
		}
	}

	if rows == nil {
		rows = []T{}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal table %q: %w", table, err)
	}
	doc[table] = data
	return writeDocument(path, doc)
}

// writeDocument writes the tables sorted by name, one row per line, so diffs
// of the file stay readable.
func writeDocument(path string, doc map[string]json.RawMessage) error {
	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	slices.Sort(names)

	var buf bytes.Buffer
	buf.WriteString("{")
	for i, name := range names {
		if i > 0 {
			buf.WriteString(",")
		}
		key, err := json.Marshal(name)
		if err != nil {
			return fmt.Errorf("failed to marshal table name %q: %w", name, err)
		}
		buf.WriteString("\n\t")
		buf.Write(key)
		buf.WriteString(": ")
		if err := writeTable(&buf, doc[name]); err != nil {
			return fmt.Errorf("failed to encode table %q: %w", name, err)
		}
	}
	buf.WriteString("\n}\n")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	tmp := f.Name()
	defer func() {
		_ = os.Remove(tmp)
	}()
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// writeTable writes an array one element per line. Non-array values are
// compacted and written verbatim.
func writeTable(buf *bytes.Buffer, raw json.RawMessage) error {
	var rows []json.RawMessage
	if !isArray(raw) || json.Unmarshal(raw, &rows) != nil {
		return json.Compact(buf, raw)
	}
	if len(rows) == 0 {
		buf.WriteString("[]")
		return nil
	}
	buf.WriteString("[")
	for i, row := range rows {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n\t\t")
		if err := json.Compact(buf, row); err != nil {
			return err
		}
	}
	buf.WriteString("\n\t]")
	return nil
}
