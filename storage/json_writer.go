package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"inventory-catalog/models"
)

// JSONWriter writes the catalog document the static front-end fetches.
//
// Output is UTF-8 with two-space indentation; non-ASCII characters and
// <, >, & are written literally and the file has no trailing newline.
type JSONWriter struct {
	path string
}

func NewJSONWriter(path string) *JSONWriter {
	return &JSONWriter{path: path}
}

func (w *JSONWriter) Path() string { return w.path }

// Write encodes the catalog and replaces the output file. Intermediate
// directories are created automatically.
func (w *JSONWriter) Write(catalog *models.Catalog) error {
	data, err := EncodeCatalog(catalog)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("json: create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(w.path), ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("json: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("json: write %q: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("json: close %q: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("json: chmod %q: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("json: replace %q: %w", w.path, err)
	}
	return nil
}

// EncodeCatalog renders the catalog exactly as JSONWriter stores it.
func EncodeCatalog(catalog *models.Catalog) ([]byte, error) {
	data, err := encode(catalog)
	if err != nil {
		return nil, fmt.Errorf("json: encode catalog: %w", err)
	}
	return data, nil
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return unescapeLineSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// unescapeLineSeparators writes U+2028 and U+2029 literally. encoding/json
// always escapes them, even with HTML escaping off.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if data[i+1] == 'u' && i+6 <= len(data) {
			switch string(data[i+2 : i+6]) {
			case "2028":
				out = append(out, "\u2028"...)
				i += 5
				continue
			case "2029":
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		// other escape pairs are copied whole
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}

// ReadCatalog loads a catalog previously written by JSONWriter.
func ReadCatalog(path string) (*models.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("json: read %q: %w", path, err)
	}
	var catalog models.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("json: decode %q: %w", path, err)
	}
	return &catalog, nil
}
