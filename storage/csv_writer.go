package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"inventory-catalog/models"
)

// UTF-8 BOM so spreadsheet tools detect the encoding.
var bom = []byte{0xEF, 0xBB, 0xBF}

var csvHeader = []string{
	"code", "title", "category", "manufacturer", "model_number", "serial_number",
	"location", "city", "state", "country", "region",
	"price", "currency", "condition", "quantity", "image_count", "image_folder",
}

// CSVWriter writes a flat, one-row-per-item view of the catalog.
// It is safe for concurrent use.
type CSVWriter struct {
	mu   sync.Mutex
	path string
}

// NewCSVWriter returns a writer for path. Nothing is created until Write.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Write creates (or truncates) the CSV file and writes the header row followed
// by every catalog item. Intermediate directories are created automatically.
func (c *CSVWriter) Write(catalog *models.Catalog) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", c.path, err)
	}
	defer f.Close()

	if _, err := f.Write(bom); err != nil {
		return fmt.Errorf("csv: write bom: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for i := range catalog.Items {
		if err := w.Write(itemRow(&catalog.Items[i])); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	return f.Close()
}

func itemRow(it *models.CatalogItem) []string {
	price := ""
	if it.Price != nil {
		price = strconv.FormatFloat(float64(*it.Price), 'f', 2, 64)
	}
	quantity := ""
	if it.Quantity != nil {
		quantity = strconv.FormatInt(*it.Quantity, 10)
	}
	return []string{
		it.Code,
		it.Title,
		it.Category,
		it.Manufacturer,
		deref(it.ModelNumber),
		deref(it.SerialNumber),
		it.Location,
		deref(it.LocationParsed.City),
		deref(it.LocationParsed.State),
		it.LocationParsed.Country,
		it.LocationParsed.Region,
		price,
		it.Currency,
		deref(it.Condition),
		quantity,
		strconv.Itoa(len(it.Images)),
		strings.TrimSpace(it.ImageFolder),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
