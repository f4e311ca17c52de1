package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"inventory-catalog/models"
	"inventory-catalog/storage"
	"inventory-catalog/utils"
)

// Exporter runs one export: read the store, build the catalog, write it out.
type Exporter struct {
	reader  storage.ItemReader
	builder *CatalogBuilder
	writers []storage.CatalogWriter
	logger  *utils.Logger
}

// NewExporter writes every catalog to each of writers, in order.
func NewExporter(reader storage.ItemReader, builder *CatalogBuilder, logger *utils.Logger, writers ...storage.CatalogWriter) *Exporter {
	return &Exporter{
		reader:  reader,
		builder: builder,
		writers: writers,
		logger:  logger,
	}
}

// Run performs the export. Any error means the run failed and nothing
// downstream should consume its output.
func (e *Exporter) Run(ctx context.Context) (*models.Catalog, error) {
	runID := uuid.NewString()
	start := time.Now()
	e.logger.Info("[export] Run %s starting", runID)

	categories, err := e.reader.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	items, err := e.reader.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	e.logger.Info("[export] Loaded %d items and %d categories", len(items), len(categories))

	catalog, err := e.builder.Build(ctx, categories, items)
	if err != nil {
		return nil, fmt.Errorf("export: build catalog: %w", err)
	}

	for _, w := range e.writers {
		if err := w.Write(catalog); err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
	}

	e.logger.Info("[export] Run %s exported %d items in %v", runID, len(catalog.Items), time.Since(start).Round(time.Millisecond))
	return catalog, nil
}
