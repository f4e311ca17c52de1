package storage

import (
	"context"

	"inventory-catalog/models"
)

// ItemReader is the interface any inventory source must satisfy.
type ItemReader interface {
	Categories(ctx context.Context) (map[int64]string, error)
	Items(ctx context.Context) ([]models.Item, error)
	Close() error
}

// CatalogWriter persists an assembled catalog.
type CatalogWriter interface {
	Write(catalog *models.Catalog) error
}
