package services

import (
	"context"
	"sort"
	"strings"

	"inventory-catalog/models"
	"inventory-catalog/utils"
)

const (
	// Uncategorized stands in for a missing category or brand.
	Uncategorized = "Uncategorized"
	currencyUSD   = "USD"
)

// AssetResolver finds the images for an inventory code.
type AssetResolver interface {
	Resolve(itemCode string) models.AssetMatch
}

// LocationParser turns a free-text location into structured fields.
type LocationParser interface {
	Parse(location string) models.ParsedLocation
}

// CatalogBuilder turns inventory rows into the front-end catalog.
type CatalogBuilder struct {
	assets      AssetResolver
	locations   LocationParser
	logger      *utils.Logger
	concurrency int
}

// NewCatalogBuilder creates a CatalogBuilder. Items are enriched on up to
// concurrency goroutines; output order always follows the input.
func NewCatalogBuilder(assets AssetResolver, locations LocationParser, logger *utils.Logger, concurrency int) *CatalogBuilder {
	if concurrency < 1 {
		concurrency = 1
	}
	return &CatalogBuilder{
		assets:      assets,
		locations:   locations,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Build assembles the catalog from category names and item rows.
func (b *CatalogBuilder) Build(ctx context.Context, categories map[int64]string, items []models.Item) (*models.Catalog, error) {
	out := make([]models.CatalogItem, len(items))
	manufacturers := utils.NewStringSet()
	locations := utils.NewStringSet()

	pool := utils.NewWorkerPool(b.concurrency)
	for i := range items {
		if ctx.Err() != nil {
			break
		}
		i := i
		pool.Submit(func() {
			out[i] = b.buildItem(categories, &items[i])
			manufacturers.Add(out[i].Manufacturer)
			if out[i].Location != "" {
				locations.Add(out[i].Location)
			}
		})
	}
	pool.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	catalog := &models.Catalog{
		Items:         out,
		Categories:    sortedCategories(categories),
		Manufacturers: manufacturers.Sorted(),
		Locations:     locations.Sorted(),
	}

	withImages := 0
	for i := range out {
		if len(out[i].Images) > 0 {
			withImages++
		}
	}
	b.logger.Info("[catalog] Built %d items (%d with images) — %d categories, %d manufacturers, %d locations",
		len(out), withImages, len(catalog.Categories), len(catalog.Manufacturers), len(catalog.Locations))
	return catalog, nil
}

func (b *CatalogBuilder) buildItem(categories map[int64]string, row *models.Item) models.CatalogItem {
	code := row.InventoryCode

	category := Uncategorized
	if row.CategoryID.Valid {
		if name, ok := categories[row.CategoryID.Int64]; ok {
			category = name
		} else {
			b.logger.Warn("[catalog] %s: unknown category id %d", code, row.CategoryID.Int64)
		}
	}

	manufacturer := row.Brand.String
	if manufacturer == "" {
		manufacturer = Uncategorized
	}

	match := b.assets.Resolve(code)
	if match.FolderName == "" {
		b.logger.Debug("[catalog] %s: no asset folder", code)
	} else if len(match.Images) == 0 {
		b.logger.Debug("[catalog] %s: folder %q has no photos", code, match.FolderName)
	}

	location := row.Location.String

	var price *models.Price
	if row.SalePrice.Valid && row.SalePrice.Float64 != 0 {
		p := models.Price(row.SalePrice.Float64)
		price = &p
	}

	return models.CatalogItem{
		Code:           code,
		Title:          row.ItemName.String,
		Category:       category,
		CategoryID:     models.NullableInt(row.CategoryID),
		Manufacturer:   manufacturer,
		Brand:          models.NullableString(row.Brand),
		ModelNumber:    models.NullableString(row.ModelNumber),
		SerialNumber:   models.NullableString(row.SerialNumber),
		Location:       location,
		LocationParsed: b.locations.Parse(location),
		Price:          price,
		Currency:       currencyUSD,
		Condition:      models.NullableString(row.Condition),
		Quantity:       models.NullableInt(row.Quantity),
		Description:    row.Notes.String,
		Images:         match.Images,
		ImageFolder:    match.FolderName,
	}
}

func sortedCategories(categories map[int64]string) []models.Category {
	out := make([]models.Category, 0, len(categories))
	for id, name := range categories {
		out = append(out, models.Category{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FindItem returns the item with the given inventory code.
func FindItem(catalog *models.Catalog, code string) (*models.CatalogItem, bool) {
	code = strings.TrimSpace(code)
	for i := range catalog.Items {
		if catalog.Items[i].Code == code {
			return &catalog.Items[i], true
		}
	}
	return nil, false
}
