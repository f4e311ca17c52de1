package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"inventory-catalog/models"
)

func filterSample() []models.CatalogItem {
	loc := func(region, country string) models.ParsedLocation {
		return models.ParsedLocation{Region: region, Country: country}
	}
	return []models.CatalogItem{
		{Code: "1", Category: "Lathes", Manufacturer: "Monarch", LocationParsed: loc("Southeast", "USA")},
		{Code: "2", Category: "Lathes", Manufacturer: "Hardinge", LocationParsed: loc("Northeast", "USA")},
		{Code: "3", Category: "Mills", Manufacturer: "Monarch", LocationParsed: loc("", "France")},
		{Code: "4", Category: "Mills", Manufacturer: "Bridgeport", LocationParsed: loc("Southeast", "USA")},
	}
}

func codes(items []models.CatalogItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Code)
	}
	return out
}

func TestFilterItems(t *testing.T) {
	items := filterSample()

	tests := []struct {
		name   string
		filter FilterState
		want   []string
	}{
		{"no filters", FilterState{}, []string{"1", "2", "3", "4"}},
		{"category", FilterState{Category: "Lathes"}, []string{"1", "2"}},
		{"manufacturer", FilterState{Manufacturer: "Monarch"}, []string{"1", "3"}},
		{"region", FilterState{Region: "Southeast"}, []string{"1", "4"}},
		{"country", FilterState{Country: "France"}, []string{"3"}},
		{"combined", FilterState{Category: "Mills", Region: "Southeast"}, []string{"4"}},
		{"nothing matches", FilterState{Category: "Presses"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codes(FilterItems(items, tt.filter)))
		})
	}
}

func TestFilterCountsNoFilters(t *testing.T) {
	got := FilterCounts(filterSample(), FilterState{})
	assert.Equal(t, map[string]int{"Lathes": 2, "Mills": 2}, got.Categories)
	assert.Equal(t, map[string]int{"Monarch": 2, "Hardinge": 1, "Bridgeport": 1}, got.Manufacturers)
	assert.Equal(t, map[string]int{"Southeast": 2, "Northeast": 1}, got.Regions)
	assert.Equal(t, map[string]int{"USA": 3, "France": 1}, got.Countries)
}

func TestFilterCountsWithCategory(t *testing.T) {
	got := FilterCounts(filterSample(), FilterState{Category: "Lathes"})

	// the category facet ignores its own filter
	assert.Equal(t, map[string]int{"Lathes": 2, "Mills": 2}, got.Categories)
	assert.Equal(t, map[string]int{"Monarch": 1, "Hardinge": 1}, got.Manufacturers)
	assert.Equal(t, map[string]int{"Southeast": 1, "Northeast": 1}, got.Regions)
	assert.Equal(t, map[string]int{"USA": 2}, got.Countries)
}

func TestFilterCountsWithCategoryAndRegion(t *testing.T) {
	got := FilterCounts(filterSample(), FilterState{Category: "Mills", Region: "Southeast"})

	assert.Equal(t, map[string]int{"Mills": 1}, got.Categories)
	assert.Equal(t, map[string]int{"Bridgeport": 1}, got.Manufacturers)
	assert.Equal(t, map[string]int{"Southeast": 1}, got.Regions)
	assert.Equal(t, map[string]int{"USA": 1}, got.Countries)
}
