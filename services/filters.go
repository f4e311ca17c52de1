package services

import "inventory-catalog/models"

// FilterState selects catalog items; empty fields do not filter.
type FilterState struct {
	Category     string `json:"category,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Region       string `json:"region,omitempty"`
	Country      string `json:"country,omitempty"`
}

// Matches reports whether the item passes every active filter.
func (f FilterState) Matches(item *models.CatalogItem) bool {
	if f.Category != "" && item.Category != f.Category {
		return false
	}
	if f.Manufacturer != "" && item.Manufacturer != f.Manufacturer {
		return false
	}
	if f.Region != "" && item.LocationParsed.Region != f.Region {
		return false
	}
	if f.Country != "" && item.LocationParsed.Country != f.Country {
		return false
	}
	return true
}

// FilterItems returns the items matching f, in catalog order.
func FilterItems(items []models.CatalogItem, f FilterState) []models.CatalogItem {
	out := make([]models.CatalogItem, 0, len(items))
	for i := range items {
		if f.Matches(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

// FacetCounts holds the number of items per value of each filterable field.
type FacetCounts struct {
	Categories    map[string]int `json:"categories"`
	Manufacturers map[string]int `json:"manufacturers"`
	Regions       map[string]int `json:"regions"`
	Countries     map[string]int `json:"countries"`
}

// FilterCounts counts items per facet value for a sidebar. A facet counts
// every item while none of the other three filters is set; otherwise it counts
// only items matching all active filters. Items without a region are left out
// of the region facet.
func FilterCounts(items []models.CatalogItem, active FilterState) FacetCounts {
	counts := FacetCounts{
		Categories:    map[string]int{},
		Manufacturers: map[string]int{},
		Regions:       map[string]int{},
		Countries:     map[string]int{},
	}

	for i := range items {
		it := &items[i]
		matches := active.Matches(it)

		if (active.Manufacturer == "" && active.Region == "" && active.Country == "") || matches {
			counts.Categories[it.Category]++
		}
		if (active.Category == "" && active.Region == "" && active.Country == "") || matches {
			counts.Manufacturers[it.Manufacturer]++
		}
		if region := it.LocationParsed.Region; region != "" {
			if (active.Category == "" && active.Manufacturer == "" && active.Country == "") || matches {
				counts.Regions[region]++
			}
		}
		if (active.Category == "" && active.Manufacturer == "" && active.Region == "") || matches {
			counts.Countries[it.LocationParsed.Country]++
		}
	}
	return counts
}
