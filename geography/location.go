package geography

import (
	"strings"

	"inventory-catalog/models"
)

// DefaultCountry is assumed when a location names no other country.
const DefaultCountry = "USA"

// Parser splits free-text "City, State" strings into structured locations.
type Parser struct {
	regions *RegionTable
}

// NewParser returns a Parser backed by the given table.
func NewParser(regions *RegionTable) *Parser {
	return &Parser{regions: regions}
}

// Parse classifies a location string. It never fails: anything it cannot
// interpret comes back as the default country with the remaining fields unset.
//
//	"Rolesville, North Carolina" → city, state, region Southeast, USA
//	"Paris, France"              → city Paris, state France, country France
//	"Texas"                      → state Texas, region Southwest, USA
//	"Some Warehouse"             → city only, USA
//
// Only the first two comma-separated parts are read.
func (p *Parser) Parse(location string) models.ParsedLocation {
	parsed := models.ParsedLocation{Country: DefaultCountry}
	if strings.TrimSpace(location) == "" {
		return parsed
	}

	parts := strings.Split(location, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) >= 2 {
		statePart := parts[1]
		parsed.City = models.StringPtr(parts[0])
		parsed.State = models.StringPtr(statePart)
		if region, ok := p.regions.Lookup(statePart); ok {
			parsed.Region = region
			parsed.Country = DefaultCountry
		} else if statePart != "USA" && statePart != "United States" {
			// second part is a country, not a US state
			parsed.Country = statePart
		}
		return parsed
	}

	if region, ok := p.regions.Lookup(parts[0]); ok {
		parsed.State = models.StringPtr(parts[0])
		parsed.Region = region
	} else {
		parsed.City = models.StringPtr(parts[0])
	}
	return parsed
}
