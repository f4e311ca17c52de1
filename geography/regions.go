package geography

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Region labels used by the catalog front-end.
const (
	Northeast = "Northeast"
	Southeast = "Southeast"
	Midwest   = "Midwest"
	Southwest = "Southwest"
	West      = "West"
)

var knownRegions = map[string]bool{
	Northeast: true,
	Southeast: true,
	Midwest:   true,
	Southwest: true,
	West:      true,
}

//go:embed regions.yaml
var defaultRegionsYAML []byte

// RegionTable maps a canonical state name to its region. It is immutable once
// built and safe for concurrent reads.
type RegionTable struct {
	byState map[string]string
}

// DefaultRegionTable returns the built-in table of the fifty US states.
func DefaultRegionTable() *RegionTable {
	t, err := ParseRegionTable(defaultRegionsYAML)
	if err != nil {
		panic("geography: embedded regions.yaml: " + err.Error())
	}
	return t
}

// LoadRegionTable reads a region table from a YAML file shaped like
// regions.yaml: region label → list of state names.
func LoadRegionTable(path string) (*RegionTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("regions: read %q: %w", path, err)
	}
	t, err := ParseRegionTable(data)
	if err != nil {
		return nil, fmt.Errorf("regions: %q: %w", path, err)
	}
	return t, nil
}

// ParseRegionTable decodes a YAML region document. Unknown region labels,
// blank state names and states listed twice are rejected.
func ParseRegionTable(data []byte) (*RegionTable, error) {
	var doc map[string][]string
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	byState := make(map[string]string)
	for region, states := range doc {
		if !knownRegions[region] {
			return nil, fmt.Errorf("unknown region %q", region)
		}
		for _, state := range states {
			if state == "" {
				return nil, fmt.Errorf("blank state under %q", region)
			}
			if prev, dup := byState[state]; dup {
				return nil, fmt.Errorf("state %q listed under both %q and %q", state, prev, region)
			}
			byState[state] = region
		}
	}
	return &RegionTable{byState: byState}, nil
}

// NewRegionTable builds a table from a state → region map. The map is copied.
func NewRegionTable(m map[string]string) *RegionTable {
	byState := make(map[string]string, len(m))
	for k, v := range m {
		byState[k] = v
	}
	return &RegionTable{byState: byState}
}

// Lookup is an exact, case-sensitive match on the state name.
func (t *RegionTable) Lookup(state string) (string, bool) {
	region, ok := t.byState[state]
	return region, ok
}

// States returns the table's keys in sorted order.
func (t *RegionTable) States() []string {
	states := make([]string, 0, len(t.byState))
	for s := range t.byState {
		states = append(states, s)
	}
	sort.Strings(states)
	return states
}

func (t *RegionTable) Len() int {
	return len(t.byState)
}
