package catalog

// Group is one of the two fixed metric categories.
type Group string

const (
	GroupCapacity     Group = "capacity"
	GroupAdaptability Group = "adaptability"
)

// Groups lists every valid group in display order.
func Groups() []Group {
	return []Group{GroupCapacity, GroupAdaptability}
}

// Valid reports whether g is one of the known groups.
func (g Group) Valid() bool {
	return g == GroupCapacity || g == GroupAdaptability
}

// MetricDefinition is an immutable catalog entry.
type MetricDefinition struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Help    string `json:"help"`
	Group   Group  `json:"group"`
	Default int    `json:"default"`
}

// MetricValue pairs a MetricDefinition.ID with its current value in [0,100].
type MetricValue struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

// Catalog is an ordered, read-only table of metric definitions.
// The zero value is an empty catalog.
type Catalog struct {
	defs  []MetricDefinition
	index map[string]int
}

// New builds a catalog from defs, preserving their order. Later entries with a
// duplicate ID are ignored.
func New(defs []MetricDefinition) Catalog {
	c := Catalog{index: make(map[string]int, len(defs))}
	for _, d := range defs {
		if _, dup := c.index[d.ID]; dup {
			continue
		}
		c.index[d.ID] = len(c.defs)
		c.defs = append(c.defs, d)
	}
	return c
}

// Definitions returns a copy of the definitions in catalog order.
func (c Catalog) Definitions() []MetricDefinition {
	out := make([]MetricDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Len returns the number of metrics.
func (c Catalog) Len() int { return len(c.defs) }

// Lookup returns the definition for id.
func (c Catalog) Lookup(id string) (MetricDefinition, bool) {
	i, ok := c.index[id]
	if !ok {
		return MetricDefinition{}, false
	}
	return c.defs[i], true
}

// Has reports whether id is in the catalog.
func (c Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Defaults returns one MetricValue per definition, set to its default.
func (c Catalog) Defaults() []MetricValue {
	out := make([]MetricValue, len(c.defs))
	for i, d := range c.defs {
		out[i] = MetricValue{ID: d.ID, Value: d.Default}
	}
	return out
}

// InGroup returns the definitions belonging to g, in catalog order.
func (c Catalog) InGroup(g Group) []MetricDefinition {
	var out []MetricDefinition
	for _, d := range c.defs {
		if d.Group == g {
			out = append(out, d)
		}
	}
	return out
}
