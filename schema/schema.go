package schema

// ============================================================================
// SCHEMA — Describes the shape of a dataset
// ============================================================================
// Built by hand for the credit dataset (credit.go) or discovered from a
// loaded table (discover.go). The loader uses it for the expected column
// count; the dashboard uses it for labels and the tenure ordering.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`

	// Discovery metadata
	DiscoveredFrom string `json:"discoveredFrom,omitempty"`
	RowCount       int    `json:"rowCount,omitempty"`

	// Columns that could not be classified
	SkippedColumns []SkippedColumn `json:"skippedColumns,omitempty"`
}

// DimensionMeta describes a string field used for grouping/filtering.
type DimensionMeta struct {
	Key             string   `json:"key"`
	DisplayName     string   `json:"displayName"`
	Description     string   `json:"description,omitempty"`
	SampleValues    []string `json:"sampleValues"`
	Groupable       bool     `json:"groupable"`
	Filterable      bool     `json:"filterable"`
	Order           []string `json:"order,omitempty"`           // explicit category ordering, empty = unordered
	CardinalityHint string   `json:"cardinalityHint,omitempty"` // "low", "medium", "high"
}

// IsOrdered reports whether the dimension has an explicit ordering.
func (d DimensionMeta) IsOrdered() bool { return len(d.Order) > 0 }

// MeasureMeta describes a numeric field used for aggregation.
type MeasureMeta struct {
	Key                string   `json:"key"`
	DisplayName        string   `json:"displayName"`
	Description        string   `json:"description,omitempty"`
	Unit               string   `json:"unit,omitempty"` // "currency", "months", "persons"
	Aggregations       []string `json:"aggregations,omitempty"`
	DefaultAggregation string   `json:"defaultAggregation,omitempty"`
	MissingCount       int      `json:"missingCount,omitempty"`
}

// SkippedColumn records why a column was excluded during discovery.
type SkippedColumn struct {
	Column string `json:"column"`
	Reason string `json:"reason"`
}

// DefaultDimension creates a DimensionMeta with sensible defaults.
func DefaultDimension(key, displayName string, samples []string) DimensionMeta {
	return DimensionMeta{
		Key:          key,
		DisplayName:  displayName,
		SampleValues: samples,
		Groupable:    true,
		Filterable:   true,
	}
}

// DefaultMeasure creates a MeasureMeta with sensible defaults.
func DefaultMeasure(key, displayName string) MeasureMeta {
	return MeasureMeta{
		Key:                key,
		DisplayName:        displayName,
		Aggregations:       []string{"sum", "avg", "min", "max", "count"},
		DefaultAggregation: "avg",
	}
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// RequiredColumns returns every dimension and measure key, dimensions first.
func (c Config) RequiredColumns() []string {
	return append(c.DimensionKeys(), c.MeasureKeys()...)
}

// Dimension looks up a dimension by key.
func (c Config) Dimension(key string) (DimensionMeta, bool) {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return d, true
		}
	}
	return DimensionMeta{}, false
}

// Order returns the explicit category ordering of a dimension, or nil when
// the dimension is unknown or unordered.
func (c Config) Order(key string) []string {
	d, ok := c.Dimension(key)
	if !ok || !d.IsOrdered() {
		return nil
	}
	return append([]string(nil), d.Order...)
}

// DisplayName returns the display name of any column, or the key itself.
func (c Config) DisplayName(key string) string {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return d.DisplayName
		}
	}
	for _, m := range c.Measures {
		if m.Key == key {
			return m.DisplayName
		}
	}
	return key
}

// Missing returns the keys of RequiredColumns absent from columns.
func (c Config) Missing(columns []string) []string {
	have := make(map[string]bool, len(columns))
	for _, col := range columns {
		have[col] = true
	}
	var missing []string
	for _, key := range c.RequiredColumns() {
		if !have[key] {
			missing = append(missing, key)
		}
	}
	return missing
}
