package engine

// ============================================================================
// ENGINE TYPES — Credit dataset views, aggregates and chart configs
// ============================================================================
// Record/RecordView carry the loaded table. Selection is the filter state
// held by the presentation host. Everything else is a Derived View shape:
// Group, Bin, BoxStats, ScatterSeries, Matrix, and the render-ready
// ChartConfig / TableData / TextData built from them.
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
// Used for ad-hoc tables (tests, small fixtures). Loaded files go through FrameView.
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ============================================================================
// SELECTION — Filter state supplied by the host
// ============================================================================

// Selection maps a column name to a single selected value.
// An empty value means no constraint on that column. A nil Selection is valid.
type Selection map[string]string

// IsEmpty returns true if no constraint is set.
func (s Selection) IsEmpty() bool {
	for _, v := range s {
		if v != "" {
			return false
		}
	}
	return true
}

// Get returns the selected value for a column, or "".
func (s Selection) Get(column string) string {
	if s == nil {
		return ""
	}
	return s[column]
}

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group represents a grouped/aggregated result.
// Builders convert these into ChartConfig or TableData.
type Group struct {
	Key       string     `json:"key"`
	Label     string     `json:"label"`
	Value     float64    `json:"value"`
	Count     int        `json:"count"`
	SubGroups []Group    `json:"subGroups,omitempty"`
	View      RecordView `json:"-"` // rows in this group (zero-copy)
}

// Bin is one bucket of a numeric histogram. Lower is inclusive; Upper is
// exclusive except for the last bin.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// BoxStats summarizes the distribution of a numeric column for one category.
type BoxStats struct {
	Label      string    `json:"label"`
	Count      int       `json:"count"`
	Min        float64   `json:"min"`
	Q1         float64   `json:"q1"`
	Median     float64   `json:"median"`
	Q3         float64   `json:"q3"`
	Max        float64   `json:"max"`
	LowerFence float64   `json:"lowerFence"` // lowest value within Q1 - 1.5*IQR
	UpperFence float64   `json:"upperFence"` // highest value within Q3 + 1.5*IQR
	Outliers   []float64 `json:"outliers,omitempty"`
}

// XY is a single scatter point.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScatterSeries holds the points of one color category.
type ScatterSeries struct {
	Name   string `json:"name"`
	Points []XY   `json:"points"`
	Color  string `json:"color,omitempty"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// Chart types understood by the renderers.
const (
	ChartCategoryHistogram = "category_histogram"
	ChartHistogram         = "histogram"
	ChartStackedBar        = "stacked_bar"
	ChartPie               = "pie"
	ChartLine              = "line"
	ChartBox               = "box"
	ChartScatter           = "scatter"
	ChartHeatmap           = "heatmap"
)

// ChartConfig defines how to render a chart.
// Series is used by category/stacked/pie/line/histogram charts; the other
// shapes have their own payload field.
type ChartConfig struct {
	ChartType  string          `json:"chartType"`
	Title      string          `json:"title"`
	XAxis      string          `json:"xAxis,omitempty"`
	YAxis      string          `json:"yAxis,omitempty"`
	Series     []ChartSeries   `json:"series"`
	Boxes      []BoxStats      `json:"boxes,omitempty"`
	Scatter    []ScatterSeries `json:"scatter,omitempty"`
	Heatmap    *Matrix         `json:"heatmap,omitempty"`
	Colors     []string        `json:"colors,omitempty"`
	ShowLegend bool            `json:"showLegend"`
	ShowGrid   bool            `json:"showGrid"`
}

// IsEmpty reports whether the chart has nothing to draw.
func (c *ChartConfig) IsEmpty() bool {
	if c == nil {
		return true
	}
	switch c.ChartType {
	case ChartBox:
		return len(c.Boxes) == 0
	case ChartScatter:
		for _, s := range c.Scatter {
			if len(s.Points) > 0 {
				return false
			}
		}
		return true
	case ChartHeatmap:
		return c.Heatmap == nil || len(c.Heatmap.Columns) == 0
	}
	for _, s := range c.Series {
		if len(s.Data) > 0 {
			return false
		}
	}
	return true
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// ============================================================================
// TEXT TYPES
// ============================================================================

// TextData is a one-line numeric summary of a view.
type TextData struct {
	Measure string  `json:"measure"`
	Count   int     `json:"count"`
	Valid   int     `json:"valid"` // non-missing values of Measure
	Mean    float64 `json:"mean"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Value   string  `json:"value"`
}
