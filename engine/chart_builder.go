package engine

import (
	"fmt"
	"math"
)

// ============================================================================
// CHART BUILDER — Produces ChartConfig from derived views
// ============================================================================
// Empty input never yields nil: the config is returned with empty series so
// the host can render an empty chart.
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// ChartSpec carries the cosmetic part of a chart.
type ChartSpec struct {
	Type  string
	Title string
	XAxis string
	YAxis string
}

func (s ChartSpec) base() *ChartConfig {
	return &ChartConfig{
		ChartType:  s.Type,
		Title:      s.Title,
		XAxis:      s.XAxis,
		YAxis:      s.YAxis,
		Series:     []ChartSeries{},
		ShowLegend: true,
		ShowGrid:   s.Type != ChartPie && s.Type != ChartHeatmap,
	}
}

// BuildChart produces a group-based ChartConfig (category histogram, pie,
// line, stacked bar). Groups with SubGroups become one series per sub key.
func BuildChart(spec ChartSpec, groups []Group) *ChartConfig {
	if spec.Type == "" {
		spec.Type = ChartCategoryHistogram
	}
	config := spec.base()

	if len(groups) == 0 {
		return config
	}

	if spec.Type == ChartStackedBar && hasSubGroups(groups) {
		config.Series = buildMultiSeries(groups)
	} else {
		config.Series = buildSingleSeries(groups, spec.Title)
	}

	n := len(config.Series)
	if spec.Type == ChartPie && n > 0 {
		n = len(config.Series[0].Data)
	}
	config.Colors = assignColors(n)
	config.ShowLegend = spec.Type == ChartPie || spec.Type == ChartStackedBar
	return config
}

// BuildHistogramChart produces a numeric histogram from bins.
// Each bin is labelled by its range.
func BuildHistogramChart(spec ChartSpec, bins []Bin) *ChartConfig {
	spec.Type = ChartHistogram
	config := spec.base()
	config.ShowLegend = false
	if len(bins) == 0 {
		return config
	}

	points := make([]ChartPoint, 0, len(bins))
	for _, b := range bins {
		points = append(points, ChartPoint{
			Label: fmt.Sprintf("%s - %s", FormatNumber(b.Lower), FormatNumber(b.Upper)),
			Value: float64(b.Count),
		})
	}
	config.Series = []ChartSeries{{Name: spec.YAxis, Data: points, Color: defaultColors[0]}}
	config.Colors = assignColors(1)
	return config
}

// BuildBoxChart produces a box plot config.
func BuildBoxChart(spec ChartSpec, boxes []BoxStats) *ChartConfig {
	spec.Type = ChartBox
	config := spec.base()
	config.ShowLegend = false
	config.Boxes = boxes
	config.Colors = assignColors(len(boxes))
	return config
}

// BuildScatterChart produces a scatter config, one colour per series.
func BuildScatterChart(spec ChartSpec, series []ScatterSeries) *ChartConfig {
	spec.Type = ChartScatter
	config := spec.base()
	config.Scatter = series
	config.Colors = assignColors(len(series))
	return config
}

// BuildHeatmapChart produces a heatmap config with numeric cell labels.
func BuildHeatmapChart(spec ChartSpec, m *Matrix) *ChartConfig {
	spec.Type = ChartHeatmap
	config := spec.base()
	config.ShowLegend = false
	config.Heatmap = m
	return config
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

// buildSingleSeries keeps group order; NaN values (mean of nothing) are skipped.
func buildSingleSeries(groups []Group, seriesName string) []ChartSeries {
	if seriesName == "" {
		seriesName = "Valor"
	}

	points := make([]ChartPoint, 0, len(groups))
	for _, g := range groups {
		if math.IsNaN(g.Value) {
			continue
		}
		points = append(points, ChartPoint{
			Label: g.Label,
			Value: RoundTo2(g.Value),
		})
	}

	return []ChartSeries{{
		Name: seriesName,
		Data: points,
	}}
}

// buildMultiSeries creates one series per sub key, in first-appearance order.
func buildMultiSeries(groups []Group) []ChartSeries {
	var subKeys []string
	seen := make(map[string]bool)
	for _, g := range groups {
		for _, sg := range g.SubGroups {
			if !seen[sg.Key] {
				seen[sg.Key] = true
				subKeys = append(subKeys, sg.Key)
			}
		}
	}

	seriesMap := make(map[string][]ChartPoint)
	for _, key := range subKeys {
		seriesMap[key] = make([]ChartPoint, 0, len(groups))
	}

	for _, g := range groups {
		sgLookup := make(map[string]float64)
		for _, sg := range g.SubGroups {
			sgLookup[sg.Key] = sg.Value
		}

		for _, key := range subKeys {
			seriesMap[key] = append(seriesMap[key], ChartPoint{
				Label: g.Label,
				Value: RoundTo2(sgLookup[key]),
			})
		}
	}

	series := make([]ChartSeries, 0, len(subKeys))
	for i, key := range subKeys {
		series = append(series, ChartSeries{
			Name:  key,
			Data:  seriesMap[key],
			Color: defaultColors[i%len(defaultColors)],
		})
	}

	return series
}

func hasSubGroups(groups []Group) bool {
	for _, g := range groups {
		if len(g.SubGroups) > 0 {
			return true
		}
	}
	return false
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
