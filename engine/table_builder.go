package engine

import (
	"fmt"
	"math"
)

// ============================================================================
// TABLE BUILDER — Flattens any ChartConfig into TableData
// ============================================================================
// Used by text hosts (CLI summary) to show the numbers behind a chart.
// ============================================================================

// BuildTable flattens a chart into rows. Empty charts give empty tables.
func BuildTable(config *ChartConfig) *TableData {
	if config == nil {
		return &TableData{Columns: []Column{}, Rows: [][]string{}}
	}

	switch config.ChartType {
	case ChartBox:
		return buildBoxTable(config)
	case ChartScatter:
		return buildScatterTable(config)
	case ChartHeatmap:
		return buildMatrixTable(config)
	default:
		return buildSeriesTable(config)
	}
}

func buildSeriesTable(config *ChartConfig) *TableData {
	groupLabel := config.XAxis
	if groupLabel == "" {
		groupLabel = "Categoría"
	}

	columns := []Column{{Key: "group", Label: groupLabel, Type: "text", Align: "left"}}
	for i, s := range config.Series {
		name := s.Name
		if name == "" {
			name = config.YAxis
		}
		columns = append(columns, Column{Key: fmt.Sprintf("s%d", i), Label: name, Type: "number", Align: "right"})
	}

	// Row labels from the union of series labels, first-appearance order
	var labels []string
	seen := make(map[string]bool)
	for _, s := range config.Series {
		for _, p := range s.Data {
			if !seen[p.Label] {
				seen[p.Label] = true
				labels = append(labels, p.Label)
			}
		}
	}

	rows := make([][]string, 0, len(labels))
	totals := make([]float64, len(config.Series))
	for _, label := range labels {
		row := []string{label}
		for i, s := range config.Series {
			cell := ""
			for _, p := range s.Data {
				if p.Label == label {
					cell = FormatNumber(p.Value)
					totals[i] += p.Value
					break
				}
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}

	table := &TableData{Title: config.Title, Columns: columns, Rows: rows}
	if len(rows) > 0 && config.ChartType != ChartLine {
		values := make(map[string]string, len(totals))
		for i, t := range totals {
			values[fmt.Sprintf("s%d", i)] = FormatNumber(t)
		}
		table.Summary = &Summary{Label: "Total", Values: values}
	}
	return table
}

func buildBoxTable(config *ChartConfig) *TableData {
	columns := []Column{
		{Key: "group", Label: config.XAxis, Type: "text", Align: "left"},
		{Key: "count", Label: "N", Type: "number", Align: "center"},
		{Key: "min", Label: "Mín", Type: "number", Align: "right"},
		{Key: "q1", Label: "Q1", Type: "number", Align: "right"},
		{Key: "median", Label: "Mediana", Type: "number", Align: "right"},
		{Key: "q3", Label: "Q3", Type: "number", Align: "right"},
		{Key: "max", Label: "Máx", Type: "number", Align: "right"},
		{Key: "outliers", Label: "Atípicos", Type: "number", Align: "center"},
	}

	rows := make([][]string, 0, len(config.Boxes))
	for _, b := range config.Boxes {
		rows = append(rows, []string{
			b.Label,
			FormatInt(b.Count),
			FormatNumber(b.Min),
			FormatNumber(b.Q1),
			FormatNumber(b.Median),
			FormatNumber(b.Q3),
			FormatNumber(b.Max),
			FormatInt(len(b.Outliers)),
		})
	}
	return &TableData{Title: config.Title, Columns: columns, Rows: rows}
}

// buildScatterTable summarizes each series instead of listing every point.
func buildScatterTable(config *ChartConfig) *TableData {
	columns := []Column{
		{Key: "group", Label: "Serie", Type: "text", Align: "left"},
		{Key: "points", Label: "Puntos", Type: "number", Align: "center"},
		{Key: "x", Label: config.XAxis + " (media)", Type: "number", Align: "right"},
		{Key: "y", Label: config.YAxis + " (media)", Type: "number", Align: "right"},
	}

	rows := make([][]string, 0, len(config.Scatter))
	total := 0
	for _, s := range config.Scatter {
		var sx, sy float64
		for _, p := range s.Points {
			sx += p.X
			sy += p.Y
		}
		n := float64(len(s.Points))
		rows = append(rows, []string{s.Name, FormatInt(len(s.Points)), FormatNumber(sx / n), FormatNumber(sy / n)})
		total += len(s.Points)
	}

	return &TableData{
		Title:   config.Title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{Label: "Total", Values: map[string]string{"points": FormatInt(total)}},
	}
}

func buildMatrixTable(config *ChartConfig) *TableData {
	m := config.Heatmap
	if m == nil {
		return &TableData{Title: config.Title, Columns: []Column{}, Rows: [][]string{}}
	}

	columns := []Column{{Key: "column", Label: "", Type: "text", Align: "left"}}
	for _, c := range m.Columns {
		columns = append(columns, Column{Key: c, Label: c, Type: "number", Align: "right"})
	}

	rows := make([][]string, 0, len(m.Columns))
	for i, c := range m.Columns {
		row := []string{c}
		for _, v := range m.Values[i] {
			if math.IsNaN(v) {
				row = append(row, "NaN")
			} else {
				row = append(row, fmt.Sprintf("%.3f", v))
			}
		}
		rows = append(rows, row)
	}
	return &TableData{Title: config.Title, Columns: columns, Rows: rows}
}
