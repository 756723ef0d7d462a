package engine

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ============================================================================
// DISTRIBUTIONS — Histogram bins, box statistics, scatter series
// ============================================================================

// Histogram splits the non-missing values of column into equal-width bins
// between min and max. The last bin is closed so the max is counted.
// No values → nil. A constant column yields a single bin.
func Histogram(view RecordView, column string, bins int) []Bin {
	values := MeasureValues(view, column)
	if len(values) == 0 || bins <= 0 {
		return nil
	}

	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		return []Bin{{Lower: lo, Upper: hi, Count: len(values)}}
	}

	edges := floats.Span(make([]float64, bins+1), lo, hi)
	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lower: edges[i], Upper: edges[i+1]}
	}

	width := (hi - lo) / float64(bins)
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		out[idx].Count++
	}
	return out
}

// BoxStatsByCategory computes box-plot statistics of valueColumn for each
// groupColumn category, in first-appearance order. Categories without a
// single numeric value are left out.
func BoxStatsByCategory(view RecordView, groupColumn, valueColumn string) []BoxStats {
	var out []BoxStats
	for _, g := range groupBySingle(view, groupColumn) {
		values := MeasureValues(g.View, valueColumn)
		if len(values) == 0 {
			continue
		}
		box := ComputeBox(values)
		box.Label = g.Label
		out = append(out, box)
	}
	return out
}

// ComputeBox summarizes values with linearly interpolated quartiles and
// 1.5*IQR whiskers. values must not contain NaN; it is not modified.
func ComputeBox(values []float64) BoxStats {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	box := BoxStats{
		Count:  len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q1:     Quantile(sorted, 0.25),
		Median: Quantile(sorted, 0.5),
		Q3:     Quantile(sorted, 0.75),
	}

	iqr := box.Q3 - box.Q1
	lowLimit := box.Q1 - 1.5*iqr
	highLimit := box.Q3 + 1.5*iqr
	box.LowerFence = box.Max
	box.UpperFence = box.Min
	for _, v := range sorted {
		if v < lowLimit || v > highLimit {
			box.Outliers = append(box.Outliers, v)
			continue
		}
		if v < box.LowerFence {
			box.LowerFence = v
		}
		if v > box.UpperFence {
			box.UpperFence = v
		}
	}
	return box
}

// Quantile returns the p-quantile of sorted data using linear interpolation
// between closest ranks, h = (n-1)p. Empty input → NaN.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo+1 >= n {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// ScatterByCategory returns one series of (xColumn, yColumn) points per
// colorColumn category, in first-appearance order. Rows missing x or y are
// skipped; categories left without points are omitted.
func ScatterByCategory(view RecordView, xColumn, yColumn, colorColumn string) []ScatterSeries {
	var out []ScatterSeries
	for _, g := range groupBySingle(view, colorColumn) {
		points := make([]XY, 0, g.View.Len())
		for i := 0; i < g.View.Len(); i++ {
			x, y := g.View.Measure(i, xColumn), g.View.Measure(i, yColumn)
			if math.IsNaN(x) || math.IsNaN(y) {
				continue
			}
			points = append(points, XY{X: x, Y: y})
		}
		if len(points) == 0 {
			continue
		}
		out = append(out, ScatterSeries{
			Name:   g.Label,
			Points: points,
			Color:  defaultColors[len(out)%len(defaultColors)],
		})
	}
	return out
}
