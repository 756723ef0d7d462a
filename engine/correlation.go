package engine

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ============================================================================
// CORRELATION — Pearson matrix over a fixed numeric column subset
// ============================================================================
// Pairwise-complete observations: each pair uses the rows where both values
// are present. Degenerate columns give NaN cells plus InsufficientDataError;
// the matrix is still returned so the caller can render it.
// ============================================================================

// Matrix is a square, symmetric correlation matrix.
// Values[i][j] is the correlation of Columns[i] and Columns[j]; NaN when undefined.
type Matrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// At returns the cell for two column names, or NaN if either is unknown.
func (m *Matrix) At(a, b string) float64 {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return math.NaN()
	}
	return m.Values[i][j]
}

func (m *Matrix) index(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// MarshalJSON encodes NaN cells as null; encoding/json rejects NaN.
func (m Matrix) MarshalJSON() ([]byte, error) {
	values := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]*float64, len(row))
		for j := range row {
			if !math.IsNaN(row[j]) {
				v := RoundTo(row[j], 4)
				values[i][j] = &v
			}
		}
	}
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{m.Columns, values})
}

// RoundTo rounds v to the given number of decimals.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// CorrelationMatrix computes Pearson correlations between the given columns.
// Diagonal cells are 1.0 for columns with at least 2 values and nonzero
// variance. Degenerate columns produce NaN cells and *InsufficientDataError.
func CorrelationMatrix(view RecordView, columns []string) (*Matrix, error) {
	n := len(columns)
	m := &Matrix{
		Columns: append([]string(nil), columns...),
		Values:  make([][]float64, n),
	}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
	}

	// Raw column values with NaN kept so rows stay aligned
	raw := make([][]float64, n)
	for c, col := range columns {
		raw[c] = make([]float64, view.Len())
		for i := 0; i < view.Len(); i++ {
			raw[c][i] = view.Measure(i, col)
		}
	}

	var degenerate []string
	usable := make([]bool, n)
	for c, col := range columns {
		valid := dropNaN(raw[c])
		usable[c] = len(valid) >= 2 && stat.Variance(valid, nil) > 0
		if !usable[c] {
			degenerate = append(degenerate, col)
		}
	}

	for i := 0; i < n; i++ {
		if usable[i] {
			m.Values[i][i] = 1
		} else {
			m.Values[i][i] = math.NaN()
		}
		for j := i + 1; j < n; j++ {
			r := math.NaN()
			if usable[i] && usable[j] {
				r = pairwisePearson(raw[i], raw[j])
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}

	if len(degenerate) > 0 {
		return m, &InsufficientDataError{
			Columns: degenerate,
			Reason:  "fewer than 2 values or zero variance",
		}
	}
	return m, nil
}

// pairwisePearson correlates the rows where both x and y are present.
func pairwisePearson(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 || stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return math.NaN()
	}

	r := stat.Correlation(xs, ys, nil)
	return math.Max(-1, math.Min(1, r))
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
