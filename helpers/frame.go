package helpers

import (
	"math"

	"github.com/go-gota/gota/dataframe"
)

// ============================================================================
// FRAME VIEW — engine.RecordView over a loaded gota DataFrame
// ============================================================================
// Every column is exposed both ways: Dimension reads the raw string,
// Measure reads the parsed float (NaN when missing, infinite or not numeric).
// Columns are materialized once at load; the view is read-only afterwards
// and safe to share between goroutines.
// ============================================================================

// FrameView is the loaded table.
type FrameView struct {
	rows     int
	keys     []string
	dims     map[string][]string
	measures map[string][]float64
}

// NewFrameView materializes df into a FrameView.
func NewFrameView(df dataframe.DataFrame) *FrameView {
	v := &FrameView{
		rows:     df.Nrow(),
		keys:     df.Names(),
		dims:     make(map[string][]string, df.Ncol()),
		measures: make(map[string][]float64, df.Ncol()),
	}

	for _, name := range v.keys {
		s := df.Col(name)
		raw := make([]string, s.Len())
		for i := range raw {
			el := s.Elem(i)
			if el.IsNA() {
				continue
			}
			raw[i] = el.String()
		}
		v.dims[name] = raw
		v.measures[name] = finite(s.Float())
	}
	return v
}

func newEmptyFrameView(keys []string) *FrameView {
	v := &FrameView{
		keys:     keys,
		dims:     make(map[string][]string, len(keys)),
		measures: make(map[string][]float64, len(keys)),
	}
	for _, k := range keys {
		v.dims[k] = nil
		v.measures[k] = nil
	}
	return v
}

// finite replaces parsed infinities ("Inf", "1e999") with NaN so they
// count as missing.
func finite(values []float64) []float64 {
	for i, f := range values {
		if math.IsInf(f, 0) {
			values[i] = math.NaN()
		}
	}
	return values
}

func (v *FrameView) Len() int { return v.rows }

func (v *FrameView) Dimension(i int, key string) string {
	col, ok := v.dims[key]
	if !ok || i < 0 || i >= len(col) {
		return ""
	}
	return col[i]
}

func (v *FrameView) Measure(i int, key string) float64 {
	col, ok := v.measures[key]
	if !ok || i < 0 || i >= len(col) {
		return math.NaN()
	}
	return col[i]
}

func (v *FrameView) DimensionKeys() []string { return v.keys }
func (v *FrameView) MeasureKeys() []string   { return v.keys }
