package engine

import (
	"fmt"
	"math"
)

// ============================================================================
// TEXT BUILDER — One-line summary of a view
// ============================================================================

// BuildText summarizes a measure over a view. Missing values are skipped;
// with no value at all Mean/Min/Max are 0 and Valid is 0.
func BuildText(view RecordView, measure string) *TextData {
	td := &TextData{
		Measure: measure,
		Count:   view.Len(),
	}

	values := MeasureValues(view, measure)
	td.Valid = len(values)
	if td.Valid == 0 {
		td.Value = fmt.Sprintf("%s registros, sin valores de %s", FormatInt(td.Count), measure)
		return td
	}

	td.Mean = AvgMeasure(view, measure)
	td.Min = MinMeasure(view, measure)
	td.Max = MaxMeasure(view, measure)
	if math.IsNaN(td.Mean) {
		td.Mean = 0
	}

	td.Value = fmt.Sprintf("%s registros · %s medio %s (mín %s, máx %s)",
		FormatInt(td.Count), measure, FormatNumber(td.Mean), FormatNumber(td.Min), FormatNumber(td.Max))
	return td
}
