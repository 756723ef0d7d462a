package engine

import (
	"testing"
)

// ============================================================================
// DISTRIBUTION TESTS
// ============================================================================

func TestHistogram(t *testing.T) {
	bins := Histogram(threeCredits(), "importe_solicitado", 4)
	if len(bins) != 4 {
		t.Fatalf("got %d bins, want 4", len(bins))
	}

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != 3 {
		t.Errorf("counts sum to %d, want 3", total)
	}
	assertFloat(t, bins[0].Lower, 1000, "first edge")
	assertFloat(t, bins[3].Upper, 3000, "last edge")
	if bins[3].Count != 1 {
		t.Errorf("max not counted in the last bin: %+v", bins[3])
	}
	// 2000 sits on the edge between bins 1 and 2
	if bins[2].Count != 1 {
		t.Errorf("edge value: %+v", bins)
	}
}

func TestHistogramEdgeCases(t *testing.T) {
	if bins := Histogram(NewSliceView(nil), "importe_solicitado", 10); bins != nil {
		t.Errorf("empty view: got %v, want nil", bins)
	}
	if bins := Histogram(threeCredits(), "no_existe", 10); bins != nil {
		t.Errorf("missing column: got %v, want nil", bins)
	}

	constant := NewSliceView([]Record{
		credit("car", "0", "N", "menor_2y", 500, 2, 0),
		credit("car", "0", "N", "menor_2y", 500, 2, 0),
	})
	bins := Histogram(constant, "importe_solicitado", 10)
	if len(bins) != 1 || bins[0].Count != 2 {
		t.Errorf("constant column: got %+v", bins)
	}
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2.5},
		{0.75, 3.25},
		{1, 4},
	}
	for _, tt := range tests {
		assertFloat(t, Quantile(sorted, tt.p), tt.want, "quantile")
	}
}

func TestComputeBox(t *testing.T) {
	box := ComputeBox([]float64{1, 2, 3, 4, 100})

	assertFloat(t, box.Q1, 2, "q1")
	assertFloat(t, box.Median, 3, "median")
	assertFloat(t, box.Q3, 4, "q3")
	assertFloat(t, box.UpperFence, 4, "upper fence")
	assertFloat(t, box.LowerFence, 1, "lower fence")
	if len(box.Outliers) != 1 || box.Outliers[0] != 100 {
		t.Errorf("outliers: got %v, want [100]", box.Outliers)
	}
	if box.Count != 5 || box.Min != 1 || box.Max != 100 {
		t.Errorf("unexpected box: %+v", box)
	}
}

func TestBoxStatsByCategory(t *testing.T) {
	boxes := BoxStatsByCategory(threeCredits(), "objetivo_credito", "importe_solicitado")
	if len(boxes) != 2 {
		t.Fatalf("got %d boxes, want 2", len(boxes))
	}
	if boxes[0].Label != "car" || boxes[0].Count != 2 {
		t.Errorf("car box: %+v", boxes[0])
	}
	assertFloat(t, boxes[0].Median, 2000, "car median")

	if got := BoxStatsByCategory(NewSliceView(nil), "objetivo_credito", "importe_solicitado"); len(got) != 0 {
		t.Errorf("empty view: got %d boxes", len(got))
	}
}

func TestScatterByCategory(t *testing.T) {
	view := NewSliceView([]Record{
		credit("car", "0", "N", "menor_2y", 1000, 2, 0),
		credit("home", "0", "N", "menor_2y", 2000, 3, 0),
		{Dimensions: map[string]string{"objetivo_credito": "boat"}, Measures: map[string]float64{"duracion_credito": 5}},
	})

	series := ScatterByCategory(view, "duracion_credito", "importe_solicitado", "objetivo_credito")
	if len(series) != 2 {
		t.Fatalf("got %d series, want 2 (row without amount skipped)", len(series))
	}
	if series[0].Name != "car" || series[0].Points[0] != (XY{X: 2, Y: 1000}) {
		t.Errorf("car series: %+v", series[0])
	}
	if series[0].Color == series[1].Color {
		t.Errorf("categories share a colour: %s", series[0].Color)
	}
}
