package engine

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

// ============================================================================
// CORRELATION TESTS
// ============================================================================

var numericColumns = []string{"importe_solicitado", "duracion_credito", "personas_a_cargo"}

func TestCorrelationMatrix(t *testing.T) {
	m, err := CorrelationMatrix(threeCredits(), numericColumns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range numericColumns {
		assertFloat(t, m.Values[i][i], 1, "diagonal")
		for j := range numericColumns {
			if m.Values[i][j] != m.Values[j][i] {
				t.Errorf("not symmetric at %d,%d", i, j)
			}
			if v := m.Values[i][j]; v < -1 || v > 1 {
				t.Errorf("out of range at %d,%d: %v", i, j, v)
			}
		}
	}
	assertFloat(t, m.At("importe_solicitado", "duracion_credito"), 1, "amount vs duration")
	assertFloat(t, m.At("importe_solicitado", "personas_a_cargo"), 0.5, "amount vs dependents")
}

func TestCorrelationMatrixInsufficientData(t *testing.T) {
	view := NewSliceView([]Record{
		credit("car", "0", "N", "menor_2y", 1000, 2, 1),
		credit("car", "0", "N", "menor_2y", 2000, 3, 1),
	})

	m, err := CorrelationMatrix(view, numericColumns)
	var ide *InsufficientDataError
	if !errors.As(err, &ide) {
		t.Fatalf("want *InsufficientDataError, got %v", err)
	}
	assertContains(t, ide.Columns, "personas_a_cargo", "constant column reported")
	if m == nil {
		t.Fatal("matrix must still be returned")
	}

	if !math.IsNaN(m.At("personas_a_cargo", "personas_a_cargo")) {
		t.Error("constant column diagonal should be NaN")
	}
	if !math.IsNaN(m.At("importe_solicitado", "personas_a_cargo")) {
		t.Error("cell with a constant column should be NaN")
	}
	assertFloat(t, m.At("importe_solicitado", "duracion_credito"), 1, "usable pair")
}

func TestCorrelationMatrixSingleRow(t *testing.T) {
	view := NewSliceView([]Record{credit("car", "0", "N", "menor_2y", 1000, 2, 1)})

	m, err := CorrelationMatrix(view, numericColumns)
	if err == nil {
		t.Fatal("single row: want an error")
	}
	for i := range m.Values {
		for j := range m.Values[i] {
			if !math.IsNaN(m.Values[i][j]) {
				t.Errorf("cell %d,%d: got %v, want NaN", i, j, m.Values[i][j])
			}
		}
	}
}

func TestCorrelationPairwiseComplete(t *testing.T) {
	view := NewSliceView([]Record{
		{Measures: map[string]float64{"a": 1, "b": 2}},
		{Measures: map[string]float64{"a": 2, "b": 4}},
		{Measures: map[string]float64{"a": 3, "b": 6}},
		{Measures: map[string]float64{"a": 4}},
	})

	m, err := CorrelationMatrix(view, []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertFloat(t, m.At("a", "b"), 1, "rows with both values")
}

func TestMatrixMarshalJSON(t *testing.T) {
	m := &Matrix{
		Columns: []string{"a", "b"},
		Values:  [][]float64{{1, math.NaN()}, {math.NaN(), 0.123456}},
	}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, "null") || !strings.Contains(got, "0.1235") {
		t.Errorf("unexpected JSON: %s", got)
	}
}

func TestMatrixAtUnknown(t *testing.T) {
	m := &Matrix{Columns: []string{"a"}, Values: [][]float64{{1}}}
	if !math.IsNaN(m.At("a", "zzz")) {
		t.Error("unknown column should read as NaN")
	}
}
