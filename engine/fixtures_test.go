package engine

import (
	"math"
	"testing"
)

// ============================================================================
// FIXTURES
// ============================================================================

func credit(purpose, status, late, tenure string, amount, duration, dependents float64) Record {
	return Record{
		Dimensions: map[string]string{
			"objetivo_credito":   purpose,
			"estado_credito_N":   status,
			"falta_pago":         late,
			"antiguedad_cliente": tenure,
		},
		Measures: map[string]float64{
			"importe_solicitado": amount,
			"duracion_credito":   duration,
			"personas_a_cargo":   dependents,
		},
	}
}

// threeCredits is the smallest table that exercises every chart.
func threeCredits() RecordView {
	return NewSliceView([]Record{
		credit("car", "0", "N", "menor_2y", 1000, 2, 1),
		credit("home", "1", "Y", "2y_a_4y", 2000, 3, 0),
		credit("car", "0", "N", "mayor_4y", 3000, 4, 2),
	})
}

var tenureOrder = Order{"menor_2y", "2y_a_4y", "mayor_4y"}

func assertContains(t *testing.T, slice []string, item string, msg string) {
	t.Helper()
	for _, s := range slice {
		if s == item {
			return
		}
	}
	t.Errorf("%s: %q not found in %v", msg, item, slice)
}

func assertFloat(t *testing.T, got, want float64, msg string) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s: got %v, want %v", msg, got, want)
	}
}

func amounts(view RecordView) []float64 {
	out := make([]float64, view.Len())
	for i := range out {
		out[i] = view.Measure(i, "importe_solicitado")
	}
	return out
}
