package schema

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/spektr-org/crediview/engine"
)

// ============================================================================
// DISCOVERY TESTS
// ============================================================================

// Sample of the credit dataset, semicolon separated as exported
var creditRows = `id;objetivo_credito;importe_solicitado;estado_credito_N;falta_pago;antiguedad_cliente;duracion_credito;personas_a_cargo
1;EDUCACION;1000;0;N;menor_2y;2;1
2;SALUD;2500.5;1;Y;2y_a_4y;3;0
3;EDUCACION;3000;0;N;mayor_4y;4;2
4;VENTURE;1200;0;N;menor_2y;2;
5;PERSONAL;800;1;Y;mayor_4y;3;1
6;EDUCACION;4100;0;N;2y_a_4y;4;0
7;SALUD;950.25;0;N;menor_2y;2;3
8;VENTURE;2200;1;N;mayor_4y;3;1
9;PERSONAL;1750;0;Y;menor_2y;2;0
10;EDUCACION;3300;0;N;2y_a_4y;4;2
11;SALUD;600;1;N;mayor_4y;2;1
12;VENTURE;5000;0;N;menor_2y;4;0`

// viewFromText mirrors the loader: every column is a string dimension and,
// when it parses, a measure.
func viewFromText(text string) engine.RecordView {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	header := strings.Split(lines[0], ";")
	records := make([]engine.Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		cells := strings.Split(line, ";")
		r := engine.Record{Dimensions: map[string]string{}, Measures: map[string]float64{}}
		for i, h := range header {
			r.Dimensions[h] = cells[i]
			if f, err := strconv.ParseFloat(cells[i], 64); err == nil {
				r.Measures[h] = f
			}
		}
		records = append(records, r)
	}
	return engine.NewSliceView(records)
}

func TestDescribeCredit(t *testing.T) {
	config := Describe(viewFromText(creditRows), DiscoverOptions{Source: "datos_finales.csv"})

	pretty, _ := json.MarshalIndent(config, "", "  ")
	t.Logf("=== CREDIT SCHEMA ===\n%s", pretty)

	dimKeys := config.DimensionKeys()
	assertContains(t, dimKeys, ColPurpose, "objetivo_credito should be a dimension")
	assertContains(t, dimKeys, ColStatus, "estado_credito_N (0/1) should be a dimension")
	assertContains(t, dimKeys, ColDelinquency, "falta_pago should be a dimension")
	assertContains(t, dimKeys, ColTenure, "antiguedad_cliente should be a dimension")

	measKeys := config.MeasureKeys()
	assertContains(t, measKeys, ColAmount, "importe_solicitado should be a measure")

	if config.RowCount != 12 || config.DiscoveredFrom != "datos_finales.csv" {
		t.Errorf("metadata: rows=%d source=%q", config.RowCount, config.DiscoveredFrom)
	}
}

func TestDescribeKeepsCatalogueMetadata(t *testing.T) {
	config := Describe(viewFromText(creditRows))

	tenure, ok := config.Dimension(ColTenure)
	if !ok {
		t.Fatal("tenure dimension missing")
	}
	if !tenure.IsOrdered() || tenure.Order[0] != TenureUnder2 || tenure.Order[2] != TenureOver4 {
		t.Errorf("tenure order not applied: %v", tenure.Order)
	}
	if got := config.DisplayName(ColPurpose); got != "Objetivo del crédito" {
		t.Errorf("display name: %q", got)
	}
	if got := config.DisplayName(ColAmount); got != "Importe solicitado" {
		t.Errorf("measure display name: %q", got)
	}
}

func TestDescribeMissingValues(t *testing.T) {
	config := Describe(viewFromText(creditRows))
	for _, m := range config.Measures {
		if m.Key == ColDependents && m.MissingCount != 1 {
			t.Errorf("dependents missing count: got %d, want 1", m.MissingCount)
		}
	}
}

func TestDescribeEmptyColumn(t *testing.T) {
	view := engine.NewSliceView([]engine.Record{
		{Dimensions: map[string]string{"vacia": "", "x": "a"}},
		{Dimensions: map[string]string{"vacia": "NA", "x": "b"}},
	})
	config := Describe(view, DiscoverOptions{Name: "Prueba"})

	if config.Name != "Prueba" {
		t.Errorf("name: %q", config.Name)
	}
	if len(config.SkippedColumns) != 1 || config.SkippedColumns[0].Column != "vacia" {
		t.Errorf("skipped: %+v", config.SkippedColumns)
	}
	if !strings.Contains(config.Summary(), "1 skipped") {
		t.Errorf("summary: %q", config.Summary())
	}
}

// ============================================================================
// TYPE DETECTION TESTS
// ============================================================================

func TestDetectType(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   columnType
	}{
		{"integers", []string{"1", "2", "3"}, typeNumeric},
		{"decimals", []string{"1.5", "2", "3.25"}, typeNumeric},
		{"bool", []string{"true", "false", "yes"}, typeBool},
		{"mostly numeric", []string{"1", "2", "3", "4", "x"}, typeNumeric},
		{"text", []string{"car", "home", "1"}, typeString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectType(tt.values); got != tt.want {
				t.Errorf("detectType(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestToDisplayName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"importe_solicitado", "Importe Solicitado"},
		{"estado_credito_N", "Estado Credito N"},
		{"Already Spaced", "Already Spaced"},
		{"duracion-credito", "Duracion Credito"},
	}
	for _, tt := range tests {
		if got := toDisplayName(tt.input); got != tt.want {
			t.Errorf("toDisplayName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// ============================================================================
// HELPERS
// ============================================================================

func assertContains(t *testing.T, slice []string, item string, msg string) {
	t.Helper()
	for _, s := range slice {
		if s == item {
			return
		}
	}
	t.Errorf("%s: %q not found in %v", msg, item, slice)
}
