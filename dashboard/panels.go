package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spektr-org/crediview/engine"
	"github.com/spektr-org/crediview/schema"
)

// Panel ids, in page order.
const (
	PanelPurposeCounts    = "creditos_por_objetivo"
	PanelAmountHistogram  = "importes_solicitados"
	PanelStatusByPurpose  = "estado_por_objetivo"
	PanelDelinquency      = "falta_pago"
	PanelAmountByTenure   = "importe_por_antiguedad"
	PanelAmountBox        = "importe_por_objetivo"
	PanelAmountVsDuration = "importe_vs_duracion"
	PanelCorrelation      = "correlacion"
)

// Section headings of the page.
const (
	SectionCredits     = "1. Caracterización de los créditos otorgados"
	SectionStatus      = "2. Distribución por estado de crédito y mora, según objetivo"
	SectionTenure      = "3. Importe promedio según antigüedad del cliente"
	SectionAmounts     = "4. Análisis de importes y duración del crédito"
	SectionCorrelation = "5. Mapa de calor de correlación entre variables numéricas"
)

// PanelIDs returns every panel id in page order.
func PanelIDs() []string {
	return []string{
		PanelPurposeCounts, PanelAmountHistogram, PanelStatusByPurpose, PanelDelinquency,
		PanelAmountByTenure, PanelAmountBox, PanelAmountVsDuration, PanelCorrelation,
	}
}

// panelSelectionKeys lists which selection keys feed each panel.
var panelSelectionKeys = map[string][]string{
	PanelStatusByPurpose:  {SelPurpose},
	PanelDelinquency:      {SelPurpose},
	PanelAmountBox:        {SelDoublePurpose, SelStatus},
	PanelAmountVsDuration: {SelDoublePurpose, SelStatus},
}

// ============================================================================
// SECTION 1 — Whole-table distributions
// ============================================================================

func (d *Dashboard) purposeCounts() Panel {
	spec := engine.ChartSpec{
		Type:  engine.ChartCategoryHistogram,
		Title: "Conteo de créditos por objetivo",
		XAxis: "Objetivo del crédito",
		YAxis: "Cantidad",
	}
	p := Panel{ID: PanelPurposeCounts, Section: SectionCredits, Rows: d.base.Len()}
	if d.requireColumns(&p, spec, schema.ColPurpose) {
		p.Chart = engine.BuildChart(spec, engine.CountGroups(d.base, schema.ColPurpose))
	}
	return p
}

func (d *Dashboard) amountHistogram() Panel {
	spec := engine.ChartSpec{
		Type:  engine.ChartHistogram,
		Title: "Importes solicitados en créditos",
		XAxis: "Importe solicitado",
		YAxis: "Cantidad",
	}
	p := Panel{ID: PanelAmountHistogram, Section: SectionCredits, Rows: d.base.Len()}
	if d.requireColumns(&p, spec, schema.ColAmount) {
		p.Chart = engine.BuildHistogramChart(spec, engine.Histogram(d.base, schema.ColAmount, d.cfg.Bins))
	}
	return p
}

// ============================================================================
// SECTION 2 — Purpose-filtered table
// ============================================================================

func (d *Dashboard) statusByPurpose(view engine.RecordView) Panel {
	spec := engine.ChartSpec{
		Type:  engine.ChartStackedBar,
		Title: "Distribución de créditos por estado y objetivo",
		XAxis: "Objetivo del crédito",
		YAxis: "Cantidad",
	}
	p := Panel{ID: PanelStatusByPurpose, Section: SectionStatus, Rows: view.Len()}
	if d.requireColumns(&p, spec, schema.ColPurpose, schema.ColStatus) {
		groups := engine.GroupAndAggregate(view,
			[]string{schema.ColPurpose, schema.ColStatus}, "", engine.AggCount, "", 0)
		p.Chart = engine.BuildChart(spec, groups)
	}
	return p
}

func (d *Dashboard) delinquencyPie(view engine.RecordView) Panel {
	spec := engine.ChartSpec{
		Type:  engine.ChartPie,
		Title: "Distribución de créditos en función de registro de mora",
	}
	p := Panel{ID: PanelDelinquency, Section: SectionStatus, Rows: view.Len()}
	if d.requireColumns(&p, spec, schema.ColDelinquency) {
		// value_counts order: most frequent first
		groups := engine.GroupAndAggregate(view, []string{schema.ColDelinquency}, "", engine.AggCount, "value_desc", 0)
		p.Chart = engine.BuildChart(spec, groups)
	}
	return p
}

// ============================================================================
// SECTION 3 — Ordered tenure line
// ============================================================================

func (d *Dashboard) amountByTenure() Panel {
	spec := engine.ChartSpec{
		Type:  engine.ChartLine,
		Title: "Evolución de los importes solicitados por antigüedad del cliente",
		XAxis: "Antigüedad del cliente",
		YAxis: "Importe solicitado promedio",
	}
	p := Panel{ID: PanelAmountByTenure, Section: SectionTenure, Rows: d.base.Len()}
	if !d.requireColumns(&p, spec, schema.ColTenure, schema.ColAmount) {
		return p
	}

	groups := engine.GroupMeanOrdered(d.base, schema.ColTenure, schema.ColAmount, d.cfg.TenureOrder)
	p.Chart = engine.BuildChart(spec, groups)
	if unranked := engine.UnrankedCategories(d.base, schema.ColTenure, d.cfg.TenureOrder); len(unranked) > 0 {
		p.Notes = append(p.Notes, fmt.Sprintf("categorías de antigüedad fuera del orden omitidas: %s", strings.Join(unranked, ", ")))
	}
	if blank := engine.CountByCategory(d.base, schema.ColTenure)[""]; blank > 0 {
		p.Notes = append(p.Notes, fmt.Sprintf("registros sin antigüedad omitidos: %d", blank))
	}
	return p
}

// ============================================================================
// SECTION 4 — Double-filtered table
// ============================================================================

func (d *Dashboard) amountBox(view engine.RecordView, status string) Panel {
	spec := engine.ChartSpec{
		Type:  engine.ChartBox,
		Title: fmt.Sprintf("Distribución de Importe por Objetivo (%s)", status),
		XAxis: "Objetivo del Crédito",
		YAxis: "Importe Solicitado",
	}
	p := Panel{ID: PanelAmountBox, Section: SectionAmounts, Rows: view.Len()}
	if d.requireColumns(&p, spec, schema.ColPurpose, schema.ColAmount) {
		p.Chart = engine.BuildBoxChart(spec, engine.BoxStatsByCategory(view, schema.ColPurpose, schema.ColAmount))
	}
	return p
}

func (d *Dashboard) amountVsDuration(view engine.RecordView, status string) Panel {
	spec := engine.ChartSpec{
		Type:  engine.ChartScatter,
		Title: fmt.Sprintf("Importe vs. Duración por Objetivo (%s)", status),
		XAxis: "Duración del Crédito",
		YAxis: "Importe Solicitado",
	}
	p := Panel{ID: PanelAmountVsDuration, Section: SectionAmounts, Rows: view.Len()}
	if d.requireColumns(&p, spec, schema.ColDuration, schema.ColAmount, schema.ColPurpose) {
		series := engine.ScatterByCategory(view, schema.ColDuration, schema.ColAmount, schema.ColPurpose)
		p.Chart = engine.BuildScatterChart(spec, series)
	}
	return p
}

// ============================================================================
// SECTION 5 — Correlation heatmap
// ============================================================================

func (d *Dashboard) correlation() Panel {
	spec := engine.ChartSpec{
		Type:  engine.ChartHeatmap,
		Title: "Mapa de Calor de Correlación entre Variables Seleccionadas",
	}
	p := Panel{ID: PanelCorrelation, Section: SectionCorrelation, Rows: d.base.Len()}
	if !d.requireColumns(&p, spec, d.cfg.CorrelationColumns...) {
		return p
	}

	m, err := engine.CorrelationMatrix(d.base, d.cfg.CorrelationColumns)
	var insufficient *engine.InsufficientDataError
	if errors.As(err, &insufficient) {
		d.cfg.Logger.Warn("correlation has undefined cells", zap.Strings("columns", insufficient.Columns))
		p.Notes = append(p.Notes, err.Error())
	}
	p.Chart = engine.BuildHeatmapChart(spec, m)
	return p
}

// ============================================================================
// HELPERS
// ============================================================================

// requireColumns checks that every column exists. Otherwise the panel gets
// an empty chart and a note, and false is returned.
func (d *Dashboard) requireColumns(p *Panel, spec engine.ChartSpec, columns ...string) bool {
	var missing []string
	for _, c := range columns {
		if !engine.HasColumn(d.base, c) {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return true
	}

	d.cfg.Logger.Warn("panel skipped, missing columns",
		zap.String("panel", p.ID), zap.Strings("columns", missing))
	p.Notes = append(p.Notes, fmt.Sprintf("columnas ausentes: %s", strings.Join(missing, ", ")))
	p.Chart = emptyChart(spec)
	return false
}

func emptyChart(spec engine.ChartSpec) *engine.ChartConfig {
	switch spec.Type {
	case engine.ChartHistogram:
		return engine.BuildHistogramChart(spec, nil)
	case engine.ChartBox:
		return engine.BuildBoxChart(spec, nil)
	case engine.ChartScatter:
		return engine.BuildScatterChart(spec, nil)
	case engine.ChartHeatmap:
		return engine.BuildHeatmapChart(spec, nil)
	default:
		return engine.BuildChart(spec, nil)
	}
}
