package dashboard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spektr-org/crediview/engine"
	"github.com/spektr-org/crediview/schema"
)

func loan(purpose, status, late, tenure string, amount, duration, dependents float64) engine.Record {
	return engine.Record{
		Dimensions: map[string]string{
			schema.ColPurpose:     purpose,
			schema.ColStatus:      status,
			schema.ColDelinquency: late,
			schema.ColTenure:      tenure,
		},
		Measures: map[string]float64{
			schema.ColAmount:     amount,
			schema.ColDuration:   duration,
			schema.ColDependents: dependents,
		},
	}
}

func fixture() engine.RecordView {
	return engine.NewSliceView([]engine.Record{
		loan("EDUCACION", "0", "N", "mayor_4y", 1000, 2, 1),
		loan("SALUD", "1", "Y", "menor_2y", 2000, 3, 0),
		loan("EDUCACION", "1", "N", "2y_a_4y", 3000, 4, 2),
		loan("EDUCACION", "0", "Y", "menor_2y", 4000, 3, 1),
	})
}

func TestNewOffersFirstAppearanceValues(t *testing.T) {
	d := New(fixture())

	filters := d.Filters()
	assert.Equal(t, []string{"EDUCACION", "SALUD"}, filters[SelPurpose])
	assert.Equal(t, []string{"EDUCACION", "SALUD"}, filters[SelDoublePurpose])
	assert.Equal(t, []string{"0", "1"}, filters[SelStatus])

	// Filters returns copies
	filters[SelPurpose][0] = "x"
	assert.Equal(t, "EDUCACION", d.Filters()[SelPurpose][0])
}

func TestResolveDefaults(t *testing.T) {
	d := New(fixture())

	eff := d.Resolve(nil)
	assert.Equal(t, engine.Selection{
		SelPurpose:       "EDUCACION",
		SelDoublePurpose: "EDUCACION",
		SelStatus:        "0",
	}, eff)

	eff = d.Resolve(engine.Selection{SelStatus: "1", "otra": "x"})
	assert.Equal(t, "1", eff[SelStatus])
	assert.NotContains(t, eff, "otra")
}

func TestBuildPanels(t *testing.T) {
	d := New(fixture())
	res := d.Build(engine.Selection{SelPurpose: "EDUCACION", SelDoublePurpose: "EDUCACION", SelStatus: "0"})

	require.Len(t, res.Panels, len(PanelIDs()))
	for i, id := range PanelIDs() {
		assert.Equal(t, id, res.Panels[i].ID)
		assert.NotNil(t, res.Panels[i].Chart, id)
	}
	assert.Equal(t, 4, res.Rows)

	counts, ok := res.Panel(PanelPurposeCounts)
	require.True(t, ok)
	assert.Equal(t, []engine.ChartPoint{{Label: "EDUCACION", Value: 3}, {Label: "SALUD", Value: 1}},
		counts.Chart.Series[0].Data)

	status, _ := res.Panel(PanelStatusByPurpose)
	assert.Equal(t, 3, status.Rows, "single filter keeps the EDUCACION rows")

	box, _ := res.Panel(PanelAmountBox)
	assert.Equal(t, 2, box.Rows, "double filter keeps EDUCACION with status 0")
	assert.Contains(t, box.Chart.Title, "(0)")

	tenure, _ := res.Panel(PanelAmountByTenure)
	var labels []string
	for _, p := range tenure.Chart.Series[0].Data {
		labels = append(labels, p.Label)
	}
	assert.Equal(t, schema.TenureOrder(), labels)

	corr, _ := res.Panel(PanelCorrelation)
	require.NotNil(t, corr.Chart.Heatmap)
	assert.Equal(t, schema.CorrelationColumns(), corr.Chart.Heatmap.Columns)
	assert.Empty(t, corr.Notes)

	_, err := json.Marshal(res)
	assert.NoError(t, err)
}

func TestBuildUnknownValueGivesEmptyPanels(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := New(fixture(), WithLogger(zap.New(core)))

	res := d.Build(engine.Selection{SelPurpose: "VIVIENDA"})

	for _, id := range []string{PanelStatusByPurpose, PanelDelinquency} {
		p, _ := res.Panel(id)
		assert.Equal(t, 0, p.Rows, id)
		assert.True(t, p.Chart.IsEmpty(), id)
		require.Len(t, p.Notes, 1, id)
		assert.Contains(t, p.Notes[0], "VIVIENDA")
	}

	// Unfiltered panels are unaffected
	counts, _ := res.Panel(PanelPurposeCounts)
	assert.Empty(t, counts.Notes)
	assert.Equal(t, 1, logs.FilterMessage("selected value not offered by the data").Len())
}

func TestBuildEmptyTable(t *testing.T) {
	d := New(engine.NewSliceView(nil))
	res := d.Build(nil)

	require.Len(t, res.Panels, len(PanelIDs()))
	for _, p := range res.Panels {
		assert.True(t, p.Chart.IsEmpty(), p.ID)
	}
	_, err := json.Marshal(res)
	assert.NoError(t, err)
}

func TestBuildCorrelationNote(t *testing.T) {
	view := engine.NewSliceView([]engine.Record{
		loan("EDUCACION", "0", "N", "menor_2y", 1000, 2, 1),
		loan("EDUCACION", "0", "N", "menor_2y", 2000, 3, 1),
	})
	res := New(view).Build(nil)

	corr, _ := res.Panel(PanelCorrelation)
	require.Len(t, corr.Notes, 1)
	assert.Contains(t, corr.Notes[0], schema.ColDependents)
	assert.False(t, corr.Chart.IsEmpty())
}

func TestBuildUnrankedTenureNote(t *testing.T) {
	view := engine.NewSliceView([]engine.Record{
		loan("EDUCACION", "0", "N", "menor_2y", 1000, 2, 1),
		loan("EDUCACION", "0", "N", "10y", 2000, 3, 0),
	})
	res := New(view).Build(nil)

	tenure, _ := res.Panel(PanelAmountByTenure)
	require.Len(t, tenure.Chart.Series[0].Data, 1)
	require.Len(t, tenure.Notes, 1)
	assert.Contains(t, tenure.Notes[0], "10y")
}

func TestBuildBlankTenureNote(t *testing.T) {
	view := engine.NewSliceView([]engine.Record{
		loan("EDUCACION", "0", "N", "menor_2y", 1000, 2, 1),
		loan("EDUCACION", "0", "N", "", 2000, 3, 0),
		loan("SALUD", "1", "Y", "", 3000, 4, 0),
	})
	res := New(view).Build(nil)

	tenure, _ := res.Panel(PanelAmountByTenure)
	require.Len(t, tenure.Chart.Series[0].Data, 1)
	require.Len(t, tenure.Notes, 1)
	assert.Contains(t, tenure.Notes[0], "sin antigüedad omitidos: 2")

	// Blank cells keep their own bar so the counts add up to the rows
	counts := engine.CountByCategory(view, schema.ColTenure)
	assert.Equal(t, 2, counts[""])
}

func TestBuildMissingColumn(t *testing.T) {
	adapter := engine.NewDomainAdapter[float64]().
		Measure(schema.ColAmount, func(v float64) float64 { return v })
	res := New(adapter.Bind([]float64{1, 2, 3})).Build(nil)

	hist, _ := res.Panel(PanelAmountHistogram)
	assert.False(t, hist.Chart.IsEmpty())

	counts, _ := res.Panel(PanelPurposeCounts)
	assert.True(t, counts.Chart.IsEmpty())
	require.Len(t, counts.Notes, 1)
	assert.Contains(t, counts.Notes[0], schema.ColPurpose)
}

func TestNewWarnsOnMissingCreditColumns(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	adapter := engine.NewDomainAdapter[float64]().
		Measure(schema.ColAmount, func(v float64) float64 { return v })
	New(adapter.Bind([]float64{1}), WithLogger(zap.New(core)))

	entries := logs.FilterMessage("dataset lacks credit columns, their panels stay empty").All()
	require.Len(t, entries, 1)
	missing, ok := entries[0].ContextMap()["columns"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, missing, schema.ColPurpose)
	assert.NotContains(t, missing, schema.ColAmount)

	core, logs = observer.New(zap.WarnLevel)
	New(fixture(), WithLogger(zap.New(core)))
	assert.Equal(t, 0, logs.FilterMessage("dataset lacks credit columns, their panels stay empty").Len())
}

func TestBuildPanel(t *testing.T) {
	d := New(fixture())

	p, ok := d.BuildPanel(engine.Selection{SelDoublePurpose: "SALUD", SelStatus: "1"}, PanelAmountVsDuration)
	require.True(t, ok)
	assert.Equal(t, 1, p.Rows)
	require.Len(t, p.Chart.Scatter, 1)
	assert.Equal(t, engine.XY{X: 3, Y: 2000}, p.Chart.Scatter[0].Points[0])

	_, ok = d.BuildPanel(nil, "no_existe")
	assert.False(t, ok)
}

func TestOptions(t *testing.T) {
	d := New(fixture(), WithBins(2), WithTenureOrder([]string{"mayor_4y", "menor_2y"}),
		WithCorrelationColumns([]string{schema.ColAmount, schema.ColDuration}))
	res := d.Build(nil)

	hist, _ := res.Panel(PanelAmountHistogram)
	assert.Len(t, hist.Chart.Series[0].Data, 2)

	tenure, _ := res.Panel(PanelAmountByTenure)
	assert.Equal(t, "mayor_4y", tenure.Chart.Series[0].Data[0].Label)
	assert.Contains(t, tenure.Notes[0], "2y_a_4y")

	corr, _ := res.Panel(PanelCorrelation)
	assert.Len(t, corr.Chart.Heatmap.Columns, 2)
}
