package dashboard

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spektr-org/crediview/engine"
	"github.com/spektr-org/crediview/schema"
)

// ============================================================================
// DASHBOARD — Request/response computation of every chart panel
// ============================================================================
// The host passes the current Selection; Build recomputes all derived views
// synchronously against the read-only base table. No state survives a call
// except the base table and the filter options computed in New.
//
// Pipeline per Build:
//   1. Resolve the effective selection (unset keys → first offered value)
//   2. Validate selected values against the offered ones (notes only)
//   3. Derive the filtered views (single and double filter)
//   4. Compute each panel's derived view → ChartConfig
//
// BuildPanel runs the same pipeline for one panel id.
// ============================================================================

// Selection keys understood by Build.
const (
	SelPurpose       = "objetivo"       // section 2 purpose filter
	SelDoublePurpose = "objetivo_doble" // section 4 purpose filter
	SelStatus        = "estado"         // section 4 status filter
)

// selectionColumns maps each selection key to the column it filters.
var selectionColumns = map[string]string{
	SelPurpose:       schema.ColPurpose,
	SelDoublePurpose: schema.ColPurpose,
	SelStatus:        schema.ColStatus,
}

// SelectionKeys returns the selection keys in display order.
func SelectionKeys() []string {
	return []string{SelPurpose, SelDoublePurpose, SelStatus}
}

// Dashboard holds the base table and the filter options derived from it.
type Dashboard struct {
	base    engine.RecordView
	cfg     *config
	options map[string][]string // selection key → offered values
}

// Result is everything one render cycle needs.
type Result struct {
	Selection engine.Selection    `json:"selection"`
	Filters   map[string][]string `json:"filters"`
	Rows      int                 `json:"rows"`
	Summary   *engine.TextData    `json:"summary"`
	Panels    []Panel             `json:"panels"`
	Elapsed   string              `json:"elapsed"`
}

// Panel is one chart of the page.
type Panel struct {
	ID      string              `json:"id"`
	Section string              `json:"section"`
	Chart   *engine.ChartConfig `json:"chart"`
	Rows    int                 `json:"rows"` // rows of the table the chart was derived from
	Notes   []string            `json:"notes,omitempty"`
}

// Panel returns the panel with the given id.
func (r *Result) Panel(id string) (*Panel, bool) {
	for i := range r.Panels {
		if r.Panels[i].ID == id {
			return &r.Panels[i], true
		}
	}
	return nil, false
}

// New builds a dashboard over base. base must not be modified afterwards.
func New(base engine.RecordView, opts ...Option) *Dashboard {
	d := &Dashboard{
		base:    base,
		cfg:     applyOptions(opts),
		options: make(map[string][]string, len(selectionColumns)),
	}
	for key, column := range selectionColumns {
		d.options[key] = engine.UniqueValues(base, column)
	}

	d.cfg.Logger.Info("dashboard ready",
		zap.Int("rows", base.Len()),
		zap.Int("purposes", len(d.options[SelPurpose])),
		zap.Int("statuses", len(d.options[SelStatus])))

	columns := append(append([]string(nil), base.DimensionKeys()...), base.MeasureKeys()...)
	if missing := schema.Credit().Missing(columns); len(missing) > 0 {
		d.cfg.Logger.Warn("dataset lacks credit columns, their panels stay empty",
			zap.Strings("columns", missing))
	}
	if unranked := engine.UnrankedCategories(base, schema.ColTenure, d.cfg.TenureOrder); len(unranked) > 0 {
		d.cfg.Logger.Warn("tenure categories outside the fixed order will be dropped",
			zap.Strings("categories", unranked))
	}
	return d
}

// Base returns the base table.
func (d *Dashboard) Base() engine.RecordView { return d.base }

// Filters returns the values offered for each selection key.
func (d *Dashboard) Filters() map[string][]string {
	out := make(map[string][]string, len(d.options))
	for k, v := range d.options {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Resolve returns the effective selection: unknown keys are dropped and
// unset keys take the first offered value.
func (d *Dashboard) Resolve(sel engine.Selection) engine.Selection {
	out := make(engine.Selection, len(selectionColumns))
	for key := range selectionColumns {
		value := sel.Get(key)
		if value == "" && len(d.options[key]) > 0 {
			value = d.options[key][0]
		}
		out[key] = value
	}
	return out
}

// Build computes every panel for the selection.
func (d *Dashboard) Build(sel engine.Selection) *Result {
	start := time.Now()
	eff := d.Resolve(sel)
	notes := d.validate(eff)
	v := d.derive(eff)

	panels := make([]Panel, 0, len(PanelIDs()))
	for _, id := range PanelIDs() {
		p, _ := d.panel(id, v)
		attachNotes(&p, notes)
		panels = append(panels, p)
	}

	return &Result{
		Selection: eff,
		Filters:   d.Filters(),
		Rows:      d.base.Len(),
		Summary:   engine.BuildText(d.base, schema.ColAmount),
		Panels:    panels,
		Elapsed:   time.Since(start).String(),
	}
}

// BuildPanel computes a single panel. The bool is false for unknown ids.
func (d *Dashboard) BuildPanel(sel engine.Selection, id string) (*Panel, bool) {
	eff := d.Resolve(sel)
	p, ok := d.panel(id, d.derive(eff))
	if !ok {
		return nil, false
	}
	attachNotes(&p, d.validate(eff))
	return &p, true
}

// derived holds the filtered tables of one selection.
type derived struct {
	single engine.RecordView // purpose filter
	double engine.RecordView // purpose and status filter
	status string
}

func (d *Dashboard) derive(eff engine.Selection) derived {
	v := derived{
		single: engine.FilterByEquality(d.base, schema.ColPurpose, eff[SelPurpose]),
		double: engine.ApplySelection(d.base, engine.Selection{
			schema.ColPurpose: eff[SelDoublePurpose],
			schema.ColStatus:  eff[SelStatus],
		}),
		status: eff[SelStatus],
	}

	d.cfg.Logger.Debug("filters applied",
		zap.Any("selection", eff),
		zap.Int("base", d.base.Len()),
		zap.Int("single", v.single.Len()),
		zap.Int("double", v.double.Len()))
	return v
}

func (d *Dashboard) panel(id string, v derived) (Panel, bool) {
	switch id {
	case PanelPurposeCounts:
		return d.purposeCounts(), true
	case PanelAmountHistogram:
		return d.amountHistogram(), true
	case PanelStatusByPurpose:
		return d.statusByPurpose(v.single), true
	case PanelDelinquency:
		return d.delinquencyPie(v.single), true
	case PanelAmountByTenure:
		return d.amountByTenure(), true
	case PanelAmountBox:
		return d.amountBox(v.double, v.status), true
	case PanelAmountVsDuration:
		return d.amountVsDuration(v.double, v.status), true
	case PanelCorrelation:
		return d.correlation(), true
	}
	return Panel{}, false
}

func attachNotes(p *Panel, notes map[string]string) {
	for _, key := range panelSelectionKeys[p.ID] {
		if n, ok := notes[key]; ok {
			p.Notes = append(p.Notes, n)
		}
	}
}

// validate reports selected values that the data does not contain.
// The filtered table is simply empty in that case.
func (d *Dashboard) validate(eff engine.Selection) map[string]string {
	notes := make(map[string]string)
	for _, key := range SelectionKeys() {
		value := eff[key]
		if value == "" {
			continue
		}
		err := engine.ValidateSelection(d.base, engine.Selection{selectionColumns[key]: value})
		var fe *engine.FilterError
		if errors.As(err, &fe) {
			d.cfg.Logger.Warn("selected value not offered by the data",
				zap.String("key", key), zap.String("column", fe.Column), zap.String("value", fe.Value))
			notes[key] = fmt.Sprintf("filtro %s: %v", key, err)
		}
	}
	return notes
}
