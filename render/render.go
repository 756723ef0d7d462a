package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/spektr-org/crediview/engine"
)

// ============================================================================
// RENDER — ChartConfig → PNG
// ============================================================================
// gonum/plot draws every chart type except the pie, which go-chart draws.
// A config with nothing to draw still yields a valid image: its title over
// a "Sin datos" label.
// ============================================================================

// NoData is the label drawn on empty charts.
const NoData = "Sin datos"

// Default image size in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 500
)

const dpi = 96

// PNG writes cfg as a PNG image of width x height pixels.
func PNG(w io.Writer, cfg *engine.ChartConfig, width, height int) error {
	if cfg == nil {
		return fmt.Errorf("render: nil chart config")
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	if cfg.IsEmpty() {
		return save(w, placeholder(cfg), width, height)
	}
	if cfg.ChartType == engine.ChartPie {
		return pie(w, cfg, width, height)
	}

	p, err := build(cfg)
	if err != nil {
		return fmt.Errorf("render %s: %w", cfg.ChartType, err)
	}
	return save(w, p, width, height)
}

func build(cfg *engine.ChartConfig) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = cfg.Title
	p.X.Label.Text = cfg.XAxis
	p.Y.Label.Text = cfg.YAxis
	p.Legend.Top = true

	var err error
	switch cfg.ChartType {
	case engine.ChartCategoryHistogram, engine.ChartHistogram:
		err = addBars(p, cfg)
	case engine.ChartStackedBar:
		err = addStackedBars(p, cfg)
	case engine.ChartLine:
		err = addLine(p, cfg)
	case engine.ChartBox:
		err = addBoxes(p, cfg)
	case engine.ChartScatter:
		err = addScatter(p, cfg)
	case engine.ChartHeatmap:
		err = addHeatmap(p, cfg)
	default:
		err = fmt.Errorf("unsupported chart type %q", cfg.ChartType)
	}
	if err != nil {
		return nil, err
	}

	if cfg.ShowGrid {
		p.Add(plotter.NewGrid())
	}
	return p, nil
}

// ============================================================================
// PLOTTERS
// ============================================================================

func addBars(p *plot.Plot, cfg *engine.ChartConfig) error {
	s := cfg.Series[0]
	labels, values := seriesValues(s)

	width := vg.Points(20)
	if cfg.ChartType == engine.ChartHistogram {
		width = vg.Points(40)
	}
	bars, err := plotter.NewBarChart(values, width)
	if err != nil {
		return err
	}
	bars.Color = seriesColor(cfg, 0, s.Color)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)
	return nil
}

func addStackedBars(p *plot.Plot, cfg *engine.ChartConfig) error {
	labels, _ := seriesValues(cfg.Series[0])

	var below *plotter.BarChart
	for i, s := range cfg.Series {
		_, values := seriesValues(s)
		bars, err := plotter.NewBarChart(values, vg.Points(30))
		if err != nil {
			return err
		}
		bars.Color = seriesColor(cfg, i, s.Color)
		bars.LineStyle.Width = vg.Length(0)
		if below != nil {
			bars.StackOn(below)
		}
		p.Add(bars)
		if cfg.ShowLegend {
			p.Legend.Add(s.Name, bars)
		}
		below = bars
	}
	p.NominalX(labels...)
	return nil
}

func addLine(p *plot.Plot, cfg *engine.ChartConfig) error {
	s := cfg.Series[0]
	labels, values := seriesValues(s)

	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i] = plotter.XY{X: float64(i), Y: v}
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	c := seriesColor(cfg, 0, s.Color)
	line.Color = c
	points.Color = c
	p.Add(line, points)
	p.NominalX(labels...)
	return nil
}

func addBoxes(p *plot.Plot, cfg *engine.ChartConfig) error {
	labels := make([]string, len(cfg.Boxes))
	for i, b := range cfg.Boxes {
		box, err := newBox(b, float64(i))
		if err != nil {
			return err
		}
		box.FillColor = seriesColor(cfg, i, "")
		p.Add(box)
		labels[i] = b.Label
	}
	p.NominalX(labels...)
	return nil
}

// newBox draws precomputed statistics. gonum estimates quartiles on its own,
// so the computed fields are overwritten with ours.
func newBox(b engine.BoxStats, loc float64) (*plotter.BoxPlot, error) {
	values := plotter.Values{b.Min, b.LowerFence, b.Q1, b.Median, b.Q3, b.UpperFence, b.Max}
	values = append(values, b.Outliers...)

	box, err := plotter.NewBoxPlot(vg.Points(30), loc, values)
	if err != nil {
		return nil, err
	}
	box.Median = b.Median
	box.Quartile1 = b.Q1
	box.Quartile3 = b.Q3
	box.AdjLow = b.LowerFence
	box.AdjHigh = b.UpperFence
	box.Min = b.Min
	box.Max = b.Max
	box.Outside = box.Outside[:0]
	for i, v := range box.Values {
		if v < b.LowerFence || v > b.UpperFence {
			box.Outside = append(box.Outside, i)
		}
	}
	return box, nil
}

func addScatter(p *plot.Plot, cfg *engine.ChartConfig) error {
	for i, s := range cfg.Scatter {
		if len(s.Points) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			pts[j] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = seriesColor(cfg, i, s.Color)
		sc.GlyphStyle.Shape = plotutil.Shape(i)
		sc.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(sc)
		if cfg.ShowLegend {
			p.Legend.Add(s.Name, sc)
		}
	}
	return nil
}

func addHeatmap(p *plot.Plot, cfg *engine.ChartConfig) error {
	m := cfg.Heatmap
	grid := matrixGrid{m}

	pal := moreland.SmoothBlueRed()
	pal.SetMin(-1)
	pal.SetMax(1)
	hm := plotter.NewHeatMap(grid, pal.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 200}
	p.Add(hm)

	n := len(m.Columns)
	cells := plotter.XYLabels{
		XYs:    make(plotter.XYs, 0, n*n),
		Labels: make([]string, 0, n*n),
	}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			cells.XYs = append(cells.XYs, plotter.XY{X: grid.X(c), Y: grid.Y(r)})
			cells.Labels = append(cells.Labels, cellLabel(grid.Z(c, r)))
		}
	}
	labels, err := plotter.NewLabels(cells)
	if err != nil {
		return err
	}
	p.Add(labels)

	p.NominalX(m.Columns...)
	p.NominalY(reversed(m.Columns)...)
	return nil
}

// matrixGrid exposes a Matrix as a GridXYZ with the first column on top.
type matrixGrid struct {
	m *engine.Matrix
}

func (g matrixGrid) Dims() (c, r int) {
	n := len(g.m.Columns)
	return n, n
}

func (g matrixGrid) Z(c, r int) float64 {
	n := len(g.m.Columns)
	return g.m.Values[n-1-r][c]
}

func (g matrixGrid) X(c int) float64 { return float64(c) }
func (g matrixGrid) Y(r int) float64 { return float64(r) }

func cellLabel(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func reversed(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[len(in)-1-i] = s
	}
	return out
}

// ============================================================================
// PIE (go-chart)
// ============================================================================

func pie(w io.Writer, cfg *engine.ChartConfig, width, height int) error {
	s := cfg.Series[0]
	values := make([]chart.Value, 0, len(s.Data))
	for i, pt := range s.Data {
		hex := ""
		if i < len(cfg.Colors) {
			hex = cfg.Colors[i]
		}
		values = append(values, chart.Value{
			Value: pt.Value,
			Label: fmt.Sprintf("%s (%s)", pt.Label, engine.FormatNumber(pt.Value)),
			Style: chart.Style{FillColor: hexColor(hex, i)},
		})
	}

	pc := chart.PieChart{
		Title:  cfg.Title,
		Width:  width,
		Height: height,
		Values: values,
	}
	if err := pc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render pie: %w", err)
	}
	return nil
}

// ============================================================================
// HELPERS
// ============================================================================

func placeholder(cfg *engine.ChartConfig) *plot.Plot {
	p := plot.New()
	p.Title.Text = cfg.Title
	p.HideAxes()
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	l, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: 0.45, Y: 0.5}},
		Labels: []string{NoData},
	})
	if err == nil {
		p.Add(l)
	}
	return p
}

func save(w io.Writer, p *plot.Plot, width, height int) error {
	wt, err := p.WriterTo(pixels(width), pixels(height), "png")
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("render: write png: %w", err)
	}
	return nil
}

func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / dpi
}

func seriesValues(s engine.ChartSeries) ([]string, plotter.Values) {
	labels := make([]string, len(s.Data))
	values := make(plotter.Values, len(s.Data))
	for i, pt := range s.Data {
		labels[i] = pt.Label
		values[i] = pt.Value
	}
	return labels, values
}

func seriesColor(cfg *engine.ChartConfig, i int, hex string) color.Color {
	if hex == "" && i < len(cfg.Colors) {
		hex = cfg.Colors[i]
	}
	if c, ok := fromHex(hex); ok {
		return c
	}
	return plotutil.Color(i)
}

func hexColor(hex string, i int) drawing.Color {
	if c, ok := fromHex(hex); ok {
		return c
	}
	return chart.GetDefaultColor(i)
}

// fromHex reads "#RRGGBB". ColorFromHex slices blindly, so the shape is
// checked first.
func fromHex(hex string) (drawing.Color, bool) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 || strings.TrimLeft(h, "0123456789abcdefABCDEF") != "" {
		return drawing.Color{}, false
	}
	return drawing.ColorFromHex(h), true
}
