package server

import (
	"html/template"
	"net/url"
	"strings"

	"github.com/spektr-org/crediview/dashboard"
	"github.com/spektr-org/crediview/engine"
)

const (
	pageTitle  = "Herramienta de Visualización de Datos - 13MBID"
	pageIntro  = "Esta aplicación permite explorar y visualizar los datos del proyecto en curso."
	pageAuthor = "Desarrollado por: Jorge Gómez Gómez"
)

// selectEchoes are printed under a select with its current value.
var selectEchoes = map[string]string{
	dashboard.SelPurpose: "Tipo de crédito seleccionado:",
}

var selectLabels = map[string]string{
	dashboard.SelPurpose:       "Selecciona el tipo de crédito:",
	dashboard.SelDoublePurpose: "Filtra por objetivo del crédito:",
	dashboard.SelStatus:        "Filtra por estado del crédito:",
}

// sectionSelects places each select in the section whose panels it filters.
var sectionSelects = map[string][]string{
	dashboard.SectionStatus:  {dashboard.SelPurpose},
	dashboard.SectionAmounts: {dashboard.SelDoublePurpose, dashboard.SelStatus},
}

type page struct {
	Title    string
	Intro    []string
	Summary  string
	Sections []pageSection
}

type pageSection struct {
	Heading string
	Selects []pageSelect
	Panels  []pagePanel
}

type pageSelect struct {
	Key      string
	Label    string
	Options  []string
	Selected string
	Echo     string
}

type pagePanel struct {
	ID    string
	Title string
	Src   string
	Notes []string
}

func newPage(res *dashboard.Result) page {
	query := selectionQuery(res.Selection)

	p := page{Title: pageTitle, Intro: []string{pageIntro, pageAuthor}}
	if res.Summary != nil {
		p.Summary = res.Summary.Value
	}

	for _, panel := range res.Panels {
		if n := len(p.Sections); n == 0 || p.Sections[n-1].Heading != panel.Section {
			p.Sections = append(p.Sections, newSection(panel.Section, res))
		}
		title := ""
		if panel.Chart != nil {
			title = panel.Chart.Title
		}
		sec := &p.Sections[len(p.Sections)-1]
		sec.Panels = append(sec.Panels, pagePanel{
			ID:    panel.ID,
			Title: title,
			Src:   "/charts/" + panel.ID + ".png?" + query,
			Notes: panel.Notes,
		})
	}
	return p
}

func newSection(heading string, res *dashboard.Result) pageSection {
	sec := pageSection{Heading: heading}
	for _, key := range sectionSelects[heading] {
		sec.Selects = append(sec.Selects, pageSelect{
			Key:      key,
			Label:    selectLabels[key],
			Options:  res.Filters[key],
			Selected: res.Selection.Get(key),
			Echo:     selectEchoes[key],
		})
	}
	return sec
}

func selectionQuery(sel engine.Selection) string {
	q := url.Values{}
	for k, v := range sel {
		q.Set(k, v)
	}
	return q.Encode()
}

var pageFuncs = template.FuncMap{
	"join": strings.Join,
}

const pageHTML = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 1100px; margin: 0 auto; padding: 1rem; }
section { margin-bottom: 2rem; }
img { max-width: 100%; }
.note { color: #b45309; font-size: 0.9rem; }
.charts { display: flex; flex-wrap: wrap; gap: 1rem; }
.charts figure { flex: 1 1 45%; margin: 0; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Intro}}<p>{{.}}</p>
{{end}}<hr>
<h2>Gráficos</h2>
{{with .Summary}}<p>{{.}}</p>{{end}}
<form method="get" action="/">
{{range $sec := .Sections}}
<section>
<h3>{{$sec.Heading}}</h3>
{{range $sec.Selects}}
<label>{{.Label}}
<select name="{{.Key}}" onchange="this.form.submit()">
{{$sel := .Selected}}{{range .Options}}<option value="{{.}}"{{if eq . $sel}} selected{{end}}>{{.}}</option>{{end}}
</select>
</label>
{{with .Echo}}<p>{{.}} {{$sel}}</p>{{end}}
{{end}}
<div class="charts">
{{range $sec.Panels}}
<figure id="{{.ID}}">
<img src="{{.Src}}" alt="{{.Title}}">
{{with .Notes}}<figcaption class="note">{{join . "; "}}</figcaption>{{end}}
</figure>
{{end}}
</div>
</section>
{{end}}
<noscript><button type="submit">Aplicar</button></noscript>
</form>
</body>
</html>
`
