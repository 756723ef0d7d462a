package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/crediview/dashboard"
	"github.com/spektr-org/crediview/engine"
	"github.com/spektr-org/crediview/schema"
)

func init() {
	gin.SetMode(gin.TestMode)
}

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

func newTestServer(t *testing.T) *Server {
	t.Helper()
	view := engine.NewSliceView([]engine.Record{
		loan("EDUCACION", "0", "N", "mayor_4y", 1000, 2, 1),
		loan("SALUD", "1", "Y", "menor_2y", 2000, 3, 0),
		loan("EDUCACION", "1", "N", "2y_a_4y", 3000, 4, 2),
		loan("EDUCACION", "0", "Y", "menor_2y", 4000, 3, 1),
	})
	return New(dashboard.New(view), WithRenderSize(320, 200))
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHealthz(t *testing.T) {
	w := get(t, newTestServer(t), "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","rows":4}`, w.Body.String())
}

func TestFilters(t *testing.T) {
	w := get(t, newTestServer(t), "/api/filters")
	require.Equal(t, http.StatusOK, w.Code)

	var filters map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &filters))
	assert.Equal(t, []string{"EDUCACION", "SALUD"}, filters[dashboard.SelPurpose])
	assert.Equal(t, []string{"0", "1"}, filters[dashboard.SelStatus])
}

func TestDashboard(t *testing.T) {
	w := get(t, newTestServer(t), "/api/dashboard?objetivo=SALUD&estado=1")
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Selection map[string]string `json:"selection"`
		Panels    []struct {
			ID   string `json:"id"`
			Rows int    `json:"rows"`
		} `json:"panels"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "SALUD", res.Selection[dashboard.SelPurpose])
	assert.Equal(t, "EDUCACION", res.Selection[dashboard.SelDoublePurpose], "unset key takes the first offered value")
	require.Len(t, res.Panels, len(dashboard.PanelIDs()))
	assert.Equal(t, dashboard.PanelStatusByPurpose, res.Panels[2].ID)
	assert.Equal(t, 1, res.Panels[2].Rows)
}

func TestPanel(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/api/panels/"+dashboard.PanelPurposeCounts)
	require.Equal(t, http.StatusOK, w.Code)
	var p dashboard.Panel
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, dashboard.PanelPurposeCounts, p.ID)
	assert.Len(t, p.Chart.Series[0].Data, 2)

	w = get(t, s, "/api/panels/no_existe")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChartPNG(t *testing.T) {
	s := newTestServer(t)

	for _, id := range dashboard.PanelIDs() {
		t.Run(id, func(t *testing.T) {
			w := get(t, s, "/charts/"+id+".png?objetivo=EDUCACION")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
			assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG\r\n\x1a\n")))
		})
	}

	assert.Equal(t, http.StatusNotFound, get(t, s, "/charts/no_existe.png").Code)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/charts/"+dashboard.PanelCorrelation).Code)
}

func TestChartPNGEmptySelection(t *testing.T) {
	w := get(t, newTestServer(t), "/charts/"+dashboard.PanelAmountBox+".png?objetivo_doble=VIVIENDA")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
}

func TestSchema(t *testing.T) {
	w := get(t, newTestServer(t), "/api/schema")
	require.Equal(t, http.StatusOK, w.Code)

	var c schema.Config
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	assert.Contains(t, c.DimensionKeys(), schema.ColPurpose)
}

func TestIndex(t *testing.T) {
	w := get(t, newTestServer(t), "/?objetivo=SALUD")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, pageTitle)
	assert.Contains(t, body, dashboard.SectionTenure)
	assert.Contains(t, body, `<option value="SALUD" selected>`)
	assert.Contains(t, body, pageIntro)
	assert.Contains(t, body, pageAuthor)
	assert.Contains(t, body, "Tipo de crédito seleccionado: SALUD")
	assert.Contains(t, body, "/charts/"+dashboard.PanelCorrelation+".png?")
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)
	get(t, s, "/healthz")
	get(t, s, "/charts/"+dashboard.PanelPurposeCounts+".png")

	w := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `crediview_http_requests_total{code="200",route="/healthz"} 1`)
	assert.Contains(t, body, "crediview_chart_render_duration_seconds")
}
