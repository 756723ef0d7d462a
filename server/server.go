package server

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spektr-org/crediview/dashboard"
	"github.com/spektr-org/crediview/engine"
	"github.com/spektr-org/crediview/render"
	"github.com/spektr-org/crediview/schema"
)

// ============================================================================
// SERVER — HTTP host for the dashboard
// ============================================================================
// Stateless: the query string is the selection, every request recomputes
// from the shared read-only base table.
//
//   GET /                   HTML page
//   GET /api/filters        offered filter values
//   GET /api/dashboard      every panel as JSON
//   GET /api/panels/:id     one panel as JSON
//   GET /charts/:id.png     one panel as PNG
//   GET /api/schema         discovered column schema
//   GET /healthz, /metrics
// ============================================================================

// Option configures the server via functional options pattern.
type Option func(*Server)

// WithLogger sets the logger. Default: zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRenderSize sets the PNG size in pixels.
func WithRenderSize(width, height int) Option {
	return func(s *Server) {
		if width > 0 && height > 0 {
			s.width, s.height = width, height
		}
	}
}

// WithSchema sets the schema served on /api/schema. Default: discovered
// from the dashboard's base table.
func WithSchema(c *schema.Config) Option {
	return func(s *Server) {
		s.schema = c
	}
}

// Server wires a dashboard to gin routes.
type Server struct {
	dash    *dashboard.Dashboard
	schema  *schema.Config
	logger  *zap.Logger
	metrics *metrics
	width   int
	height  int
	router  *gin.Engine
}

// New builds the server and its routes.
func New(d *dashboard.Dashboard, opts ...Option) *Server {
	s := &Server{
		dash:    d,
		logger:  zap.NewNop(),
		metrics: newMetrics(),
		width:   render.DefaultWidth,
		height:  render.DefaultHeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.schema == nil {
		s.schema = schema.Describe(d.Base(), schema.DiscoverOptions{Name: "Créditos"})
	}

	r := gin.New()
	r.Use(s.requestLogger(), s.recovery())
	r.SetHTMLTemplate(template.Must(template.New("index").Funcs(pageFuncs).Parse(pageHTML)))

	r.GET("/", s.index)
	r.GET("/healthz", s.healthz)
	r.GET("/metrics", gin.WrapH(s.metrics.handler()))
	r.GET("/charts/:file", s.chart)

	api := r.Group("/api")
	api.GET("/filters", s.filters)
	api.GET("/dashboard", s.dashboard)
	api.GET("/panels/:id", s.panel)
	api.GET("/schema", s.describe)

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run listens on addr until the process stops.
func (s *Server) Run(addr string) error {
	s.logger.Info("listening", zap.String("addr", addr))
	return s.router.Run(addr)
}

// selection reads the selection keys from the query string.
func selection(c *gin.Context) engine.Selection {
	sel := make(engine.Selection)
	for _, key := range dashboard.SelectionKeys() {
		if v, ok := c.GetQuery(key); ok && v != "" {
			sel[key] = v
		}
	}
	return sel
}

// ============================================================================
// MIDDLEWARE
// ============================================================================

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		s.metrics.observeRequest(route, c.Writer.Status(), elapsed)

		s.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", elapsed))
	}
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		s.logger.Error("panic in handler",
			zap.String("path", c.Request.URL.Path), zap.Any("error", err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})
}
