package server

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spektr-org/crediview/render"
)

func (s *Server) index(c *gin.Context) {
	res := s.dash.Build(selection(c))
	c.HTML(http.StatusOK, "index", newPage(res))
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "rows": s.dash.Base().Len()})
}

func (s *Server) filters(c *gin.Context) {
	c.JSON(http.StatusOK, s.dash.Filters())
}

func (s *Server) dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, s.dash.Build(selection(c)))
}

func (s *Server) panel(c *gin.Context) {
	id := c.Param("id")
	p, ok := s.dash.BuildPanel(selection(c), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown panel " + id})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) chart(c *gin.Context) {
	file := c.Param("file")
	id := strings.TrimSuffix(file, ".png")
	if id == file {
		c.JSON(http.StatusNotFound, gin.H{"error": "charts are served as <id>.png"})
		return
	}

	p, ok := s.dash.BuildPanel(selection(c), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown panel " + id})
		return
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := render.PNG(&buf, p.Chart, s.width, s.height); err != nil {
		s.logger.Error("render failed", zap.String("panel", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.metrics.observeRender(id, time.Since(start))

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) describe(c *gin.Context) {
	c.JSON(http.StatusOK, s.schema)
}
