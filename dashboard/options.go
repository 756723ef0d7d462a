package dashboard

import (
	"go.uber.org/zap"

	"github.com/spektr-org/crediview/engine"
	"github.com/spektr-org/crediview/schema"
)

// ============================================================================
// DASHBOARD OPTIONS — Functional options for New()
// ============================================================================

// Option configures dashboard behavior via functional options pattern.
type Option func(*config)

type config struct {
	Logger             *zap.Logger
	Bins               int          // numeric histogram bin count
	TenureOrder        engine.Order // ordering of the tenure line chart
	CorrelationColumns []string     // heatmap columns
}

// WithLogger sets the logger. Default: zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithBins sets the amount histogram bin count. Non-positive values are ignored.
func WithBins(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.Bins = n
		}
	}
}

// WithTenureOrder overrides the tenure bucket ordering.
func WithTenureOrder(order []string) Option {
	return func(c *config) {
		if len(order) > 0 {
			c.TenureOrder = engine.Order(order)
		}
	}
}

// WithCorrelationColumns overrides the heatmap columns.
func WithCorrelationColumns(columns []string) Option {
	return func(c *config) {
		if len(columns) > 0 {
			c.CorrelationColumns = columns
		}
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{
		Logger:             zap.NewNop(),
		Bins:               10,
		TenureOrder:        engine.Order(schema.Credit().Order(schema.ColTenure)),
		CorrelationColumns: schema.CorrelationColumns(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
