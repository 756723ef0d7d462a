package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spektr-org/crediview/engine"
)

// ============================================================================
// DISCOVERY — Heuristic column classification of a loaded table
// ============================================================================
// Per column:
//   1. Collect non-null values → detect type (numeric, bool, string)
//   2. Type + cardinality → role (dimension, measure, skip)
//   3. Known credit columns keep their catalogue metadata (display names,
//      tenure ordering) instead of the guessed one
// ============================================================================

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize int    // Max rows to inspect (0 = all)
	Name       string // Dataset name override
	Source     string // Free-form origin, e.g. the file path
}

// Describe classifies every column of view. Columns listed by the credit
// catalogue are returned with their catalogue metadata.
func Describe(view engine.RecordView, opts ...DiscoverOptions) *Config {
	var opt DiscoverOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	rows := view.Len()
	if opt.SampleSize > 0 && opt.SampleSize < rows {
		rows = opt.SampleSize
	}

	config := &Config{
		Name:           opt.Name,
		Version:        "1.0",
		DiscoveredFrom: opt.Source,
		RowCount:       view.Len(),
	}
	if config.Name == "" {
		config.Name = "Dataset"
	}

	catalogue := Credit()
	for _, key := range view.DimensionKeys() {
		col := analyzeColumn(view, key, rows)

		switch col.role {
		case roleDimension:
			dim := col.toDimension()
			if known, ok := catalogue.Dimension(key); ok {
				dim.DisplayName = known.DisplayName
				dim.Order = known.Order
			}
			config.Dimensions = append(config.Dimensions, dim)
		case roleMeasure:
			meas := col.toMeasure()
			meas.DisplayName = catalogue.DisplayName(key)
			if meas.DisplayName == key {
				meas.DisplayName = toDisplayName(key)
			}
			config.Measures = append(config.Measures, meas)
		case roleSkipped:
			config.SkippedColumns = append(config.SkippedColumns, SkippedColumn{
				Column: key,
				Reason: col.skipReason,
			})
		}
	}

	// Columns only exposed as measures (typed views) need no guessing
	seen := make(map[string]bool)
	for _, key := range view.DimensionKeys() {
		seen[key] = true
	}
	for _, key := range view.MeasureKeys() {
		if seen[key] {
			continue
		}
		meas := DefaultMeasure(key, catalogue.DisplayName(key))
		if meas.DisplayName == key {
			meas.DisplayName = toDisplayName(key)
		}
		config.Measures = append(config.Measures, meas)
	}

	return config
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

type columnRole int

const (
	roleDimension columnRole = iota
	roleMeasure
	roleSkipped
)

type columnType int

const (
	typeString columnType = iota
	typeNumeric
	typeBool
)

type columnAnalysis struct {
	key        string
	colType    columnType
	role       columnRole
	skipReason string

	uniqueCount     int
	totalCount      int
	nullCount       int
	sampleVals      []string
	hasDecimals     bool
	cardinalityHint string
}

func analyzeColumn(view engine.RecordView, key string, rows int) columnAnalysis {
	col := columnAnalysis{key: key, totalCount: rows}

	values := make([]string, 0, rows)
	uniqueSet := make(map[string]bool)
	for i := 0; i < rows; i++ {
		val := strings.TrimSpace(view.Dimension(i, key))
		if isNull(val) {
			col.nullCount++
			continue
		}
		values = append(values, val)
		uniqueSet[val] = true
	}
	col.uniqueCount = len(uniqueSet)

	if len(values) == 0 {
		col.role = roleSkipped
		col.skipReason = "All values are empty/null"
		return col
	}

	col.sampleVals = collectSamples(uniqueSet, 10)
	col.colType = detectType(values)
	if col.colType == typeNumeric {
		for _, v := range values {
			if strings.Contains(v, ".") {
				col.hasDecimals = true
				break
			}
		}
	}

	col.classifyRole()

	switch {
	case col.uniqueCount <= 10:
		col.cardinalityHint = "low"
	case col.uniqueCount <= 100:
		col.cardinalityHint = "medium"
	default:
		col.cardinalityHint = "high"
	}
	return col
}

// classifyRole determines dimension vs measure vs skip.
func (col *columnAnalysis) classifyRole() {
	total := col.totalCount
	switch col.colType {
	case typeNumeric:
		if col.hasDecimals {
			col.role = roleMeasure
			return
		}
		// Few distinct integers relative to the row count → coded category (e.g. status 0/1)
		uniqueRatio := float64(col.uniqueCount) / float64(total)
		if col.uniqueCount < 20 && uniqueRatio < 0.3 {
			col.role = roleDimension
			return
		}
		col.role = roleMeasure

	case typeBool:
		col.role = roleDimension

	case typeString:
		if col.uniqueCount == total && total > 10 {
			col.role = roleSkipped
			col.skipReason = "Unique per row — likely an identifier"
			return
		}
		col.role = roleDimension
	}
}

// detectType requires 80%+ of non-null values to match for numeric/bool.
func detectType(values []string) columnType {
	numCount, boolCount := 0, 0
	for _, v := range values {
		if isNumeric(v) {
			numCount++
		}
		if isBool(v) {
			boolCount++
		}
	}

	threshold := int(float64(len(values)) * 0.8)
	if boolCount >= threshold {
		return typeBool
	}
	if numCount >= threshold {
		return typeNumeric
	}
	return typeString
}

func isNull(s string) bool {
	switch s {
	case "", "null", "NULL", "NA", "N/A", "n/a", "NaN", "nan":
		return true
	}
	return false
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

func isBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "false", "yes", "no", "y", "n", "si", "sí":
		return true
	}
	return false
}

func (col *columnAnalysis) toDimension() DimensionMeta {
	d := DefaultDimension(col.key, toDisplayName(col.key), col.sampleVals)
	d.CardinalityHint = col.cardinalityHint
	return d
}

func (col *columnAnalysis) toMeasure() MeasureMeta {
	m := DefaultMeasure(col.key, toDisplayName(col.key))
	m.MissingCount = col.nullCount
	return m
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toDisplayName turns a column key into a label.
// "importe_solicitado" → "Importe Solicitado", "estado_credito_N" → "Estado Credito N"
func toDisplayName(s string) string {
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}

	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// collectSamples picks up to maxSamples values, sorted for deterministic output.
func collectSamples(uniqueSet map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(uniqueSet))
	for v := range uniqueSet {
		samples = append(samples, v)
	}
	sort.Strings(samples)

	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}

// Summary returns a one-line description of a discovered config.
func (c Config) Summary() string {
	return fmt.Sprintf("%s: %d rows, %d dimensions, %d measures, %d skipped",
		c.Name, c.RowCount, len(c.Dimensions), len(c.Measures), len(c.SkippedColumns))
}
