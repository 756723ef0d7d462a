package helpers

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/spektr-org/crediview/schema"
)

// ============================================================================
// DATASET LOADER — Delimited file → FrameView
// ============================================================================
// Read once at startup. All columns load as strings; numeric access goes
// through FrameView.Measure. Only the column count is checked here: a
// missing expected column surfaces when a chart asks for it.
// ============================================================================

// LoadError reports a dataset that could not be loaded. Fatal at startup.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("load %s: %s", e.Path, e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadOption configures Load/Parse.
type LoadOption func(*loadConfig)

type loadConfig struct {
	expected []string
	source   string
}

// WithExpectedColumns overrides the columns whose count the header must reach.
func WithExpectedColumns(columns []string) LoadOption {
	return func(c *loadConfig) {
		c.expected = columns
	}
}

// WithSource names the input in errors when parsing a reader.
func WithSource(name string) LoadOption {
	return func(c *loadConfig) {
		c.source = name
	}
}

func applyLoadOptions(opts []LoadOption) *loadConfig {
	cfg := &loadConfig{
		expected: schema.Credit().RequiredColumns(),
		source:   "<reader>",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Load reads the delimited file at path into a FrameView.
func Load(path string, delimiter rune, opts ...LoadOption) (*FrameView, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "unreadable file", Err: err}
	}
	defer f.Close()

	return Parse(bufio.NewReader(f), delimiter, append(opts, WithSource(path))...)
}

// Parse reads delimited data with a header row from r.
func Parse(r io.Reader, delimiter rune, opts ...LoadOption) (*FrameView, error) {
	cfg := applyLoadOptions(opts)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Path: cfg.source, Reason: "unreadable data", Err: err}
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.WithDelimiter(delimiter),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		// gota refuses a header without records; that is an empty table
		header, ok := headerOnly(data, delimiter)
		if !ok {
			return nil, &LoadError{Path: cfg.source, Reason: "unparseable data", Err: df.Err}
		}
		if err := checkColumns(cfg, delimiter, len(header)); err != nil {
			return nil, err
		}
		return newEmptyFrameView(header), nil
	}

	if err := checkColumns(cfg, delimiter, df.Ncol()); err != nil {
		return nil, err
	}
	return NewFrameView(df), nil
}

func checkColumns(cfg *loadConfig, delimiter rune, got int) error {
	if want := len(cfg.expected); got < want {
		return &LoadError{
			Path:   cfg.source,
			Reason: fmt.Sprintf("delimiter %q yields %d columns, expected at least %d", delimiter, got, want),
		}
	}
	return nil
}

// headerOnly reports the header of data when it holds no record after it.
func headerOnly(data []byte, delimiter rune) ([]string, bool) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delimiter
	header, err := cr.Read()
	if err != nil || len(header) == 0 {
		return nil, false
	}
	if _, err := cr.Read(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return header, true
}
