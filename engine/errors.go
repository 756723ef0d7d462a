package engine

import (
	"fmt"
	"strings"
)

// FilterError reports a selected value that does not occur in the column.
// Filtering itself never fails; the error is informational.
type FilterError struct {
	Column string
	Value  string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("value %q not present in column %q", e.Value, e.Column)
}

// InsufficientDataError reports columns that cannot take part in a
// correlation: fewer than 2 non-missing values or zero variance.
// The accompanying result is still usable; affected cells are NaN.
type InsufficientDataError struct {
	Columns []string
	Reason  string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: %s", strings.Join(e.Columns, ", "), e.Reason)
}
