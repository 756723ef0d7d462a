package engine

import "sort"

// ============================================================================
// FILTERS — Equality filtering via RecordView
// ============================================================================
// Single pass over the parent view; the result is a SubView (index list).
// A value that never occurs yields an empty view, not an error.
// ============================================================================

// FilterByEquality returns the rows where column == value (exact match).
// An empty value matches blank cells only.
func FilterByEquality(view RecordView, column, value string) RecordView {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if view.Dimension(i, column) == value {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

// ApplySelection returns a view of rows matching every non-empty entry of sel.
// Entries are AND-combined. Empty selection = the original view.
func ApplySelection(view RecordView, sel Selection) RecordView {
	if sel.IsEmpty() {
		return view
	}

	// Sorted keys keep the predicate order deterministic
	keys := make([]string, 0, len(sel))
	for k, v := range sel {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for _, k := range keys {
			if view.Dimension(i, k) != sel[k] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

// ValidateSelection checks every non-empty selected value against the values
// present in view. Filtering does not need this; hosts call it to report
// values they should not have offered.
func ValidateSelection(view RecordView, sel Selection) error {
	keys := make([]string, 0, len(sel))
	for k := range sel {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, column := range keys {
		value := sel[column]
		if value == "" {
			continue
		}
		found := false
		for i := 0; i < view.Len(); i++ {
			if view.Dimension(i, column) == value {
				found = true
				break
			}
		}
		if !found {
			return &FilterError{Column: column, Value: value}
		}
	}
	return nil
}
