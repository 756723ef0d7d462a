package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ============================================================================
// AGGREGATORS — Grouping, Aggregation, and Sorting via RecordView
// ============================================================================
// All functions operate on RecordView and never modify it.
// Grouping produces SubViews (index lists into parent view).
// Missing measure values (NaN) are skipped, as a dataframe mean would.
// ============================================================================

// Aggregations understood by GroupAndAggregate.
const (
	AggCount = "count"
	AggSum   = "sum"
	AggAvg   = "avg"
	AggMin   = "min"
	AggMax   = "max"
)

// GroupAndAggregate is the main entry point for the aggregation pipeline.
// Pipeline: group → aggregate → sort → limit.
func GroupAndAggregate(
	view RecordView,
	groupBy []string,
	measure string,
	aggregation string,
	sortBy string,
	limit int,
) []Group {
	if view.Len() == 0 {
		return nil
	}

	// 1. Group
	var groups []Group
	if len(groupBy) == 0 {
		groups = []Group{{
			Key:   "all",
			Label: "Total",
			View:  view,
		}}
	} else if len(groupBy) == 1 {
		groups = groupBySingle(view, groupBy[0])
	} else {
		groups = groupByMulti(view, groupBy)
	}

	// 2. Aggregate
	for i := range groups {
		aggregateGroup(&groups[i], measure, aggregation)
		for j := range groups[i].SubGroups {
			aggregateGroup(&groups[i].SubGroups[j], measure, aggregation)
		}
	}

	// 3. Sort
	SortGroups(groups, sortBy)

	// 4. Limit
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}

	return groups
}

// ============================================================================
// GROUPING
// ============================================================================

// groupBySingle groups rows by one dimension, keeping first-appearance order.
func groupBySingle(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

func groupByMulti(view RecordView, dimensions []string) []Group {
	primaryGroups := groupBySingle(view, dimensions[0])
	for i := range primaryGroups {
		primaryGroups[i].SubGroups = groupBySingle(primaryGroups[i].View, dimensions[1])
	}
	return primaryGroups
}

// ============================================================================
// AGGREGATION
// ============================================================================

func aggregateGroup(group *Group, measure string, aggregation string) {
	group.Count = group.View.Len()
	if group.Count == 0 {
		return
	}

	switch aggregation {
	case AggCount:
		group.Value = float64(group.Count)
	case AggAvg:
		group.Value = AvgMeasure(group.View, measure)
	case AggMax:
		group.Value = MaxMeasure(group.View, measure)
	case AggMin:
		group.Value = MinMeasure(group.View, measure)
	default:
		group.Value = SumMeasure(group.View, measure)
	}
}

// SumMeasure sums a named measure across a view.
func SumMeasure(view RecordView, measure string) float64 {
	return floats.Sum(MeasureValues(view, measure))
}

// AvgMeasure computes the mean of a named measure. NaN when no value is present.
func AvgMeasure(view RecordView, measure string) float64 {
	values := MeasureValues(view, measure)
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// MaxMeasure returns the largest value of a named measure, or NaN.
func MaxMeasure(view RecordView, measure string) float64 {
	values := MeasureValues(view, measure)
	if len(values) == 0 {
		return math.NaN()
	}
	return floats.Max(values)
}

// MinMeasure returns the smallest value of a named measure, or NaN.
func MinMeasure(view RecordView, measure string) float64 {
	values := MeasureValues(view, measure)
	if len(values) == 0 {
		return math.NaN()
	}
	return floats.Min(values)
}

// ============================================================================
// CATEGORY COUNTS
// ============================================================================

// CountByCategory counts rows per distinct value of column.
// The counts always sum to view.Len(), so blank cells count under "".
func CountByCategory(view RecordView, column string) map[string]int {
	counts := make(map[string]int)
	for i := 0; i < view.Len(); i++ {
		counts[view.Dimension(i, column)]++
	}
	return counts
}

// CountGroups returns the same counts as CountByCategory as groups in
// first-appearance order. Empty view → nil.
func CountGroups(view RecordView, column string) []Group {
	return GroupAndAggregate(view, []string{column}, "", AggCount, "", 0)
}

// ============================================================================
// ORDERED CATEGORIES
// ============================================================================

// Order is an explicit category ordering (e.g. tenure buckets).
// Sorting uses the rank lookup, never lexical comparison.
type Order []string

// Rank returns category → position.
func (o Order) Rank() map[string]int {
	rank := make(map[string]int, len(o))
	for i, c := range o {
		if _, dup := rank[c]; !dup {
			rank[c] = i
		}
	}
	return rank
}

// GroupMeanOrdered averages valueColumn per groupColumn category and returns
// the groups sorted by order. Categories absent from the data are omitted;
// categories missing from order are dropped (see UnrankedCategories).
func GroupMeanOrdered(view RecordView, groupColumn, valueColumn string, order Order) []Group {
	groups := GroupAndAggregate(view, []string{groupColumn}, valueColumn, AggAvg, "", 0)
	return SortGroupsByOrder(groups, order)
}

// SortGroupsByOrder returns the groups ranked in order, dropping unranked ones.
func SortGroupsByOrder(groups []Group, order Order) []Group {
	rank := order.Rank()
	kept := make([]Group, 0, len(groups))
	for _, g := range groups {
		if _, ok := rank[g.Key]; ok {
			kept = append(kept, g)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return rank[kept[i].Key] < rank[kept[j].Key] })
	return kept
}

// UnrankedCategories lists values of column that order does not rank,
// in first-appearance order.
func UnrankedCategories(view RecordView, column string, order Order) []string {
	rank := order.Rank()
	var out []string
	for _, v := range UniqueValues(view, column) {
		if _, ok := rank[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups sorts aggregate groups by the specified sort mode.
// "value_desc" puts the largest value first, ties keeping grouping order.
// Any other mode keeps grouping (first-appearance) order.
func SortGroups(groups []Group, sortBy string) {
	if sortBy == "value_desc" {
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
	}
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatNumber formats a value with comma separators and 2 decimals.
// Whole numbers drop the decimals. NaN prints as "n/a"; infinities and
// magnitudes past the int64 range print in %g form.
func FormatNumber(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	if math.IsInf(v, 0) || math.Abs(v) >= 1<<63 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	negative := v < 0
	if negative {
		v = -v
	}

	rounded := RoundTo2(v)
	intPart := int64(rounded)
	decPart := int64(math.Round((rounded - float64(intPart)) * 100))

	out := FormatInt(int(intPart))
	if decPart != 0 {
		out = fmt.Sprintf("%s.%02d", out, decPart)
	}
	if negative {
		out = "-" + out
	}
	return out
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n == math.MinInt {
		// -n overflows
		return "-" + FormatInt(-(n/1000)) + fmt.Sprintf(",%03d", -(n % 1000))
	}
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// UniqueValues returns distinct non-empty values for a dimension, in
// first-appearance order.
func UniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	var result []string
	for i := 0; i < view.Len(); i++ {
		val := view.Dimension(i, dimension)
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}
