// Package crediview is a credit-loan dashboard over a delimited dataset.
//
// Usage:
//
//	view, err := helpers.Load("datos_finales.csv", ';')
//	if err != nil {
//	    log.Fatal(err) // *helpers.LoadError
//	}
//
//	d := dashboard.New(view, dashboard.WithLogger(logger))
//	res := d.Build(engine.Selection{dashboard.SelPurpose: "EDUCACION"})
//
// The engine package holds the pure filter and aggregation functions
// (FilterByEquality, CountByCategory, GroupMeanOrdered, CorrelationMatrix)
// and turns derived views into render-ready ChartConfig values. The
// dashboard package computes every panel of the page for one selection,
// render draws a panel as PNG, and server exposes it all over HTTP.
//
// All computation is local; the base table is read once and never modified.
package crediview
