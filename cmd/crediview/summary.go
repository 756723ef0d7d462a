package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/spektr-org/crediview/dashboard"
	"github.com/spektr-org/crediview/engine"
)

var summarySelection map[string]string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print every panel as a table",
	Example: `  crediview summary
  crediview summary --select objetivo=EDUCACION --select estado=P`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, err := loadDashboard()
		if err != nil {
			return err
		}
		res := d.Build(engine.Selection(summarySelection))
		writeSummary(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	summaryCmd.Flags().StringToStringVar(&summarySelection, "select", nil,
		"selection key=value ("+strings.Join(dashboard.SelectionKeys(), ", ")+")")
}

func writeSummary(w io.Writer, res *dashboard.Result) {
	if res.Summary != nil {
		fmt.Fprintln(w, res.Summary.Value)
	}
	fmt.Fprintf(w, "Selección: %v\n\n", res.Selection)

	section := ""
	for _, p := range res.Panels {
		if p.Section != section {
			section = p.Section
			fmt.Fprintln(w, strings.ToUpper(section))
		}
		writeTable(w, engine.BuildTable(p.Chart), p.Notes)
		fmt.Fprintln(w)
	}
}

// writeTable renders one TableData with go-pretty.
func writeTable(w io.Writer, td *engine.TableData, notes []string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(td.Title)

	header := make(table.Row, len(td.Columns))
	configs := make([]table.ColumnConfig, len(td.Columns))
	for i, c := range td.Columns {
		header[i] = c.Label
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align(c.Align), AlignHeader: text.AlignCenter}
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)

	for _, r := range td.Rows {
		row := make(table.Row, len(r))
		for i, cell := range r {
			row[i] = cell
		}
		t.AppendRow(row)
	}
	if len(td.Rows) == 0 {
		t.AppendRow(table.Row{"Sin datos"})
	}

	if td.Summary != nil {
		footer := make(table.Row, len(td.Columns))
		for i, c := range td.Columns {
			if i == 0 {
				footer[i] = td.Summary.Label
				continue
			}
			footer[i] = td.Summary.Values[c.Key]
		}
		t.AppendFooter(footer)
	}
	if len(notes) > 0 {
		t.SetCaption("%s", strings.Join(notes, "; "))
	}
	t.Render()
}

func align(a string) text.Align {
	switch a {
	case "right":
		return text.AlignRight
	case "center":
		return text.AlignCenter
	}
	return text.AlignLeft
}
