package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/spektr-org/crediview/schema"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the discovered column schema as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, view, err := loadDashboard()
		if err != nil {
			return err
		}
		c := schema.Describe(view, schema.DiscoverOptions{Source: cfg.Data.Path})
		logger.Info(c.Summary())

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	},
}
