package main

import (
	"github.com/spf13/cobra"

	"github.com/spektr-org/crediview/schema"
	"github.com/spektr-org/crediview/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, view, err := loadDashboard()
		if err != nil {
			return err
		}

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		srv := server.New(d,
			server.WithLogger(logger),
			server.WithRenderSize(cfg.Render.Width, cfg.Render.Height),
			server.WithSchema(schema.Describe(view, schema.DiscoverOptions{Source: cfg.Data.Path})),
		)
		return srv.Run(addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :8501)")
}
