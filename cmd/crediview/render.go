package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/crediview/engine"
	"github.com/spektr-org/crediview/render"
)

var (
	renderOut       string
	renderSelection map[string]string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write every panel as a PNG file",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, err := loadDashboard()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(renderOut, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", renderOut, err)
		}

		res := d.Build(engine.Selection(renderSelection))
		for _, p := range res.Panels {
			path := filepath.Join(renderOut, p.ID+".png")
			if err := writePNG(path, p.Chart); err != nil {
				return err
			}
			logger.Info("chart written", zap.String("panel", p.ID), zap.String("path", path))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d charts written to %s\n", len(res.Panels), renderOut)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderOut, "out", "charts", "output directory")
	renderCmd.Flags().StringToStringVar(&renderSelection, "select", nil, "selection key=value")
}

func writePNG(path string, chart *engine.ChartConfig) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return render.PNG(f, chart, cfg.Render.Width, cfg.Render.Height)
}
