package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"forcemap/internal/aggregate"
	"forcemap/internal/client"
	"forcemap/internal/dashboard"
	"forcemap/internal/render"
)

var clearSelection bool

var renderCmd = &cobra.Command{
	Use:   "render [YEAR]",
	Short: "Build the dashboard for a year from a running API",
	Long: `render fetches the cases for YEAR from the API, writes the marker map and
per-category pie charts into the output directory, and updates the dashboard
index page. With --clear the selection is reset and the output emptied.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		year := dashboard.YearNone
		if len(args) == 1 {
			year = args[0]
		}
		if !clearSelection && year == dashboard.YearNone {
			return fmt.Errorf("pass a YEAR or --clear")
		}
		if clearSelection {
			year = dashboard.YearNone
		}

		dc := cfg.Dashboard
		source := client.New(cfg.Server.BaseURL, logger)
		mapLayer := render.NewLeafletMap(dc.OutputDir, dc.TileURL, dc.TileToken, logger)
		racePanel := render.NewPiePanel("race", dc.OutputDir, dc.ChartWidth, dc.ChartHeight, logger)
		sexPanel := render.NewPiePanel("sex", dc.OutputDir, dc.ChartWidth, dc.ChartHeight, logger)
		indicator := render.NewStatusFile(dc.OutputDir, logger)

		orch := dashboard.New(source, mapLayer, map[aggregate.Dimension]dashboard.ChartPanel{
			aggregate.DimensionRace: racePanel,
			aggregate.DimensionSex:  sexPanel,
		}, indicator, logger)

		if err := orch.Apply(cmd.Context(), year); err != nil {
			return err
		}
		if err := render.WriteIndex(dc.OutputDir, year, []*render.PiePanel{racePanel, sexPanel}); err != nil {
			return err
		}

		if year == dashboard.YearNone {
			fmt.Printf("dashboard cleared in %s\n", dc.OutputDir)
		} else {
			fmt.Printf("dashboard for %s written to %s\n", year, dc.OutputDir)
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().BoolVar(&clearSelection, "clear", false, "apply the no-selection sentinel")
}
