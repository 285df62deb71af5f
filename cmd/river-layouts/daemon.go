package main

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/agausmann/river-layouts/internal/carousel"
	"github.com/agausmann/river-layouts/internal/config"
	"github.com/agausmann/river-layouts/internal/generator"
	"github.com/agausmann/river-layouts/internal/ipc"
	"github.com/agausmann/river-layouts/internal/uniformgrid"
)

func newCarouselCmd() *cobra.Command {
	var (
		mainRatio    float64
		mainCount    int
		columnWidth  string
		gap          int
		mainLocation string
	)

	cmd := &cobra.Command{
		Use:   "carousel",
		Short: "Run the carousel layout generator",
		Long: `Run the carousel generator in the foreground. The main area keeps a
fixed share of each output; every other view joins a horizontally
scrolling strip of equal-width columns. Flags override config file
values; runtime commands arrive through
'riverctl send-layout-cmd carousel -- <command>'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			logger := loggerFromContext(cmd.Context())

			fl := cmd.Flags()
			if fl.Changed("main-ratio") {
				cfg.Carousel.MainRatio = mainRatio
			}
			if fl.Changed("main-count") {
				cfg.Carousel.MainCount = mainCount
			}
			if fl.Changed("column-width") {
				cw, err := config.ParseColumnWidth(columnWidth)
				if err != nil {
					return err
				}
				cfg.Carousel.ColumnWidth = cw
			}
			if fl.Changed("gap") {
				cfg.Carousel.Gap = gap
			}
			if fl.Changed("main-location") {
				cfg.Carousel.MainLocation = config.MainLocation(mainLocation)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			car := carousel.New(cfg.Carousel, logger)
			return runGenerator(cmd.Context(), cfg, car, car, logger)
		},
	}

	cmd.Flags().Float64Var(&mainRatio, "main-ratio", 0.5, "fraction of the usable width given to the main area")
	cmd.Flags().IntVar(&mainCount, "main-count", 1, "number of views stacked in the main area")
	cmd.Flags().StringVar(&columnWidth, "column-width", "auto", `secondary column width in pixels, or "auto"`)
	cmd.Flags().IntVar(&gap, "gap", 6, "gap between views and around the edge, in pixels")
	cmd.Flags().StringVar(&mainLocation, "main-location", "left", "side of the output holding the main area (left|right)")

	return cmd
}

func newUniformGridCmd() *cobra.Command {
	var (
		targetAspect float64
		gap          int
	)

	cmd := &cobra.Command{
		Use:   "uniform-grid",
		Short: "Run the uniform-grid layout generator",
		Long: `Run the uniform-grid generator in the foreground. Every view gets an
identically sized cell; the grid grows one axis at a time toward the
target cell aspect ratio and fills cells in snaking row order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			logger := loggerFromContext(cmd.Context())

			fl := cmd.Flags()
			if fl.Changed("target-aspect") {
				cfg.UniformGrid.TargetAspect = targetAspect
			}
			if fl.Changed("gap") {
				cfg.UniformGrid.Gap = gap
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			grid := uniformgrid.New(cfg.UniformGrid, logger)
			return runGenerator(cmd.Context(), cfg, grid, nil, logger)
		},
	}

	cmd.Flags().Float64Var(&targetAspect, "target-aspect", 16.0/9.0, "width/height ratio the cells grow toward")
	cmd.Flags().IntVar(&gap, "gap", 6, "gap between cells and around the edge, in pixels")

	return cmd
}

// runGenerator drives one layout session. The control socket comes up
// before the Wayland connection so status queries work during
// negotiation; the runner then blocks until the session ends.
func runGenerator(ctx context.Context, cfg *config.Config, layout generator.Layout, car *carousel.Carousel, logger *log.Logger) error {
	runner := generator.NewRunner(layout, logger)

	ctl, err := ipc.NewServer(layout.Namespace(), cfg, runner, car, logger)
	if err != nil {
		return err
	}
	if err := ctl.Start(); err != nil {
		return err
	}
	defer ctl.Stop()

	logger.Info("generator starting", "namespace", layout.Namespace())
	return runner.Run(ctx)
}
