package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agausmann/river-layouts/internal/tui"
)

func newPreviewCmd() *cobra.Command {
	var (
		views  int
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview carousel geometry in the terminal",
		Long: `Render the carousel layout as box-drawn rectangles and drive it with
the same commands a compositor would send. Prints a single static frame
when stdout is not a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if views < 0 {
				return fmt.Errorf("--views must not be negative, got %d", views)
			}
			if width <= 0 || height <= 0 {
				return fmt.Errorf("--width and --height must be positive, got %dx%d", width, height)
			}
			cfg := configFromContext(cmd.Context())
			return tui.Run(cfg.Carousel, views, width, height)
		},
	}

	cmd.Flags().IntVar(&views, "views", 5, "number of views to lay out")
	cmd.Flags().IntVar(&width, "width", 1920, "usable output width in pixels")
	cmd.Flags().IntVar(&height, "height", 1080, "usable output height in pixels")

	return cmd
}
