package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agausmann/river-layouts/internal/carousel"
	"github.com/agausmann/river-layouts/internal/ipc"
)

func newStatusCmd() *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show a running generator's state",
		Long: `Query a running generator over its control socket and print the
session phase and per-output state.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ipc.NewClient(namespace)
			status, err := client.GetStatus()
			if err != nil {
				return err
			}
			outputs, err := client.GetOutputs()
			if err != nil {
				return err
			}

			fmt.Printf("namespace:      %s\n", status.Namespace)
			fmt.Printf("phase:          %s\n", status.Phase)
			fmt.Printf("outputs:        %d\n", status.OutputCount)
			fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
			for _, out := range outputs.Outputs {
				fmt.Printf("\n[%s]\n", out.Name)
				st := out.Carousel
				if st == nil {
					continue
				}
				fmt.Printf("main_count:    %d\n", st.MainCount)
				fmt.Printf("main_ratio:    %.2f\n", st.MainRatio)
				fmt.Printf("scroll_offset: %.0f/%.0f\n", st.ScrollOffset, st.MaxOffset)
				fmt.Printf("column_width:  %s\n", st.ColumnWidth)
				fmt.Printf("gap:           %d\n", st.Gap)
				fmt.Printf("main_location: %s\n", st.MainLocation)
				fmt.Printf("last_demand:   %d views @ %dx%d\n", st.LastViewCount, st.LastUsableWidth, st.LastUsableHeight)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&namespace, "namespace", carousel.Namespace, "generator namespace to query")

	return cmd
}
