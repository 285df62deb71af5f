package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/agausmann/river-layouts/internal/carousel"
	"github.com/agausmann/river-layouts/internal/config"
	"github.com/agausmann/river-layouts/internal/generator"
	"github.com/agausmann/river-layouts/internal/uniformgrid"
)

func (s *Server) handleLayoutStatus(_ context.Context, _ *mcpsdk.CallToolRequest, args LayoutStatusInput) (*mcpsdk.CallToolResult, LayoutStatusOutput, error) {
	namespace := strings.TrimSpace(args.Namespace)
	if namespace == "" {
		namespace = carousel.Namespace
	}

	client := s.newClient(namespace)
	status, err := client.GetStatus()
	if err != nil {
		return nil, LayoutStatusOutput{}, fmt.Errorf("querying %s generator: %w", namespace, err)
	}
	outputs, err := client.GetOutputs()
	if err != nil {
		return nil, LayoutStatusOutput{}, fmt.Errorf("querying %s outputs: %w", namespace, err)
	}

	out := LayoutStatusOutput{
		Namespace:     status.Namespace,
		Phase:         status.Phase,
		OutputCount:   status.OutputCount,
		UptimeSeconds: status.UptimeSeconds,
		Outputs:       make([]OutputSummary, len(outputs.Outputs)),
	}
	for i, o := range outputs.Outputs {
		out.Outputs[i] = OutputSummary{Name: o.Name}
		if o.Carousel != nil {
			out.Outputs[i].Carousel = &CarouselSummary{
				MainCount:    o.Carousel.MainCount,
				MainRatio:    o.Carousel.MainRatio,
				ScrollOffset: o.Carousel.ScrollOffset,
				MaxOffset:    o.Carousel.MaxOffset,
				ColumnWidth:  o.Carousel.ColumnWidth,
				Gap:          o.Carousel.Gap,
				MainLocation: o.Carousel.MainLocation,
			}
		}
	}
	return nil, out, nil
}

func (s *Server) handleComputeLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args ComputeLayoutInput) (*mcpsdk.CallToolResult, ComputeLayoutOutput, error) {
	if args.ViewCount < 0 {
		return nil, ComputeLayoutOutput{}, fmt.Errorf("view_count must not be negative, got %d", args.ViewCount)
	}
	if args.Width <= 0 || args.Height <= 0 {
		return nil, ComputeLayoutOutput{}, fmt.Errorf("width and height must be positive, got %dx%d", args.Width, args.Height)
	}

	layout := strings.TrimSpace(args.Layout)
	if layout == "" {
		layout = carousel.Namespace
	}

	switch layout {
	case carousel.Namespace:
		return s.computeCarousel(args)
	case uniformgrid.Namespace:
		return s.computeUniformGrid(args)
	default:
		return nil, ComputeLayoutOutput{}, fmt.Errorf("unknown layout %q; available: %s, %s", layout, carousel.Namespace, uniformgrid.Namespace)
	}
}

func (s *Server) computeCarousel(args ComputeLayoutInput) (*mcpsdk.CallToolResult, ComputeLayoutOutput, error) {
	defaults := s.cfg.Carousel
	params := carousel.Params{
		MainCount:    defaults.MainCount,
		MainRatio:    defaults.MainRatio,
		ColumnWidth:  defaults.ColumnWidth,
		Gap:          defaults.Gap,
		MainLocation: defaults.MainLocation,
	}

	if args.MainCount != nil {
		if *args.MainCount < 1 {
			return nil, ComputeLayoutOutput{}, fmt.Errorf("main_count must be at least 1, got %d", *args.MainCount)
		}
		params.MainCount = *args.MainCount
	}
	if args.MainRatio != nil {
		if *args.MainRatio < 0.05 || *args.MainRatio > 0.95 {
			return nil, ComputeLayoutOutput{}, fmt.Errorf("main_ratio must be in [0.05, 0.95], got %v", *args.MainRatio)
		}
		params.MainRatio = *args.MainRatio
	}
	if args.ScrollOffset != nil {
		params.ScrollOffset = *args.ScrollOffset
	}
	if args.ColumnWidth != nil {
		cw, err := config.ParseColumnWidth(*args.ColumnWidth)
		if err != nil {
			return nil, ComputeLayoutOutput{}, err
		}
		params.ColumnWidth = cw
	}
	if args.Gap != nil {
		if *args.Gap < 0 {
			return nil, ComputeLayoutOutput{}, fmt.Errorf("gap must not be negative, got %d", *args.Gap)
		}
		params.Gap = *args.Gap
	}
	if args.MainLocation != nil {
		switch config.MainLocation(*args.MainLocation) {
		case config.MainLocationLeft, config.MainLocationRight:
			params.MainLocation = config.MainLocation(*args.MainLocation)
		default:
			return nil, ComputeLayoutOutput{}, fmt.Errorf("main_location must be left or right, got %q", *args.MainLocation)
		}
	}

	views := carousel.Compute(args.Width, args.Height, args.ViewCount, params)
	return nil, ComputeLayoutOutput{Name: carousel.Namespace, Views: viewRects(views)}, nil
}

func (s *Server) computeUniformGrid(args ComputeLayoutInput) (*mcpsdk.CallToolResult, ComputeLayoutOutput, error) {
	cfg := s.cfg.UniformGrid
	if args.TargetAspect != nil {
		if *args.TargetAspect <= 0 {
			return nil, ComputeLayoutOutput{}, fmt.Errorf("target_aspect must be positive, got %v", *args.TargetAspect)
		}
		cfg.TargetAspect = *args.TargetAspect
	}
	if args.Gap != nil {
		if *args.Gap < 0 {
			return nil, ComputeLayoutOutput{}, fmt.Errorf("gap must not be negative, got %d", *args.Gap)
		}
		cfg.Gap = *args.Gap
	}

	views, size := uniformgrid.Compute(args.ViewCount, args.Width, args.Height, cfg)
	name := fmt.Sprintf("%s: %dx%d", uniformgrid.Namespace, size.Rows, size.Cols)
	return nil, ComputeLayoutOutput{Name: name, Views: viewRects(views)}, nil
}

func (s *Server) handleListCommands(_ context.Context, _ *mcpsdk.CallToolRequest, args ListCommandsInput) (*mcpsdk.CallToolResult, ListCommandsOutput, error) {
	layout := strings.TrimSpace(args.Layout)
	if layout == "" {
		layout = carousel.Namespace
	}

	switch layout {
	case carousel.Namespace:
		return nil, ListCommandsOutput{Layout: layout, Commands: carouselCommands}, nil
	case uniformgrid.Namespace:
		// The grid is fully determined by view count and config.
		return nil, ListCommandsOutput{Layout: layout, Commands: []CommandDoc{}}, nil
	default:
		return nil, ListCommandsOutput{}, fmt.Errorf("unknown layout %q; available: %s, %s", layout, carousel.Namespace, uniformgrid.Namespace)
	}
}

var carouselCommands = []CommandDoc{
	{
		Syntax:      "main-count (+|-)N",
		Description: "Adjust how many views stack in the main area. The count clamps to [1, view count] on the next demand.",
	},
	{
		Syntax:      "main-ratio (+|-)F",
		Description: "Adjust the fraction of the usable width given to the main area. Clamps to [0.05, 0.95].",
	},
	{
		Syntax:      "scroll next",
		Description: "Scroll the secondary strip one column stride to the right, clamped to the last column.",
	},
	{
		Syntax:      "scroll prev",
		Description: "Scroll the secondary strip one column stride to the left, clamped to zero.",
	},
	{
		Syntax:      "scroll reset",
		Description: "Reset the secondary strip to its leftmost position.",
	},
	{
		Syntax:      "focus-follow INDEX",
		Description: "Scroll the minimal distance that brings secondary view INDEX (0-based) fully into the viewport.",
	},
	{
		Syntax:      "main-location left|right",
		Description: "Move the main area to the given side of the output; the secondary strip takes the other side.",
	},
}

func viewRects(views []generator.Rect) []ViewRect {
	out := make([]ViewRect, len(views))
	for i, v := range views {
		out[i] = ViewRect{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}
	}
	return out
}
