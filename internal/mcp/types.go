package mcp

// LayoutStatusInput is the input for the layout_status tool.
type LayoutStatusInput struct {
	Namespace string `json:"namespace,omitempty" jsonschema:"Generator namespace to query (default: carousel)"`
}

// CarouselSummary is the per-output carousel state included in
// layout_status results.
type CarouselSummary struct {
	MainCount    int     `json:"main_count"`
	MainRatio    float64 `json:"main_ratio"`
	ScrollOffset float64 `json:"scroll_offset"`
	MaxOffset    float64 `json:"max_offset"`
	ColumnWidth  string  `json:"column_width"`
	Gap          int     `json:"gap"`
	MainLocation string  `json:"main_location"`
}

// OutputSummary describes one output known to a running generator.
type OutputSummary struct {
	Name     string           `json:"name"`
	Carousel *CarouselSummary `json:"carousel,omitempty"`
}

// LayoutStatusOutput is the output for the layout_status tool.
type LayoutStatusOutput struct {
	Namespace     string          `json:"namespace"`
	Phase         string          `json:"phase"`
	OutputCount   int             `json:"output_count"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	Outputs       []OutputSummary `json:"outputs"`
}

// ComputeLayoutInput is the input for the compute_layout tool.
// Optional fields default to the generator's configured values.
type ComputeLayoutInput struct {
	Layout       string   `json:"layout,omitempty" jsonschema:"Layout algorithm: carousel (default) or uniform-grid"`
	ViewCount    int      `json:"view_count" jsonschema:"required,Number of views to lay out"`
	Width        int      `json:"width" jsonschema:"required,Usable area width in pixels"`
	Height       int      `json:"height" jsonschema:"required,Usable area height in pixels"`
	MainRatio    *float64 `json:"main_ratio,omitempty" jsonschema:"Fraction of the usable width given to the main area (carousel)"`
	MainCount    *int     `json:"main_count,omitempty" jsonschema:"Number of views stacked in the main area (carousel)"`
	ScrollOffset *float64 `json:"scroll_offset,omitempty" jsonschema:"Horizontal scroll offset of the secondary strip in pixels (carousel)"`
	ColumnWidth  *string  `json:"column_width,omitempty" jsonschema:"Secondary column width: auto or a pixel value (carousel)"`
	Gap          *int     `json:"gap,omitempty" jsonschema:"Gap in pixels between views and against the output edges"`
	MainLocation *string  `json:"main_location,omitempty" jsonschema:"Side of the output holding the main area: left or right (carousel)"`
	TargetAspect *float64 `json:"target_aspect,omitempty" jsonschema:"Target width/height ratio for grid cells (uniform-grid)"`
}

// ViewRect is one view's proposed geometry.
type ViewRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ComputeLayoutOutput is the output for the compute_layout tool.
type ComputeLayoutOutput struct {
	Name  string     `json:"name"`
	Views []ViewRect `json:"views"`
}

// ListCommandsInput is the input for the list_commands tool.
type ListCommandsInput struct {
	Layout string `json:"layout,omitempty" jsonschema:"Layout whose command set to list: carousel (default) or uniform-grid"`
}

// CommandDoc documents one user command.
type CommandDoc struct {
	Syntax      string `json:"syntax"`
	Description string `json:"description"`
}

// ListCommandsOutput is the output for the list_commands tool.
type ListCommandsOutput struct {
	Layout   string       `json:"layout"`
	Commands []CommandDoc `json:"commands"`
}
