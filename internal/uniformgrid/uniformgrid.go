// Package uniformgrid implements the uniform-grid layout: every view
// gets an identically sized cell, and the grid grows one axis at a time
// toward a target cell aspect ratio. Cells fill in snaking row order.
package uniformgrid

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/agausmann/river-layouts/internal/config"
	"github.com/agausmann/river-layouts/internal/generator"
)

// Namespace identifies the uniform-grid generator to the compositor.
const Namespace = "uniform-grid"

// UniformGrid is the uniform-grid layout generator.
type UniformGrid struct {
	cfg    config.UniformGrid
	logger *log.Logger
}

func New(cfg config.UniformGrid, logger *log.Logger) *UniformGrid {
	return &UniformGrid{cfg: cfg, logger: logger}
}

func (g *UniformGrid) Namespace() string {
	return Namespace
}

// UserCommand rejects everything; the grid has no runtime parameters.
func (g *UniformGrid) UserCommand(cmd string, tags uint32, output string) error {
	fields := strings.Fields(cmd)
	name := ""
	if len(fields) > 0 {
		name = fields[0]
	}
	return fmt.Errorf("unknown command: %q", name)
}

func (g *UniformGrid) GenerateLayout(viewCount, usableWidth, usableHeight, tags uint32, output string) (generator.GeneratedLayout, error) {
	views, size := Compute(int(viewCount), int(usableWidth), int(usableHeight), g.cfg)
	g.logger.Debug("generated grid",
		"output", output,
		"views", viewCount,
		"cols", size.Cols,
		"rows", size.Rows)
	return generator.GeneratedLayout{
		Name:  fmt.Sprintf("%s: %dx%d", Namespace, size.Rows, size.Cols),
		Views: views,
	}, nil
}

func (g *UniformGrid) OutputRemoved(output string) {}

// GridSize is a grid's dimensions in cells.
type GridSize struct {
	Cols int
	Rows int
}

func (s GridSize) cells() int {
	return s.Cols * s.Rows
}

// cellGrid holds the float cell arithmetic for one grid on one output.
// Strides stay fractional; each cell position truncates independently,
// so the cells are uniform and the padding exact.
type cellGrid struct {
	offsetX float64
	offsetY float64
	strideX float64
	strideY float64
	viewW   int
	viewH   int
}

func layoutFor(size GridSize, usableWidth, usableHeight int, cfg config.UniformGrid) cellGrid {
	gap := float64(cfg.Gap)
	paddedW := float64(usableWidth) - 2*gap
	paddedH := float64(usableHeight) - 2*gap

	strideX := (paddedW + gap) / float64(size.Cols)
	strideY := (paddedH + gap) / float64(size.Rows)

	viewW := int(strideX) - cfg.Gap
	viewH := int(strideY) - cfg.Gap
	if viewW < 0 {
		viewW = 0
	}
	if viewH < 0 {
		viewH = 0
	}

	return cellGrid{
		offsetX: gap,
		offsetY: gap,
		strideX: strideX,
		strideY: strideY,
		viewW:   viewW,
		viewH:   viewH,
	}
}

func (c cellGrid) at(col, row int) generator.Rect {
	return generator.Rect{
		X:      int(c.offsetX + c.strideX*float64(col)),
		Y:      int(c.offsetY + c.strideY*float64(row)),
		Width:  c.viewW,
		Height: c.viewH,
	}
}

// efficiency measures how far the cell aspect is from the target, as a
// factor >= 1. A perfect match scores 1.
func (c cellGrid) efficiency(target float64) float64 {
	if c.viewH <= 0 || target <= 0 {
		return math.Inf(1)
	}
	arr := (float64(c.viewW) / float64(c.viewH)) / target
	if arr > 1 {
		return arr
	}
	if arr <= 0 {
		return math.Inf(1)
	}
	return 1 / arr
}

// PlanGrid grows a 1x1 grid one axis at a time until it holds viewCount
// cells, extending whichever axis keeps the cell aspect closest to the
// target. Ties extend columns.
func PlanGrid(viewCount, usableWidth, usableHeight int, cfg config.UniformGrid) GridSize {
	size := GridSize{Cols: 1, Rows: 1}

	for size.cells() < viewCount {
		wider := GridSize{Cols: size.Cols + 1, Rows: size.Rows}
		taller := GridSize{Cols: size.Cols, Rows: size.Rows + 1}

		effWider := efficiencyKey(wider, usableWidth, usableHeight, cfg)
		effTaller := efficiencyKey(taller, usableWidth, usableHeight, cfg)
		if effWider <= effTaller {
			size = wider
		} else {
			size = taller
		}
	}

	return size
}

func efficiencyKey(size GridSize, usableWidth, usableHeight int, cfg config.UniformGrid) int64 {
	eff := layoutFor(size, usableWidth, usableHeight, cfg).efficiency(cfg.TargetAspect)
	if math.IsInf(eff, 1) {
		return math.MaxInt64
	}
	return int64(eff * 1e6)
}

// Compute returns one cell per view in snaking row order: even rows run
// left to right, odd rows right to left.
func Compute(viewCount, usableWidth, usableHeight int, cfg config.UniformGrid) ([]generator.Rect, GridSize) {
	size := GridSize{Cols: 1, Rows: 1}
	if viewCount <= 0 {
		return nil, size
	}

	if usableWidth <= 0 || usableHeight <= 0 {
		return make([]generator.Rect, viewCount), size
	}

	size = PlanGrid(viewCount, usableWidth, usableHeight, cfg)
	grid := layoutFor(size, usableWidth, usableHeight, cfg)

	views := make([]generator.Rect, 0, viewCount)
	for i := 0; i < viewCount; i++ {
		row := i / size.Cols
		col := i % size.Cols
		if row%2 == 1 {
			col = size.Cols - 1 - col
		}
		views = append(views, grid.at(col, row))
	}

	return views, size
}
