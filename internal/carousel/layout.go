// Package carousel implements the carousel layout: a fixed main area next
// to a horizontally scrollable strip of secondary views. Secondary views
// keep their width when views come and go; the strip simply extends past
// the output edge and the compositor clips it.
package carousel

import (
	"math"

	"github.com/agausmann/river-layouts/internal/config"
	"github.com/agausmann/river-layouts/internal/generator"
)

// Params are the carousel parameters for one layout pass.
type Params struct {
	MainCount    int
	MainRatio    float64
	ScrollOffset float64
	ColumnWidth  config.ColumnWidth
	Gap          int
	MainLocation config.MainLocation
}

// Metrics are the derived measurements shared by layout generation,
// scroll clamping, and the scroll commands.
type Metrics struct {
	MainCount      int // effective count, min(MainCount, viewCount)
	SecondaryCount int
	MainX          int
	MainWidth      int
	ViewportX      int
	ViewportWidth  int
	ColumnWidth    int
	Stride         int     // ColumnWidth + Gap
	MaxOffset      float64 // max(0, content width - viewport width)
}

// ComputeMetrics derives the split and carousel measurements for the given
// usable area and view count. It is pure; degenerate inputs produce
// zero-valued metrics rather than errors.
func ComputeMetrics(usableWidth, usableHeight, viewCount int, p Params) Metrics {
	var m Metrics

	if viewCount <= 0 {
		return m
	}

	m.MainCount = p.MainCount
	if m.MainCount < 1 {
		m.MainCount = 1
	}
	if m.MainCount > viewCount {
		m.MainCount = viewCount
	}
	m.SecondaryCount = viewCount - m.MainCount

	if usableWidth <= 0 || usableHeight <= 0 {
		return m
	}

	g := p.Gap

	if m.SecondaryCount == 0 {
		// No secondary viewport: the main area takes the full padded
		// output regardless of ratio.
		m.MainX = g
		m.MainWidth = usableWidth - 2*g
		if m.MainWidth < 0 {
			m.MainWidth = 0
		}
		return m
	}

	// Interior width after the two outer gaps and the split gap.
	inner := usableWidth - 3*g
	if inner < 0 {
		inner = 0
	}

	m.MainWidth = int(math.Round(float64(inner) * p.MainRatio))
	if m.MainWidth < 0 {
		m.MainWidth = 0
	}
	if m.MainWidth > inner {
		m.MainWidth = inner
	}
	m.ViewportWidth = inner - m.MainWidth

	if p.MainLocation == config.MainLocationRight {
		m.ViewportX = g
		m.MainX = 2*g + m.ViewportWidth
	} else {
		m.MainX = g
		m.ViewportX = 2*g + m.MainWidth
	}

	if p.ColumnWidth.Auto {
		m.ColumnWidth = m.ViewportWidth
	} else {
		m.ColumnWidth = int(math.Round(p.ColumnWidth.Pixels))
	}
	if m.ColumnWidth < 0 {
		m.ColumnWidth = 0
	}
	m.Stride = m.ColumnWidth + g

	// Content width: n columns plus n-1 inter-column gaps.
	content := m.SecondaryCount*m.ColumnWidth + (m.SecondaryCount-1)*g
	m.MaxOffset = float64(content - m.ViewportWidth)
	if m.MaxOffset < 0 {
		m.MaxOffset = 0
	}

	return m
}

// ClampOffset returns offset clamped to [0, max].
func ClampOffset(offset, max float64) float64 {
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}

// Compute returns one rectangle per view: first the main views stacked
// vertically in the main area, then the secondary views left to right
// along the carousel. The slice always has length viewCount; views that
// land outside the output are emitted unchanged, never dropped or
// resized. Zero or negative usable area yields zero-area rectangles.
func Compute(usableWidth, usableHeight, viewCount int, p Params) []generator.Rect {
	if viewCount <= 0 {
		return nil
	}

	if usableWidth <= 0 || usableHeight <= 0 {
		return make([]generator.Rect, viewCount)
	}

	m := ComputeMetrics(usableWidth, usableHeight, viewCount, p)
	g := p.Gap

	areaHeight := usableHeight - 2*g
	if areaHeight < 0 {
		areaHeight = 0
	}

	rects := make([]generator.Rect, 0, viewCount)
	rects = append(rects, stackRows(m.MainX, g, m.MainWidth, areaHeight, m.MainCount, g)...)

	if m.SecondaryCount == 0 {
		return rects
	}

	offset := int(math.Round(ClampOffset(p.ScrollOffset, m.MaxOffset)))
	for i := 0; i < m.SecondaryCount; i++ {
		rects = append(rects, generator.Rect{
			X:      m.ViewportX - offset + i*m.Stride,
			Y:      g,
			Width:  m.ColumnWidth,
			Height: areaHeight,
		})
	}

	return rects
}

// stackRows splits a column into count rows separated by gap. Integer
// division leaves a remainder; it goes to the last row so the rows plus
// gaps always sum exactly to height.
func stackRows(x, y, width, height, count, gap int) []generator.Rect {
	rows := make([]generator.Rect, count)

	rowHeight := (height - (count-1)*gap) / count
	if rowHeight < 0 {
		rowHeight = 0
	}

	for i := 0; i < count; i++ {
		h := rowHeight
		if i == count-1 {
			h = height - (count-1)*(rowHeight+gap)
			if h < 0 {
				h = 0
			}
		}
		rows[i] = generator.Rect{
			X:      x,
			Y:      y + i*(rowHeight+gap),
			Width:  width,
			Height: h,
		}
	}

	return rows
}
