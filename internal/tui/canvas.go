package tui

import (
	"fmt"
	"strings"

	"github.com/agausmann/river-layouts/internal/generator"
)

// renderFrame draws one box per view on a rune canvas scaled down from
// the usable area, numbered in push order, inside a double-line frame
// standing in for the output edge. Views outside the output are clipped
// at the frame; views entirely outside it are not drawn at all.
func renderFrame(views []generator.Rect, usableWidth, usableHeight, width, height int) []string {
	if width < 5 || height < 3 || usableWidth <= 0 || usableHeight <= 0 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i, r := range views {
		drawView(canvas, r, i+1, usableWidth, usableHeight, width, height)
	}

	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func drawView(canvas [][]rune, r generator.Rect, num, usableW, usableH, canvasW, canvasH int) {
	// Map output coordinates to canvas coordinates. Scrolled-out views
	// have negative x; the clamp below pins them to the frame edge.
	x1 := r.X * canvasW / usableW
	y1 := r.Y * canvasH / usableH
	x2 := (r.X + r.Width) * canvasW / usableW
	y2 := (r.Y + r.Height) * canvasH / usableH

	if x1 < 1 {
		x1 = 1
	}
	if y1 < 1 {
		y1 = 1
	}
	if x2 >= canvasW-1 {
		x2 = canvasW - 2
	}
	if y2 >= canvasH-1 {
		y2 = canvasH - 2
	}

	// Need at least 2x2 to draw a box
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}

	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	// View number in the center
	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 && centerX > x1 && centerX < x2 {
		label := fmt.Sprintf("%d", num)
		startX := centerX - len(label)/2
		for i, ch := range label {
			if startX+i > x1 && startX+i < x2 {
				canvas[centerY][startX+i] = ch
			}
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}

	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = empty
	}
	return lines
}

// summarize describes the pushed geometry in one line.
func summarize(views []generator.Rect) string {
	if len(views) == 0 {
		return "no views"
	}

	minW, minH := views[0].Width, views[0].Height
	maxW, maxH := views[0].Width, views[0].Height
	for _, r := range views[1:] {
		if r.Width < minW {
			minW = r.Width
		}
		if r.Height < minH {
			minH = r.Height
		}
		if r.Width > maxW {
			maxW = r.Width
		}
		if r.Height > maxH {
			maxH = r.Height
		}
	}

	if minW == maxW && minH == maxH {
		return fmt.Sprintf("%d views • %d×%d px each", len(views), minW, minH)
	}
	return fmt.Sprintf("%d views • min %d×%d • max %d×%d", len(views), minW, minH, maxW, maxH)
}
