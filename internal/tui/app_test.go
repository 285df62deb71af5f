package tui

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agausmann/river-layouts/internal/config"
)

func testDefaults() config.Carousel {
	return config.Carousel{
		MainRatio:    0.5,
		MainCount:    1,
		ColumnWidth:  config.ColumnWidth{Auto: true},
		Gap:          6,
		MainLocation: config.MainLocationLeft,
	}
}

func press(t *testing.T, m model, keys ...string) model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(model)
	}
	return m
}

func TestKeysDriveCarouselState(t *testing.T) {
	m := newModel(testDefaults(), 3, 1920, 1080)

	m = press(t, m, "+")
	if m.viewCount != 4 {
		t.Fatalf("viewCount = %d after +, want 4", m.viewCount)
	}

	m = press(t, m, "m")
	if m.state.MainCount != 2 {
		t.Fatalf("MainCount = %d after m, want 2", m.state.MainCount)
	}

	// 4 views, 2 main, gap 6: interior 1902, viewport 951, auto column
	// 951, stride 957; content 2*951+6 = 1908, so maxOffset = 957. One
	// scroll lands exactly on the clamp; a second one stays there.
	m = press(t, m, "right")
	if m.state.ScrollOffset != 957 {
		t.Fatalf("ScrollOffset = %v after scroll, want 957", m.state.ScrollOffset)
	}
	m = press(t, m, "right")
	if m.state.ScrollOffset != 957 {
		t.Fatalf("ScrollOffset = %v after second scroll, want 957", m.state.ScrollOffset)
	}

	m = press(t, m, "0")
	if m.state.ScrollOffset != 0 {
		t.Fatalf("ScrollOffset = %v after reset, want 0", m.state.ScrollOffset)
	}

	m = press(t, m, "h")
	if math.Abs(m.state.MainRatio-0.45) > 1e-9 {
		t.Fatalf("MainRatio = %v after h, want 0.45", m.state.MainRatio)
	}

	m = press(t, m, "g")
	if m.state.Gap != 0 {
		t.Fatalf("Gap = %d after toggle, want 0", m.state.Gap)
	}
	m = press(t, m, "g")
	if m.state.Gap != 6 {
		t.Fatalf("Gap = %d after second toggle, want 6", m.state.Gap)
	}

	m = press(t, m, "s")
	if m.state.MainLocation != config.MainLocationRight {
		t.Fatalf("MainLocation = %q after s, want right", m.state.MainLocation)
	}
	m = press(t, m, "s")
	if m.state.MainLocation != config.MainLocationLeft {
		t.Fatalf("MainLocation = %q after second s, want left", m.state.MainLocation)
	}
}

func TestFocusNextCyclesColumns(t *testing.T) {
	m := newModel(testDefaults(), 3, 1920, 1080)

	// Two secondary columns, viewport 951, stride 957. Column 0 is
	// already visible; column 1 needs the full 957; wrapping back pulls
	// the offset to 0 again.
	m = press(t, m, "f")
	if m.state.ScrollOffset != 0 {
		t.Fatalf("ScrollOffset = %v after first f, want 0", m.state.ScrollOffset)
	}
	m = press(t, m, "f")
	if m.state.ScrollOffset != 957 {
		t.Fatalf("ScrollOffset = %v after second f, want 957", m.state.ScrollOffset)
	}
	m = press(t, m, "f")
	if m.state.ScrollOffset != 0 {
		t.Fatalf("ScrollOffset = %v after third f, want 0", m.state.ScrollOffset)
	}
}

func TestViewCountNeverNegative(t *testing.T) {
	m := newModel(testDefaults(), 1, 1920, 1080)
	m = press(t, m, "-", "-")
	if m.viewCount != 0 {
		t.Fatalf("viewCount = %d, want 0", m.viewCount)
	}
	// MainCount is clamped against the empty demand, not below 1.
	if m.state.MainCount != 1 {
		t.Fatalf("MainCount = %d with no views, want 1", m.state.MainCount)
	}
}

func TestQuitKey(t *testing.T) {
	m := newModel(testDefaults(), 3, 1920, 1080)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q produced %T, want tea.QuitMsg", cmd())
	}
}

func TestViewRendersFrameAndStatus(t *testing.T) {
	m := newModel(testDefaults(), 3, 1920, 1080)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(model)

	out := m.View()
	if !strings.Contains(out, "╔") {
		t.Error("view has no canvas frame")
	}
	if !strings.Contains(out, "views:3") {
		t.Errorf("status line missing view count:\n%s", out)
	}
	if !strings.Contains(out, "offset:0/957") {
		t.Errorf("status line missing offset/max:\n%s", out)
	}
}

func TestRenderOnce(t *testing.T) {
	out := RenderOnce(testDefaults(), 1, 1920, 1080)
	if !strings.Contains(out, "╔") {
		t.Error("static frame has no border")
	}
	// A lone view takes the whole padded output.
	if !strings.Contains(out, "1 views • 1908×1068 px each") {
		t.Errorf("static summary wrong:\n%s", out)
	}
}
