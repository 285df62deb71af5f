// Package tui is the interactive carousel preview: generator geometry
// drawn as box-drawn rectangles on a canvas scaled to the terminal,
// driven by the same command strings the compositor delivers.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/agausmann/river-layouts/internal/carousel"
	"github.com/agausmann/river-layouts/internal/config"
)

const (
	maxPreviewViews = 64

	// Canvas size for the non-interactive fallback frame.
	staticWidth  = 78
	staticHeight = 22
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	canvasStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("247"))

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
)

// model is the root bubbletea model for the preview.
type model struct {
	state *carousel.State

	usableWidth  int
	usableHeight int
	viewCount    int

	configuredGap int
	focusIndex    int

	keys keyMap
	help help.Model

	lastCommand string

	width  int
	height int
}

func newModel(defaults config.Carousel, viewCount, usableWidth, usableHeight int) model {
	m := model{
		state:         carousel.NewState(defaults),
		usableWidth:   usableWidth,
		usableHeight:  usableHeight,
		viewCount:     viewCount,
		configuredGap: defaults.Gap,
		focusIndex:    -1,
		keys:          defaultKeyMap(),
		help:          help.New(),
	}
	m.state.Observe(viewCount, usableWidth, usableHeight, 1)
	return m
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.AddView):
			m.setViewCount(m.viewCount + 1)
		case key.Matches(msg, m.keys.RemoveView):
			m.setViewCount(m.viewCount - 1)
		case key.Matches(msg, m.keys.MoreMain):
			m.exec("main-count +1")
		case key.Matches(msg, m.keys.LessMain):
			m.exec("main-count -1")
		case key.Matches(msg, m.keys.ShrinkMain):
			m.exec("main-ratio -0.05")
		case key.Matches(msg, m.keys.GrowMain):
			m.exec("main-ratio +0.05")
		case key.Matches(msg, m.keys.ScrollPrev):
			m.exec("scroll prev")
		case key.Matches(msg, m.keys.ScrollNext):
			m.exec("scroll next")
		case key.Matches(msg, m.keys.ScrollReset):
			m.exec("scroll reset")
		case key.Matches(msg, m.keys.ToggleGap):
			m.toggleGap()
		case key.Matches(msg, m.keys.FocusNext):
			m.focusNext()
		case key.Matches(msg, m.keys.SwapSide):
			m.swapSide()
		}
	}
	return m, nil
}

// exec parses and applies one command, the exact path a compositor
// user_command takes, then re-clamps against the current demand.
func (m *model) exec(cmd string) {
	op, err := carousel.ParseCommand(cmd)
	if err != nil {
		return
	}
	m.state.Apply(op)
	m.state.Observe(m.viewCount, m.usableWidth, m.usableHeight, 1)
	m.lastCommand = cmd
}

func (m *model) setViewCount(n int) {
	if n < 0 {
		n = 0
	}
	if n > maxPreviewViews {
		n = maxPreviewViews
	}
	m.viewCount = n
	m.state.Observe(n, m.usableWidth, m.usableHeight, 1)
}

// toggleGap flips between the configured gap and none.
func (m *model) toggleGap() {
	if m.state.Gap != 0 {
		m.state.Gap = 0
	} else {
		m.state.Gap = m.configuredGap
	}
	m.state.Observe(m.viewCount, m.usableWidth, m.usableHeight, 1)
	m.lastCommand = ""
}

// focusNext cycles focus-follow through the secondary columns.
func (m *model) focusNext() {
	sec := m.state.Metrics().SecondaryCount
	if sec == 0 {
		return
	}
	m.focusIndex = (m.focusIndex + 1) % sec
	m.exec(fmt.Sprintf("focus-follow %d", m.focusIndex))
}

func (m *model) swapSide() {
	if m.state.MainLocation == config.MainLocationRight {
		m.exec("main-location left")
	} else {
		m.exec("main-location right")
	}
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	title := titleStyle.Render(fmt.Sprintf("carousel preview  %d×%d", m.usableWidth, m.usableHeight))

	views := carousel.Compute(m.usableWidth, m.usableHeight, m.viewCount, m.state.Params())
	summary := summaryStyle.Render(summarize(views))
	status := m.renderStatus()
	helpView := m.help.View(m.keys)

	chrome := lipgloss.Height(title) + lipgloss.Height(summary) +
		lipgloss.Height(status) + lipgloss.Height(helpView)
	canvasHeight := m.height - chrome
	if canvasHeight < 3 {
		canvasHeight = 3
	}
	canvasWidth := m.width
	if canvasWidth < 5 {
		canvasWidth = 5
	}

	lines := renderFrame(views, m.usableWidth, m.usableHeight, canvasWidth, canvasHeight)
	canvas := canvasStyle.Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, title, canvas, summary, status, helpView)
}

// renderStatus shows the state record and the derived max offset, with
// the last applied command on the right.
func (m model) renderStatus() string {
	met := m.state.Metrics()

	left := fmt.Sprintf("views:%d  main:%d  ratio:%.2f  offset:%.0f/%.0f  col:%s  gap:%d  side:%s",
		m.viewCount, m.state.MainCount, m.state.MainRatio,
		m.state.ScrollOffset, met.MaxOffset,
		m.state.ColumnWidth, m.state.Gap, m.state.MainLocation)

	right := ""
	if m.lastCommand != "" {
		right = commandStyle.Render("cmd: " + m.lastCommand)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return statusStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// RenderOnce returns a single static frame for non-interactive callers.
func RenderOnce(defaults config.Carousel, viewCount, usableWidth, usableHeight int) string {
	st := carousel.NewState(defaults)
	st.Observe(viewCount, usableWidth, usableHeight, 1)
	views := carousel.Compute(usableWidth, usableHeight, viewCount, st.Params())
	lines := renderFrame(views, usableWidth, usableHeight, staticWidth, staticHeight)
	return strings.Join(lines, "\n") + "\n" + summarize(views)
}

// Run opens the interactive preview. When stdin or stdout is not a
// terminal it prints one static frame and returns.
func Run(defaults config.Carousel, viewCount, usableWidth, usableHeight int) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(RenderOnce(defaults, viewCount, usableWidth, usableHeight))
		return nil
	}

	p := tea.NewProgram(newModel(defaults, viewCount, usableWidth, usableHeight), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
