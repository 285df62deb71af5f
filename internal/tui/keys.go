package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the preview key bindings.
type keyMap struct {
	AddView     key.Binding
	RemoveView  key.Binding
	MoreMain    key.Binding
	LessMain    key.Binding
	ShrinkMain  key.Binding
	GrowMain    key.Binding
	ScrollPrev  key.Binding
	ScrollNext  key.Binding
	ScrollReset key.Binding
	ToggleGap   key.Binding
	FocusNext   key.Binding
	SwapSide    key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		AddView:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "add view")),
		RemoveView:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "remove view")),
		MoreMain:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "more main views")),
		LessMain:    key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "fewer main views")),
		ShrinkMain:  key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "shrink main area")),
		GrowMain:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "grow main area")),
		ScrollPrev:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "scroll prev")),
		ScrollNext:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "scroll next")),
		ScrollReset: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "scroll reset")),
		ToggleGap:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "toggle gap")),
		FocusNext:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "focus next column")),
		SwapSide:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "swap main side")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddView, k.RemoveView, k.ScrollPrev, k.ScrollNext, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.AddView, k.RemoveView, k.MoreMain, k.LessMain},
		{k.ShrinkMain, k.GrowMain, k.ScrollPrev, k.ScrollNext, k.ScrollReset},
		{k.ToggleGap, k.FocusNext, k.SwapSide, k.Help, k.Quit},
	}
}
