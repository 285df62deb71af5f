// Package generator drives a layout over the river-layout-v3 protocol.
// A Layout supplies geometry and command handling; the Machine tracks
// protocol state and turns compositor events into protocol requests; the
// Runner owns the Wayland connection and pumps events through the Machine.
package generator

import "errors"

// Rect is one view's position and size. X and Y may be negative or past
// the output edge; the compositor clips.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// GeneratedLayout is the result of one layout demand: one rectangle per
// view, in the compositor's view order, plus the name the layout commits
// under.
type GeneratedLayout struct {
	Name  string
	Views []Rect
}

// Layout is a layout generator. Calls are strictly sequential: the
// Machine processes one event to completion before the next, so
// implementations need no locking.
type Layout interface {
	// Namespace identifies the generator to the compositor. It must be
	// unique per Wayland session.
	Namespace() string

	// GenerateLayout produces geometry for viewCount views on the named
	// output. It is called once per layout demand and must return
	// exactly viewCount rectangles.
	GenerateLayout(viewCount, usableWidth, usableHeight, tags uint32, output string) (GeneratedLayout, error)

	// UserCommand applies a command string sent through the compositor.
	// An error rejects the command without ending the session.
	UserCommand(cmd string, tags uint32, output string) error

	// OutputRemoved discards any per-output state for the named output.
	OutputRemoved(output string)
}

// ErrNamespaceInUse is returned when the compositor rejects the
// generator's namespace because another client already claimed it.
var ErrNamespaceInUse = errors.New("layout namespace already in use")

// ErrConnectionLost is returned when the compositor connection ends
// while the generator is still running.
var ErrConnectionLost = errors.New("compositor connection lost")
