package generator

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
)

// Phase is the session's position in the protocol lifecycle.
type Phase int

const (
	PhaseDisconnected Phase = iota
	PhaseNegotiating
	PhaseIdle
	PhaseProcessing
)

func (p Phase) String() string {
	switch p {
	case PhaseDisconnected:
		return "disconnected"
	case PhaseNegotiating:
		return "negotiating"
	case PhaseIdle:
		return "idle"
	case PhaseProcessing:
		return "processing"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Event is a compositor-side occurrence fed into the machine. Outputs
// are identified by an opaque handle chosen by the transport.
type Event interface{}

// OutputAdded announces a new output. GlobalName is the registry's
// numeric name, used for a placeholder identity until the output
// reports its real name.
type OutputAdded struct {
	Output     uint32
	GlobalName uint32
}

// OutputNamed carries the output's stable name, e.g. "DP-1".
type OutputNamed struct {
	Output uint32
	Name   string
}

// OutputRemoved announces that an output disappeared.
type OutputRemoved struct {
	Output uint32
}

// Ready marks the end of session negotiation: globals are bound and
// the first sync has completed.
type Ready struct{}

// Demand asks for geometry for ViewCount views in the usable area.
// The serial must be echoed on the resulting commit.
type Demand struct {
	Output       uint32
	ViewCount    uint32
	UsableWidth  uint32
	UsableHeight uint32
	Tags         uint32
	Serial       uint32
}

// CommandTags carries the focused tags for the command that follows
// it. Compositors below protocol v2 never send it.
type CommandTags struct {
	Output uint32
	Tags   uint32
}

// Command is a user command string addressed to this generator on one
// output.
type Command struct {
	Output  uint32
	Command string
}

// NamespaceTaken reports that another client owns our namespace on the
// output. The session cannot continue.
type NamespaceTaken struct {
	Output uint32
}

// ConnectionLost reports that the transport failed.
type ConnectionLost struct {
	Err error
}

// Request is a protocol request the machine wants sent. Requests
// accumulate until Flush and reference outputs by the transport's
// handle.
type Request interface{}

// BindLayout claims the namespace on an output.
type BindLayout struct {
	Output    uint32
	Namespace string
}

// PushDimensions proposes geometry for one view of the demand
// identified by Serial.
type PushDimensions struct {
	Output        uint32
	X, Y          int32
	Width, Height uint32
	Serial        uint32
}

// CommitLayout finalizes the pushed dimensions under a display name.
type CommitLayout struct {
	Output     uint32
	LayoutName string
	Serial     uint32
}

// ReleaseLayout gives up the namespace claim on an output.
type ReleaseLayout struct {
	Output uint32
}

type machineOutput struct {
	name     string
	bound    bool
	nextTags uint32
	haveTags bool
	lastTags uint32
}

// Machine drives a layout generator through the protocol lifecycle.
// It is pure with respect to I/O: events go in through HandleEvent,
// requests come out through Flush. Not safe for concurrent use.
type Machine struct {
	layout  Layout
	logger  *log.Logger
	phase   Phase
	outputs map[uint32]*machineOutput
	pending []Request
}

// NewMachine returns a machine in the negotiating phase, ready to
// receive the initial output burst.
func NewMachine(layout Layout, logger *log.Logger) *Machine {
	return &Machine{
		layout:  layout,
		logger:  logger,
		phase:   PhaseNegotiating,
		outputs: make(map[uint32]*machineOutput),
	}
}

// Phase reports the machine's current lifecycle phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// OutputNames lists the known outputs by display name, sorted.
func (m *Machine) OutputNames() []string {
	names := make([]string, 0, len(m.outputs))
	for _, o := range m.outputs {
		names = append(names, o.name)
	}
	sort.Strings(names)
	return names
}

// Flush returns the buffered requests in order and clears the buffer.
func (m *Machine) Flush() []Request {
	out := m.pending
	m.pending = nil
	return out
}

// HandleEvent advances the machine by one event. A non-nil error is
// fatal to the session; recoverable problems are logged and absorbed.
func (m *Machine) HandleEvent(ev Event) error {
	if m.phase == PhaseDisconnected {
		m.logger.Debug("ignoring event after disconnect", "event", fmt.Sprintf("%T", ev))
		return nil
	}

	switch ev := ev.(type) {
	case OutputAdded:
		m.addOutput(ev)
	case OutputNamed:
		m.nameOutput(ev)
	case OutputRemoved:
		m.removeOutput(ev.Output)
	case Ready:
		if m.phase == PhaseNegotiating {
			m.phase = PhaseIdle
			m.logger.Debug("session ready", "outputs", len(m.outputs))
		}
	case Demand:
		m.handleDemand(ev)
	case CommandTags:
		if o := m.outputs[ev.Output]; o != nil {
			o.nextTags = ev.Tags
			o.haveTags = true
		}
	case Command:
		m.handleCommand(ev)
	case NamespaceTaken:
		m.phase = PhaseDisconnected
		m.logger.Error("namespace already in use", "output", m.outputName(ev.Output))
		return ErrNamespaceInUse
	case ConnectionLost:
		m.phase = PhaseDisconnected
		if ev.Err != nil {
			return fmt.Errorf("%w: %v", ErrConnectionLost, ev.Err)
		}
		return ErrConnectionLost
	default:
		m.logger.Debug("unhandled event", "event", fmt.Sprintf("%T", ev))
	}
	return nil
}

func (m *Machine) addOutput(ev OutputAdded) {
	if _, exists := m.outputs[ev.Output]; exists {
		return
	}
	o := &machineOutput{name: fmt.Sprintf("output-%d", ev.GlobalName)}
	m.outputs[ev.Output] = o
	o.bound = true
	m.pending = append(m.pending, BindLayout{Output: ev.Output, Namespace: m.layout.Namespace()})
	m.logger.Debug("output added", "output", o.name)
}

func (m *Machine) nameOutput(ev OutputNamed) {
	o := m.outputs[ev.Output]
	if o == nil || o.name == ev.Name || ev.Name == "" {
		return
	}
	// Any state accumulated under the placeholder identity is stale.
	m.layout.OutputRemoved(o.name)
	m.logger.Debug("output renamed", "from", o.name, "to", ev.Name)
	o.name = ev.Name
}

func (m *Machine) removeOutput(output uint32) {
	o := m.outputs[output]
	if o == nil {
		return
	}
	delete(m.outputs, output)

	// Drop buffered requests addressed to the vanished output.
	kept := m.pending[:0]
	for _, req := range m.pending {
		if requestOutput(req) != output {
			kept = append(kept, req)
		}
	}
	m.pending = kept

	if o.bound {
		m.pending = append(m.pending, ReleaseLayout{Output: output})
	}
	m.layout.OutputRemoved(o.name)
	m.logger.Debug("output removed", "output", o.name)
}

func (m *Machine) handleDemand(ev Demand) {
	o := m.outputs[ev.Output]
	if o == nil {
		m.logger.Warn("demand for unknown output", "output", ev.Output)
		return
	}

	prev := m.phase
	m.phase = PhaseProcessing
	defer func() { m.phase = prev }()

	o.lastTags = ev.Tags
	generated, err := m.layout.GenerateLayout(ev.ViewCount, ev.UsableWidth, ev.UsableHeight, ev.Tags, o.name)
	if err != nil {
		m.logger.Warn("layout generation failed", "output", o.name, "err", err)
		return
	}
	if len(generated.Views) != int(ev.ViewCount) {
		m.logger.Warn("generator produced wrong view count",
			"output", o.name, "want", ev.ViewCount, "got", len(generated.Views))
		return
	}

	for _, r := range generated.Views {
		m.pending = append(m.pending, PushDimensions{
			Output: ev.Output,
			X:      int32(r.X),
			Y:      int32(r.Y),
			Width:  uint32(max(r.Width, 0)),
			Height: uint32(max(r.Height, 0)),
			Serial: ev.Serial,
		})
	}
	m.pending = append(m.pending, CommitLayout{
		Output:     ev.Output,
		LayoutName: generated.Name,
		Serial:     ev.Serial,
	})
}

func (m *Machine) handleCommand(ev Command) {
	o := m.outputs[ev.Output]
	if o == nil {
		m.logger.Warn("command for unknown output", "output", ev.Output)
		return
	}

	tags := o.lastTags
	if o.haveTags {
		tags = o.nextTags
		o.haveTags = false
	}

	if err := m.layout.UserCommand(ev.Command, tags, o.name); err != nil {
		m.logger.Warn("rejected user command", "output", o.name, "command", ev.Command, "err", err)
	}
}

func (m *Machine) outputName(output uint32) string {
	if o := m.outputs[output]; o != nil {
		return o.name
	}
	return fmt.Sprintf("output-%d", output)
}

func requestOutput(req Request) uint32 {
	switch req := req.(type) {
	case BindLayout:
		return req.Output
	case PushDimensions:
		return req.Output
	case CommitLayout:
		return req.Output
	case ReleaseLayout:
		return req.Output
	}
	return 0
}
