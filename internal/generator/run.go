package generator

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/agausmann/river-layouts/internal/wayland"
)

// runnerOutput ties one output's three identities together: the
// registry global, the bound wl_output object, and the layout object
// claimed on it.
type runnerOutput struct {
	globalName uint32
	id         uint32
	version    uint32
	layout     uint32
}

// Runner owns a compositor session: it binds the globals a generator
// needs, translates compositor events into machine events, and puts
// the machine's requests on the wire. Run blocks until the session
// ends.
type Runner struct {
	logger  *log.Logger
	machine *Machine
	queries chan func()

	client   *wayland.Client
	registry uint32
	manager  uint32
	byGlobal map[uint32]*runnerOutput
	byID     map[uint32]*runnerOutput
	byLayout map[uint32]*runnerOutput
}

func NewRunner(layout Layout, logger *log.Logger) *Runner {
	return &Runner{
		logger:   logger,
		machine:  NewMachine(layout, logger),
		queries:  make(chan func()),
		byGlobal: make(map[uint32]*runnerOutput),
		byID:     make(map[uint32]*runnerOutput),
		byLayout: make(map[uint32]*runnerOutput),
	}
}

// Machine exposes the protocol machine for state queries. Read it only
// from inside Query to avoid racing the event loop.
func (r *Runner) Machine() *Machine {
	return r.machine
}

// Query runs fn on the event loop, serializing it against event
// handling. It blocks until fn has run or ctx ends.
func (r *Runner) Query(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	wrapped := func() {
		fn()
		close(done)
	}
	select {
	case r.queries <- wrapped:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run connects to the compositor and drives the session until ctx is
// canceled or a fatal protocol condition ends it.
func (r *Runner) Run(ctx context.Context) error {
	conn, err := wayland.Dial()
	if err != nil {
		return err
	}
	r.client = wayland.NewClient(conn, r.logger)
	defer r.client.Close()

	if err := r.negotiate(); err != nil {
		return err
	}
	return r.loop(ctx)
}

// negotiate discovers globals, claims the namespace on every output,
// and settles the initial event burst before the main loop starts.
func (r *Runner) negotiate() error {
	registry, err := r.client.GetRegistry()
	if err != nil {
		return err
	}
	r.registry = registry

	if err := r.client.Roundtrip(r.handleEvent); err != nil {
		return err
	}
	if r.manager == 0 {
		return fmt.Errorf("compositor does not advertise %s; is this a river session?", wayland.LayoutManagerInterface)
	}
	if err := r.applyRequests(r.machine.Flush()); err != nil {
		return err
	}

	// A second roundtrip settles output names and surfaces an
	// immediate namespace_in_use.
	if err := r.client.Roundtrip(r.handleEvent); err != nil {
		return err
	}
	if err := r.machine.HandleEvent(Ready{}); err != nil {
		return err
	}
	if err := r.applyRequests(r.machine.Flush()); err != nil {
		return err
	}
	return r.client.Flush()
}

func (r *Runner) loop(ctx context.Context) error {
	events := make(chan wayland.Event)
	readErr := make(chan error, 1)
	go func() {
		for {
			ev, err := r.client.NextEvent()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			r.shutdown()
			return nil
		case err := <-readErr:
			ferr := r.machine.HandleEvent(ConnectionLost{Err: err})
			r.logger.Error("connection to compositor lost", "err", err)
			return ferr
		case fn := <-r.queries:
			fn()
		case ev := <-events:
			if err := r.handleEvent(ev); err != nil {
				return err
			}
			if err := r.applyRequests(r.machine.Flush()); err != nil {
				return err
			}
			if err := r.client.Flush(); err != nil {
				return err
			}
		}
	}
}

// handleEvent translates one compositor event into machine events.
// The error is fatal to the session.
func (r *Runner) handleEvent(ev wayland.Event) error {
	switch ev := ev.(type) {
	case wayland.GlobalAnnounce:
		return r.handleGlobal(ev)
	case wayland.GlobalRemove:
		return r.handleGlobalRemove(ev)
	case wayland.OutputName:
		if rec := r.byID[ev.Output]; rec != nil {
			return r.machine.HandleEvent(OutputNamed{Output: rec.id, Name: ev.Name})
		}
	case wayland.NamespaceInUse:
		if rec := r.byLayout[ev.Layout]; rec != nil {
			return r.machine.HandleEvent(NamespaceTaken{Output: rec.id})
		}
		return ErrNamespaceInUse
	case wayland.LayoutDemand:
		if rec := r.byLayout[ev.Layout]; rec != nil {
			return r.machine.HandleEvent(Demand{
				Output:       rec.id,
				ViewCount:    ev.ViewCount,
				UsableWidth:  ev.UsableWidth,
				UsableHeight: ev.UsableHeight,
				Tags:         ev.Tags,
				Serial:       ev.Serial,
			})
		}
	case wayland.UserCommandTags:
		if rec := r.byLayout[ev.Layout]; rec != nil {
			return r.machine.HandleEvent(CommandTags{Output: rec.id, Tags: ev.Tags})
		}
	case wayland.UserCommand:
		if rec := r.byLayout[ev.Layout]; rec != nil {
			return r.machine.HandleEvent(Command{Output: rec.id, Command: ev.Command})
		}
	case wayland.DisplayError:
		_ = r.machine.HandleEvent(ConnectionLost{Err: ev})
		return ev
	}
	return nil
}

func (r *Runner) handleGlobal(ev wayland.GlobalAnnounce) error {
	switch ev.Interface {
	case wayland.LayoutManagerInterface:
		version := min(ev.Version, wayland.LayoutManagerMaxVersion)
		id, err := r.client.Bind(r.registry, ev.Name, ev.Interface, version)
		if err != nil {
			return err
		}
		r.manager = id
		r.logger.Debug("bound layout manager", "version", version)
	case wayland.OutputInterface:
		version := min(ev.Version, wayland.OutputMaxVersion)
		id, err := r.client.Bind(r.registry, ev.Name, ev.Interface, version)
		if err != nil {
			return err
		}
		rec := &runnerOutput{globalName: ev.Name, id: id, version: version}
		r.byGlobal[ev.Name] = rec
		r.byID[id] = rec
		return r.machine.HandleEvent(OutputAdded{Output: id, GlobalName: ev.Name})
	}
	return nil
}

func (r *Runner) handleGlobalRemove(ev wayland.GlobalRemove) error {
	rec := r.byGlobal[ev.Name]
	if rec == nil {
		return nil
	}
	if err := r.machine.HandleEvent(OutputRemoved{Output: rec.id}); err != nil {
		return err
	}
	// Apply the purge result while the record is still mapped, then
	// drop the output object itself.
	if err := r.applyRequests(r.machine.Flush()); err != nil {
		return err
	}
	if err := r.client.ReleaseOutput(rec.id, rec.version); err != nil {
		return err
	}
	delete(r.byGlobal, rec.globalName)
	delete(r.byID, rec.id)
	if rec.layout != 0 {
		delete(r.byLayout, rec.layout)
	}
	return r.client.Flush()
}

// applyRequests turns machine requests into protocol requests.
// Requests for outputs that vanished in the meantime are skipped.
func (r *Runner) applyRequests(reqs []Request) error {
	for _, req := range reqs {
		switch req := req.(type) {
		case BindLayout:
			rec := r.byID[req.Output]
			if rec == nil {
				continue
			}
			id, err := r.client.GetLayout(r.manager, rec.id, req.Namespace)
			if err != nil {
				return err
			}
			rec.layout = id
			r.byLayout[id] = rec
		case PushDimensions:
			rec := r.byID[req.Output]
			if rec == nil || rec.layout == 0 {
				continue
			}
			if err := r.client.PushViewDimensions(rec.layout, req.X, req.Y, req.Width, req.Height, req.Serial); err != nil {
				return err
			}
		case CommitLayout:
			rec := r.byID[req.Output]
			if rec == nil || rec.layout == 0 {
				continue
			}
			if err := r.client.Commit(rec.layout, req.LayoutName, req.Serial); err != nil {
				return err
			}
		case ReleaseLayout:
			rec := r.byID[req.Output]
			if rec == nil || rec.layout == 0 {
				continue
			}
			delete(r.byLayout, rec.layout)
			if err := r.client.DestroyLayout(rec.layout); err != nil {
				return err
			}
			rec.layout = 0
		}
	}
	return nil
}

// shutdown releases every claimed namespace before the socket closes
// so the compositor can hand the outputs to another generator.
func (r *Runner) shutdown() {
	for _, rec := range r.byID {
		if rec.layout != 0 {
			_ = r.client.DestroyLayout(rec.layout)
			rec.layout = 0
		}
	}
	if r.manager != 0 {
		_ = r.client.DestroyManager(r.manager)
	}
	if err := r.client.Flush(); err != nil {
		r.logger.Debug("flush during shutdown failed", "err", err)
	}
}
