package wayland

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Globals this client binds, as advertised by wl_registry.
const (
	OutputInterface        = "wl_output"
	LayoutManagerInterface = "river_layout_manager_v3"
)

// Highest interface versions the client understands. Binds use the
// minimum of these and the advertised version.
const (
	OutputMaxVersion        = 4
	LayoutManagerMaxVersion = 2
)

// wl_output.name arrived in v4, wl_output.release in v3.
const (
	outputNameSinceVersion    = 4
	outputReleaseSinceVersion = 3
)

const (
	opDisplaySync        = 0
	opDisplayGetRegistry = 1
	evDisplayError       = 0
	evDisplayDeleteID    = 1

	opRegistryBind   = 0
	evRegistryGlobal = 0
	evRegistryRemove = 1

	evCallbackDone = 0

	opOutputRelease = 0
	evOutputDone    = 2
	evOutputName    = 4

	opManagerDestroy   = 0
	opManagerGetLayout = 1

	opLayoutDestroy            = 0
	opLayoutPushViewDimensions = 1
	opLayoutCommit             = 2
	evLayoutNamespaceInUse     = 0
	evLayoutDemand             = 1
	evLayoutUserCommand        = 2
	evLayoutUserCommandTags    = 3
)

// Event is a decoded compositor event. The concrete types below follow
// the protocol's event names.
type Event interface{}

// DisplayError is wl_display.error: the compositor found a fatal
// protocol violation. It doubles as a Go error.
type DisplayError struct {
	Object  uint32
	Code    uint32
	Message string
}

func (e DisplayError) Error() string {
	return fmt.Sprintf("compositor error on object %d (code %d): %s", e.Object, e.Code, e.Message)
}

// GlobalAnnounce is wl_registry.global.
type GlobalAnnounce struct {
	Name      uint32
	Interface string
	Version   uint32
}

// GlobalRemove is wl_registry.global_remove.
type GlobalRemove struct {
	Name uint32
}

// CallbackDone is wl_callback.done.
type CallbackDone struct {
	Callback uint32
	Data     uint32
}

// OutputName is wl_output.name (v4+): the compositor's stable name for
// the output, e.g. "DP-1".
type OutputName struct {
	Output uint32
	Name   string
}

// OutputDone is wl_output.done: the output's property burst is
// complete.
type OutputDone struct {
	Output uint32
}

// NamespaceInUse is river_layout_v3.namespace_in_use: another client
// already claimed this namespace on the output.
type NamespaceInUse struct {
	Layout uint32
}

// LayoutDemand is river_layout_v3.layout_demand: the compositor wants
// geometry for view_count views in the usable area.
type LayoutDemand struct {
	Layout       uint32
	ViewCount    uint32
	UsableWidth  uint32
	UsableHeight uint32
	Tags         uint32
	Serial       uint32
}

// UserCommand is river_layout_v3.user_command, carrying the raw string
// from riverctl send-layout-cmd.
type UserCommand struct {
	Layout  uint32
	Command string
}

// UserCommandTags is river_layout_v3.user_command_tags (v2+), sent
// immediately before its user_command.
type UserCommandTags struct {
	Layout uint32
	Tags   uint32
}

// Client layers object bookkeeping and typed requests over a Conn. It
// tracks which interface each object id speaks so events can be
// dispatched, and recycles ids the compositor deletes.
type Client struct {
	conn   *Conn
	logger *log.Logger
	ifaces map[uint32]string
}

func NewClient(conn *Conn, logger *log.Logger) *Client {
	return &Client{
		conn:   conn,
		logger: logger,
		ifaces: map[uint32]string{displayID: "wl_display"},
	}
}

func (c *Client) newObject(iface string) uint32 {
	id := c.conn.NewID()
	c.ifaces[id] = iface
	return id
}

func (c *Client) forget(id uint32) {
	delete(c.ifaces, id)
}

// GetRegistry creates the wl_registry. The compositor replies with one
// global event per advertised global.
func (c *Client) GetRegistry() (uint32, error) {
	id := c.newObject("wl_registry")
	args := AppendUint(nil, id)
	return id, c.conn.Send(displayID, opDisplayGetRegistry, args)
}

// Sync creates a wl_callback whose done event marks the point where
// the compositor has processed all prior requests.
func (c *Client) Sync() (uint32, error) {
	id := c.newObject("wl_callback")
	args := AppendUint(nil, id)
	return id, c.conn.Send(displayID, opDisplaySync, args)
}

// Bind takes a global from the registry at the given version and
// returns the new object's id.
func (c *Client) Bind(registry, name uint32, iface string, version uint32) (uint32, error) {
	id := c.newObject(iface)
	args := AppendUint(nil, name)
	args = AppendString(args, iface)
	args = AppendUint(args, version)
	args = AppendUint(args, id)
	return id, c.conn.Send(registry, opRegistryBind, args)
}

// ReleaseOutput tells the compositor we are done with an output.
// Compositors below v3 have no release request; the object is just
// forgotten locally.
func (c *Client) ReleaseOutput(output, version uint32) error {
	c.forget(output)
	if version < outputReleaseSinceVersion {
		return nil
	}
	return c.conn.Send(output, opOutputRelease, nil)
}

// GetLayout claims a namespace on an output and returns the
// river_layout_v3 object that will receive its demands.
func (c *Client) GetLayout(manager, output uint32, namespace string) (uint32, error) {
	id := c.newObject("river_layout_v3")
	args := AppendUint(nil, id)
	args = AppendUint(args, output)
	args = AppendString(args, namespace)
	return id, c.conn.Send(manager, opManagerGetLayout, args)
}

// PushViewDimensions proposes geometry for the next view of the demand
// identified by serial.
func (c *Client) PushViewDimensions(layout uint32, x, y int32, width, height, serial uint32) error {
	args := AppendInt(nil, x)
	args = AppendInt(args, y)
	args = AppendUint(args, width)
	args = AppendUint(args, height)
	args = AppendUint(args, serial)
	return c.conn.Send(layout, opLayoutPushViewDimensions, args)
}

// Commit finalizes a demand's pushed dimensions under a display name.
func (c *Client) Commit(layout uint32, layoutName string, serial uint32) error {
	args := AppendString(nil, layoutName)
	args = AppendUint(args, serial)
	return c.conn.Send(layout, opLayoutCommit, args)
}

// DestroyLayout destroys a river_layout_v3 object, freeing its
// namespace on that output.
func (c *Client) DestroyLayout(layout uint32) error {
	c.forget(layout)
	return c.conn.Send(layout, opLayoutDestroy, nil)
}

// DestroyManager destroys the river_layout_manager_v3 object.
func (c *Client) DestroyManager(manager uint32) error {
	c.forget(manager)
	return c.conn.Send(manager, opManagerDestroy, nil)
}

// Flush puts buffered requests on the wire.
func (c *Client) Flush() error {
	return c.conn.Flush()
}

// Close tears down the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// NextEvent blocks until an event this client models arrives.
// Malformed events are dropped with a warning; events for interfaces
// or opcodes we do not track are skipped.
func (c *Client) NextEvent() (Event, error) {
	for {
		msg, err := c.conn.Read()
		if err != nil {
			return nil, err
		}
		ev, err := c.decode(msg)
		if err != nil {
			c.logger.Warn("dropping malformed event",
				"object", msg.Object, "opcode", msg.Opcode, "err", err)
			continue
		}
		if ev == nil {
			continue
		}
		return ev, nil
	}
}

// Roundtrip issues a wl_display.sync and pumps events until the
// compositor acknowledges it. Intervening events go to handle; a nil
// handle discards them. A compositor error aborts the roundtrip.
func (c *Client) Roundtrip(handle func(Event) error) error {
	cb, err := c.Sync()
	if err != nil {
		return err
	}
	if err := c.Flush(); err != nil {
		return err
	}
	for {
		ev, err := c.NextEvent()
		if err != nil {
			return err
		}
		switch ev := ev.(type) {
		case CallbackDone:
			if ev.Callback == cb {
				return nil
			}
		case DisplayError:
			return ev
		}
		if handle != nil {
			if err := handle(ev); err != nil {
				return err
			}
		}
	}
}

func (c *Client) decode(msg Message) (Event, error) {
	iface, ok := c.ifaces[msg.Object]
	if !ok {
		// Likely an event racing our destroy of the object.
		c.logger.Debug("event for unknown object", "object", msg.Object, "opcode", msg.Opcode)
		return nil, nil
	}

	d := msg.Decoder()
	var ev Event

	switch iface {
	case "wl_display":
		switch msg.Opcode {
		case evDisplayError:
			ev = DisplayError{Object: d.Uint(), Code: d.Uint(), Message: d.String()}
		case evDisplayDeleteID:
			id := d.Uint()
			if d.Err() == nil {
				c.forget(id)
				c.conn.ReleaseID(id)
			}
		}
	case "wl_registry":
		switch msg.Opcode {
		case evRegistryGlobal:
			ev = GlobalAnnounce{Name: d.Uint(), Interface: d.String(), Version: d.Uint()}
		case evRegistryRemove:
			ev = GlobalRemove{Name: d.Uint()}
		}
	case "wl_callback":
		if msg.Opcode == evCallbackDone {
			c.forget(msg.Object)
			ev = CallbackDone{Callback: msg.Object, Data: d.Uint()}
		}
	case "wl_output":
		switch msg.Opcode {
		case evOutputName:
			ev = OutputName{Output: msg.Object, Name: d.String()}
		case evOutputDone:
			ev = OutputDone{Output: msg.Object}
		}
	case "river_layout_v3":
		switch msg.Opcode {
		case evLayoutNamespaceInUse:
			ev = NamespaceInUse{Layout: msg.Object}
		case evLayoutDemand:
			ev = LayoutDemand{
				Layout:       msg.Object,
				ViewCount:    d.Uint(),
				UsableWidth:  d.Uint(),
				UsableHeight: d.Uint(),
				Tags:         d.Uint(),
				Serial:       d.Uint(),
			}
		case evLayoutUserCommand:
			ev = UserCommand{Layout: msg.Object, Command: d.String()}
		case evLayoutUserCommandTags:
			ev = UserCommandTags{Layout: msg.Object, Tags: d.Uint()}
		}
	}

	if err := d.Err(); err != nil {
		return nil, err
	}
	return ev, nil
}
