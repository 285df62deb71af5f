package wayland

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
)

// displayID is the pre-existing wl_display singleton every connection
// starts with.
const displayID = 1

// Conn is a connection to a Wayland compositor. Requests are buffered
// until Flush; events are read one at a time with Read. Reads and
// writes may run on separate goroutines, but each side is
// single-goroutine.
type Conn struct {
	sock net.Conn
	r    *bufio.Reader
	w    *bufio.Writer

	nextID  uint32
	freeIDs []uint32
}

// Dial connects to the compositor. It honors WAYLAND_SOCKET (an
// inherited file descriptor) first, then falls back to the socket at
// $XDG_RUNTIME_DIR/$WAYLAND_DISPLAY, defaulting the display name to
// wayland-0. An absolute WAYLAND_DISPLAY is used as-is.
func Dial() (*Conn, error) {
	sock, err := dialSocket()
	if err != nil {
		return nil, err
	}
	return &Conn{
		sock:   sock,
		r:      bufio.NewReader(sock),
		w:      bufio.NewWriter(sock),
		nextID: displayID + 1,
	}, nil
}

func dialSocket() (net.Conn, error) {
	if v := os.Getenv("WAYLAND_SOCKET"); v != "" {
		fd, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid WAYLAND_SOCKET %q: %w", v, err)
		}
		os.Unsetenv("WAYLAND_SOCKET")
		f := os.NewFile(uintptr(fd), "wayland")
		sock, err := net.FileConn(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("using WAYLAND_SOCKET fd %d: %w", fd, err)
		}
		return sock, nil
	}

	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		display = "wayland-0"
	}

	path := display
	if !filepath.IsAbs(path) {
		runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
		if runtimeDir == "" {
			return nil, fmt.Errorf("XDG_RUNTIME_DIR is not set")
		}
		path = filepath.Join(runtimeDir, display)
	}

	sock, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("connecting to compositor at %s: %w", path, err)
	}
	return sock, nil
}

// NewID allocates a client-side object id, reusing ids the compositor
// has released via wl_display.delete_id.
func (c *Conn) NewID() uint32 {
	if n := len(c.freeIDs); n > 0 {
		id := c.freeIDs[n-1]
		c.freeIDs = c.freeIDs[:n-1]
		return id
	}
	id := c.nextID
	c.nextID++
	return id
}

// ReleaseID returns a deleted object id to the allocator.
func (c *Conn) ReleaseID(id uint32) {
	if id > displayID {
		c.freeIDs = append(c.freeIDs, id)
	}
}

// Send buffers one request. Call Flush to put buffered requests on the
// wire.
func (c *Conn) Send(object uint32, opcode uint16, args []byte) error {
	msg, err := EncodeMessage(object, opcode, args)
	if err != nil {
		return err
	}
	if _, err := c.w.Write(msg); err != nil {
		return fmt.Errorf("writing request to object %d: %w", object, err)
	}
	return nil
}

// Flush writes all buffered requests to the compositor.
func (c *Conn) Flush() error {
	if err := c.w.Flush(); err != nil {
		return fmt.Errorf("flushing requests: %w", err)
	}
	return nil
}

// Read blocks until the next event arrives.
func (c *Conn) Read() (Message, error) {
	return ReadMessage(c.r)
}

// Close tears down the socket. A blocked Read returns with an error.
func (c *Conn) Close() error {
	return c.sock.Close()
}
