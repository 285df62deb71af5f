package wayland

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"net"
	"testing"

	"github.com/charmbracelet/log"
)

func TestEncodeMessageHeader(t *testing.T) {
	args := AppendUint(nil, 7)
	msg, err := EncodeMessage(3, 2, args)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	// 8 byte header + one u32 arg = 12 bytes total.
	if len(msg) != 12 {
		t.Fatalf("expected 12 bytes, got %d", len(msg))
	}
	if got := binary.NativeEndian.Uint32(msg[0:4]); got != 3 {
		t.Fatalf("expected object 3, got %d", got)
	}
	word := binary.NativeEndian.Uint32(msg[4:8])
	if size := word >> 16; size != 12 {
		t.Fatalf("expected size 12 in header, got %d", size)
	}
	if opcode := word & 0xffff; opcode != 2 {
		t.Fatalf("expected opcode 2, got %d", opcode)
	}
}

func TestMessageRoundTrip(t *testing.T) {
	args := AppendUint(nil, 1920)
	args = AppendInt(args, -40)
	args = AppendString(args, "carousel")

	encoded, err := EncodeMessage(42, 1, args)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	msg, err := ReadMessage(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if msg.Object != 42 || msg.Opcode != 1 {
		t.Fatalf("expected object 42 opcode 1, got %d/%d", msg.Object, msg.Opcode)
	}

	d := msg.Decoder()
	if got := d.Uint(); got != 1920 {
		t.Fatalf("expected uint 1920, got %d", got)
	}
	if got := d.Int(); got != -40 {
		t.Fatalf("expected int -40, got %d", got)
	}
	if got := d.String(); got != "carousel" {
		t.Fatalf("expected string %q, got %q", "carousel", got)
	}
	if err := d.Err(); err != nil {
		t.Fatalf("decoder reported error: %v", err)
	}
}

func TestAppendStringPadding(t *testing.T) {
	// Length word counts the NUL, contents pad to the next word.
	cases := []struct {
		s       string
		wireLen int
	}{
		{"", 4 + 4},          // len 1, padded to 4
		{"DP-1", 4 + 8},      // len 5, padded to 8
		{"carousel", 4 + 12}, // len 9, padded to 12
		{"abc", 4 + 4},       // len 4, already aligned
	}
	for _, tc := range cases {
		buf := AppendString(nil, tc.s)
		if len(buf) != tc.wireLen {
			t.Fatalf("string %q: expected %d wire bytes, got %d", tc.s, tc.wireLen, len(buf))
		}
		if got := int(binary.NativeEndian.Uint32(buf)); got != len(tc.s)+1 {
			t.Fatalf("string %q: expected length word %d, got %d", tc.s, len(tc.s)+1, got)
		}
		if buf[4+len(tc.s)] != 0 {
			t.Fatalf("string %q: missing NUL terminator", tc.s)
		}
	}
}

func TestArgDecoderErrorSticks(t *testing.T) {
	msg := Message{Args: AppendUint(nil, 9)}
	d := msg.Decoder()
	if got := d.Uint(); got != 9 {
		t.Fatalf("expected 9, got %d", got)
	}
	if got := d.Uint(); got != 0 {
		t.Fatalf("expected zero value after exhaustion, got %d", got)
	}
	if d.Err() == nil {
		t.Fatal("expected truncation error")
	}
	// Further reads stay zero and keep the first error.
	if got := d.String(); got != "" {
		t.Fatalf("expected empty string after error, got %q", got)
	}
}

func TestReadMessageRejectsShortSize(t *testing.T) {
	var buf []byte
	buf = binary.NativeEndian.AppendUint32(buf, 1)
	buf = binary.NativeEndian.AppendUint32(buf, 4<<16|0)
	if _, err := ReadMessage(bytes.NewReader(buf)); err == nil {
		t.Fatal("expected error for size below header length")
	}
}

// pipeClient returns a client reading from one end of an in-memory
// connection and the peer end for the test to play compositor on.
func pipeClient(t *testing.T) (*Client, net.Conn) {
	t.Helper()
	ours, theirs := net.Pipe()
	conn := &Conn{sock: ours, r: bufio.NewReader(ours), w: bufio.NewWriter(ours), nextID: displayID + 1}
	client := NewClient(conn, log.New(io.Discard))
	t.Cleanup(func() {
		ours.Close()
		theirs.Close()
	})
	return client, theirs
}

func writeEvent(t *testing.T, w io.Writer, object uint32, opcode uint16, args []byte) {
	t.Helper()
	msg, err := EncodeMessage(object, opcode, args)
	if err != nil {
		t.Fatalf("encode event: %v", err)
	}
	if _, err := w.Write(msg); err != nil {
		t.Fatalf("write event: %v", err)
	}
}

func TestNextEventDecodesLayoutDemand(t *testing.T) {
	client, compositor := pipeClient(t)
	client.ifaces[9] = "river_layout_v3"

	go func() {
		args := AppendUint(nil, 3)
		args = AppendUint(args, 1920)
		args = AppendUint(args, 1080)
		args = AppendUint(args, 1)
		args = AppendUint(args, 77)
		writeEvent(t, compositor, 9, evLayoutDemand, args)
	}()

	ev, err := client.NextEvent()
	if err != nil {
		t.Fatalf("next event: %v", err)
	}
	demand, ok := ev.(LayoutDemand)
	if !ok {
		t.Fatalf("expected LayoutDemand, got %T", ev)
	}
	want := LayoutDemand{Layout: 9, ViewCount: 3, UsableWidth: 1920, UsableHeight: 1080, Tags: 1, Serial: 77}
	if demand != want {
		t.Fatalf("expected %+v, got %+v", want, demand)
	}
}

func TestNextEventSkipsUnmodeledAndRecyclesDeletedIDs(t *testing.T) {
	client, compositor := pipeClient(t)
	client.ifaces[4] = "wl_output"
	client.ifaces[5] = "wl_callback"

	go func() {
		// wl_output.geometry carries args we never read; it must be
		// skipped without desyncing the stream.
		args := AppendInt(nil, 0)
		args = AppendInt(args, 0)
		args = AppendInt(args, 600)
		args = AppendInt(args, 340)
		args = AppendInt(args, 0)
		args = AppendString(args, "make")
		args = AppendString(args, "model")
		args = AppendInt(args, 0)
		writeEvent(t, compositor, 4, 0, args)

		writeEvent(t, compositor, displayID, evDisplayDeleteID, AppendUint(nil, 5))
		writeEvent(t, compositor, 4, evOutputName, AppendString(nil, "DP-1"))
	}()

	ev, err := client.NextEvent()
	if err != nil {
		t.Fatalf("next event: %v", err)
	}
	name, ok := ev.(OutputName)
	if !ok {
		t.Fatalf("expected OutputName, got %T", ev)
	}
	if name.Output != 4 || name.Name != "DP-1" {
		t.Fatalf("expected output 4 named DP-1, got %d %q", name.Output, name.Name)
	}

	if _, tracked := client.ifaces[5]; tracked {
		t.Fatal("deleted object still tracked")
	}
	// The freed id is handed out again before fresh ones.
	if got := client.conn.NewID(); got != 5 {
		t.Fatalf("expected recycled id 5, got %d", got)
	}
}

func TestNextEventSurfacesDisplayError(t *testing.T) {
	client, compositor := pipeClient(t)

	go func() {
		args := AppendUint(nil, 3)
		args = AppendUint(args, 1)
		args = AppendString(args, "bad request")
		writeEvent(t, compositor, displayID, evDisplayError, args)
	}()

	ev, err := client.NextEvent()
	if err != nil {
		t.Fatalf("next event: %v", err)
	}
	derr, ok := ev.(DisplayError)
	if !ok {
		t.Fatalf("expected DisplayError, got %T", ev)
	}
	if derr.Object != 3 || derr.Code != 1 || derr.Message != "bad request" {
		t.Fatalf("unexpected error event: %+v", derr)
	}
	if derr.Error() == "" {
		t.Fatal("expected non-empty error string")
	}
}

func TestRequestEncoding(t *testing.T) {
	client, compositor := pipeClient(t)

	type result struct {
		layout uint32
		err    error
	}
	done := make(chan result, 1)
	go func() {
		layout, err := client.GetLayout(2, 3, "carousel")
		if err == nil {
			err = client.PushViewDimensions(layout, -10, 0, 960, 1080, 7)
		}
		if err == nil {
			err = client.Commit(layout, "carousel", 7)
		}
		if err == nil {
			err = client.Flush()
		}
		done <- result{layout, err}
	}()

	getLayout, err := ReadMessage(compositor)
	if err != nil {
		t.Fatalf("read get_layout: %v", err)
	}
	push, err := ReadMessage(compositor)
	if err != nil {
		t.Fatalf("read push_view_dimensions: %v", err)
	}
	commit, err := ReadMessage(compositor)
	if err != nil {
		t.Fatalf("read commit: %v", err)
	}
	res := <-done
	if res.err != nil {
		t.Fatalf("request sequence failed: %v", res.err)
	}

	if getLayout.Object != 2 || getLayout.Opcode != opManagerGetLayout {
		t.Fatalf("expected get_layout on object 2, got object %d opcode %d", getLayout.Object, getLayout.Opcode)
	}
	d := getLayout.Decoder()
	if id := d.Uint(); id != res.layout {
		t.Fatalf("expected new layout id %d on the wire, got %d", res.layout, id)
	}
	if output := d.Uint(); output != 3 {
		t.Fatalf("expected output 3, got %d", output)
	}
	if ns := d.String(); ns != "carousel" {
		t.Fatalf("expected namespace carousel, got %q", ns)
	}

	if push.Object != res.layout || push.Opcode != opLayoutPushViewDimensions {
		t.Fatalf("unexpected push message: object %d opcode %d", push.Object, push.Opcode)
	}
	d = push.Decoder()
	if x := d.Int(); x != -10 {
		t.Fatalf("expected x -10, got %d", x)
	}
	if y := d.Int(); y != 0 {
		t.Fatalf("expected y 0, got %d", y)
	}
	if w := d.Uint(); w != 960 {
		t.Fatalf("expected width 960, got %d", w)
	}
	if h := d.Uint(); h != 1080 {
		t.Fatalf("expected height 1080, got %d", h)
	}
	if serial := d.Uint(); serial != 7 {
		t.Fatalf("expected serial 7, got %d", serial)
	}

	if commit.Object != res.layout || commit.Opcode != opLayoutCommit {
		t.Fatalf("unexpected commit message: object %d opcode %d", commit.Object, commit.Opcode)
	}
	d = commit.Decoder()
	if name := d.String(); name != "carousel" {
		t.Fatalf("expected layout name carousel, got %q", name)
	}
	if serial := d.Uint(); serial != 7 {
		t.Fatalf("expected serial 7, got %d", serial)
	}
}
