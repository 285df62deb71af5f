// Package wayland is a small Wayland client: wire codec, connection
// management, and typed bindings for the handful of interfaces a layout
// generator needs (wl_display, wl_registry, wl_callback, wl_output, and
// river-layout-v3).
package wayland

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Wire format: every message starts with an 8-byte header in the host's
// byte order. Word 0 is the sender's object id; word 1 packs the total
// message size (header included) into the upper 16 bits and the opcode
// into the lower 16. Arguments follow as 32-bit words; strings carry a
// u32 length (terminating NUL included) and are padded to word size.

const headerSize = 8

// maxMessageSize is the protocol's framing limit: the size field is 16
// bits and counts the header.
const maxMessageSize = 1<<16 - 1

// Message is one decoded wire message: header fields plus raw argument
// bytes.
type Message struct {
	Object uint32
	Opcode uint16
	Args   []byte
}

// EncodeMessage assembles a complete wire message.
func EncodeMessage(object uint32, opcode uint16, args []byte) ([]byte, error) {
	size := headerSize + len(args)
	if size > maxMessageSize {
		return nil, fmt.Errorf("message size %d exceeds wire limit", size)
	}

	buf := make([]byte, headerSize, size)
	binary.NativeEndian.PutUint32(buf[0:4], object)
	binary.NativeEndian.PutUint32(buf[4:8], uint32(size)<<16|uint32(opcode))
	return append(buf, args...), nil
}

// ReadMessage frames and reads one message from r.
func ReadMessage(r io.Reader) (Message, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Message{}, err
	}

	object := binary.NativeEndian.Uint32(header[0:4])
	word := binary.NativeEndian.Uint32(header[4:8])
	size := int(word >> 16)
	opcode := uint16(word & 0xffff)

	if size < headerSize {
		return Message{}, fmt.Errorf("invalid message size %d from object %d", size, object)
	}

	args := make([]byte, size-headerSize)
	if _, err := io.ReadFull(r, args); err != nil {
		return Message{}, err
	}

	return Message{Object: object, Opcode: opcode, Args: args}, nil
}

// AppendUint appends a u32 argument.
func AppendUint(buf []byte, v uint32) []byte {
	return binary.NativeEndian.AppendUint32(buf, v)
}

// AppendInt appends an i32 argument.
func AppendInt(buf []byte, v int32) []byte {
	return binary.NativeEndian.AppendUint32(buf, uint32(v))
}

// AppendString appends a string argument: u32 length including the
// terminating NUL, the bytes, the NUL, then padding to word size.
func AppendString(buf []byte, s string) []byte {
	l := len(s) + 1
	buf = binary.NativeEndian.AppendUint32(buf, uint32(l))
	buf = append(buf, s...)
	buf = append(buf, 0)
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}
	return buf
}

// ArgDecoder reads typed arguments off a message. Errors stick: after
// the first failure every read returns a zero value and Err reports it.
type ArgDecoder struct {
	data []byte
	off  int
	err  error
}

func (m *Message) Decoder() *ArgDecoder {
	return &ArgDecoder{data: m.Args}
}

func (d *ArgDecoder) fail(what string) {
	if d.err == nil {
		d.err = fmt.Errorf("truncated %s argument at offset %d", what, d.off)
	}
}

// Uint reads a u32 argument.
func (d *ArgDecoder) Uint() uint32 {
	if d.err != nil {
		return 0
	}
	if d.off+4 > len(d.data) {
		d.fail("uint")
		return 0
	}
	v := binary.NativeEndian.Uint32(d.data[d.off:])
	d.off += 4
	return v
}

// Int reads an i32 argument.
func (d *ArgDecoder) Int() int32 {
	return int32(d.Uint())
}

// String reads a string argument, consuming its padding.
func (d *ArgDecoder) String() string {
	if d.err != nil {
		return ""
	}
	if d.off+4 > len(d.data) {
		d.fail("string")
		return ""
	}
	l := int(binary.NativeEndian.Uint32(d.data[d.off:]))
	d.off += 4
	if l == 0 {
		// Null string.
		return ""
	}

	padded := (l + 3) &^ 3
	if d.off+padded > len(d.data) || l < 1 {
		d.fail("string")
		return ""
	}
	s := string(d.data[d.off : d.off+l-1])
	d.off += padded
	return s
}

// Err returns the first decode failure, if any.
func (d *ArgDecoder) Err() error {
	return d.err
}
