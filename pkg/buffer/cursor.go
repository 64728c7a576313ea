package buffer

import (
	"encoding/binary"
	"math"

	"github.com/terse-protocol/terse-go/pkg/wire"
)

// Cursor is a growable byte buffer with a separate read offset and typed
// primitive accessors. All multi-byte values are little-endian.
type Cursor struct {
	buf   []byte
	off   int // read offset
	limit int // write ceiling in bytes
	err   error
}

// New creates an empty Cursor for writing, bounded by wire.MaxInputSize.
func New() *Cursor {
	return &Cursor{limit: wire.MaxInputSize}
}

// NewWithLimit creates an empty Cursor with a custom write ceiling.
// A limit of 0 means wire.MaxInputSize.
func NewWithLimit(limit int) *Cursor {
	if limit <= 0 {
		limit = wire.MaxInputSize
	}
	return &Cursor{limit: limit}
}

// Wrap creates a Cursor reading from data. The Cursor does not copy data;
// the caller must not mutate it while reading.
func Wrap(data []byte) *Cursor {
	return &Cursor{buf: data, limit: wire.MaxInputSize}
}

// Bytes returns the written buffer. The slice is owned by the Cursor.
func (c *Cursor) Bytes() []byte {
	return c.buf
}

// Len returns the number of bytes in the buffer.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Offset returns the current read offset.
func (c *Cursor) Offset() int {
	return c.off
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.off
}

// Err returns the first write error, or nil.
func (c *Cursor) Err() error {
	return c.err
}

// grow extends the buffer by n bytes and returns the write window, or nil
// if the ceiling is exceeded.
func (c *Cursor) grow(n int) []byte {
	if c.err != nil {
		return nil
	}
	if len(c.buf)+n > c.limit {
		c.err = wire.NewEncodeError(wire.EncodeSizeLimitExceeded,
			"buffer would exceed %d bytes", c.limit)
		return nil
	}
	c.buf = append(c.buf, make([]byte, n)...)
	return c.buf[len(c.buf)-n:]
}

// WriteU8 appends an unsigned 8-bit integer.
func (c *Cursor) WriteU8(v uint8) {
	if b := c.grow(1); b != nil {
		b[0] = v
	}
}

// WriteU16 appends an unsigned 16-bit integer.
func (c *Cursor) WriteU16(v uint16) {
	if b := c.grow(2); b != nil {
		binary.LittleEndian.PutUint16(b, v)
	}
}

// WriteU24 appends an unsigned 24-bit integer. The high byte of v must
// be zero.
func (c *Cursor) WriteU24(v uint32) {
	if b := c.grow(3); b != nil {
		b[0] = byte(v)
		b[1] = byte(v >> 8)
		b[2] = byte(v >> 16)
	}
}

// WriteU32 appends an unsigned 32-bit integer.
func (c *Cursor) WriteU32(v uint32) {
	if b := c.grow(4); b != nil {
		binary.LittleEndian.PutUint32(b, v)
	}
}

// WriteI8 appends a signed 8-bit integer.
func (c *Cursor) WriteI8(v int8) {
	c.WriteU8(uint8(v))
}

// WriteI16 appends a signed 16-bit integer.
func (c *Cursor) WriteI16(v int16) {
	c.WriteU16(uint16(v))
}

// WriteI24 appends a signed 24-bit integer in two's complement.
func (c *Cursor) WriteI24(v int32) {
	c.WriteU24(uint32(v) & 0xFFFFFF)
}

// WriteI32 appends a signed 32-bit integer.
func (c *Cursor) WriteI32(v int32) {
	c.WriteU32(uint32(v))
}

// WriteF32 appends an IEEE 754 single-precision float.
func (c *Cursor) WriteF32(v float32) {
	c.WriteU32(math.Float32bits(v))
}

// WriteF64 appends an IEEE 754 double-precision float.
func (c *Cursor) WriteF64(v float64) {
	if b := c.grow(8); b != nil {
		binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	}
}

// WriteRaw appends bytes verbatim.
func (c *Cursor) WriteRaw(data []byte) {
	if b := c.grow(len(data)); b != nil {
		copy(b, data)
	}
}

// WriteShortString appends a 1-byte length prefix and the string bytes.
// The string must be at most wire.MaxShortString bytes.
func (c *Cursor) WriteShortString(s string) {
	if len(s) > wire.MaxShortString {
		c.fail("short string of %d bytes", len(s))
		return
	}
	c.WriteU8(uint8(len(s)))
	c.WriteRaw([]byte(s))
}

// WriteLongString appends a 2-byte length prefix and the string bytes.
// The string must be at most wire.MaxLongString bytes.
func (c *Cursor) WriteLongString(s string) {
	if len(s) > wire.MaxLongString {
		c.fail("long string of %d bytes", len(s))
		return
	}
	c.WriteU16(uint16(len(s)))
	c.WriteRaw([]byte(s))
}

// WriteBlob appends a 4-byte length prefix and the bytes verbatim.
func (c *Cursor) WriteBlob(data []byte) {
	c.WriteU32(uint32(len(data)))
	c.WriteRaw(data)
}

func (c *Cursor) fail(format string, args ...any) {
	if c.err == nil {
		c.err = wire.NewEncodeError(wire.EncodeSizeLimitExceeded, format, args...)
	}
}

// take consumes n bytes from the read offset.
func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || c.off+n > len(c.buf) {
		return nil, wire.NewDecodeError(wire.DecodeTruncatedInput, c.off,
			"need %d bytes, %d remain", n, len(c.buf)-c.off)
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

// ReadU8 consumes an unsigned 8-bit integer.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 consumes an unsigned 16-bit integer.
func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU24 consumes an unsigned 24-bit integer.
func (c *Cursor) ReadU24() (uint32, error) {
	b, err := c.take(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16, nil
}

// ReadU32 consumes an unsigned 32-bit integer.
func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadI8 consumes a signed 8-bit integer.
func (c *Cursor) ReadI8() (int8, error) {
	v, err := c.ReadU8()
	return int8(v), err
}

// ReadI16 consumes a signed 16-bit integer.
func (c *Cursor) ReadI16() (int16, error) {
	v, err := c.ReadU16()
	return int16(v), err
}

// ReadI24 consumes a signed 24-bit integer, sign-extending from bit 23.
func (c *Cursor) ReadI24() (int32, error) {
	v, err := c.ReadU24()
	if err != nil {
		return 0, err
	}
	if v&0x800000 != 0 {
		v |= 0xFF000000
	}
	return int32(v), nil
}

// ReadI32 consumes a signed 32-bit integer.
func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

// ReadF32 consumes an IEEE 754 single-precision float.
func (c *Cursor) ReadF32() (float32, error) {
	v, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadF64 consumes an IEEE 754 double-precision float.
func (c *Cursor) ReadF64() (float64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// ReadRaw consumes exactly n bytes. The returned slice aliases the
// buffer; callers that retain it must copy.
func (c *Cursor) ReadRaw(n int) ([]byte, error) {
	return c.take(n)
}

// ReadShortString consumes a 1-byte length prefix and the string bytes.
func (c *Cursor) ReadShortString() (string, error) {
	n, err := c.ReadU8()
	if err != nil {
		return "", err
	}
	b, err := c.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadLongString consumes a 2-byte length prefix and the string bytes.
func (c *Cursor) ReadLongString() (string, error) {
	n, err := c.ReadU16()
	if err != nil {
		return "", err
	}
	b, err := c.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadBlob consumes a 4-byte length prefix and returns a copy of the
// bytes. The length is validated against the remaining input before any
// allocation.
func (c *Cursor) ReadBlob() ([]byte, error) {
	lenOff := c.off
	n, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	if int(n) > c.Remaining() {
		return nil, wire.NewDecodeError(wire.DecodeInvalidLength, lenOff,
			"blob length %d exceeds %d remaining bytes", n, c.Remaining())
	}
	b, err := c.take(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}
