package buffer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terse-protocol/terse-go/pkg/wire"
)

func TestPrimitiveRoundTrip(t *testing.T) {
	c := New()
	c.WriteU8(0xAB)
	c.WriteU16(0xBEEF)
	c.WriteU24(0xC0FFEE)
	c.WriteU32(0xDEADBEEF)
	c.WriteI8(-5)
	c.WriteI16(-1234)
	c.WriteI24(-100000)
	c.WriteI32(-2000000000)
	c.WriteF32(1.5)
	c.WriteF64(-2.25)
	require.NoError(t, c.Err())

	r := Wrap(c.Bytes())

	u8, err := r.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), u8)

	u16, err := r.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), u16)

	u24, err := r.ReadU24()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xC0FFEE), u24)

	u32, err := r.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	i8, err := r.ReadI8()
	require.NoError(t, err)
	assert.Equal(t, int8(-5), i8)

	i16, err := r.ReadI16()
	require.NoError(t, err)
	assert.Equal(t, int16(-1234), i16)

	i24, err := r.ReadI24()
	require.NoError(t, err)
	assert.Equal(t, int32(-100000), i24)

	i32, err := r.ReadI32()
	require.NoError(t, err)
	assert.Equal(t, int32(-2000000000), i32)

	f32, err := r.ReadF32()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f32)

	f64, err := r.ReadF64()
	require.NoError(t, err)
	assert.Equal(t, -2.25, f64)

	assert.Equal(t, 0, r.Remaining())
}

func TestI24SignExtension(t *testing.T) {
	tests := []int32{0, 1, -1, 8388607, -8388608, 42, -42}
	for _, v := range tests {
		c := New()
		c.WriteI24(v)
		require.NoError(t, c.Err())

		got, err := Wrap(c.Bytes()).ReadI24()
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestStringRoundTrip(t *testing.T) {
	short := "hello"
	long := strings.Repeat("x", 300)

	c := New()
	c.WriteShortString(short)
	c.WriteLongString(long)
	c.WriteShortString("")
	require.NoError(t, c.Err())

	r := Wrap(c.Bytes())

	s, err := r.ReadShortString()
	require.NoError(t, err)
	assert.Equal(t, short, s)

	l, err := r.ReadLongString()
	require.NoError(t, err)
	assert.Equal(t, long, l)

	e, err := r.ReadShortString()
	require.NoError(t, err)
	assert.Equal(t, "", e)
}

func TestStringLimits(t *testing.T) {
	c := New()
	c.WriteShortString(strings.Repeat("a", wire.MaxShortString+1))

	var encErr *wire.EncodeError
	require.ErrorAs(t, c.Err(), &encErr)
	assert.Equal(t, wire.EncodeSizeLimitExceeded, encErr.Kind)

	c2 := New()
	c2.WriteLongString(strings.Repeat("a", wire.MaxLongString+1))
	require.ErrorAs(t, c2.Err(), &encErr)
}

func TestBlobRoundTrip(t *testing.T) {
	data := []byte{0xFF, 0x00, 0x01, 0xFE}
	c := New()
	c.WriteBlob(data)
	require.NoError(t, c.Err())

	got, err := Wrap(c.Bytes()).ReadBlob()
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestBlobLengthValidatedBeforeAllocation(t *testing.T) {
	// Declares 4GiB-ish of payload with 2 bytes behind it.
	c := New()
	c.WriteU32(0xFFFFFFF0)
	c.WriteU16(0)
	require.NoError(t, c.Err())

	_, err := Wrap(c.Bytes()).ReadBlob()
	var decErr *wire.DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, wire.DecodeInvalidLength, decErr.Kind)
	assert.Equal(t, 0, decErr.Offset)
}

func TestTruncatedReads(t *testing.T) {
	r := Wrap([]byte{0x01, 0x02})

	_, err := r.ReadU32()
	var decErr *wire.DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, wire.DecodeTruncatedInput, decErr.Kind)
	assert.Equal(t, 0, decErr.Offset)

	// A failed read consumes nothing.
	u16, err := r.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0201), u16)
}

func TestWriteCeilingIsSticky(t *testing.T) {
	c := NewWithLimit(8)
	c.WriteU32(1)
	c.WriteU32(2)
	require.NoError(t, c.Err())

	c.WriteU8(3)
	var encErr *wire.EncodeError
	require.ErrorAs(t, c.Err(), &encErr)
	assert.Equal(t, wire.EncodeSizeLimitExceeded, encErr.Kind)

	// Later writes do not clear or replace the first error.
	c.WriteU32(4)
	require.ErrorAs(t, c.Err(), &encErr)
	assert.Equal(t, 8, c.Len())
}
