package codec

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terse-protocol/terse-go/pkg/log"
	"github.com/terse-protocol/terse-go/pkg/wire"
)

func TestScalarRoundTrips(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want any
	}{
		{"nil", nil, nil},
		{"true", true, true},
		{"false", false, false},
		{"zero", 0, int64(0)},
		{"u8", 200, int64(200)},
		{"u16", 256, int64(256)},
		{"u24", 70000, int64(70000)},
		{"u32", int64(4294967295), int64(4294967295)},
		{"s8", -100, int64(-100)},
		{"s16", -129, int64(-129)},
		{"s24", -40000, int64(-40000)},
		{"s32", int64(-2147483648), int64(-2147483648)},
		{"f16 exact", 0.5, 0.5},
		{"f24 exact", 1000.25, 1000.25},
		{"f32 exact", 100000.5, 100000.5},
		{"f64", 1e10 + 0.5, 1e10 + 0.5},
		{"integer-valued float", 42.0, int64(42)},
		{"empty string", "", ""},
		{"short string", "hello", "hello"},
		{"long string", strings.Repeat("x", 300), strings.Repeat("x", 300)},
		{"blob", []byte{1, 2, 3}, []byte{1, 2, 3}},
		{"empty blob", []byte{}, []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := Encode(tt.v)
			require.NoError(t, err)
			require.NotEmpty(t, payload)
			assert.False(t, wire.Header(payload[0]).Fallback())

			decoded, err := Decode(payload)
			require.NoError(t, err)
			assert.Equal(t, tt.want, decoded)
		})
	}
}

func TestQuantizedFloatRoundTrip(t *testing.T) {
	// Values off the 1/256 grid come back within half a step.
	for _, f := range []float64{0.1, -3.14159, 99.99} {
		payload, err := Encode(f)
		require.NoError(t, err)
		decoded, err := Decode(payload)
		require.NoError(t, err)
		assert.InDelta(t, f, decoded.(float64), 1.0/fixedPointScale)
	}
}

func TestSpecialFloats(t *testing.T) {
	payload, err := Encode(math.NaN())
	require.NoError(t, err)
	decoded, err := Decode(payload)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(decoded.(float64)))

	payload, err = Encode(math.Inf(-1))
	require.NoError(t, err)
	decoded, err = Decode(payload)
	require.NoError(t, err)
	assert.True(t, math.IsInf(decoded.(float64), -1))
}

func TestMarkedStringBecomesBlob(t *testing.T) {
	marked := string([]byte{wire.BlobMarker, 'a', 'b'})
	payload, err := Encode(marked)
	require.NoError(t, err)

	decoded, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, []byte(marked), decoded)
}

func TestHomogeneousArrayWireForm(t *testing.T) {
	c := New(Options{DisableCompression: true})

	payload, err := c.Encode([]any{10, 20, 30})
	require.NoError(t, err)

	// Header, array tag, element tag, count, three one-byte payloads.
	require.Equal(t, 1+1+1+4+3, len(payload))
	assert.Equal(t, uint8(wire.TagArray), payload[1])
	assert.Equal(t, uint8(wire.TagU8), payload[2])

	decoded, err := c.Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(10), int64(20), int64(30)}, decoded)
}

func TestMixedCollectionBecomesMap(t *testing.T) {
	c := New(Options{DisableCompression: true})

	payload, err := c.Encode([]any{10, "x", true})
	require.NoError(t, err)
	assert.Equal(t, uint8(wire.TagMap), payload[1])

	decoded, err := c.Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, map[any]any{
		int64(1): int64(10),
		int64(2): "x",
		int64(3): true,
	}, decoded)
}

func TestSingleElementCollectionBecomesMap(t *testing.T) {
	c := New(Options{DisableCompression: true})

	payload, err := c.Encode([]any{42})
	require.NoError(t, err)
	assert.Equal(t, uint8(wire.TagMap), payload[1])

	decoded, err := c.Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, map[any]any{int64(1): int64(42)}, decoded)
}

func TestMapRoundTrip(t *testing.T) {
	in := map[string]any{
		"name":  "sensor-4",
		"value": 17.5,
		"ok":    true,
		"tags":  []any{1, 2, 3},
	}
	payload, err := Encode(in)
	require.NoError(t, err)

	decoded, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, map[any]any{
		"name":  "sensor-4",
		"value": 17.5,
		"ok":    true,
		"tags":  []any{int64(1), int64(2), int64(3)},
	}, decoded)
}

func TestMixedKeyMapRoundTrip(t *testing.T) {
	in := map[any]any{
		true:  "bool key",
		7:     "int key",
		"str": "string key",
	}
	payload, err := Encode(in)
	require.NoError(t, err)

	decoded, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, map[any]any{
		true:     "bool key",
		int64(7): "int key",
		"str":    "string key",
	}, decoded)
}

func TestEncodingIsDeterministic(t *testing.T) {
	in := map[string]any{"b": 2, "a": 1, "c": []any{3, 4}}
	first, err := Encode(in)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Encode(in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestNestedStructures(t *testing.T) {
	in := map[string]any{
		"outer": map[string]any{
			"inner": []any{[]any{1, 2}, []any{3, 4}},
		},
	}
	payload, err := Encode(in)
	require.NoError(t, err)

	decoded, err := Decode(payload)
	require.NoError(t, err)
	want := map[any]any{
		"outer": map[any]any{
			"inner": []any{[]any{int64(1), int64(2)}, []any{int64(3), int64(4)}},
		},
	}
	assert.Equal(t, want, decoded)
}

func TestCompressedFrame(t *testing.T) {
	elements := make([]any, 500)
	for i := range elements {
		elements[i] = 7
	}

	payload, err := Encode(elements)
	require.NoError(t, err)
	assert.True(t, wire.Header(payload[0]).Compressed())
	// 500 repeated bytes must shrink well below the raw body.
	assert.Less(t, len(payload), 200)

	decoded, err := Decode(payload)
	require.NoError(t, err)
	require.Len(t, decoded, 500)
	assert.Equal(t, int64(7), decoded.([]any)[0])
}

func TestIncompressibleFrameStaysRaw(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	blob := make([]byte, 1024)
	rng.Read(blob)

	payload, err := Encode(blob)
	require.NoError(t, err)
	assert.False(t, wire.Header(payload[0]).Compressed())
	// Raw frame costs exactly one header byte over the body.
	assert.Equal(t, 1+1+4+len(blob), len(payload))

	decoded, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, blob, decoded)
}

func TestDisableCompression(t *testing.T) {
	c := New(Options{DisableCompression: true})

	elements := make([]any, 500)
	for i := range elements {
		elements[i] = 7
	}
	payload, err := c.Encode(elements)
	require.NoError(t, err)
	assert.False(t, wire.Header(payload[0]).Compressed())

	decoded, err := c.Decode(payload)
	require.NoError(t, err)
	require.Len(t, decoded, 500)
}

func TestFallbackForUnsupportedValues(t *testing.T) {
	type reading struct {
		ID    int    `cbor:"id"`
		Label string `cbor:"label"`
	}

	payload, err := Encode(reading{ID: 3, Label: "west"})
	require.NoError(t, err)
	assert.True(t, wire.Header(payload[0]).Fallback())

	decoded, err := Decode(payload)
	require.NoError(t, err)
	m, ok := decoded.(map[any]any)
	require.True(t, ok, "fallback body should decode to a generic map, got %T", decoded)
	assert.EqualValues(t, 3, m["id"])
	assert.EqualValues(t, "west", m["label"])
}

func TestFallbackForTypedSlices(t *testing.T) {
	payload, err := Encode([]int{1, 2, 3})
	require.NoError(t, err)
	assert.True(t, wire.Header(payload[0]).Fallback())

	decoded, err := Decode(payload)
	require.NoError(t, err)
	arr, ok := decoded.([]any)
	require.True(t, ok)
	require.Len(t, arr, 3)
	assert.EqualValues(t, 1, arr[0])
}

func TestFallbackForOversizedString(t *testing.T) {
	huge := strings.Repeat("z", wire.MaxLongString+1)

	payload, err := Encode(huge)
	require.NoError(t, err)
	assert.True(t, wire.Header(payload[0]).Fallback())

	decoded, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, huge, decoded)
}

func TestFallbackForUnsupportedMapKey(t *testing.T) {
	in := map[any]any{[2]int{1, 2}: "array key"}

	payload, err := Encode(in)
	require.NoError(t, err)
	assert.True(t, wire.Header(payload[0]).Fallback())
}

func TestCyclicValueFailsWithoutFallback(t *testing.T) {
	a := make([]any, 2)
	b := make([]any, 2)
	a[0], a[1] = b, b
	b[0], b[1] = a, a

	_, err := Encode(a)
	var encErr *wire.EncodeError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, wire.EncodeUnrecoverable, encErr.Kind)
}

func TestEncodeSizeCeiling(t *testing.T) {
	c := New(Options{MaxEncodedSize: 8, DisableCompression: true})

	_, err := c.Encode(make([]byte, 100))
	var encErr *wire.EncodeError
	require.ErrorAs(t, err, &encErr)
	// Primary hits the ceiling, then the fallback body does too.
	assert.Equal(t, wire.EncodeUnrecoverable, encErr.Kind)
}

func TestDecodeMalformedInputs(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		kind    wire.DecodeErrorKind
	}{
		{"empty", nil, wire.DecodeTruncatedInput},
		{"reserved header bits", []byte{0x80, 0x10}, wire.DecodeMalformedHeader},
		{"header only", []byte{0x00}, wire.DecodeTruncatedInput},
		{"unknown tag", []byte{0x00, 0xF0}, wire.DecodeUnknownTag},
		{"reserved tag", []byte{0x00, 0x0F}, wire.DecodeUnknownTag},
		{"truncated u16", []byte{0x00, uint8(wire.TagU16), 0x01}, wire.DecodeTruncatedInput},
		{"truncated string body", []byte{0x00, uint8(wire.TagShortString), 0x05, 'a'}, wire.DecodeTruncatedInput},
		{"truncated blob length", []byte{0x00, uint8(wire.TagBlob), 0x01, 0x00}, wire.DecodeTruncatedInput},
		{"array count too large", []byte{0x00, uint8(wire.TagArray), uint8(wire.TagU32), 0xFF, 0xFF, 0xFF, 0x7F}, wire.DecodeInvalidLength},
		// 20 million nil elements declared by a 7-byte payload.
		{"runaway nil element count", []byte{0x00, uint8(wire.TagArray), uint8(wire.TagNil), 0x00, 0x2D, 0x31, 0x01}, wire.DecodeInvalidLength},
		{"map count too large", []byte{0x00, uint8(wire.TagMap), 0xFF, 0xFF, 0xFF, 0x7F}, wire.DecodeInvalidLength},
		{"reference out of range", []byte{0x00, uint8(wire.TagReference), 0x09, 0x00, 0x00, 0x00}, wire.DecodeInvalidOffset},
		{"reference as element tag", []byte{0x00, uint8(wire.TagArray), uint8(wire.TagReference), 0x00, 0x00, 0x00, 0x00}, wire.DecodeUnknownTag},
		{"container as map key", []byte{0x00, uint8(wire.TagMap), 0x01, 0x00, 0x00, 0x00, uint8(wire.TagArray), uint8(wire.TagNil)}, wire.DecodeUnknownTag},
		{"compressed with empty body", []byte{0x01}, wire.DecodeTruncatedInput},
		{"garbage compressed body", []byte{0x01, 0xFF, 0xFF, 0xFF}, wire.DecodeTruncatedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.payload)
			var decErr *wire.DecodeError
			require.ErrorAs(t, err, &decErr)
			assert.Equal(t, tt.kind, decErr.Kind)
		})
	}
}

func TestLargeNilArrayRoundTrip(t *testing.T) {
	elements := make([]any, 100000)
	payload, err := New(Options{DisableCompression: true}).Encode(elements)
	require.NoError(t, err)

	// Nil elements carry no payload: header, array tag, element tag, count.
	assert.Equal(t, 7, len(payload))

	decoded, err := Decode(payload)
	require.NoError(t, err)
	assert.Len(t, decoded, 100000)
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	payload, err := New(Options{DisableCompression: true}).Encode(42)
	require.NoError(t, err)

	_, err = Decode(append(payload, 0x00))
	var decErr *wire.DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, wire.DecodeInvalidLength, decErr.Kind)
}

func TestDecodeNeverPanicsOnRandomInput(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		payload := make([]byte, rng.Intn(64))
		rng.Read(payload)
		// Errors are expected; panics and hangs are not.
		_, _ = Decode(payload)
	}
}

func TestTruncatedValidPayloads(t *testing.T) {
	c := New(Options{DisableCompression: true})
	payload, err := c.Encode(map[string]any{"key": []any{1, 2, 3}, "n": 500})
	require.NoError(t, err)

	for cut := 1; cut < len(payload); cut++ {
		_, err := Decode(payload[:cut])
		var decErr *wire.DecodeError
		assert.ErrorAs(t, err, &decErr, "truncation at %d must fail cleanly", cut)
	}
}

type recordingLogger struct {
	events []log.Event
}

func (r *recordingLogger) Log(event log.Event) {
	r.events = append(r.events, event)
}

func TestCodecEmitsEvents(t *testing.T) {
	rec := &recordingLogger{}
	c := New(Options{Logger: rec})

	payload, err := c.Encode("hello")
	require.NoError(t, err)
	_, err = c.Decode(payload)
	require.NoError(t, err)
	_, _ = c.Decode([]byte{0x80})

	require.Len(t, rec.events, 3)

	enc := rec.events[0]
	assert.Equal(t, log.StageEncode, enc.Stage)
	assert.Equal(t, len(payload), enc.OutSize)
	assert.Equal(t, uint8(wire.TagShortString), enc.TopTag)
	assert.False(t, enc.Failed())

	dec := rec.events[1]
	assert.Equal(t, log.StageDecode, dec.Stage)
	assert.Equal(t, len(payload), dec.InSize)
	assert.False(t, dec.Failed())

	bad := rec.events[2]
	assert.True(t, bad.Failed())
}

func TestConcurrentUse(t *testing.T) {
	c := New(Options{})
	done := make(chan struct{})
	for g := 0; g < 8; g++ {
		go func(seed int64) {
			defer func() { done <- struct{}{} }()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < 200; i++ {
				in := map[string]any{"n": rng.Intn(100000), "s": "concurrent"}
				payload, err := c.Encode(in)
				if err != nil {
					t.Error(err)
					return
				}
				if _, err := c.Decode(payload); err != nil {
					t.Error(err)
					return
				}
			}
		}(int64(g))
	}
	for g := 0; g < 8; g++ {
		<-done
	}
}
