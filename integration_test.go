package terse_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/terse-protocol/terse-go/pkg/codec"
	"github.com/terse-protocol/terse-go/pkg/ext"
	"github.com/terse-protocol/terse-go/pkg/inspect"
	"github.com/terse-protocol/terse-go/pkg/log"
	"github.com/terse-protocol/terse-go/pkg/wire"
)

// TestE2E_RoundTripWithCapture runs a realistic document through encode
// and decode with a capture logger attached, then replays the capture.
func TestE2E_RoundTripWithCapture(t *testing.T) {
	var capture bytes.Buffer
	logger := log.NewCaptureLogger(&capture)

	c := codec.New(codec.Options{Logger: logger})

	document := map[string]any{
		"device":  "meter-12",
		"active":  true,
		"power":   1500,
		"energy":  17.5,
		"samples": []any{100, 200, 300, 400},
		"trace":   []byte{0xDE, 0xAD, 0xBE, 0xEF},
	}

	payload, err := c.Encode(document)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := c.Decode(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	want := map[any]any{
		"device":  "meter-12",
		"active":  true,
		"power":   int64(1500),
		"energy":  17.5,
		"samples": []any{int64(100), int64(200), int64(300), int64(400)},
		"trace":   []byte{0xDE, 0xAD, 0xBE, 0xEF},
	}
	if !reflect.DeepEqual(want, decoded) {
		t.Errorf("round trip mismatch:\n got: %#v\nwant: %#v", decoded, want)
	}

	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Replay the capture stream.
	events, err := log.NewReader(bytes.NewReader(capture.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 captured events, got %d", len(events))
	}
	if events[0].Stage != log.StageEncode || events[1].Stage != log.StageDecode {
		t.Errorf("unexpected stages: %s, %s", events[0].Stage, events[1].Stage)
	}
	for _, event := range events {
		if event.Failed() {
			t.Errorf("event unexpectedly failed: %s", event.Error)
		}
	}
}

// TestE2E_StructuredTypes exercises the built-in extension registrations
// end to end, including the inspector's extension naming.
func TestE2E_StructuredTypes(t *testing.T) {
	ext.Register()

	positions := []any{
		ext.Vector3{X: 1, Y: 2, Z: 3},
		ext.Vector3{X: -4, Y: 5.5, Z: 0},
	}

	payload, err := codec.Encode(positions)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if wire.Header(payload[0]).Fallback() {
		t.Fatal("structured types should not need the fallback encoding")
	}

	decoded, err := codec.Decode(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(positions, decoded) {
		t.Errorf("round trip mismatch: got %#v", decoded)
	}

	dump, err := inspect.Dump(payload)
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	if !strings.Contains(dump, "Vector3") {
		t.Errorf("expected extension name in dump, got:\n%s", dump)
	}
}

// TestE2E_ReferenceTracking shares one subtree across a document and
// verifies the decoded document shares it too.
func TestE2E_ReferenceTracking(t *testing.T) {
	c := codec.New(codec.Options{TrackReferences: true})

	limits := map[string]any{"min": 0, "max": 32000}
	document := map[string]any{
		"phase_a": limits,
		"phase_b": limits,
		"phase_c": limits,
	}

	payload, err := c.Encode(document)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := c.Decode(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	m, ok := decoded.(map[any]any)
	if !ok {
		t.Fatalf("expected map, got %T", decoded)
	}
	a := m["phase_a"].(map[any]any)
	b := m["phase_b"].(map[any]any)
	if reflect.ValueOf(a).Pointer() != reflect.ValueOf(b).Pointer() {
		t.Error("shared subtree decoded to distinct instances")
	}
	if a["max"] != int64(32000) {
		t.Errorf("unexpected subtree content: %#v", a)
	}
}

// TestE2E_CompressionStats encodes a repetitive document and checks the
// compressed frame via the inspector.
func TestE2E_CompressionStats(t *testing.T) {
	samples := make([]any, 1000)
	for i := range samples {
		samples[i] = 1500
	}

	payload, err := codec.Encode(map[string]any{"samples": samples})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !wire.Header(payload[0]).Compressed() {
		t.Fatal("expected a compressed frame")
	}

	stats, err := inspect.Stat(payload)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !stats.Compressed {
		t.Error("stats should report compression")
	}
	if stats.BodySize <= stats.PayloadSize {
		t.Errorf("decompressed body (%d) should exceed frame size (%d)",
			stats.BodySize, stats.PayloadSize)
	}
	if stats.TagCounts[wire.TagU16] != 1000 {
		t.Errorf("expected 1000 U16 elements, got %d", stats.TagCounts[wire.TagU16])
	}

	decoded, err := codec.Decode(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	got := decoded.(map[any]any)["samples"].([]any)
	if len(got) != 1000 || got[0] != int64(1500) {
		t.Errorf("unexpected decoded samples: len=%d", len(got))
	}
}

// TestE2E_FallbackInterop verifies values outside the primary encoding
// still round-trip through the generic body.
func TestE2E_FallbackInterop(t *testing.T) {
	type config struct {
		Name    string `cbor:"name"`
		Retries int    `cbor:"retries"`
	}

	payload, err := codec.Encode(config{Name: "uplink", Retries: 3})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !wire.Header(payload[0]).Fallback() {
		t.Fatal("expected a fallback frame")
	}

	decoded, err := codec.Decode(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	m, ok := decoded.(map[any]any)
	if !ok {
		t.Fatalf("expected generic map, got %T", decoded)
	}
	if m["name"] != "uplink" {
		t.Errorf("unexpected name: %#v", m["name"])
	}
}
