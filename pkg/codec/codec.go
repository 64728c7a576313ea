package codec

import (
	"errors"
	"time"

	"github.com/terse-protocol/terse-go/pkg/log"
	"github.com/terse-protocol/terse-go/pkg/lz"
	"github.com/terse-protocol/terse-go/pkg/wire"
)

// Options configures a Codec. The zero value is a production-ready
// default: no logging, compression enabled, reference tracking off.
type Options struct {
	// Logger receives one event per Encode/Decode call. Nil disables
	// logging.
	Logger log.Logger

	// TrackReferences enables the opt-in shared/cyclic structure mode:
	// repeated containers are encoded once and referenced afterwards.
	// Collections of containers lose homogeneous packing in this mode.
	TrackReferences bool

	// DisableCompression skips block compression; every frame is raw.
	DisableCompression bool

	// MaxEncodedSize overrides wire.MaxInputSize as the encode ceiling.
	// Zero means wire.MaxInputSize. The decode ceiling is always
	// wire.MaxInputSize, since it guards against hostile input.
	MaxEncodedSize int
}

// Codec encodes values into framed payloads and back. A Codec is
// immutable after creation and safe for concurrent use; every call owns
// its cursor and tables.
type Codec struct {
	opts   Options
	logger log.Logger
}

// New creates a Codec with the given options.
func New(opts Options) *Codec {
	logger := opts.Logger
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Codec{opts: opts, logger: logger}
}

// defaultCodec backs the package-level functions.
var defaultCodec = New(Options{})

// Encode encodes a value into a framed payload using default options.
func Encode(v any) ([]byte, error) {
	return defaultCodec.Encode(v)
}

// Decode decodes a framed payload using default options.
func Decode(payload []byte) (any, error) {
	return defaultCodec.Decode(payload)
}

// Encode turns a value into a framed payload: one header byte followed
// by the (possibly compressed) body. Values the primary encoding cannot
// represent are retried through the generic fallback; encode fails only
// when the fallback fails too.
func (c *Codec) Encode(v any) ([]byte, error) {
	event := log.Event{Stage: log.StageEncode}
	defer c.emit(&event)

	body, topTag, err := c.encodePrimary(v)
	if err != nil {
		var encErr *wire.EncodeError
		if errors.As(err, &encErr) && encErr.Kind != wire.EncodeUnrecoverable {
			// UnsupportedType and SizeLimitExceeded are recovered
			// locally with the generic encoding.
			body, err = fallbackEncode(v, c.sizeLimit())
			if err == nil {
				event.Fallback = true
				encodeFallbackTotal.Inc()
			}
		}
		if err != nil {
			event.Error = err.Error()
			encodeErrorTotal.Inc()
			return nil, err
		}
	} else {
		event.TopTag = uint8(topTag)
	}

	header := wire.Header(0)
	if event.Fallback {
		header |= wire.HeaderFallback
	}

	if !c.opts.DisableCompression {
		if compressed := lz.Compress(body); compressed != nil {
			header |= wire.HeaderCompressed
			event.Compressed = true
			compressedFrameTotal.Inc()
			compressionSavedBytes.Add(len(body) - len(compressed))
			body = compressed
		}
	}

	payload := make([]byte, 0, len(body)+1)
	payload = append(payload, uint8(header))
	payload = append(payload, body...)

	event.Header = uint8(header)
	event.OutSize = len(payload)
	encodeTotal.Inc()
	return payload, nil
}

// encodePrimary runs the primary tagged encoding and returns the body
// and its top-level tag.
func (c *Codec) encodePrimary(v any) ([]byte, wire.TypeTag, error) {
	topTag, err := resolveDepth(v, c.opts.TrackReferences, 0)
	if err != nil {
		return nil, 0, err
	}

	enc := newEncoder(c.opts.MaxEncodedSize, c.opts.TrackReferences)
	if err := enc.writeValue(v); err != nil {
		return nil, 0, err
	}
	return enc.cur.Bytes(), topTag, nil
}

// Decode turns a framed payload back into a value. All failures are
// wire.DecodeError with positional context; no input can cause a crash
// or an out-of-bounds read.
func (c *Codec) Decode(payload []byte) (any, error) {
	event := log.Event{Stage: log.StageDecode, InSize: len(payload)}
	defer c.emit(&event)

	v, err := c.decode(payload, &event)
	if err != nil {
		event.Error = err.Error()
		decodeErrorTotal.Inc()
		return nil, err
	}
	decodeTotal.Inc()
	return v, nil
}

func (c *Codec) decode(payload []byte, event *log.Event) (any, error) {
	if len(payload) == 0 {
		return nil, wire.NewDecodeError(wire.DecodeTruncatedInput, 0, "empty payload")
	}
	if len(payload) > wire.MaxInputSize+1 {
		return nil, wire.NewDecodeError(wire.DecodeInvalidLength, 0,
			"payload of %d bytes exceeds input ceiling", len(payload))
	}

	header := wire.Header(payload[0])
	if !header.IsValid() {
		return nil, wire.NewDecodeError(wire.DecodeMalformedHeader, 0,
			"header byte 0x%02X", payload[0])
	}
	event.Header = uint8(header)
	event.Compressed = header.Compressed()
	event.Fallback = header.Fallback()

	body := payload[1:]
	if header.Compressed() {
		var err error
		body, err = lz.Decompress(body)
		if err != nil {
			return nil, err
		}
	}

	if header.Fallback() {
		return fallbackDecode(body)
	}

	if len(body) > 0 {
		event.TopTag = body[0]
	}
	dec := newDecoder(body)
	v, err := dec.readValue()
	if err != nil {
		return nil, err
	}
	if dec.cur.Remaining() != 0 {
		return nil, wire.NewDecodeError(wire.DecodeInvalidLength, dec.cur.Offset(),
			"%d trailing bytes after value", dec.cur.Remaining())
	}
	return v, nil
}

func (c *Codec) sizeLimit() int {
	if c.opts.MaxEncodedSize > 0 {
		return c.opts.MaxEncodedSize
	}
	return wire.MaxInputSize
}

func (c *Codec) emit(event *log.Event) {
	event.Timestamp = time.Now()
	c.logger.Log(*event)
}
