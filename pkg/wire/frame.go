package wire

// Header is the leading byte of every framed payload.
//
// Layout:
//
//	bit 0: body is block-compressed
//	bit 1: body uses the generic fallback encoding instead of the
//	       primary tagged encoding
//	bits 2-7: reserved, must be zero
type Header uint8

const (
	// HeaderCompressed marks a block-compressed body.
	HeaderCompressed Header = 1 << 0

	// HeaderFallback marks a body in the generic fallback encoding.
	HeaderFallback Header = 1 << 1

	// headerReserved are the bits that must be zero in a valid header.
	headerReserved Header = ^(HeaderCompressed | HeaderFallback)
)

// Compressed reports whether the body is block-compressed.
func (h Header) Compressed() bool {
	return h&HeaderCompressed != 0
}

// Fallback reports whether the body uses the fallback encoding.
func (h Header) Fallback() bool {
	return h&HeaderFallback != 0
}

// IsValid reports whether all reserved bits are zero.
func (h Header) IsValid() bool {
	return h&headerReserved == 0
}

// String returns the header as "raw|primary" style text.
func (h Header) String() string {
	body := "raw"
	if h.Compressed() {
		body = "compressed"
	}
	enc := "primary"
	if h.Fallback() {
		enc = "fallback"
	}
	return body + "|" + enc
}

// Wire format limits. These are part of the byte-level contract and must
// match on both peers.
const (
	// MaxInputSize is the hard ceiling on encode input growth and on
	// decode/decompress input length. Inputs above it are rejected
	// before any work is attempted.
	MaxInputSize = 50 << 20

	// MaxDecodedElements is the cumulative ceiling on container elements
	// one decode may materialize, across all nesting levels. Payload-less
	// element tags let a few bytes declare an arbitrary count, so the
	// input byte ceiling alone cannot bound allocation; this keeps the
	// decoded element headers within the same bound.
	MaxDecodedElements = MaxInputSize / 16

	// MaxShortString is the longest string encodable with TagShortString.
	MaxShortString = 255

	// MaxLongString is the longest encodable string. Longer strings are
	// a SizeLimitExceeded encode error.
	MaxLongString = 65535

	// BlobMarker is the byte historically reserved to introduce
	// pre-serialized sub-buffers. Strings beginning with it are encoded
	// as TagBlob so the two can never be confused.
	BlobMarker = 0xFF

	// FixedPointScale is the quantization factor for the F16/F24
	// fixed-point tiers: 8 fraction bits.
	FixedPointScale = 256
)
