// Package wire defines the byte-level contract of the terse encoding.
//
// A framed payload is one header byte followed by a body. The header
// encodes two independent bits: whether the body is block-compressed and
// whether it uses the primary tagged encoding or the generic CBOR
// fallback. See Header.
//
// # Type Tags
//
// A primary-encoded body begins with exactly one top-level TypeTag byte.
// Tags are grouped into reserved ranges so the family of a tag is visible
// from its high nibble:
//
//	0x00-0x0F  nil, bool
//	0x10-0x1F  numerics (zero, unsigned/signed widths, float tiers)
//	0x20-0x2F  strings and blobs
//	0x30-0x3F  collections and references
//	0x40-0x7F  structured extensions (tag = 0x40 + typeId)
//
// # Numeric Subtypes
//
// Integers are stored in the narrowest width covering their value,
// preferring unsigned for non-negative values. Floats are stored in one of
// four magnitude-bucketed precision tiers: F16 and F24 are signed
// fixed-point with 8 fraction bits (Q7.8 and Q15.8), F32 and F64 are IEEE
// single and double precision. The tiers trade precision for the common
// case of small, frequently-transmitted values.
//
// # Errors
//
// EncodeError and DecodeError are the only error types the codec returns.
// Decode errors always carry the byte offset at which decoding failed.
package wire
