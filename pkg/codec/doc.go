// Package codec turns in-memory values into framed wire payloads and
// back.
//
// Encode resolves each value to the narrowest TypeTag, classifies
// collections as homogeneous arrays or general maps, writes the tagged
// body through a per-call Cursor, optionally block-compresses it, and
// prepends the frame header. Values the primary encoding cannot
// represent are retried through a generic CBOR fallback, marked in the
// header; only when the fallback also fails does Encode return an error.
// Decode routes on the header and mirrors the encoder exactly.
//
// Every call owns its cursor, hash table and reference state, so a
// Codec (and the package-level functions) may be used concurrently from
// any number of goroutines. The only process-wide state is the
// structured-extension registry, which is write-once and intended to be
// populated during startup via RegisterStructuredType.
package codec
