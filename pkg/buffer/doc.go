// Package buffer provides the Cursor, the growable byte buffer all
// encoding and decoding is built on.
//
// A Cursor owns its backing slice exclusively and is created per
// encode/decode call; it is not safe for concurrent use and is discarded
// when the call ends. Writes accumulate into the buffer and record the
// first error (sticky, checked via Err). Reads consume from a separate
// read offset and return wire.DecodeError with positional context.
package buffer
