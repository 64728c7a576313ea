// Package lz implements the block compressor used for framed payloads.
//
// The format is an LZ77 token stream. Each token is one byte packing the
// literal-run length and the match length into nibbles, followed by the
// literal bytes, a 2-byte little-endian match offset, and optional
// length-extension bytes (runs of 0xFF, each adding 255, terminated by a
// byte below 255). The final token of a stream carries only literals and
// no offset. Matches are at least 4 bytes long and reach at most 65535
// bytes back.
//
// Compress and Decompress are pure, stateless and single-shot; every call
// owns its hash table and output buffer, so concurrent use needs no
// synchronization. Compress never fails: when compression is not
// worthwhile it returns nil and the caller frames the input raw.
package lz
