package lz

import (
	"encoding/binary"

	"github.com/terse-protocol/terse-go/pkg/wire"
)

// Decompress expands a token stream produced by Compress. Malformed
// input (truncated tokens, zero offsets, offsets reaching before the
// start of output, or output growth past wire.MaxInputSize) is reported
// as a wire.DecodeError and never read out of bounds.
func Decompress(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, wire.NewDecodeError(wire.DecodeTruncatedInput, 0, "empty compressed stream")
	}
	if len(src) > wire.MaxInputSize {
		return nil, wire.NewDecodeError(wire.DecodeInvalidLength, 0,
			"compressed stream of %d bytes exceeds input ceiling", len(src))
	}

	out := make([]byte, 0, len(src)*2)
	pos := 0
	for pos < len(src) {
		token := src[pos]
		pos++

		litLen := int(token >> 4)
		if litLen == 15 {
			var err error
			litLen, err = readLengthExt(src, &pos, litLen)
			if err != nil {
				return nil, err
			}
		}
		if pos+litLen > len(src) {
			return nil, wire.NewDecodeError(wire.DecodeTruncatedInput, pos,
				"literal run of %d bytes exceeds input", litLen)
		}
		if len(out)+litLen > wire.MaxInputSize {
			return nil, wire.NewDecodeError(wire.DecodeInvalidLength, pos,
				"output exceeds input ceiling")
		}
		out = append(out, src[pos:pos+litLen]...)
		pos += litLen

		// The final token carries only literals.
		if pos == len(src) {
			return out, nil
		}

		if pos+2 > len(src) {
			return nil, wire.NewDecodeError(wire.DecodeTruncatedInput, pos, "missing match offset")
		}
		offset := int(binary.LittleEndian.Uint16(src[pos:]))
		offsetPos := pos
		pos += 2
		if offset == 0 {
			return nil, wire.NewDecodeError(wire.DecodeInvalidOffset, offsetPos, "match offset 0")
		}
		if offset > len(out) {
			return nil, wire.NewDecodeError(wire.DecodeInvalidOffset, offsetPos,
				"match offset %d reaches before start of output (%d bytes written)", offset, len(out))
		}

		matchLen := int(token & 0x0F)
		if matchLen == 15 {
			var err error
			matchLen, err = readLengthExt(src, &pos, matchLen)
			if err != nil {
				return nil, err
			}
		}
		matchLen += MinMatch
		if len(out)+matchLen > wire.MaxInputSize {
			return nil, wire.NewDecodeError(wire.DecodeInvalidLength, pos,
				"output exceeds input ceiling")
		}

		start := len(out) - offset
		if offset < matchLen {
			// The source range overlaps the bytes being written, so the
			// copy must proceed byte by byte.
			for i := 0; i < matchLen; i++ {
				out = append(out, out[start+i])
			}
		} else {
			out = append(out, out[start:start+matchLen]...)
		}
	}

	// A conforming stream always ends inside the literal branch above.
	return nil, wire.NewDecodeError(wire.DecodeTruncatedInput, pos, "stream ended mid-token")
}

// readLengthExt accumulates a nibble-overflow length extension: each 0xFF
// adds 255 and a final byte below 255 terminates the chain.
func readLengthExt(src []byte, pos *int, base int) (int, error) {
	v := base
	for {
		if *pos >= len(src) {
			return 0, wire.NewDecodeError(wire.DecodeTruncatedInput, *pos,
				"length extension runs past input")
		}
		b := src[*pos]
		*pos++
		v += int(b)
		if b < 0xFF {
			return v, nil
		}
	}
}
