package lz

import (
	"encoding/binary"

	"github.com/terse-protocol/terse-go/pkg/wire"
)

const (
	// MinMatch is the shortest match worth encoding; shorter matches
	// cost more to encode than they save.
	MinMatch = 4

	// MaxDistance is how far back a match may reach.
	MaxDistance = 65535

	// MinCompressSize is the smallest input worth compressing. Below
	// it, token overhead exceeds any possible savings.
	MinCompressSize = 64

	// WorthRatio is the fraction of the original size the compressed
	// form must beat for the compressed frame to be kept.
	WorthRatio = 0.98

	hashLog  = 13
	hashSize = 1 << hashLog
)

// hash4 maps a 4-byte window to a hash table slot.
func hash4(v uint32) uint32 {
	return (v * 2654435761) >> (32 - hashLog)
}

func load32(b []byte, i int) uint32 {
	return binary.LittleEndian.Uint32(b[i:])
}

// Compress compresses src into a token stream. It returns nil when
// compression is skipped or not worthwhile: inputs below MinCompressSize
// or above wire.MaxInputSize, and outputs that fail to beat
// len(src)×WorthRatio, all fall back to raw framing at the caller.
func Compress(src []byte) []byte {
	if len(src) < MinCompressSize || len(src) > wire.MaxInputSize {
		return nil
	}

	// Per-call hash table: most recent position per 4-byte window hash.
	var table [hashSize]int32
	for i := range table {
		table[i] = -1
	}

	dst := make([]byte, 0, len(src))
	anchor := 0
	i := 0
	for i+MinMatch <= len(src) {
		h := hash4(load32(src, i))
		cand := int(table[h])
		table[h] = int32(i)

		if cand < 0 || i-cand > MaxDistance || load32(src, cand) != load32(src, i) {
			i++
			continue
		}

		// Greedily extend the verified 4-byte match forward.
		matchLen := MinMatch
		for i+matchLen < len(src) && src[cand+matchLen] == src[i+matchLen] {
			matchLen++
		}

		dst = appendToken(dst, src[anchor:i], matchLen, i-cand)
		i += matchLen
		anchor = i
	}

	dst = appendFinalLiterals(dst, src[anchor:])

	if len(dst) >= int(float64(len(src))*WorthRatio) {
		return nil
	}
	return dst
}

// appendToken emits one match token: nibble-packed lengths, literal
// bytes, then the 2-byte offset.
func appendToken(dst []byte, literals []byte, matchLen, offset int) []byte {
	litLen := len(literals)
	extra := matchLen - MinMatch

	token := byte(min(litLen, 15)) << 4
	token |= byte(min(extra, 15))
	dst = append(dst, token)
	if litLen >= 15 {
		dst = appendLengthExt(dst, litLen-15)
	}
	dst = append(dst, literals...)
	dst = binary.LittleEndian.AppendUint16(dst, uint16(offset))
	if extra >= 15 {
		dst = appendLengthExt(dst, extra-15)
	}
	return dst
}

// appendFinalLiterals emits the trailing literal-only token, which has no
// offset and terminates the stream.
func appendFinalLiterals(dst []byte, literals []byte) []byte {
	litLen := len(literals)
	dst = append(dst, byte(min(litLen, 15))<<4)
	if litLen >= 15 {
		dst = appendLengthExt(dst, litLen-15)
	}
	return append(dst, literals...)
}

// appendLengthExt emits the MSB-continuation extension for lengths that
// overflow a nibble: each 0xFF adds 255, a final byte below 255 terminates.
func appendLengthExt(dst []byte, v int) []byte {
	for v >= 255 {
		dst = append(dst, 0xFF)
		v -= 255
	}
	return append(dst, byte(v))
}
