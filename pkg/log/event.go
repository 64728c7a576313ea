package log

import (
	"time"
)

// Event represents one codec operation. CBOR encoding uses integer keys
// for compactness.
type Event struct {
	// Timestamp when the operation completed (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// Stage identifies the operation.
	Stage Stage `cbor:"2,keyasint"`

	// InSize is the input size in bytes: the encoded body for decode
	// and decompress, the raw body for compress. Zero for encode (the
	// input is a value, not bytes).
	InSize int `cbor:"3,keyasint,omitempty"`

	// OutSize is the output size in bytes.
	OutSize int `cbor:"4,keyasint,omitempty"`

	// Header is the frame header byte, for encode and decode stages.
	Header uint8 `cbor:"5,keyasint,omitempty"`

	// TopTag is the top-level TypeTag of a primary-encoded body.
	TopTag uint8 `cbor:"6,keyasint,omitempty"`

	// Fallback is true when the generic fallback encoding was used.
	Fallback bool `cbor:"7,keyasint,omitempty"`

	// Compressed is true when the body was block-compressed.
	Compressed bool `cbor:"8,keyasint,omitempty"`

	// Error holds the failure message when the operation failed.
	Error string `cbor:"9,keyasint,omitempty"`
}

// Stage identifies the codec operation an event describes.
type Stage uint8

const (
	// StageEncode is a value-to-payload encode, including framing.
	StageEncode Stage = 0

	// StageDecode is a payload-to-value decode, including framing.
	StageDecode Stage = 1

	// StageCompress is a standalone block compression.
	StageCompress Stage = 2

	// StageDecompress is a standalone block decompression.
	StageDecompress Stage = 3
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageEncode:
		return "ENCODE"
	case StageDecode:
		return "DECODE"
	case StageCompress:
		return "COMPRESS"
	case StageDecompress:
		return "DECOMPRESS"
	default:
		return "UNKNOWN"
	}
}

// Failed reports whether the operation ended in an error.
func (e Event) Failed() bool {
	return e.Error != ""
}
