package wire

import "fmt"

// EncodeErrorKind classifies encode failures.
type EncodeErrorKind uint8

const (
	// EncodeUnsupportedType means the value has no primary wire
	// representation. Recovered internally by the fallback encoding.
	EncodeUnsupportedType EncodeErrorKind = 0

	// EncodeSizeLimitExceeded means the value or its encoding exceeds a
	// wire format limit. Recovered internally where the fallback can
	// represent the value more compactly, otherwise surfaced.
	EncodeSizeLimitExceeded EncodeErrorKind = 1

	// EncodeUnrecoverable means the fallback encoding also failed.
	// Always surfaced to the caller.
	EncodeUnrecoverable EncodeErrorKind = 2
)

// String returns the kind name.
func (k EncodeErrorKind) String() string {
	switch k {
	case EncodeUnsupportedType:
		return "UNSUPPORTED_TYPE"
	case EncodeSizeLimitExceeded:
		return "SIZE_LIMIT_EXCEEDED"
	case EncodeUnrecoverable:
		return "UNRECOVERABLE"
	default:
		return "UNKNOWN"
	}
}

// EncodeError is the error type returned by encoding.
type EncodeError struct {
	Kind EncodeErrorKind

	// Detail describes the offending value or limit.
	Detail string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	msg := fmt.Sprintf("encode: %s", e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *EncodeError) Unwrap() error {
	return e.Err
}

// NewEncodeError creates an EncodeError with a formatted detail message.
func NewEncodeError(kind EncodeErrorKind, format string, args ...any) *EncodeError {
	return &EncodeError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// DecodeErrorKind classifies decode failures. All decode errors are
// non-recoverable at the codec layer.
type DecodeErrorKind uint8

const (
	// DecodeUnknownTag means an unassigned TypeTag was read.
	DecodeUnknownTag DecodeErrorKind = 0

	// DecodeTruncatedInput means the buffer ended before a declared
	// payload was complete.
	DecodeTruncatedInput DecodeErrorKind = 1

	// DecodeInvalidOffset means a compression token referenced data
	// outside the output produced so far.
	DecodeInvalidOffset DecodeErrorKind = 2

	// DecodeInvalidLength means a declared length is impossible for the
	// remaining input or exceeds a wire format limit.
	DecodeInvalidLength DecodeErrorKind = 3

	// DecodeMalformedHeader means the frame header byte is invalid.
	DecodeMalformedHeader DecodeErrorKind = 4
)

// String returns the kind name.
func (k DecodeErrorKind) String() string {
	switch k {
	case DecodeUnknownTag:
		return "UNKNOWN_TAG"
	case DecodeTruncatedInput:
		return "TRUNCATED_INPUT"
	case DecodeInvalidOffset:
		return "INVALID_OFFSET"
	case DecodeInvalidLength:
		return "INVALID_LENGTH"
	case DecodeMalformedHeader:
		return "MALFORMED_HEADER"
	default:
		return "UNKNOWN"
	}
}

// DecodeError is the error type returned by decoding and decompression.
// Offset is the byte position in the input at which the failure was
// detected, for diagnostics against captured payloads.
type DecodeError struct {
	Kind   DecodeErrorKind
	Offset int

	// Detail describes what was expected or found.
	Detail string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("decode: %s at offset %d", e.Kind, e.Offset)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError creates a DecodeError with a formatted detail message.
func NewDecodeError(kind DecodeErrorKind, offset int, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: kind, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}
