package codec

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/terse-protocol/terse-go/pkg/wire"
)

// fallbackEncMode is the CBOR encoder mode for the generic fallback
// encoding. Configured for deterministic output so identical values
// produce identical frames regardless of path.
var fallbackEncMode cbor.EncMode

// fallbackDecMode is the CBOR decoder mode for fallback bodies.
var fallbackDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeUnix,
	}
	fallbackEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create fallback CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	fallbackDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create fallback CBOR decoder mode: %v", err))
	}
}

// fallbackEncode produces the generic, fully self-describing body for
// values the primary path cannot represent. Every value including map
// keys is tagged by the CBOR format itself, sacrificing compactness for
// universality. The body is held to the same size ceiling as the
// primary encoding.
func fallbackEncode(v any, limit int) ([]byte, error) {
	body, err := fallbackEncMode.Marshal(v)
	if err != nil {
		return nil, &wire.EncodeError{
			Kind:   wire.EncodeUnrecoverable,
			Detail: fmt.Sprintf("fallback for %T", v),
			Err:    err,
		}
	}
	if len(body) > limit {
		return nil, wire.NewEncodeError(wire.EncodeUnrecoverable,
			"fallback body of %d bytes exceeds ceiling of %d", len(body), limit)
	}
	return body, nil
}

// fallbackDecode decodes a fallback body into the generic value form.
func fallbackDecode(body []byte) (any, error) {
	var v any
	if err := fallbackDecMode.Unmarshal(body, &v); err != nil {
		return nil, &wire.DecodeError{
			Kind:   wire.DecodeTruncatedInput,
			Offset: 0,
			Detail: "fallback body",
			Err:    err,
		}
	}
	return v, nil
}
