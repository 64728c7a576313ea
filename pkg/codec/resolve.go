package codec

import (
	"math"

	"github.com/terse-protocol/terse-go/pkg/wire"
)

// intEpsilon decides integer-ness of a float: values within it of a
// whole number take the integer path.
const intEpsilon = 1e-9

// Integer ranges covered by each width.
const (
	maxU8  = 255
	maxU16 = 65535
	maxU24 = 16777215
	maxU32 = 4294967295
	minS8  = -128
	minS16 = -32768
	minS24 = -8388608
	minS32 = -2147483648
	maxS24 = 8388607
)

// Resolve picks the narrowest wire representation for a value. For
// composite values it runs the collection analysis, so the returned tag
// already reflects homogeneity. Unsupported values return an
// EncodeError(UnsupportedType), which the framing layer recovers via the
// fallback encoding.
func Resolve(v any) (wire.TypeTag, error) {
	return resolveDepth(v, false, 0)
}

func resolveDepth(v any, trackRefs bool, depth int) (wire.TypeTag, error) {
	if depth >= maxDepth {
		return 0, depthError()
	}
	switch n := v.(type) {
	case nil:
		return wire.TagNil, nil
	case bool:
		return wire.TagBool, nil

	case int:
		return resolveInt(int64(n)), nil
	case int8:
		return resolveInt(int64(n)), nil
	case int16:
		return resolveInt(int64(n)), nil
	case int32:
		return resolveInt(int64(n)), nil
	case int64:
		return resolveInt(n), nil
	case uint:
		return resolveUint(uint64(n)), nil
	case uint8:
		return resolveInt(int64(n)), nil
	case uint16:
		return resolveInt(int64(n)), nil
	case uint32:
		return resolveInt(int64(n)), nil
	case uint64:
		return resolveUint(n), nil

	case float32:
		return resolveFloat(float64(n)), nil
	case float64:
		return resolveFloat(n), nil

	case string:
		return resolveString(n)
	case []byte:
		return wire.TagBlob, nil
	}

	// Registered fixed-layout types are matched before the generic
	// collection path.
	if ext := matchExtension(v); ext != nil {
		return wire.ExtensionTag(ext.ID), nil
	}

	switch c := v.(type) {
	case []any:
		shape, err := analyzeDepth(c, trackRefs, depth)
		if err != nil {
			return 0, err
		}
		if shape.Homogeneous {
			return wire.TagArray, nil
		}
		return wire.TagMap, nil
	case map[string]any, map[any]any:
		return wire.TagMap, nil
	}

	return 0, wire.NewEncodeError(wire.EncodeUnsupportedType, "value of type %T", v)
}

// resolveInt picks the narrowest integer width, preferring unsigned for
// non-negative values. Magnitudes beyond 32 bits spill into the widest
// float tier.
func resolveInt(v int64) wire.TypeTag {
	switch {
	case v == 0:
		return wire.TagZero
	case v > 0:
		switch {
		case v <= maxU8:
			return wire.TagU8
		case v <= maxU16:
			return wire.TagU16
		case v <= maxU24:
			return wire.TagU24
		case v <= maxU32:
			return wire.TagU32
		default:
			return wire.TagF64
		}
	default:
		switch {
		case v >= minS8:
			return wire.TagS8
		case v >= minS16:
			return wire.TagS16
		case v >= minS24:
			return wire.TagS24
		case v >= minS32:
			return wire.TagS32
		default:
			return wire.TagF64
		}
	}
}

func resolveUint(v uint64) wire.TypeTag {
	if v > maxU32 {
		return wire.TagF64
	}
	return resolveInt(int64(v))
}

// resolveFloat routes integer-valued floats to the integer widths and
// buckets the rest by magnitude into a precision tier, widening as
// magnitude grows.
func resolveFloat(f float64) wire.TypeTag {
	if math.Abs(f-math.Round(f)) < intEpsilon {
		r := math.Round(f)
		if r >= minS32 && r <= maxU32 {
			return resolveInt(int64(r))
		}
	}

	// Fixed-point tiers are chosen by whether the quantized value fits
	// the storage width exactly.
	q := math.Round(f * fixedPointScale)
	switch {
	case q >= math.MinInt16 && q <= math.MaxInt16:
		return wire.TagF16
	case q >= minS24 && q <= maxS24:
		return wire.TagF24
	case math.Abs(f) < 1<<24:
		return wire.TagF32
	default:
		return wire.TagF64
	}
}

func resolveString(s string) (wire.TypeTag, error) {
	switch {
	case len(s) == 0:
		return wire.TagEmptyString, nil
	case s[0] == wire.BlobMarker:
		// A leading marker byte would be ambiguous with pre-serialized
		// sub-buffers downstream, so such strings travel as blobs.
		return wire.TagBlob, nil
	case len(s) <= wire.MaxShortString:
		return wire.TagShortString, nil
	case len(s) <= wire.MaxLongString:
		return wire.TagLongString, nil
	default:
		return 0, wire.NewEncodeError(wire.EncodeSizeLimitExceeded,
			"string of %d bytes exceeds %d", len(s), wire.MaxLongString)
	}
}

// fixedPointScale is the Q*.8 quantization factor for the F16/F24 tiers.
const fixedPointScale = wire.FixedPointScale

// quantizeFixed returns the fixed-point representation of f.
func quantizeFixed(f float64) int32 {
	return int32(math.Round(f * fixedPointScale))
}

// dequantizeFixed restores a float from its fixed-point representation.
func dequantizeFixed(q int32) float64 {
	return float64(q) / fixedPointScale
}

// isKeyTag reports whether a tag is allowed as a map key. Keys are
// restricted to bool, number and string primitives.
func isKeyTag(t wire.TypeTag) bool {
	return t == wire.TagBool || t.IsNumeric() || t.IsString()
}
