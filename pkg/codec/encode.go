package codec

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/terse-protocol/terse-go/pkg/buffer"
	"github.com/terse-protocol/terse-go/pkg/wire"
)

// encoder holds the per-call state of one primary encode. It owns its
// cursor and reference table exclusively; nothing is shared between
// calls.
type encoder struct {
	cur       *buffer.Cursor
	trackRefs bool
	refs      map[refKey]uint32
	nextRef   uint32
	depth     int
}

// refKey identifies a container by allocation, distinguishing maps from
// slices so their pointers can never collide.
type refKey struct {
	ptr  uintptr
	kind reflect.Kind
}

func newEncoder(limit int, trackRefs bool) *encoder {
	e := &encoder{
		cur:       buffer.NewWithLimit(limit),
		trackRefs: trackRefs,
	}
	if trackRefs {
		e.refs = make(map[refKey]uint32)
	}
	return e
}

// writeValue writes one tagged value: tag byte, then payload.
func (e *encoder) writeValue(v any) error {
	if e.depth >= maxDepth {
		return depthError()
	}

	tag, err := resolveDepth(v, e.trackRefs, e.depth)
	if err != nil {
		return err
	}

	if e.trackRefs {
		if key, reusable, tracked := containerKey(v, tag); tracked {
			if reusable {
				if idx, seen := e.refs[key]; seen {
					e.cur.WriteU8(uint8(wire.TagReference))
					e.cur.WriteU32(idx)
					return e.cur.Err()
				}
				e.refs[key] = e.nextRef
			}
			e.nextRef++
		}
	}

	e.cur.WriteU8(uint8(tag))
	if err := e.writePayload(tag, v); err != nil {
		return err
	}
	return e.cur.Err()
}

// containerKey returns the identity key for reference tracking. The
// decoder indexes every Array/Map container it reads, so every tracked
// container must consume an index here to keep the two index spaces
// aligned. Empty slices consume a slot but are never reused: zero-length
// slices can share a single allocation, so their pointers do not
// identify them.
func containerKey(v any, tag wire.TypeTag) (key refKey, reusable, tracked bool) {
	if tag != wire.TagArray && tag != wire.TagMap {
		return refKey{}, false, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		return refKey{ptr: rv.Pointer(), kind: reflect.Map}, true, true
	case reflect.Slice:
		if rv.Len() == 0 {
			return refKey{}, false, true
		}
		return refKey{ptr: rv.Pointer(), kind: reflect.Slice}, true, true
	default:
		return refKey{}, false, false
	}
}

// writePayload writes the tag-specific payload, without the tag byte.
func (e *encoder) writePayload(tag wire.TypeTag, v any) error {
	switch tag {
	case wire.TagNil, wire.TagZero, wire.TagEmptyString:
		return nil

	case wire.TagBool:
		b := uint8(0)
		if v.(bool) {
			b = 1
		}
		e.cur.WriteU8(b)
		return nil

	case wire.TagU8:
		e.cur.WriteU8(uint8(toInt64(v)))
		return nil
	case wire.TagU16:
		e.cur.WriteU16(uint16(toInt64(v)))
		return nil
	case wire.TagU24:
		e.cur.WriteU24(uint32(toInt64(v)))
		return nil
	case wire.TagU32:
		e.cur.WriteU32(uint32(toInt64(v)))
		return nil
	case wire.TagS8:
		e.cur.WriteI8(int8(toInt64(v)))
		return nil
	case wire.TagS16:
		e.cur.WriteI16(int16(toInt64(v)))
		return nil
	case wire.TagS24:
		e.cur.WriteI24(int32(toInt64(v)))
		return nil
	case wire.TagS32:
		e.cur.WriteI32(int32(toInt64(v)))
		return nil

	case wire.TagF16:
		e.cur.WriteI16(int16(quantizeFixed(toFloat64(v))))
		return nil
	case wire.TagF24:
		e.cur.WriteI24(quantizeFixed(toFloat64(v)))
		return nil
	case wire.TagF32:
		e.cur.WriteF32(float32(toFloat64(v)))
		return nil
	case wire.TagF64:
		e.cur.WriteF64(toFloat64(v))
		return nil

	case wire.TagShortString:
		e.cur.WriteShortString(v.(string))
		return nil
	case wire.TagLongString:
		e.cur.WriteLongString(v.(string))
		return nil
	case wire.TagBlob:
		if s, ok := v.(string); ok {
			e.cur.WriteBlob([]byte(s))
		} else {
			e.cur.WriteBlob(v.([]byte))
		}
		return nil

	case wire.TagArray:
		return e.writeArrayPayload(v.([]any))
	case wire.TagMap:
		return e.writeMapPayload(v)
	}

	if ext := lookupExtension(tag); ext != nil {
		return e.writeExtensionPayload(ext, v)
	}
	return wire.NewEncodeError(wire.EncodeUnsupportedType, "no payload writer for tag %s", tag)
}

// writeArrayPayload writes the homogeneous form: element tag once, a
// count, then each element's payload with no per-element tags.
func (e *encoder) writeArrayPayload(elements []any) error {
	shape, err := analyzeDepth(elements, e.trackRefs, e.depth)
	if err != nil {
		return err
	}
	if !shape.Homogeneous {
		return wire.NewEncodeError(wire.EncodeUnrecoverable,
			"array payload requested for non-homogeneous collection")
	}

	e.cur.WriteU8(uint8(shape.ElementTag))
	e.cur.WriteU32(uint32(len(elements)))

	e.depth++
	defer func() { e.depth-- }()
	for _, el := range elements {
		if err := e.writePayload(shape.ElementTag, el); err != nil {
			return err
		}
	}
	return e.cur.Err()
}

// writeMapPayload writes the general form: a pair count, then tag+key
// and tag+value for every pair. Dense []any values that failed
// homogeneity analysis are written with their 1-based positions as keys.
func (e *encoder) writeMapPayload(v any) error {
	pairs, err := mapPairs(v)
	if err != nil {
		return err
	}

	e.cur.WriteU32(uint32(len(pairs)))

	e.depth++
	defer func() { e.depth-- }()
	for _, p := range pairs {
		keyTag, err := resolveDepth(p.key, e.trackRefs, e.depth)
		if err != nil {
			return err
		}
		if !isKeyTag(keyTag) {
			return wire.NewEncodeError(wire.EncodeUnsupportedType,
				"map key of type %T", p.key)
		}
		if err := e.writeValue(p.key); err != nil {
			return err
		}
		if err := e.writeValue(p.value); err != nil {
			return err
		}
	}
	return e.cur.Err()
}

func (e *encoder) writeExtensionPayload(ext *StructuredType, v any) error {
	before := e.cur.Len()
	if err := ext.Writer(e.cur, v); err != nil {
		return wire.NewEncodeError(wire.EncodeUnsupportedType,
			"extension %s rejected value: %v", ext.Name, err)
	}
	if written := e.cur.Len() - before; written != ext.ByteSize && e.cur.Err() == nil {
		return wire.NewEncodeError(wire.EncodeUnrecoverable,
			"extension %s wrote %d bytes, registered size is %d", ext.Name, written, ext.ByteSize)
	}
	return e.cur.Err()
}

type pair struct {
	key   any
	value any
}

// mapPairs flattens a composite into deterministically ordered pairs.
// Map iteration order is randomized in Go, so pairs are sorted by key
// (bools, then numbers, then strings) to keep identical values encoding
// to identical bytes.
func mapPairs(v any) ([]pair, error) {
	switch m := v.(type) {
	case []any:
		pairs := make([]pair, len(m))
		for i, el := range m {
			pairs[i] = pair{key: int64(i + 1), value: el}
		}
		return pairs, nil

	case map[string]any:
		pairs := make([]pair, 0, len(m))
		for k, val := range m {
			pairs = append(pairs, pair{key: k, value: val})
		}
		sortPairs(pairs)
		return pairs, nil

	case map[any]any:
		pairs := make([]pair, 0, len(m))
		for k, val := range m {
			pairs = append(pairs, pair{key: k, value: val})
		}
		sortPairs(pairs)
		return pairs, nil

	default:
		return nil, wire.NewEncodeError(wire.EncodeUnsupportedType, "composite of type %T", v)
	}
}

func sortPairs(pairs []pair) {
	sort.Slice(pairs, func(i, j int) bool {
		return keyLess(pairs[i].key, pairs[j].key)
	})
}

// keyLess orders keys by class (bool < number < string), then value.
// Unsupported key types sort last by their printed form; they are
// rejected with UnsupportedType when the pair is written.
func keyLess(a, b any) bool {
	ra, rb := keyRank(a), keyRank(b)
	if ra != rb {
		return ra < rb
	}
	switch ra {
	case 0:
		return !a.(bool) && b.(bool)
	case 1:
		return toFloat64(a) < toFloat64(b)
	case 2:
		return a.(string) < b.(string)
	default:
		return fmt.Sprint(a) < fmt.Sprint(b)
	}
}

func keyRank(k any) int {
	switch k.(type) {
	case bool:
		return 0
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return 1
	case string:
		return 2
	default:
		return 3
	}
}

// toInt64 converts any numeric value to int64, rounding floats. Callers
// have already resolved the value to an integer tag, so the conversion
// is exact.
func toInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	case float32:
		return int64(math.Round(float64(n)))
	case float64:
		return int64(math.Round(n))
	default:
		panic(fmt.Sprintf("codec: toInt64 on %T", v))
	}
}

// toFloat64 converts any numeric value to float64.
func toFloat64(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		panic(fmt.Sprintf("codec: toFloat64 on %T", v))
	}
}
