package codec

import (
	"github.com/terse-protocol/terse-go/pkg/buffer"
	"github.com/terse-protocol/terse-go/pkg/wire"
)

// decoder holds the per-call state of one primary decode. The reference
// table is always maintained so TagReference can be resolved regardless
// of how the peer was configured.
type decoder struct {
	cur      *buffer.Cursor
	refs     []any
	depth    int
	elements int
}

func newDecoder(body []byte) *decoder {
	return &decoder{cur: buffer.Wrap(body)}
}

// readValue reads one tagged value: tag byte, then payload.
func (d *decoder) readValue() (any, error) {
	tagOff := d.cur.Offset()
	raw, err := d.cur.ReadU8()
	if err != nil {
		return nil, err
	}
	tag := wire.TypeTag(raw)
	if !tag.IsValid() {
		return nil, wire.NewDecodeError(wire.DecodeUnknownTag, tagOff, "tag 0x%02X", raw)
	}
	return d.readPayload(tag)
}

// readPayload reads the tag-specific payload, without the tag byte.
func (d *decoder) readPayload(tag wire.TypeTag) (any, error) {
	if d.depth >= maxDepth {
		return nil, wire.NewDecodeError(wire.DecodeInvalidLength, d.cur.Offset(),
			"nesting deeper than %d levels", maxDepth)
	}

	switch tag {
	case wire.TagNil:
		return nil, nil
	case wire.TagZero:
		return int64(0), nil
	case wire.TagEmptyString:
		return "", nil

	case wire.TagBool:
		b, err := d.cur.ReadU8()
		if err != nil {
			return nil, err
		}
		return b != 0, nil

	case wire.TagU8:
		v, err := d.cur.ReadU8()
		return int64(v), err
	case wire.TagU16:
		v, err := d.cur.ReadU16()
		return int64(v), err
	case wire.TagU24:
		v, err := d.cur.ReadU24()
		return int64(v), err
	case wire.TagU32:
		v, err := d.cur.ReadU32()
		return int64(v), err
	case wire.TagS8:
		v, err := d.cur.ReadI8()
		return int64(v), err
	case wire.TagS16:
		v, err := d.cur.ReadI16()
		return int64(v), err
	case wire.TagS24:
		v, err := d.cur.ReadI24()
		return int64(v), err
	case wire.TagS32:
		v, err := d.cur.ReadI32()
		return int64(v), err

	case wire.TagF16:
		v, err := d.cur.ReadI16()
		return dequantizeFixed(int32(v)), err
	case wire.TagF24:
		v, err := d.cur.ReadI24()
		return dequantizeFixed(v), err
	case wire.TagF32:
		v, err := d.cur.ReadF32()
		return float64(v), err
	case wire.TagF64:
		return d.cur.ReadF64()

	case wire.TagShortString:
		return d.cur.ReadShortString()
	case wire.TagLongString:
		return d.cur.ReadLongString()
	case wire.TagBlob:
		return d.cur.ReadBlob()

	case wire.TagArray:
		return d.readArrayPayload()
	case wire.TagMap:
		return d.readMapPayload()
	case wire.TagReference:
		return d.readReference()
	}

	return d.readExtensionPayload(tag)
}

// readArrayPayload reads the homogeneous form: element tag, count, then
// tag-less element payloads.
func (d *decoder) readArrayPayload() (any, error) {
	tagOff := d.cur.Offset()
	raw, err := d.cur.ReadU8()
	if err != nil {
		return nil, err
	}
	elemTag := wire.TypeTag(raw)
	if !elemTag.IsValid() || elemTag == wire.TagReference {
		return nil, wire.NewDecodeError(wire.DecodeUnknownTag, tagOff,
			"element tag 0x%02X", raw)
	}

	countOff := d.cur.Offset()
	count, err := d.cur.ReadU32()
	if err != nil {
		return nil, err
	}
	if err := d.checkCount(count, minPayloadSize(elemTag), countOff); err != nil {
		return nil, err
	}

	elements := make([]any, 0, boundedCap(count, d.cur.Remaining()))
	d.refs = append(d.refs, elements)
	refIdx := len(d.refs) - 1

	d.depth++
	defer func() { d.depth-- }()
	for i := uint32(0); i < count; i++ {
		el, err := d.readPayload(elemTag)
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
	}
	d.refs[refIdx] = elements
	return elements, nil
}

// readMapPayload reads the general form: pair count, then tagged key and
// value for each pair.
func (d *decoder) readMapPayload() (any, error) {
	countOff := d.cur.Offset()
	count, err := d.cur.ReadU32()
	if err != nil {
		return nil, err
	}
	// The smallest possible pair is two payload-less tags.
	if err := d.checkCount(count, 2, countOff); err != nil {
		return nil, err
	}

	m := make(map[any]any, boundedCap(count, d.cur.Remaining()))
	d.refs = append(d.refs, m)

	d.depth++
	defer func() { d.depth-- }()
	for i := uint32(0); i < count; i++ {
		keyOff := d.cur.Offset()
		key, err := d.readKey(keyOff)
		if err != nil {
			return nil, err
		}
		value, err := d.readValue()
		if err != nil {
			return nil, err
		}
		m[key] = value
	}
	return m, nil
}

// readKey reads a map key, which must carry a bool, number or string tag.
func (d *decoder) readKey(keyOff int) (any, error) {
	raw, err := d.cur.ReadU8()
	if err != nil {
		return nil, err
	}
	tag := wire.TypeTag(raw)
	if !tag.IsValid() {
		return nil, wire.NewDecodeError(wire.DecodeUnknownTag, keyOff, "tag 0x%02X", raw)
	}
	if !isKeyTag(tag) {
		return nil, wire.NewDecodeError(wire.DecodeUnknownTag, keyOff,
			"tag %s not allowed as map key", tag)
	}
	return d.readPayload(tag)
}

// readReference resolves a back-reference to an already decoded
// container.
func (d *decoder) readReference() (any, error) {
	idxOff := d.cur.Offset()
	idx, err := d.cur.ReadU32()
	if err != nil {
		return nil, err
	}
	if int(idx) >= len(d.refs) {
		return nil, wire.NewDecodeError(wire.DecodeInvalidOffset, idxOff,
			"reference %d, only %d containers decoded", idx, len(d.refs))
	}
	return d.refs[idx], nil
}

func (d *decoder) readExtensionPayload(tag wire.TypeTag) (any, error) {
	ext := lookupExtension(tag)
	if ext == nil {
		return nil, wire.NewDecodeError(wire.DecodeUnknownTag, d.cur.Offset()-1,
			"unregistered extension id %d", tag.ExtensionID())
	}

	before := d.cur.Offset()
	v, err := ext.Reader(d.cur)
	if err != nil {
		return nil, err
	}
	if consumed := d.cur.Offset() - before; consumed != ext.ByteSize {
		return nil, wire.NewDecodeError(wire.DecodeInvalidLength, before,
			"extension %s consumed %d bytes, registered size is %d", ext.Name, consumed, ext.ByteSize)
	}
	return v, nil
}

// checkCount rejects counts that cannot possibly be satisfied by the
// remaining input, before anything is allocated. Payload-less element
// tags consume no input bytes, so they are bounded by the cumulative
// element budget rather than the remaining length.
func (d *decoder) checkCount(count uint32, minSize int, off int) error {
	if count > wire.MaxInputSize {
		return wire.NewDecodeError(wire.DecodeInvalidLength, off, "count %d", count)
	}
	d.elements += int(count)
	if d.elements > wire.MaxDecodedElements {
		return wire.NewDecodeError(wire.DecodeInvalidLength, off,
			"cumulative element count %d exceeds %d", d.elements, wire.MaxDecodedElements)
	}
	if minSize > 0 && int(count) > d.cur.Remaining()/minSize {
		return wire.NewDecodeError(wire.DecodeInvalidLength, off,
			"count %d needs at least %d bytes, %d remain", count, int(count)*minSize, d.cur.Remaining())
	}
	return nil
}

// minPayloadSize is the smallest possible payload for a tag, used to
// validate declared counts against the remaining input.
func minPayloadSize(tag wire.TypeTag) int {
	switch tag {
	case wire.TagNil, wire.TagZero, wire.TagEmptyString:
		return 0
	case wire.TagBool, wire.TagU8, wire.TagS8, wire.TagShortString:
		return 1
	case wire.TagU16, wire.TagS16, wire.TagF16, wire.TagLongString:
		return 2
	case wire.TagU24, wire.TagS24, wire.TagF24:
		return 3
	case wire.TagU32, wire.TagS32, wire.TagF32, wire.TagBlob, wire.TagMap, wire.TagReference:
		return 4
	case wire.TagF64:
		return 8
	case wire.TagArray:
		// Element tag byte plus count.
		return 5
	default:
		if ext := lookupExtension(tag); ext != nil {
			return ext.ByteSize
		}
		return 1
	}
}

// boundedCap caps a pre-allocation so a hostile count cannot reserve
// more memory than the input could ever fill.
func boundedCap(count uint32, remaining int) int {
	if int(count) < remaining {
		return int(count)
	}
	return remaining
}
