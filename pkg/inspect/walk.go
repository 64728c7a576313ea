package inspect

import (
	"fmt"

	"github.com/terse-protocol/terse-go/pkg/buffer"
	"github.com/terse-protocol/terse-go/pkg/codec"
	"github.com/terse-protocol/terse-go/pkg/lz"
	"github.com/terse-protocol/terse-go/pkg/wire"
)

// maxWalkDepth mirrors the codec nesting guard.
const maxWalkDepth = 256

// frame is a payload split into its header and (decompressed) body.
type frame struct {
	Header wire.Header
	Body   []byte
}

// openFrame validates the header byte and decompresses the body when the
// compressed bit is set.
func openFrame(payload []byte) (frame, error) {
	if len(payload) == 0 {
		return frame{}, wire.NewDecodeError(wire.DecodeTruncatedInput, 0, "empty payload")
	}
	header := wire.Header(payload[0])
	if !header.IsValid() {
		return frame{}, wire.NewDecodeError(wire.DecodeMalformedHeader, 0,
			"header byte 0x%02X", payload[0])
	}

	body := payload[1:]
	if header.Compressed() {
		var err error
		body, err = lz.Decompress(body)
		if err != nil {
			return frame{}, err
		}
	}
	return frame{Header: header, Body: body}, nil
}

// node describes one wire value as the walker encounters it.
type node struct {
	Offset int
	Depth  int
	Label  string
	Tag    wire.TypeTag
	Detail string
}

type visitFunc func(n node)

// walker reads a primary-encoded body value by value, carrying the same
// cumulative element budget the decoder enforces so a hostile count
// never drives an unbounded report.
type walker struct {
	cur      *buffer.Cursor
	elements int
}

// walkValue reads one tagged value, reporting it and its children to
// visit in document order.
func (w *walker) walkValue(depth int, label string, visit visitFunc) error {
	off := w.cur.Offset()
	raw, err := w.cur.ReadU8()
	if err != nil {
		return err
	}
	tag := wire.TypeTag(raw)
	if !tag.IsValid() {
		return wire.NewDecodeError(wire.DecodeUnknownTag, off, "tag 0x%02X", raw)
	}
	return w.walkPayload(tag, off, depth, label, visit)
}

// walkPayload reads the payload for an already-consumed tag.
func (w *walker) walkPayload(tag wire.TypeTag, off, depth int, label string, visit visitFunc) error {
	if depth >= maxWalkDepth {
		return wire.NewDecodeError(wire.DecodeInvalidLength, w.cur.Offset(),
			"nesting deeper than %d levels", maxWalkDepth)
	}

	emit := func(detail string) {
		visit(node{Offset: off, Depth: depth, Label: label, Tag: tag, Detail: detail})
	}

	switch tag {
	case wire.TagNil:
		emit("null")
		return nil
	case wire.TagZero:
		emit("0")
		return nil
	case wire.TagEmptyString:
		emit(`""`)
		return nil

	case wire.TagBool:
		v, err := w.cur.ReadU8()
		if err != nil {
			return err
		}
		emit(fmt.Sprintf("%t", v != 0))
		return nil

	case wire.TagU8:
		v, err := w.cur.ReadU8()
		if err != nil {
			return err
		}
		emit(fmt.Sprintf("%d", v))
		return nil
	case wire.TagU16:
		v, err := w.cur.ReadU16()
		if err != nil {
			return err
		}
		emit(fmt.Sprintf("%d", v))
		return nil
	case wire.TagU24:
		v, err := w.cur.ReadU24()
		if err != nil {
			return err
		}
		emit(fmt.Sprintf("%d", v))
		return nil
	case wire.TagU32:
		v, err := w.cur.ReadU32()
		if err != nil {
			return err
		}
		emit(fmt.Sprintf("%d", v))
		return nil
	case wire.TagS8:
		v, err := w.cur.ReadI8()
		if err != nil {
			return err
		}
		emit(fmt.Sprintf("%d", v))
		return nil
	case wire.TagS16:
		v, err := w.cur.ReadI16()
		if err != nil {
			return err
		}
		emit(fmt.Sprintf("%d", v))
		return nil
	case wire.TagS24:
		v, err := w.cur.ReadI24()
		if err != nil {
			return err
		}
		emit(fmt.Sprintf("%d", v))
		return nil
	case wire.TagS32:
		v, err := w.cur.ReadI32()
		if err != nil {
			return err
		}
		emit(fmt.Sprintf("%d", v))
		return nil

	case wire.TagF16:
		v, err := w.cur.ReadI16()
		if err != nil {
			return err
		}
		emit(fmt.Sprintf("%g", float64(v)/wire.FixedPointScale))
		return nil
	case wire.TagF24:
		v, err := w.cur.ReadI24()
		if err != nil {
			return err
		}
		emit(fmt.Sprintf("%g", float64(v)/wire.FixedPointScale))
		return nil
	case wire.TagF32:
		v, err := w.cur.ReadF32()
		if err != nil {
			return err
		}
		emit(fmt.Sprintf("%g", float64(v)))
		return nil
	case wire.TagF64:
		v, err := w.cur.ReadF64()
		if err != nil {
			return err
		}
		emit(fmt.Sprintf("%g", v))
		return nil

	case wire.TagShortString:
		s, err := w.cur.ReadShortString()
		if err != nil {
			return err
		}
		emit(fmt.Sprintf("%q", s))
		return nil
	case wire.TagLongString:
		s, err := w.cur.ReadLongString()
		if err != nil {
			return err
		}
		emit(fmt.Sprintf("%q", s))
		return nil
	case wire.TagBlob:
		b, err := w.cur.ReadBlob()
		if err != nil {
			return err
		}
		emit(FormatBytes(b))
		return nil

	case wire.TagArray:
		return w.walkArray(off, depth, label, visit)
	case wire.TagMap:
		return w.walkMap(off, depth, label, visit)

	case wire.TagReference:
		idx, err := w.cur.ReadU32()
		if err != nil {
			return err
		}
		emit(fmt.Sprintf("-> container #%d", idx))
		return nil
	}

	return w.walkExtension(tag, emit)
}

func (w *walker) walkArray(off, depth int, label string, visit visitFunc) error {
	tagOff := w.cur.Offset()
	raw, err := w.cur.ReadU8()
	if err != nil {
		return err
	}
	elemTag := wire.TypeTag(raw)
	if !elemTag.IsValid() || elemTag == wire.TagReference {
		return wire.NewDecodeError(wire.DecodeUnknownTag, tagOff, "element tag 0x%02X", raw)
	}

	countOff := w.cur.Offset()
	count, err := w.cur.ReadU32()
	if err != nil {
		return err
	}
	if err := w.checkCount(count, elemTag, countOff); err != nil {
		return err
	}

	visit(node{Offset: off, Depth: depth, Label: label, Tag: wire.TagArray,
		Detail: fmt.Sprintf("%d x %s", count, TagName(elemTag))})

	for i := uint32(0); i < count; i++ {
		elOff := w.cur.Offset()
		if err := w.walkPayload(elemTag, elOff, depth+1, fmt.Sprintf("[%d]", i), visit); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) walkMap(off, depth int, label string, visit visitFunc) error {
	countOff := w.cur.Offset()
	count, err := w.cur.ReadU32()
	if err != nil {
		return err
	}
	if err := w.checkCount(count, wire.TagMap, countOff); err != nil {
		return err
	}

	visit(node{Offset: off, Depth: depth, Label: label, Tag: wire.TagMap,
		Detail: fmt.Sprintf("%d pairs", count)})

	for i := uint32(0); i < count; i++ {
		if err := w.walkValue(depth+1, "key", visit); err != nil {
			return err
		}
		if err := w.walkValue(depth+1, "value", visit); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) walkExtension(tag wire.TypeTag, emit func(string)) error {
	name, size, ok := codec.ExtensionInfo(tag)
	if !ok {
		return wire.NewDecodeError(wire.DecodeUnknownTag, w.cur.Offset()-1,
			"unregistered extension id %d", tag.ExtensionID())
	}
	b, err := w.cur.ReadRaw(size)
	if err != nil {
		return err
	}
	emit(fmt.Sprintf("%s 0x%x", name, b))
	return nil
}

// checkCount rejects counts the remaining input cannot satisfy and
// charges the cumulative element budget, so a tiny payload declaring a
// huge count of payload-less elements fails instead of looping.
func (w *walker) checkCount(count uint32, elemTag wire.TypeTag, off int) error {
	if count > wire.MaxInputSize {
		return wire.NewDecodeError(wire.DecodeInvalidLength, off, "element count %d", count)
	}
	w.elements += int(count)
	if w.elements > wire.MaxDecodedElements {
		return wire.NewDecodeError(wire.DecodeInvalidLength, off,
			"cumulative element count %d exceeds %d", w.elements, wire.MaxDecodedElements)
	}
	switch elemTag {
	case wire.TagNil, wire.TagZero, wire.TagEmptyString:
		return nil
	default:
		if int(count) > w.cur.Remaining() {
			return wire.NewDecodeError(wire.DecodeInvalidLength, off,
				"element count %d with %d bytes remaining", count, w.cur.Remaining())
		}
		return nil
	}
}
