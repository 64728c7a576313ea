package inspect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/terse-protocol/terse-go/pkg/buffer"
	"github.com/terse-protocol/terse-go/pkg/codec"
	"github.com/terse-protocol/terse-go/pkg/wire"
)

// Dump renders a framed payload as an annotated tree with default
// formatter settings.
func Dump(payload []byte) (string, error) {
	return NewFormatter().Dump(payload)
}

// Dump renders a framed payload as an annotated tree: one line per wire
// value with its tag name and decoded content.
func (f *Formatter) Dump(payload []byte) (string, error) {
	frm, err := openFrame(payload)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "header: %s, %s payload, %s body\n",
		frm.Header, FormatSize(len(payload)), FormatSize(len(frm.Body)))

	if frm.Header.Fallback() {
		v, err := codec.Decode(payload)
		if err != nil {
			return "", err
		}
		f.writeGenericValue(&sb, 0, "", v)
		return sb.String(), nil
	}

	cur := buffer.Wrap(frm.Body)
	w := &walker{cur: cur}
	err = w.walkValue(0, "", func(n node) {
		f.writeNode(&sb, n)
	})
	if err != nil {
		return "", err
	}
	if cur.Remaining() != 0 {
		return "", wire.NewDecodeError(wire.DecodeInvalidLength, cur.Offset(),
			"%d trailing bytes after value", cur.Remaining())
	}
	return sb.String(), nil
}

func (f *Formatter) writeNode(sb *strings.Builder, n node) {
	if f.ShowOffsets {
		fmt.Fprintf(sb, "[%04d] ", n.Offset)
	}
	content := TagName(n.Tag)
	if n.Label != "" {
		content = n.Label + " " + content
	}
	if n.Detail != "" {
		content += ": " + n.Detail
	}
	sb.WriteString(f.Indent(n.Depth, content))
	sb.WriteString("\n")
}

// writeGenericValue renders a decoded fallback value, which has no wire
// tags or stable offsets to annotate.
func (f *Formatter) writeGenericValue(sb *strings.Builder, depth int, label string, v any) {
	prefix := label
	if prefix != "" {
		prefix += " = "
	}

	switch val := v.(type) {
	case []any:
		sb.WriteString(f.Indent(depth, fmt.Sprintf("%sarray, %d elements\n", prefix, len(val))))
		for i, el := range val {
			f.writeGenericValue(sb, depth+1, fmt.Sprintf("[%d]", i), el)
		}

	case map[any]any:
		sb.WriteString(f.Indent(depth, fmt.Sprintf("%smap, %d pairs\n", prefix, len(val))))
		keys := make([]any, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
		})
		for _, k := range keys {
			f.writeGenericValue(sb, depth+1, f.FormatValue(k), val[k])
		}

	default:
		sb.WriteString(f.Indent(depth, prefix+f.FormatValue(v)+"\n"))
	}
}
