package inspect

import (
	"github.com/terse-protocol/terse-go/pkg/buffer"
	"github.com/terse-protocol/terse-go/pkg/codec"
	"github.com/terse-protocol/terse-go/pkg/wire"
)

// Stats holds aggregate information about one framed payload.
type Stats struct {
	// PayloadSize is the full frame size including the header byte.
	PayloadSize int

	// BodySize is the body size after decompression.
	BodySize int

	Compressed bool
	Fallback   bool

	// TopTag is the top-level tag of a primary-encoded body.
	TopTag wire.TypeTag

	// Values counts every wire value including container elements.
	// Zero for fallback bodies, which carry no tags to count.
	Values int

	// MaxDepth is the deepest nesting level reached.
	MaxDepth int

	// TagCounts counts values per tag.
	TagCounts map[wire.TypeTag]int
}

// Stat walks a framed payload and returns aggregate statistics. The
// payload is fully validated in the process.
func Stat(payload []byte) (*Stats, error) {
	frm, err := openFrame(payload)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		PayloadSize: len(payload),
		BodySize:    len(frm.Body),
		Compressed:  frm.Header.Compressed(),
		Fallback:    frm.Header.Fallback(),
	}

	if frm.Header.Fallback() {
		if _, err := codec.Decode(payload); err != nil {
			return nil, err
		}
		return stats, nil
	}

	if len(frm.Body) > 0 {
		stats.TopTag = wire.TypeTag(frm.Body[0])
	}
	stats.TagCounts = make(map[wire.TypeTag]int)

	cur := buffer.Wrap(frm.Body)
	w := &walker{cur: cur}
	err = w.walkValue(0, "", func(n node) {
		stats.Values++
		stats.TagCounts[n.Tag]++
		if n.Depth+1 > stats.MaxDepth {
			stats.MaxDepth = n.Depth + 1
		}
	})
	if err != nil {
		return nil, err
	}
	if cur.Remaining() != 0 {
		return nil, wire.NewDecodeError(wire.DecodeInvalidLength, cur.Offset(),
			"%d trailing bytes after value", cur.Remaining())
	}
	return stats, nil
}
