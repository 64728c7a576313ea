package ext

import (
	"github.com/google/uuid"

	"github.com/terse-protocol/terse-go/pkg/buffer"
	"github.com/terse-protocol/terse-go/pkg/codec"
)

const uuidByteSize = 16

// UUIDs travel as their 16 raw bytes, RFC 4122 big-endian layout.
func registerUUID() {
	codec.RegisterStructuredType(UUIDTypeID, "UUID",
		func(v any) bool {
			_, ok := v.(uuid.UUID)
			return ok
		},
		func(cur *buffer.Cursor, v any) error {
			id := v.(uuid.UUID)
			cur.WriteRaw(id[:])
			return cur.Err()
		},
		func(cur *buffer.Cursor) (any, error) {
			raw, err := cur.ReadRaw(uuidByteSize)
			if err != nil {
				return nil, err
			}
			var id uuid.UUID
			copy(id[:], raw)
			return id, nil
		},
		uuidByteSize,
	)
}
