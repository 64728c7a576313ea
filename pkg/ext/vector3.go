package ext

import (
	"fmt"

	"github.com/terse-protocol/terse-go/pkg/buffer"
	"github.com/terse-protocol/terse-go/pkg/codec"
)

// Vector3 is a 3-component float tuple, the canonical example of a
// geometric host type with a fixed wire layout: three IEEE 754
// single-precision floats, 12 bytes.
type Vector3 struct {
	X float32
	Y float32
	Z float32
}

// String returns the vector in (x, y, z) form.
func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

const vector3ByteSize = 12

func registerVector3() {
	codec.RegisterStructuredType(Vector3TypeID, "Vector3",
		func(v any) bool {
			_, ok := v.(Vector3)
			return ok
		},
		func(cur *buffer.Cursor, v any) error {
			vec := v.(Vector3)
			cur.WriteF32(vec.X)
			cur.WriteF32(vec.Y)
			cur.WriteF32(vec.Z)
			return cur.Err()
		},
		func(cur *buffer.Cursor) (any, error) {
			var vec Vector3
			var err error
			if vec.X, err = cur.ReadF32(); err != nil {
				return nil, err
			}
			if vec.Y, err = cur.ReadF32(); err != nil {
				return nil, err
			}
			if vec.Z, err = cur.ReadF32(); err != nil {
				return nil, err
			}
			return vec, nil
		},
		vector3ByteSize,
	)
}
