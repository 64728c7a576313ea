package codec

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/terse-protocol/terse-go/pkg/buffer"
	"github.com/terse-protocol/terse-go/pkg/wire"
)

// StructuredType describes a registered fixed-layout extension value,
// such as a geometric tuple. Extensions are matched by predicate before
// the generic collection path and carry exactly ByteSize payload bytes
// on the wire.
type StructuredType struct {
	// ID is the extension slot, 0 to wire.MaxExtensionID-1. The wire
	// tag is wire.ExtensionTag(ID).
	ID uint8

	// Name appears in inspector output and error messages.
	Name string

	// Predicate reports whether a value is encoded by this extension.
	Predicate func(v any) bool

	// Writer appends exactly ByteSize payload bytes for a value the
	// Predicate accepted.
	Writer func(cur *buffer.Cursor, v any) error

	// Reader consumes exactly ByteSize payload bytes.
	Reader func(cur *buffer.Cursor) (any, error)

	// ByteSize is the fixed payload size in bytes.
	ByteSize int
}

// registry holds process-wide extension registrations. Write-once per
// slot; reads are lock-free on the decode hot path.
var registry = xsync.NewMapOf[uint8, *StructuredType]()

// RegisterStructuredType registers a fixed-layout extension type. It is
// intended to be called once per type at process startup by the
// collaborator that owns the type; registering a duplicate ID or an
// invalid registration panics.
func RegisterStructuredType(id uint8, name string, predicate func(any) bool,
	writer func(*buffer.Cursor, any) error, reader func(*buffer.Cursor) (any, error),
	byteSize int) {

	if int(id) >= wire.MaxExtensionID {
		panic(fmt.Sprintf("codec: extension id %d out of range (max %d)", id, wire.MaxExtensionID-1))
	}
	if predicate == nil || writer == nil || reader == nil {
		panic(fmt.Sprintf("codec: extension %q registered with nil handler", name))
	}
	if byteSize <= 0 {
		panic(fmt.Sprintf("codec: extension %q registered with byte size %d", name, byteSize))
	}

	ext := &StructuredType{
		ID:        id,
		Name:      name,
		Predicate: predicate,
		Writer:    writer,
		Reader:    reader,
		ByteSize:  byteSize,
	}
	if _, loaded := registry.LoadOrStore(id, ext); loaded {
		panic(fmt.Sprintf("codec: extension id %d registered twice", id))
	}
}

// ExtensionInfo returns the registered name and payload size for an
// extension tag. Diagnostic tooling uses it to annotate payloads it
// cannot otherwise interpret.
func ExtensionInfo(tag wire.TypeTag) (name string, byteSize int, ok bool) {
	ext := lookupExtension(tag)
	if ext == nil {
		return "", 0, false
	}
	return ext.Name, ext.ByteSize, true
}

// lookupExtension returns the registration for an extension tag, or nil.
func lookupExtension(tag wire.TypeTag) *StructuredType {
	if !tag.IsExtension() {
		return nil
	}
	ext, _ := registry.Load(tag.ExtensionID())
	return ext
}

// matchExtension finds the registered extension whose predicate accepts
// v, or nil. Predicates are expected to be disjoint.
func matchExtension(v any) *StructuredType {
	var match *StructuredType
	registry.Range(func(_ uint8, ext *StructuredType) bool {
		if ext.Predicate(v) {
			match = ext
			return false
		}
		return true
	})
	return match
}
