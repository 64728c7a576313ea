package codec

import (
	"github.com/terse-protocol/terse-go/pkg/wire"
)

// maxDepth bounds nesting during encode and decode. The primary path
// does not support cyclic structures; without reference tracking a cycle
// would otherwise recurse forever, so exceeding the bound is reported
// instead of crashing. The fallback is not attempted for depth failures
// because it would walk the same cycle.
const maxDepth = 256

// Shape is the result of collection analysis.
type Shape struct {
	// Homogeneous is true when the collection encodes as a dense array
	// with a single shared element tag and no per-element tags.
	Homogeneous bool

	// ElementTag is the shared tag. Only meaningful when Homogeneous.
	ElementTag wire.TypeTag
}

// Analyze classifies a collection as a homogeneous array or a general
// map in a single full pre-pass. Homogeneity cannot be decided
// incrementally without backtracking the stream already written, so
// every element is resolved up front: the collection is homogeneous only
// when it has at least two elements and every element resolves to the
// exact same tag, numeric width and signedness included.
//
// With reference tracking enabled, container elements are never grouped
// homogeneously: a repeated container must be replaced by a tagged
// reference, which the tag-less array payload cannot carry.
func Analyze(elements []any, trackRefs bool) (Shape, error) {
	return analyzeDepth(elements, trackRefs, 0)
}

func analyzeDepth(elements []any, trackRefs bool, depth int) (Shape, error) {
	if depth >= maxDepth {
		return Shape{}, depthError()
	}
	if len(elements) < 2 {
		return Shape{}, nil
	}

	first, err := resolveDepth(elements[0], trackRefs, depth+1)
	if err != nil {
		return Shape{}, err
	}
	if !homogeneityCandidate(first, trackRefs) {
		return Shape{}, nil
	}

	for _, el := range elements[1:] {
		tag, err := resolveDepth(el, trackRefs, depth+1)
		if err != nil {
			return Shape{}, err
		}
		if tag != first {
			return Shape{}, nil
		}
	}
	return Shape{Homogeneous: true, ElementTag: first}, nil
}

// homogeneityCandidate reports whether elements of this tag may be
// packed without per-element tags.
func homogeneityCandidate(tag wire.TypeTag, trackRefs bool) bool {
	if trackRefs && (tag == wire.TagArray || tag == wire.TagMap) {
		return false
	}
	return true
}

func depthError() error {
	return wire.NewEncodeError(wire.EncodeUnrecoverable,
		"nesting deeper than %d levels (cyclic structure?)", maxDepth)
}
