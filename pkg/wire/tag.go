package wire

// TypeTag is the single-byte discriminator identifying the shape and
// subtype of an encoded value.
type TypeTag uint8

const (
	// TagNil encodes the absence of a value. No payload.
	TagNil TypeTag = 0x00

	// TagBool is followed by one payload byte, 0 or 1.
	TagBool TypeTag = 0x01

	// TagZero encodes the integer zero. No payload.
	TagZero TypeTag = 0x10

	// TagU8 through TagU32 are unsigned little-endian integers of
	// 1, 2, 3 and 4 bytes.
	TagU8  TypeTag = 0x11
	TagU16 TypeTag = 0x12
	TagU24 TypeTag = 0x13
	TagU32 TypeTag = 0x14

	// TagS8 through TagS32 are two's-complement little-endian integers
	// of 1, 2, 3 and 4 bytes.
	TagS8  TypeTag = 0x15
	TagS16 TypeTag = 0x16
	TagS24 TypeTag = 0x17
	TagS32 TypeTag = 0x18

	// TagF16 and TagF24 are signed fixed-point values with 8 fraction
	// bits (Q7.8 in 2 bytes, Q15.8 in 3 bytes). TagF32 and TagF64 are
	// IEEE 754 single and double precision, little-endian.
	TagF16 TypeTag = 0x19
	TagF24 TypeTag = 0x1A
	TagF32 TypeTag = 0x1B
	TagF64 TypeTag = 0x1C

	// TagEmptyString encodes the zero-length string. No payload.
	TagEmptyString TypeTag = 0x20

	// TagShortString is a 1-byte length followed by that many bytes.
	TagShortString TypeTag = 0x21

	// TagLongString is a 2-byte little-endian length followed by that
	// many bytes.
	TagLongString TypeTag = 0x22

	// TagBlob is a 4-byte little-endian length followed by opaque bytes.
	// Also used for strings whose first byte is BlobMarker, which would
	// otherwise be ambiguous with pre-serialized sub-buffers.
	TagBlob TypeTag = 0x23

	// TagArray is a homogeneous array: one element TypeTag, a 4-byte
	// little-endian count, then each element's payload back-to-back with
	// no per-element tag.
	TagArray TypeTag = 0x30

	// TagMap is a 4-byte little-endian pair count followed by
	// tag+key, tag+value for each pair, fully self-describing.
	TagMap TypeTag = 0x31

	// TagReference is a 4-byte little-endian index of a previously
	// encoded container. Only emitted when reference tracking is
	// enabled on the encoder.
	TagReference TypeTag = 0x38

	// TagExtensionBase is the first structured-extension tag. An
	// extension with typeId n is tagged TagExtensionBase+n and carries
	// a fixed-size payload defined by its registration.
	TagExtensionBase TypeTag = 0x40

	// TagExtensionMax is the last valid structured-extension tag.
	TagExtensionMax TypeTag = 0x7F
)

// MaxExtensionID is the number of structured-extension slots.
const MaxExtensionID = int(TagExtensionMax-TagExtensionBase) + 1

// IsNumeric reports whether the tag is an integer or float subtype.
func (t TypeTag) IsNumeric() bool {
	return t >= TagZero && t <= TagF64
}

// IsInteger reports whether the tag is an integer subtype (including zero).
func (t TypeTag) IsInteger() bool {
	return t >= TagZero && t <= TagS32
}

// IsFloat reports whether the tag is one of the float precision tiers.
func (t TypeTag) IsFloat() bool {
	return t >= TagF16 && t <= TagF64
}

// IsString reports whether the tag is a string class (not Blob).
func (t TypeTag) IsString() bool {
	return t == TagEmptyString || t == TagShortString || t == TagLongString
}

// IsExtension reports whether the tag is in the structured-extension range.
func (t TypeTag) IsExtension() bool {
	return t >= TagExtensionBase && t <= TagExtensionMax
}

// ExtensionID returns the typeId for an extension tag. Only meaningful
// when IsExtension is true.
func (t TypeTag) ExtensionID() uint8 {
	return uint8(t - TagExtensionBase)
}

// ExtensionTag returns the TypeTag for a structured-extension typeId.
func ExtensionTag(typeID uint8) TypeTag {
	return TagExtensionBase + TypeTag(typeID)
}

// IsValid reports whether the tag is assigned in the current wire format.
func (t TypeTag) IsValid() bool {
	switch {
	case t == TagNil || t == TagBool:
		return true
	case t >= TagZero && t <= TagF64:
		return true
	case t >= TagEmptyString && t <= TagBlob:
		return true
	case t == TagArray || t == TagMap || t == TagReference:
		return true
	case t.IsExtension():
		return true
	default:
		return false
	}
}

// String returns the tag name as it appears in inspector output.
func (t TypeTag) String() string {
	switch t {
	case TagNil:
		return "NIL"
	case TagBool:
		return "BOOL"
	case TagZero:
		return "ZERO"
	case TagU8:
		return "U8"
	case TagU16:
		return "U16"
	case TagU24:
		return "U24"
	case TagU32:
		return "U32"
	case TagS8:
		return "S8"
	case TagS16:
		return "S16"
	case TagS24:
		return "S24"
	case TagS32:
		return "S32"
	case TagF16:
		return "F16"
	case TagF24:
		return "F24"
	case TagF32:
		return "F32"
	case TagF64:
		return "F64"
	case TagEmptyString:
		return "EMPTY_STRING"
	case TagShortString:
		return "SHORT_STRING"
	case TagLongString:
		return "LONG_STRING"
	case TagBlob:
		return "BLOB"
	case TagArray:
		return "ARRAY"
	case TagMap:
		return "MAP"
	case TagReference:
		return "REFERENCE"
	default:
		if t.IsExtension() {
			return "EXTENSION"
		}
		return "UNKNOWN"
	}
}
