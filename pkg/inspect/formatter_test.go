package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/terse-protocol/terse-go/pkg/wire"
)

func TestFormatValue(t *testing.T) {
	f := NewFormatter()

	tests := []struct {
		name string
		v    any
		want string
	}{
		{"nil", nil, "null"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"string", "hi", `"hi"`},
		{"int64", int64(-42), "-42"},
		{"float", 0.5, "0.5"},
		{"bytes", []byte{0xAB, 0xCD}, "2 bytes 0xabcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.FormatValue(tt.v))
		})
	}
}

func TestFormatBytesTruncatesPreview(t *testing.T) {
	long := make([]byte, 64)
	got := FormatBytes(long)
	assert.Contains(t, got, "64 bytes")
	assert.Contains(t, got, "...")
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "17 B", FormatSize(17))
	assert.Equal(t, "2.0 KiB", FormatSize(2048))
	assert.Equal(t, "1.5 MiB", FormatSize(3<<19))
}

func TestIndent(t *testing.T) {
	f := &Formatter{IndentWidth: 4}
	assert.Equal(t, "        x", f.Indent(2, "x"))

	// Zero width falls back to the default.
	f = &Formatter{}
	assert.Equal(t, "  x", f.Indent(1, "x"))
}

func TestTagName(t *testing.T) {
	assert.Equal(t, "U8", TagName(wire.TagU8))
	assert.Equal(t, "MAP", TagName(wire.TagMap))
	assert.Equal(t, "EXTENSION(63)", TagName(wire.ExtensionTag(63)))
}
