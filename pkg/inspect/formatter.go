package inspect

import (
	"fmt"
	"strings"
)

// Formatter formats inspection output.
type Formatter struct {
	// ShowOffsets prefixes each line with the byte offset of the value
	// inside the (decompressed) body
	ShowOffsets bool

	// IndentWidth is the number of spaces per indent level
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowOffsets: true,
		IndentWidth: 2,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	indent := strings.Repeat(" ", depth*width)
	return indent + content
}

// FormatValue formats a decoded value for display.
func (f *Formatter) FormatValue(value any) string {
	if value == nil {
		return "null"
	}

	switch v := value.(type) {
	case bool:
		if v {
			return "true"
		}
		return "false"

	case string:
		return fmt.Sprintf("%q", v)

	case int64:
		return fmt.Sprintf("%d", v)

	case int:
		return fmt.Sprintf("%d", v)

	case uint64:
		return fmt.Sprintf("%d", v)

	case float64:
		return fmt.Sprintf("%g", v)

	case []byte:
		return FormatBytes(v)

	default:
		return fmt.Sprintf("%v", v)
	}
}

// FormatBytes formats opaque bytes with a bounded hex preview.
func FormatBytes(b []byte) string {
	if len(b) > 16 {
		return fmt.Sprintf("%d bytes 0x%x...", len(b), b[:16])
	}
	return fmt.Sprintf("%d bytes 0x%x", len(b), b)
}

// FormatSize formats a byte count as a human-readable string.
func FormatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
