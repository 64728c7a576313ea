package inspect

import (
	"fmt"

	"github.com/terse-protocol/terse-go/pkg/codec"
	"github.com/terse-protocol/terse-go/pkg/wire"
)

// TagName returns the display name for a tag. Registered extension tags
// show their registered type name; unregistered ones show the slot.
func TagName(tag wire.TypeTag) string {
	if tag.IsExtension() {
		if name, _, ok := codec.ExtensionInfo(tag); ok {
			return name
		}
		return fmt.Sprintf("EXTENSION(%d)", tag.ExtensionID())
	}
	return tag.String()
}
