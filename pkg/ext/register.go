package ext

import "sync"

// Extension type ids. Part of the wire contract: both peers must agree.
const (
	Vector3TypeID uint8 = 0
	UUIDTypeID    uint8 = 1
)

var registerOnce sync.Once

// Register installs the built-in extensions into the codec registry.
// Idempotent; intended to be called at process startup.
func Register() {
	registerOnce.Do(func() {
		registerVector3()
		registerUUID()
	})
}
