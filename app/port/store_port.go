package port

// KeyValueStore is the durable string-keyed storage backing session and
// setup-status state. Implementations must be safe for concurrent use within
// a single process; cross-process coordination is out of scope.
type KeyValueStore interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (string, bool)
	// Set stores the value, overwriting unconditionally.
	Set(key, value string) error
	// Remove deletes the key. Removing an absent key is not an error.
	Remove(key string) error
}
