package driven

// ConfigStore persists user settings under dotted keys.
// Implementations handle the file format; values are stored as given.
type ConfigStore interface {
	// Get retrieves a configuration value by dotted key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// Delete removes a key. The change is persisted immediately.
	Delete(key string) error

	// Keys returns every stored dotted key in sorted order.
	Keys() []string

	// Path returns the configuration file path.
	Path() string
}
