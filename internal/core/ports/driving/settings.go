package driving

import "github.com/jeffreysprompts/jfp/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// List returns every known setting with its effective value.
	List() []domain.Setting

	// Get returns the effective value of a known key.
	Get(key string) (domain.ConfigValue, error)

	// Set parses raw, checks it against the key's type and persists it.
	Set(key, raw string) (domain.ConfigValue, error)

	// Reset removes a key, or every key when key is empty.
	Reset(key string) error

	// Path returns the configuration file path.
	Path() string
}
