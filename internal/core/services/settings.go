package services

import (
	"fmt"
	"sort"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driven"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages the known application settings over a ConfigStore.
type SettingsService struct {
	configStore driven.ConfigStore
	defaults    map[string]domain.ConfigValue
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		defaults:    domain.DefaultSettings(),
	}
}

// List returns every known setting sorted by key.
func (s *SettingsService) List() []domain.Setting {
	keys := make([]string, 0, len(s.defaults))
	for key := range s.defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	settings := make([]domain.Setting, 0, len(keys))
	for _, key := range keys {
		value, isDefault := s.effective(key)
		settings = append(settings, domain.Setting{Key: key, Value: value, Default: isDefault})
	}
	return settings
}

// Get returns the effective value of a known key.
func (s *SettingsService) Get(key string) (domain.ConfigValue, error) {
	if _, ok := s.defaults[key]; !ok {
		return nil, unknownSetting(key)
	}
	value, _ := s.effective(key)
	return value, nil
}

// Set infers the type of raw and stores it when it matches the key's type.
// Text settings accept any input verbatim.
func (s *SettingsService) Set(key, raw string) (domain.ConfigValue, error) {
	want, ok := s.defaults[key]
	if !ok {
		return nil, unknownSetting(key)
	}

	var value domain.ConfigValue
	switch want.(type) {
	case domain.StringValue:
		value = domain.StringValue(raw)
	default:
		value = domain.ParseConfigValue(raw)
		if !domain.SameKind(want, value) {
			return nil, fmt.Errorf("%w: %s expects a value like %q, got %q",
				domain.ErrInvalidInput, key, want.String(), raw)
		}
		if n, isInt := value.(domain.IntValue); isInt {
			if _, wantFloat := want.(domain.FloatValue); wantFloat {
				value = domain.FloatValue(float64(n))
			}
		}
	}

	if err := s.configStore.Set(key, value.Any()); err != nil {
		return nil, fmt.Errorf("save %s: %w", key, err)
	}
	return value, nil
}

// Reset removes one stored key, or every stored key when key is empty.
func (s *SettingsService) Reset(key string) error {
	if key == "" {
		for _, k := range s.configStore.Keys() {
			if err := s.configStore.Delete(k); err != nil {
				return fmt.Errorf("reset %s: %w", k, err)
			}
		}
		return nil
	}
	if _, ok := s.defaults[key]; !ok {
		return unknownSetting(key)
	}
	if err := s.configStore.Delete(key); err != nil {
		return fmt.Errorf("reset %s: %w", key, err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// effective returns the stored value of key when it has the right type,
// falling back to the default.
func (s *SettingsService) effective(key string) (domain.ConfigValue, bool) {
	def := s.defaults[key]
	raw, ok := s.configStore.Get(key)
	if !ok {
		return def, true
	}
	value := domain.ConfigValueOf(raw)
	if !domain.SameKind(def, value) {
		return def, true
	}
	if _, isString := def.(domain.StringValue); isString {
		value = domain.StringValue(value.String())
	}
	return value, false
}

func unknownSetting(key string) error {
	return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
}
