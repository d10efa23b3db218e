package domain

import (
	"fmt"
	"strconv"
)

// ConfigValue is a typed configuration value. The set of implementations is
// closed: BoolValue, IntValue, FloatValue and StringValue.
type ConfigValue interface {
	// Any returns the underlying Go value for persistence.
	Any() any
	// String returns the value as it would be typed on the command line.
	String() string

	configValue()
}

// BoolValue is a boolean setting.
type BoolValue bool

// IntValue is an integer setting.
type IntValue int64

// FloatValue is a floating point setting.
type FloatValue float64

// StringValue is a free-text setting.
type StringValue string

// Any returns the underlying bool.
func (v BoolValue) Any() any { return bool(v) }

// Any returns the underlying int64.
func (v IntValue) Any() any { return int64(v) }

// Any returns the underlying float64.
func (v FloatValue) Any() any { return float64(v) }

// Any returns the underlying string.
func (v StringValue) Any() any { return string(v) }

func (v BoolValue) String() string { return strconv.FormatBool(bool(v)) }

func (v IntValue) String() string { return strconv.FormatInt(int64(v), 10) }

func (v FloatValue) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

func (v StringValue) String() string { return string(v) }

func (BoolValue) configValue() {}

func (IntValue) configValue() {}

func (FloatValue) configValue() {}

func (StringValue) configValue() {}

// ParseConfigValue infers the type of raw text. Rules are tried in order:
// the literals true and false, a base-10 integer, a float, and finally a string.
func ParseConfigValue(raw string) ConfigValue {
	switch raw {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return IntValue(n)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return FloatValue(f)
	}
	return StringValue(raw)
}

// ConfigValueOf wraps a value decoded from a config file.
// Unrecognised types are rendered as strings.
func ConfigValueOf(v any) ConfigValue {
	switch x := v.(type) {
	case bool:
		return BoolValue(x)
	case int:
		return IntValue(int64(x))
	case int64:
		return IntValue(x)
	case float64:
		return FloatValue(x)
	case string:
		return StringValue(x)
	case ConfigValue:
		return x
	default:
		return StringValue(fmt.Sprint(x))
	}
}

// Setting keys.
const (
	KeyRegistryURL         = "registry.url"
	KeyRegistryCacheTTL    = "registry.cache_ttl"
	KeyRegistryTimeoutMS   = "registry.timeout_ms"
	KeyRegistryAutoRefresh = "registry.auto_refresh"
	KeyOutputJSON          = "output.json"
	KeyOutputColor         = "output.color"
	KeyLogFile             = "log.file"
	KeyLogVerbose          = "log.verbose"
)

// DefaultSettings returns the built-in value of every known setting.
func DefaultSettings() map[string]ConfigValue {
	return map[string]ConfigValue{
		KeyRegistryURL:         StringValue(DefaultRegistryURL),
		KeyRegistryCacheTTL:    IntValue(int64(DefaultCacheTTL.Seconds())),
		KeyRegistryTimeoutMS:   IntValue(DefaultTimeout.Milliseconds()),
		KeyRegistryAutoRefresh: BoolValue(true),
		KeyOutputJSON:          BoolValue(false),
		KeyOutputColor:         BoolValue(true),
		KeyLogFile:             StringValue(""),
		KeyLogVerbose:          BoolValue(false),
	}
}

// Setting is one resolved configuration entry.
type Setting struct {
	Key     string      `json:"key"`
	Value   ConfigValue `json:"value"`
	Default bool        `json:"default"`
}

// SameKind reports whether two values share a variant. An IntValue is
// accepted where a FloatValue is expected.
func SameKind(want, got ConfigValue) bool {
	switch want.(type) {
	case BoolValue:
		_, ok := got.(BoolValue)
		return ok
	case IntValue:
		_, ok := got.(IntValue)
		return ok
	case FloatValue:
		switch got.(type) {
		case FloatValue, IntValue:
			return true
		}
		return false
	case StringValue:
		return true
	default:
		return false
	}
}
