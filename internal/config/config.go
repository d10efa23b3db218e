package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

// EnvPrefix marks environment variables that override settings.
// JFP_REGISTRY_CACHE_TTL sets registry.cache_ttl.
const EnvPrefix = "JFP_"

// Settings is the effective configuration.
type Settings struct {
	Registry struct {
		URL         string `koanf:"url"`
		CacheTTL    int    `koanf:"cache_ttl"`
		TimeoutMS   int    `koanf:"timeout_ms"`
		AutoRefresh bool   `koanf:"auto_refresh"`
	} `koanf:"registry"`

	Output struct {
		JSON  bool `koanf:"json"`
		Color bool `koanf:"color"`
	} `koanf:"output"`

	Log struct {
		File    string `koanf:"file"`
		Verbose bool   `koanf:"verbose"`
	} `koanf:"log"`
}

// CacheTTL returns the registry snapshot lifetime.
func (s *Settings) CacheTTL() time.Duration {
	if s.Registry.CacheTTL <= 0 {
		return domain.DefaultCacheTTL
	}
	return time.Duration(s.Registry.CacheTTL) * time.Second
}

// Timeout returns the registry request timeout.
func (s *Settings) Timeout() time.Duration {
	if s.Registry.TimeoutMS <= 0 {
		return domain.DefaultTimeout
	}
	return time.Duration(s.Registry.TimeoutMS) * time.Millisecond
}

// Load layers the built-in defaults, the TOML file at paths.ConfigFile (when
// present) and JFP_ environment variables, later layers winning.
func Load(paths Paths) (*Settings, error) {
	k := koanf.New(".")

	defaults := make(map[string]any)
	for key, value := range domain.DefaultSettings() {
		defaults[key] = value.Any()
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if paths.ConfigFile != "" {
		if _, err := os.Stat(paths.ConfigFile); err == nil {
			if err := k.Load(file.Provider(paths.ConfigFile), toml.Parser()); err != nil {
				return nil, fmt.Errorf("loading %s: %w", paths.ConfigFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", paths.ConfigFile, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var settings Settings
	if err := k.Unmarshal("", &settings); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	return &settings, nil
}

// envKey maps JFP_SECTION_NAME to section.name. Only the first underscore
// separates the section, so JFP_REGISTRY_CACHE_TTL is registry.cache_ttl.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}
