// Package config resolves jfp's on-disk locations and layers its settings
// from defaults, the config file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvHome names the variable that relocates every jfp file under one directory.
const EnvHome = "JFP_HOME"

const appName = "jfp"

// Paths are the files and directories jfp reads and writes.
type Paths struct {
	ConfigDir         string
	CacheDir          string
	DatabasePath      string
	RegistryCachePath string
	RegistryMetaPath  string
	ConfigFile        string
}

// ResolvePaths computes every path from an optional home override. With a
// home, config lives in <home>/.config/jfp and data in <home>/.cache/jfp;
// otherwise the platform's user config and cache directories are used.
func ResolvePaths(home string) (Paths, error) {
	var configDir, cacheDir string
	if home != "" {
		configDir = filepath.Join(home, ".config", appName)
		cacheDir = filepath.Join(home, ".cache", appName)
	} else {
		userConfig, err := os.UserConfigDir()
		if err != nil {
			return Paths{}, fmt.Errorf("resolving config directory: %w", err)
		}
		userCache, err := os.UserCacheDir()
		if err != nil {
			return Paths{}, fmt.Errorf("resolving cache directory: %w", err)
		}
		configDir = filepath.Join(userConfig, appName)
		cacheDir = filepath.Join(userCache, appName)
	}

	return Paths{
		ConfigDir:         configDir,
		CacheDir:          cacheDir,
		DatabasePath:      filepath.Join(cacheDir, "jfp.db"),
		RegistryCachePath: filepath.Join(configDir, "registry.json"),
		RegistryMetaPath:  filepath.Join(configDir, "registry.meta.json"),
		ConfigFile:        filepath.Join(configDir, "config.toml"),
	}, nil
}

// DefaultPaths resolves paths using JFP_HOME when set.
func DefaultPaths() (Paths, error) {
	return ResolvePaths(os.Getenv(EnvHome))
}

// Dirs returns the directories that must exist for jfp to work.
func (p Paths) Dirs() []string {
	return []string{p.ConfigDir, p.CacheDir}
}
