package config

import (
	"fmt"
	"sync"
)

var (
	// current holds the process-wide configuration.
	current *Config

	// currentMu protects access to current.
	currentMu sync.RWMutex
)

// Initialize loads configuration from path (or defaults when path is empty)
// with environment overrides and stores it as the process-wide configuration.
// Calling it again replaces the stored configuration only on success.
func Initialize(path string) error {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return err
	}
	SetConfig(cfg)
	return nil
}

// GetConfig returns the process-wide configuration, or nil before Initialize.
// Prefer passing a *Config explicitly in library code and tests.
func GetConfig() *Config {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// SetConfig replaces the process-wide configuration.
func SetConfig(cfg *Config) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = cfg
}

// ReloadConfig reloads the configuration from path. The existing
// configuration is kept when loading or validation fails.
func ReloadConfig(path string) error {
	if err := Initialize(path); err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	return nil
}

// MustGetConfig returns the process-wide configuration and panics if
// Initialize has not succeeded.
func MustGetConfig() *Config {
	cfg := GetConfig()
	if cfg == nil {
		panic("configuration not initialized: call Initialize first")
	}
	return cfg
}
