package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// Environment variables read by Resolve.
const (
	EnvConfig        = "TASKTRACK_CONFIG"
	EnvBind          = "TASKTRACK_BIND"
	EnvDataDir       = "TASKTRACK_DATA_DIR"
	EnvStorageDriver = "TASKTRACK_STORAGE_DRIVER"
	EnvLogLevel      = "TASKTRACK_LOG_LEVEL"
)

// Options carries the inputs of Resolve. Zero values fall back to the
// process environment.
type Options struct {
	// Path of the config file. Empty means TASKTRACK_CONFIG, then
	// ~/.tasktrack/config.toml.
	Path string
	// HomeDir overrides os.UserHomeDir. This is useful for testing.
	HomeDir string
	// Getenv overrides os.Getenv. This is useful for testing.
	Getenv func(string) string
}

// Resolve builds the final configuration. Precedence order (highest to
// lowest):
// 1. Environment variables (TASKTRACK_*)
// 2. Config file
// 3. Built-in defaults (localhost:7432, file storage under ~/.tasktrack/data)
//
// Command line flags are applied by the caller on top of the result.
func Resolve(opts Options) (*Config, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	homeDir := opts.HomeDir
	if homeDir == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		homeDir = h
	}

	path := opts.Path
	if path == "" {
		path = getenv(EnvConfig)
	}
	if path == "" {
		path = DefaultPath(homeDir)
	}

	// Step 1: defaults
	cfg := Default(homeDir)

	// Step 2: file (optional)
	if err := applyFile(cfg, expandHome(path, homeDir), homeDir); err != nil {
		return nil, err
	}

	// Step 3: environment
	if err := applyEnv(cfg, getenv, homeDir); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string, homeDir string) error {
	if bind := getenv(EnvBind); bind != "" {
		if err := cfg.SetBind(bind); err != nil {
			return fmt.Errorf("%s: %w", EnvBind, err)
		}
	}
	if dir := getenv(EnvDataDir); dir != "" {
		cfg.Storage.DataDir = expandHome(dir, homeDir)
	}
	if driver := getenv(EnvStorageDriver); driver != "" {
		cfg.Storage.Driver = strings.ToLower(driver)
	}
	if level := getenv(EnvLogLevel); level != "" {
		cfg.Log.Level = level
	}
	return nil
}

// SetBind overrides host and port from a host:port string.
func (c *Config) SetBind(bind string) error {
	host, portStr, err := net.SplitHostPort(bind)
	if err != nil {
		return fmt.Errorf("invalid bind address %q: %w", bind, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid bind port %q", portStr)
	}
	// Port 0 asks the kernel for a free port; only allowed from bind overrides.
	if port != 0 {
		if err := validatePort(port); err != nil {
			return err
		}
	}
	if host == "" {
		host = DefaultServerHost
	}
	c.Server.Host = host
	c.Server.Port = port
	return nil
}
