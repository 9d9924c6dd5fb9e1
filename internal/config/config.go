package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// ConfigDir is the name of the config directory in home
	ConfigDir = ".tasktrack"

	// ConfigFileName is the name of the config file inside ConfigDir
	ConfigFileName = "config.toml"

	// DefaultServerHost is the default server host
	DefaultServerHost = "localhost"

	// DefaultServerPort is the default server port
	DefaultServerPort = 7432

	// DefaultDataDirName is the data directory inside ConfigDir
	DefaultDataDirName = "data"

	// DefaultLogLevel is the default log level
	DefaultLogLevel = "info"
)

// Storage drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Config is the fully resolved runtime configuration.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Log     LogConfig
}

// ServerConfig holds the HTTP listen address.
type ServerConfig struct {
	Host string
	Port int
}

// StorageConfig selects the task store backend and where it keeps its data.
type StorageConfig struct {
	Driver  string
	DataDir string
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string
}

// configFile represents the raw TOML structure
type configFile struct {
	Server  serverSection  `toml:"server"`
	Storage storageSection `toml:"storage"`
	Log     logSection     `toml:"log"`
}

// serverSection represents the [server] section in TOML
type serverSection struct {
	Host string `toml:"host"`
	Port *int   `toml:"port"`
}

type storageSection struct {
	Driver  string `toml:"driver"`
	DataDir string `toml:"data_dir"`
}

type logSection struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration for the given home directory.
func Default(homeDir string) *Config {
	return &Config{
		Server: ServerConfig{
			Host: DefaultServerHost,
			Port: DefaultServerPort,
		},
		Storage: StorageConfig{
			Driver:  DriverFile,
			DataDir: filepath.Join(homeDir, ConfigDir, DefaultDataDirName),
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// DefaultPath returns ~/.tasktrack/config.toml under homeDir.
func DefaultPath(homeDir string) string {
	return filepath.Join(homeDir, ConfigDir, ConfigFileName)
}

// Addr returns the host:port the server binds to.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	// 0 is only reachable through SetBind and means "any free port".
	if c.Server.Port != 0 {
		if err := validatePort(c.Server.Port); err != nil {
			return err
		}
	}
	if c.Server.Host == "" {
		return errors.New("server host cannot be empty")
	}
	switch c.Storage.Driver {
	case DriverFile, DriverSQLite:
	default:
		return fmt.Errorf("invalid storage driver %q: must be %q or %q", c.Storage.Driver, DriverFile, DriverSQLite)
	}
	if c.Storage.DataDir == "" {
		return errors.New("storage data_dir cannot be empty")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return nil
}

// applyFile parses the TOML file at path over cfg. A missing file is not an
// error; the defaults stay in place.
func applyFile(cfg *Config, path, homeDir string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var raw configFile
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return fmt.Errorf("failed to parse config TOML: %w", err)
	}

	if raw.Server.Host != "" {
		cfg.Server.Host = raw.Server.Host
	}
	if raw.Server.Port != nil {
		if err := validatePort(*raw.Server.Port); err != nil {
			return err
		}
		cfg.Server.Port = *raw.Server.Port
	}
	if raw.Storage.Driver != "" {
		cfg.Storage.Driver = strings.ToLower(raw.Storage.Driver)
	}
	if raw.Storage.DataDir != "" {
		cfg.Storage.DataDir = expandHome(raw.Storage.DataDir, homeDir)
	}
	if raw.Log.Level != "" {
		cfg.Log.Level = raw.Log.Level
	}

	return nil
}

// expandHome replaces a leading ~ with homeDir.
func expandHome(path, homeDir string) string {
	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

// validatePort checks if the port is in the valid range (1-65535)
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	return nil
}
