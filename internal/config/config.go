package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/readmectl/internal/preview"
	"github.com/studiowebux/readmectl/internal/types"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755
)

const (
	DefaultAPIURL       = "http://localhost:8000"
	DefaultTimeout      = 30 * time.Second
	DefaultCopyAckDelay = 1800 * time.Millisecond
	DefaultOutputDir    = "."
	DefaultLogLevel     = "info"
)

var (
	// ConfigDir is the global configuration directory (~/.readmectl)
	ConfigDir string

	// ConfigFile is the YAML settings file
	ConfigFile string

	// KeybindsFile holds user keybinding overrides
	KeybindsFile string

	// LogFile receives logs while the TUI owns the terminal
	LogFile string
)

const defaultConfigYAML = `# readmectl settings
api_url: http://localhost:8000
timeout: 30s
# how long "Copied." stays on screen
copy_ack_delay: 1800ms
proxy_path: /api/proxy-image
# extra image hosts routed through the proxy
image_hosts: []
output_dir: .
log:
  level: info
`

// Initialize sets up the configuration directory and files
// It creates ~/.readmectl/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, ".readmectl"))
}

// InitializeAt is Initialize rooted at dir
func InitializeAt(dir string) error {
	ConfigDir = dir
	ConfigFile = filepath.Join(ConfigDir, "config.yaml")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")
	LogFile = filepath.Join(ConfigDir, "readmectl.log")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	// Create default settings file if it doesn't exist
	if _, err := os.Stat(ConfigFile); os.IsNotExist(err) {
		if err := os.WriteFile(ConfigFile, []byte(defaultConfigYAML), FilePermissions); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
	}

	return nil
}

// Config is the settings file
type Config struct {
	APIURL       string           `yaml:"api_url" validate:"required,url"`
	Timeout      time.Duration    `yaml:"timeout" validate:"gt=0"`
	CopyAckDelay time.Duration    `yaml:"copy_ack_delay" validate:"gt=0"`
	ProxyPath    string           `yaml:"proxy_path" validate:"required,startswith=/"`
	ImageHosts   []string         `yaml:"image_hosts" validate:"dive,hostname"`
	OutputDir    string           `yaml:"output_dir"`
	Log          LogConfig        `yaml:"log"`
	TLS          *types.TLSConfig `yaml:"tls,omitempty"`
}

// LogConfig selects the log level
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		APIURL:       DefaultAPIURL,
		Timeout:      DefaultTimeout,
		CopyAckDelay: DefaultCopyAckDelay,
		ProxyPath:    preview.DefaultProxyPath,
		OutputDir:    DefaultOutputDir,
		Log:          LogConfig{Level: DefaultLogLevel},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config format in %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults refills keys that were present but empty
func (c *Config) applyDefaults() {
	def := Default()
	if c.APIURL == "" {
		c.APIURL = def.APIURL
	}
	if c.Timeout == 0 {
		c.Timeout = def.Timeout
	}
	if c.CopyAckDelay == 0 {
		c.CopyAckDelay = def.CopyAckDelay
	}
	if c.ProxyPath == "" {
		c.ProxyPath = def.ProxyPath
	}
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.APIURL = strings.TrimRight(c.APIURL, "/")
}

// Validate checks the settings
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// ResolveOutputDir expands a leading ~/ in the download directory
func (c *Config) ResolveOutputDir() (string, error) {
	dir := c.OutputDir
	if dir == "" {
		dir = DefaultOutputDir
	}
	if strings.HasPrefix(dir, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, dir[2:])
	}
	return dir, nil
}
