package config

import (
	"caextractor/downloader/network"
	"caextractor/logging"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml"
)

// DefaultConfigFile is looked up in the working directory when no path is given
const DefaultConfigFile = "caextractor.toml"

// EnvConfigPath overrides the configuration file location
const EnvConfigPath = "CAEXTRACTOR_CONFIG_PATH"

// GeneralConfig holds general configuration parameters
type GeneralConfig struct {
	LogLevel     string `toml:"log_level"`
	LogPath      string `toml:"log_path"`
	TargetFolder string `toml:"target_folder"`
	Timeout      string `toml:"timeout"` // Go duration, e.g. "45s"
}

// SourceConfig describes where trusted lists are downloaded from
type SourceConfig struct {
	DownloadURL string `toml:"download_url"` // must contain {country}
	UserAgent   string `toml:"user_agent,omitempty"`
}

// KeystoreConfig enables the optional JKS truststore export
type KeystoreConfig struct {
	Path     string `toml:"path"`
	Password string `toml:"password,omitempty"`
}

// Config represents the main configuration structure
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Source   SourceConfig   `toml:"source"`
	Keystore KeystoreConfig `toml:"keystore"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:     "info",
			TargetFolder: ".",
			Timeout:      network.DefaultTimeout.String(),
		},
		Source: SourceConfig{
			DownloadURL: network.DefaultDownloadURL,
		},
	}
}

// applyDefaults fills keys left out of the file
func (c *Config) applyDefaults() {
	d := Default()
	if c.General.LogLevel == "" {
		c.General.LogLevel = d.General.LogLevel
	}
	if c.General.TargetFolder == "" {
		c.General.TargetFolder = d.General.TargetFolder
	}
	if c.General.Timeout == "" {
		c.General.Timeout = d.General.Timeout
	}
	if c.Source.DownloadURL == "" {
		c.Source.DownloadURL = d.Source.DownloadURL
	}
}

// ExpandTilde expands ~ to the user's home directory
func ExpandTilde(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadConfig loads and parses the configuration file
// Priority: cliPath > CAEXTRACTOR_CONFIG_PATH env var > ./caextractor.toml
// Only the default location may be missing; defaults apply in that case.
func LoadConfig(cliPath string) (*Config, error) {
	var configPath string
	explicit := true
	if cliPath != "" {
		configPath = cliPath
	} else if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		configPath = envPath
	} else {
		configPath = DefaultConfigFile
		explicit = false
	}

	logging.PreLog("DEBUG", "📂 Loading configuration from: %s", configPath)

	file, err := os.ReadFile(configPath)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			logging.PreLog("DEBUG", "No %s found, using built-in defaults", configPath)
			return Default(), nil
		}
		logging.PreLog("ERROR", "❌ Failed to read config file: %v", err)
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(file, cfg); err != nil {
		logging.PreLog("ERROR", "❌ Failed to parse config file: %v", err)
		return nil, fmt.Errorf("failed to parse config file '%s': %w", configPath, err)
	}
	cfg.applyDefaults()

	logging.PreLog("DEBUG", "🔍 Decoded Config: %+v", redacted(*cfg))

	logging.SetPreLogLevel(cfg.General.LogLevel)

	if err := cfg.Validate(); err != nil {
		logging.PreLog("ERROR", "❌ Configuration validation failed: %v", err)
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logging.PreLog("DEBUG", "✅ Configuration successfully loaded and validated.")
	return cfg, nil
}

// Validate checks the configuration validity and expands paths
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.General.LogLevel); err != nil {
		return err
	}

	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}

	if !strings.Contains(c.Source.DownloadURL, network.CountryPlaceholder) {
		return fmt.Errorf("download_url must contain %s", network.CountryPlaceholder)
	}

	for _, p := range []*string{&c.General.LogPath, &c.General.TargetFolder, &c.Keystore.Path} {
		expanded, err := ExpandTilde(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}

	return nil
}

// TimeoutDuration parses general.timeout. An empty value means the default.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.General.Timeout == "" {
		return network.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.General.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.General.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", c.General.Timeout)
	}
	return d, nil
}

func redacted(c Config) Config {
	if c.Keystore.Password != "" {
		c.Keystore.Password = "****"
	}
	return c
}
