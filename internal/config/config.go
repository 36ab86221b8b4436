// Package config loads go-daylog settings from a YAML file, a .env file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvVaultDaily  = "DAYLOG_VAULT_DAILY"
	EnvVaultAssets = "DAYLOG_VAULT_ASSETS"
	EnvSiteImages  = "DAYLOG_SITE_IMAGES"
	EnvIndex       = "DAYLOG_INDEX"
	EnvDefaultYear = "DAYLOG_DEFAULT_YEAR"
)

const (
	AppDir         = ".go-daylog"
	ConfigFileName = "config.yaml"
)

// Config holds all go-daylog configuration.
type Config struct {
	Vault   VaultConfig   `yaml:"vault"`
	Site    SiteConfig    `yaml:"site"`
	Build   BuildConfig   `yaml:"build"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// VaultConfig points at the Obsidian vault.
type VaultConfig struct {
	Daily  string `yaml:"daily"`  // folder of YYYY-MM-DD.md notes
	Assets string `yaml:"assets"` // attachment folder
}

// SiteConfig describes the generated site.
type SiteConfig struct {
	Index  string `yaml:"index"`
	Data   string `yaml:"data"`
	Images string `yaml:"images"`
	// AssetURL is the image folder as referenced from the page.
	AssetURL string `yaml:"asset_url"`
	// FallbackRoot is tried by the page when the site copy of an image is
	// missing.
	FallbackRoot string `yaml:"fallback_root"`
}

// BuildConfig tunes builds. An empty CacheDir disables the note cache.
type BuildConfig struct {
	DefaultYear int    `yaml:"default_year"`
	Concurrency int    `yaml:"concurrency"`
	CopyImages  bool   `yaml:"copy_images"`
	CheckImages bool   `yaml:"check_images"`
	CacheDir    string `yaml:"cache_dir"`
}

type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Vault: VaultConfig{
			Daily:  "L:/我的雲端硬碟/GD_ObsidianVault/02_Daily",
			Assets: "L:/我的雲端硬碟/GD_ObsidianVault/1000_assets",
		},
		Site: SiteConfig{
			Index:        "index.html",
			Data:         "data.json",
			Images:       "images/1000_assets",
			AssetURL:     "images/1000_assets",
			FallbackRoot: "L:/我的雲端硬碟/GD_ObsidianVault/1000_assets",
		},
		Build: BuildConfig{
			DefaultYear: 2025,
			Concurrency: runtime.NumCPU(),
			CopyImages:  true,
			CacheDir:    "~/" + AppDir + "/cache",
		},
		Watch: WatchConfig{
			Debounce: "500ms",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "~/" + AppDir + "/logs/app.log",
		},
	}
}

// DefaultConfigPath returns ~/.go-daylog/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(AppDir, ConfigFileName)
	}
	return filepath.Join(home, AppDir, ConfigFileName)
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without replacing variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvVaultDaily); v != "" {
		c.Vault.Daily = v
	}
	if v := os.Getenv(EnvVaultAssets); v != "" {
		c.Vault.Assets = v
	}
	if v := os.Getenv(EnvSiteImages); v != "" {
		c.Site.Images = v
	}
	if v := os.Getenv(EnvIndex); v != "" {
		c.Site.Index = v
	}
	if v := os.Getenv(EnvDefaultYear); v != "" {
		year, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvDefaultYear, v, err)
		}
		c.Build.DefaultYear = year
	}
	return nil
}

// GetDebounce returns the watch debounce, 500ms when unset or invalid.
func (c *Config) GetDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Vault.Daily) == "" {
		return fmt.Errorf("vault.daily is required (or set %s)", EnvVaultDaily)
	}
	if strings.TrimSpace(c.Site.Index) == "" {
		return fmt.Errorf("site.index is required (or set %s)", EnvIndex)
	}
	if c.Build.DefaultYear < 1 || c.Build.DefaultYear > 9999 {
		return fmt.Errorf("invalid build.default_year: %d", c.Build.DefaultYear)
	}
	if c.Build.Concurrency < 1 {
		return fmt.Errorf("build.concurrency must be at least 1, got %d", c.Build.Concurrency)
	}
	if c.Watch.Debounce != "" {
		if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
			return fmt.Errorf("invalid watch.debounce %q: %w", c.Watch.Debounce, err)
		}
	}

	validLevel := false
	for _, l := range ValidLogLevels {
		if strings.EqualFold(c.Logging.Level, l) {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid logging.level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}
	return nil
}
