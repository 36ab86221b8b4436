package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvVaultDaily, EnvVaultAssets, EnvSiteImages, EnvIndex, EnvDefaultYear} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "index.html", cfg.Site.Index)
	assert.Equal(t, "images/1000_assets", cfg.Site.Images)
	assert.Equal(t, 2025, cfg.Build.DefaultYear)
	assert.True(t, cfg.Build.CopyImages)
	assert.GreaterOrEqual(t, cfg.Build.Concurrency, 1)
	assert.NoError(t, cfg.Validate())
}

func TestSaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", ConfigFileName)

	cfg := DefaultConfig()
	cfg.Vault.Daily = "/vault/daily"
	cfg.Build.DefaultYear = 2024
	cfg.Watch.Debounce = "2s"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/vault/daily", loaded.Vault.Daily)
	assert.Equal(t, 2024, loaded.Build.DefaultYear)
	assert.Equal(t, 2*time.Second, loaded.GetDebounce())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("site:\n  index: site/index.html\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "site/index.html", cfg.Site.Index)
	assert.Equal(t, "data.json", cfg.Site.Data)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingAndInvalid(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Site, cfg.Site)

	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("vault: [unclosed"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvVaultDaily, "/env/daily")
	t.Setenv(EnvVaultAssets, "/env/assets")
	t.Setenv(EnvSiteImages, "out/images")
	t.Setenv(EnvIndex, "out/index.html")
	t.Setenv(EnvDefaultYear, "2023")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/env/daily", cfg.Vault.Daily)
	assert.Equal(t, "/env/assets", cfg.Vault.Assets)
	assert.Equal(t, "out/images", cfg.Site.Images)
	assert.Equal(t, "out/index.html", cfg.Site.Index)
	assert.Equal(t, 2023, cfg.Build.DefaultYear)

	t.Setenv(EnvDefaultYear, "next year")
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(EnvIndex)

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(EnvIndex+"=from-dotenv.html\n"), 0644))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), envFile))
	t.Cleanup(func() { os.Unsetenv(EnvIndex) })

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.html", cfg.Site.Index)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty daily", func(c *Config) { c.Vault.Daily = " " }},
		{"empty index", func(c *Config) { c.Site.Index = "" }},
		{"bad year", func(c *Config) { c.Build.DefaultYear = 0 }},
		{"bad concurrency", func(c *Config) { c.Build.Concurrency = 0 }},
		{"bad debounce", func(c *Config) { c.Watch.Debounce = "soon" }},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGetDebounceFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Watch.Debounce = ""
	assert.Equal(t, 500*time.Millisecond, cfg.GetDebounce())
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, filepath.Join("/home/tester", AppDir, ConfigFileName), DefaultConfigPath())
}
