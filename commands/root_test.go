package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/go-daylog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func(string) string
	}{
		{
			name:  "home directory expansion",
			input: "~/test/path",
			expected: func(home string) string {
				return filepath.Join(home, "test/path")
			},
		},
		{
			name:  "absolute path unchanged",
			input: "/absolute/path",
			expected: func(home string) string {
				return "/absolute/path"
			},
		},
		{
			name:  "relative path converted to absolute",
			input: "relative/path",
			expected: func(home string) string {
				abs, _ := filepath.Abs("relative/path")
				return abs
			},
		},
	}

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			expected := tt.expected(home)
			assert.Equal(t, expected, result)
		})
	}
}

func TestEnsureDir(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test", "nested", "dir")

	err := ensureDir(testDir)
	assert.NoError(t, err)

	info, err := os.Stat(testDir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())

	// Test idempotency
	err = ensureDir(testDir)
	assert.NoError(t, err)
}

func TestParseRange(t *testing.T) {
	start, end, err := parseRange("10-09", "2025-10-01", 2025)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 10, 9, 0, 0, 0, 0, time.UTC), end)

	_, _, err = parseRange("13-01", "10-01", 2025)
	assert.ErrorContains(t, err, "--start")
	_, _, err = parseRange("10-01", "tomorrow", 2025)
	assert.ErrorContains(t, err, "--end")
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", " ", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

func TestSiteConfigMergesFlags(t *testing.T) {
	c := config.DefaultConfig()
	c.Build.Concurrency = 3

	f := siteFlags{start: "10-03", end: "10-01", index: "out/index.html", noImages: true}
	sc, err := f.siteConfig(c)
	require.NoError(t, err)

	assert.Equal(t, "out/index.html", sc.IndexPath)
	assert.Equal(t, c.Vault.Daily, sc.VaultDaily)
	assert.Equal(t, c.Site.Data, sc.DataPath)
	assert.False(t, sc.CopyImages)
	assert.Equal(t, 3, sc.Concurrency)
	assert.True(t, sc.Start.Before(sc.End))
	assert.Equal(t, expandPath(c.Build.CacheDir), sc.CacheDir)

	f.concurrency = 8
	f.noCache = true
	sc, err = f.siteConfig(c)
	require.NoError(t, err)
	assert.Equal(t, 8, sc.Concurrency)
	assert.Empty(t, sc.CacheDir)
}

// execute runs the CLI in an isolated home directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{config.EnvVaultDaily, config.EnvVaultAssets, config.EnvSiteImages, config.EnvIndex, config.EnvDefaultYear} {
		t.Setenv(key, "")
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

const note = `#### 💤 睡眠
睡覺時間：0130
起床時間：0800
持續時間(H)：6.5

#### 🍎 飲食
飲食時間(HHMM)：2030
飲食項目：宵夜 ![[ramen.jpg]]
`

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	notePath := filepath.Join(dir, "2025-10-01.md")
	require.NoError(t, os.WriteFile(notePath, []byte(note), 0644))
	outPath := filepath.Join(dir, "out", "day.json")

	out, err := execute(t, "parse", notePath, "-o", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date": "2025-10-01"`)
	assert.Contains(t, string(data), `"ramen.jpg"`)

	_, err = execute(t, "parse", filepath.Join(dir, "missing.md"), "-o", outPath)
	assert.Error(t, err)
}

func TestBuildRenderAndSummaryCommands(t *testing.T) {
	vault := t.TempDir()
	daily := filepath.Join(vault, "02_Daily")
	assetsDir := filepath.Join(vault, "1000_assets")
	siteDir := t.TempDir()
	require.NoError(t, os.MkdirAll(daily, 0755))
	require.NoError(t, os.MkdirAll(assetsDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(daily, "2025-10-01.md"), []byte(note), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(assetsDir, "ramen.jpg"), []byte("img"), 0644))

	index := filepath.Join(siteDir, "index.html")
	data := filepath.Join(siteDir, "data.json")

	out, err := execute(t, "build",
		"--start", "2025-10-02", "--end", "2025-10-01",
		"--vault-daily", daily,
		"--vault-assets", assetsDir,
		"--site-images", filepath.Join(siteDir, "images", "1000_assets"),
		"--index", index,
		"--data", data,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 1 day(s) into "+data+" and embedded into "+index)
	assert.Contains(t, out, filepath.Join(siteDir, "index-20251001-20251002.html"))
	assert.Contains(t, out, "Images copied: 1")
	assert.FileExists(t, filepath.Join(siteDir, "images", "1000_assets", "ramen.jpg"))

	rendered := filepath.Join(siteDir, "rendered.html")
	out, err = execute(t, "render", "--index", index, "--out", rendered)
	require.NoError(t, err)
	assert.Contains(t, out, "Rendered "+rendered)
	html, err := os.ReadFile(rendered)
	require.NoError(t, err)
	assert.Contains(t, string(html), `id="day-2025-10-01"`)

	out, err = execute(t, "summary", "--data", data, "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-10-01,6.5,1:30-8:00,true")

	out, err = execute(t, "summary", "--data=", "--start", "2025-10-01", "--end", "2025-10-01",
		"--vault-daily", daily, "--output", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Date Range: 2025-10-01")
	assert.Contains(t, out, "Late eating: 1 day")
}

func TestSummaryRequiresSource(t *testing.T) {
	_, err := execute(t, "summary", "--data=", "--start=", "--end=")
	assert.ErrorContains(t, err, "--data")
}

func TestBuildRequiresRange(t *testing.T) {
	_, err := execute(t, "build", "--start", "2025-10-01", "--end", "not-a-date", "--index", filepath.Join(t.TempDir(), "i.html"))
	assert.ErrorContains(t, err, "--end")
}

func TestInvalidConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("build:\n  concurrency: 0\n"), 0644))

	_, err := execute(t, "--config", path, "summary", "--data=", "--start=", "--end=")
	assert.ErrorContains(t, err, "invalid config")

	// restore the default for later tests
	configPath = defaultConfigFile
}
