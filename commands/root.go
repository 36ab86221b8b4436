package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/penwyp/go-daylog/internal/config"
	"github.com/penwyp/go-daylog/internal/site"
	"github.com/penwyp/go-daylog/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug bool

	// Config file
	configPath string

	// cfg is loaded before any subcommand runs.
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "go-daylog",
		Short: "Daily log static page generator",
		Long: `go-daylog turns Obsidian daily notes into a static page of sleep, exercise,
diet and photo cards.

Notes named YYYY-MM-DD.md are parsed, collected into one JSON document,
embedded into index.html and rendered into its day containers.

Examples:
  go-daylog build --start 10-01 --end 10-09          # Build a date range (MM-DD uses the default year)
  go-daylog build --start 2025-10-01 --end 2025-10-09 --no-images
  go-daylog parse 02_Daily/2025-10-09.md -o data.json
  go-daylog render --index index.html                 # Re-render the JSON already in a page
  go-daylog summary --start 10-01 --end 10-31 --output summary
  go-daylog watch --start 10-01 --end 10-31           # Rebuild whenever a note changes`,
		PersistentPreRunE: setup,
		SilenceUsage:      true,
	}
)

const (
	defaultConfigFile = "~/.go-daylog/config.yaml"
	dotEnvFile        = ".env"
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigFile,
		"Config file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

// Execute runs the CLI. SIGINT and SIGTERM cancel the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// setup loads configuration and initializes logging.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(dotEnvFile); err != nil {
		return err
	}

	c, err := config.Load(expandPath(configPath))
	if err != nil {
		return err
	}
	if debug {
		c.Logging.Level = "debug"
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logFile := expandPath(c.Logging.File)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(c.Logging.Level, logFile, debug); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg = c
	return nil
}

// siteFlags are the path and build options shared by build and watch.
type siteFlags struct {
	start, end   string
	vaultDaily   string
	vaultAssets  string
	siteImages   string
	index        string
	data         string
	noImages     bool
	checkImages  bool
	concurrency  int
	fallbackRoot string
	noCache      bool
	clearCache   bool
}

func (f *siteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "Start date (MM-DD or YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "End date (MM-DD or YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.vaultDaily, "vault-daily", "", "Daily notes directory (default from config)")
	cmd.Flags().StringVar(&f.vaultAssets, "vault-assets", "", "Vault attachment directory (default from config)")
	cmd.Flags().StringVar(&f.siteImages, "site-images", "", "Destination image directory inside the site")
	cmd.Flags().StringVar(&f.index, "index", "", "Host page to update")
	cmd.Flags().StringVar(&f.data, "data", "", "Path of the data.json written for inspection")
	cmd.Flags().StringVar(&f.fallbackRoot, "fallback-root", "", "Image location tried when the site copy is missing")
	cmd.Flags().BoolVar(&f.noImages, "no-images", false, "Do not copy images")
	cmd.Flags().BoolVar(&f.checkImages, "check-images", false, "Check image candidates on disk and drop unloadable images")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "Parallel note parses and image copies (default from config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "Parse every note instead of using the note cache")
	cmd.Flags().BoolVar(&f.clearCache, "clear-cache", false, "Clear the note cache before building")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
}

// siteConfig merges flags over the loaded config.
func (f *siteFlags) siteConfig(c *config.Config) (site.Config, error) {
	start, end, err := parseRange(f.start, f.end, c.Build.DefaultYear)
	if err != nil {
		return site.Config{}, err
	}

	sc := site.Config{
		VaultDaily:   firstNonEmpty(f.vaultDaily, c.Vault.Daily),
		VaultAssets:  firstNonEmpty(f.vaultAssets, c.Vault.Assets),
		SiteImages:   firstNonEmpty(f.siteImages, c.Site.Images),
		AssetURL:     c.Site.AssetURL,
		FallbackRoot: firstNonEmpty(f.fallbackRoot, c.Site.FallbackRoot),
		IndexPath:    firstNonEmpty(f.index, c.Site.Index),
		DataPath:     firstNonEmpty(f.data, c.Site.Data),
		Start:        start,
		End:          end,
		CopyImages:   c.Build.CopyImages && !f.noImages,
		CheckImages:  c.Build.CheckImages || f.checkImages,
		Concurrency:  c.Build.Concurrency,
		CacheDir:     cacheDir(c),
		ClearCache:   f.clearCache,
	}
	if f.noCache {
		sc.CacheDir = ""
	}
	if f.concurrency > 0 {
		sc.Concurrency = f.concurrency
	}
	return sc, nil
}

// parseRange parses both ends of a date range and orders them.
func parseRange(startStr, endStr string, defaultYear int) (time.Time, time.Time, error) {
	start, err := util.ParseDate(startStr, defaultYear)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("--start: %w", err)
	}
	end, err := util.ParseDate(endStr, defaultYear)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("--end: %w", err)
	}
	start, end = util.OrderRange(start, end)
	return start, end, nil
}

// Helper functions

func cacheDir(c *config.Config) string {
	if strings.TrimSpace(c.Build.CacheDir) == "" {
		return ""
	}
	return expandPath(c.Build.CacheDir)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
