// Package imagepath turns raw image references from daily notes into the
// ordered list of URLs a page should try.
package imagepath

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultAssetDir is the site-relative folder images are copied into.
	DefaultAssetDir = "images/1000_assets"
	// DefaultFallbackRoot is the vault asset folder tried when the site copy
	// is missing.
	DefaultFallbackRoot = "L:/我的雲端硬碟/GD_ObsidianVault/1000_assets"
)

// Resolver builds candidate URLs from a site asset directory and a fallback
// root outside the site.
type Resolver struct {
	assetDir     string
	fallbackRoot string
}

// NewResolver returns a resolver; empty arguments select the defaults. A
// fallback root without a URL scheme is treated as a local path and turned
// into a file:/// URL.
func NewResolver(assetDir, fallbackRoot string) *Resolver {
	if strings.TrimSpace(assetDir) == "" {
		assetDir = DefaultAssetDir
	}
	if strings.TrimSpace(fallbackRoot) == "" {
		fallbackRoot = DefaultFallbackRoot
	}
	return &Resolver{
		assetDir:     strings.TrimRight(filepath.ToSlash(assetDir), "/"),
		fallbackRoot: strings.TrimRight(FileURL(fallbackRoot), "/"),
	}
}

var defaultResolver = NewResolver("", "")

// ResolveCandidates returns the candidates for raw using the default
// locations.
func ResolveCandidates(raw string) []string {
	return defaultResolver.Candidates(raw)
}

// Candidates always returns two URLs in priority order: the site copy, then
// the fallback location, both keyed by the final path segment of raw.
func (r *Resolver) Candidates(raw string) []string {
	base := BaseName(raw)
	return []string{
		r.assetDir + "/" + base,
		r.fallbackRoot + "/" + base,
	}
}

// BaseName returns the final path segment of raw, NFC-normalized so names
// synced from decomposed-Unicode file systems compare equal.
func BaseName(raw string) string {
	s := strings.ReplaceAll(strings.TrimSpace(raw), `\`, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	return norm.NFC.String(s)
}

// Dedupe keeps the first reference for each base name in encounter order and
// drops references without a base name.
func Dedupe(raws []string) []string {
	seen := make(map[string]struct{}, len(raws))
	kept := make([]string, 0, len(raws))
	for _, raw := range raws {
		base := BaseName(raw)
		if base == "" {
			continue
		}
		if _, dup := seen[base]; dup {
			continue
		}
		seen[base] = struct{}{}
		kept = append(kept, raw)
	}
	return kept
}

// FileURL converts a local path to a file:/// URL; values that already carry
// a scheme are returned unchanged.
func FileURL(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	return "file:///" + strings.TrimLeft(filepath.ToSlash(path), "/")
}
