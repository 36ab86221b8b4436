package imagepath

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/penwyp/go-daylog/internal/util"
)

// ErrNotLoadable is returned by loaders for candidates that cannot be shown.
var ErrNotLoadable = errors.New("image not loadable")

// Loader attempts one candidate URL and reports whether it loaded.
type Loader interface {
	Load(ctx context.Context, url string) error
}

// Resolve tries candidates strictly in order and returns the first that
// loads. false means every candidate failed and the image is omitted.
func Resolve(ctx context.Context, loader Loader, candidates []string) (string, bool) {
	cursor := NewCursor(candidates)
	for url, ok := cursor.Current(); ok; url, ok = cursor.Fail() {
		if ctx.Err() != nil {
			return "", false
		}
		err := loader.Load(ctx, url)
		if err == nil {
			return url, true
		}
		util.LogDebug("Image candidate failed", util.F("url", url), util.F("error", err))
	}
	return "", false
}

var windowsDrive = regexp.MustCompile(`^/[A-Za-z]:/`)

// FileLoader checks candidates against the local file system. Relative URLs
// are resolved against SiteRoot, the directory of the rendered page.
type FileLoader struct {
	SiteRoot string
}

func (l FileLoader) Load(_ context.Context, url string) error {
	path, err := l.localPath(url)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotLoadable, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrNotLoadable, path)
	}
	return nil
}

func (l FileLoader) localPath(url string) (string, error) {
	if rest, ok := strings.CutPrefix(url, "file://"); ok {
		if windowsDrive.MatchString(rest) {
			rest = rest[1:]
		}
		return filepath.FromSlash(rest), nil
	}
	if strings.Contains(url, "://") {
		return "", fmt.Errorf("%w: unsupported scheme in %s", ErrNotLoadable, url)
	}
	return filepath.Join(l.SiteRoot, filepath.FromSlash(url)), nil
}
