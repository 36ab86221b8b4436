// Package assets copies the diet images a site needs from the vault into the
// site's image folder.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/penwyp/go-daylog/internal/core/imagepath"
	"github.com/penwyp/go-daylog/internal/core/model"
	"github.com/penwyp/go-daylog/internal/util"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"
)

// errFound stops a directory walk once the file is located.
var errFound = errors.New("found")

// Report summarizes a copy run.
type Report struct {
	Copied  int
	Missing []string
}

// Copier copies images by base name. Files are looked up in the vault asset
// folder first, then anywhere below its parent (the vault root).
type Copier struct {
	vaultAssets string
	siteImages  string
	concurrency int
}

func NewCopier(vaultAssets, siteImages string, concurrency int) *Copier {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Copier{
		vaultAssets: vaultAssets,
		siteImages:  siteImages,
		concurrency: concurrency,
	}
}

// RequiredImages returns the sorted, distinct base names of every diet image
// of days.
func RequiredImages(days []model.LogDay) []string {
	seen := make(map[string]struct{})
	for _, day := range days {
		for _, d := range day.Diet {
			for _, src := range d.Images {
				if name := imagepath.BaseName(src); name != "" {
					seen[name] = struct{}{}
				}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CopyForDays copies every image the days reference.
func (c *Copier) CopyForDays(ctx context.Context, days []model.LogDay) (Report, error) {
	return c.Copy(ctx, RequiredImages(days))
}

// Copy copies names into the site folder. Names that cannot be found or
// copied are reported as missing, sorted.
func (c *Copier) Copy(ctx context.Context, names []string) (Report, error) {
	if err := os.MkdirAll(c.siteImages, 0755); err != nil {
		return Report{}, fmt.Errorf("failed to create image directory: %w", err)
	}

	var (
		mu     sync.Mutex
		report Report
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			err := c.copyOne(name)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				util.LogDebug("Image not copied", util.F("image", name), util.F("error", err))
				report.Missing = append(report.Missing, name)
				return nil
			}
			report.Copied++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	sort.Strings(report.Missing)
	util.LogInfo("Images copied",
		util.F("copied", report.Copied),
		util.F("missing", len(report.Missing)),
		util.F("dest", c.siteImages))
	return report, nil
}

func (c *Copier) copyOne(name string) error {
	src, err := c.Find(name)
	if err != nil {
		return err
	}
	return copyFile(src, filepath.Join(c.siteImages, name))
}

// Find locates name in the asset folder, falling back to a search of the
// vault root. Names compare after NFC normalization.
func (c *Copier) Find(name string) (string, error) {
	direct := filepath.Join(c.vaultAssets, name)
	if isFile(direct) {
		return direct, nil
	}

	root := filepath.Dir(filepath.Clean(c.vaultAssets))
	if found, ok := FindFile(root, name); ok {
		return found, nil
	}
	return "", fmt.Errorf("%s: %w", name, fs.ErrNotExist)
}

// FindFile walks root for a regular file named name.
func FindFile(root, name string) (string, bool) {
	want := norm.NFC.String(name)
	var found string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() && norm.NFC.String(d.Name()) == want {
			found = path
			return errFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFound) {
		return "", false
	}
	return found, found != ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// copyFile copies src to dst and keeps the source modification time.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
