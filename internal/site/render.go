package site

import (
	"context"
	"fmt"

	"github.com/penwyp/go-daylog/internal/presentation/dom"
	"github.com/penwyp/go-daylog/internal/presentation/page"
)

// RenderPage renders the JSON already embedded in the page at in and writes
// the result to out. Pages whose data is malformed are written unchanged and
// reported as not rendered.
func RenderPage(ctx context.Context, r *page.Renderer, in, out string) (bool, error) {
	pg, err := dom.ParseFile(in)
	if err != nil {
		return false, fmt.Errorf("failed to load %s: %w", in, err)
	}

	data, ok := pg.Data()
	if !ok {
		return false, fmt.Errorf("%s: %w", in, dom.ErrNoDataScript)
	}

	rendered, err := r.RenderJSON(ctx, data, pg)
	if err != nil {
		return false, err
	}

	html, err := pg.Bytes()
	if err != nil {
		return false, fmt.Errorf("failed to serialize page: %w", err)
	}
	if err := writeFile(out, html); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", out, err)
	}
	return rendered, nil
}
