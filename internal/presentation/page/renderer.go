// Package page renders a daily-log document into the regions of a host page.
package page

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/penwyp/go-daylog/internal/core/dayview"
	"github.com/penwyp/go-daylog/internal/core/imagepath"
	"github.com/penwyp/go-daylog/internal/core/model"
	"github.com/penwyp/go-daylog/internal/presentation/templates"
	"github.com/penwyp/go-daylog/internal/util"
)

// Surface is the set of page regions the renderer writes to. The table of
// contents, the heading and the title are optional on the page side;
// implementations ignore calls for regions they lack.
type Surface interface {
	ClearRoot() error
	ClearTOC()
	AppendSection(id string, fragment []byte) error
	AppendTOCLink(href, text string)
	SetHeading(text string)
	SetTitle(text string)
	EnsureScript(id, body string)
}

// AnchorID is the section id and TOC target of a day in a multi-day page.
func AnchorID(date string) string {
	return "day-" + date
}

type Option func(*Renderer)

// WithLoader resolves image candidates at render time. Images with no
// loadable candidate are omitted.
func WithLoader(loader imagepath.Loader) Option {
	return func(r *Renderer) {
		r.loader = loader
	}
}

// WithFormatter replaces the default day formatter.
func WithFormatter(f *dayview.Formatter) Option {
	return func(r *Renderer) {
		if f != nil {
			r.formatter = f
		}
	}
}

type Renderer struct {
	formatter *dayview.Formatter
	loader    imagepath.Loader
	templates *templates.Templates
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		formatter: dayview.NewFormatter(nil),
		templates: templates.Load(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderJSON parses data and renders it. Malformed or empty data leaves the
// surface untouched and reports false.
func (r *Renderer) RenderJSON(ctx context.Context, data []byte, s Surface) (bool, error) {
	doc, err := model.ParseDocument(data)
	if err != nil {
		if errors.Is(err, model.ErrEmptyDocument) {
			util.LogInfo("No embedded data, page left as is")
		} else {
			util.LogWarn("Ignoring malformed embedded data", util.F("error", err))
		}
		return false, nil
	}
	if err := r.Render(ctx, doc, s); err != nil {
		return false, err
	}
	return true, nil
}

// Render clears the page containers and writes one section per day. A
// document with no days only clears the containers.
func (r *Renderer) Render(ctx context.Context, doc *model.Document, s Surface) error {
	if err := s.ClearRoot(); err != nil {
		return err
	}
	s.ClearTOC()

	if doc == nil || doc.Kind == model.KindNone {
		util.LogDebug("Document has no days")
		return nil
	}

	title := doc.Title()
	s.SetHeading(title)
	s.SetTitle(title)

	needsFallback := false
	for _, day := range doc.Days {
		if err := ctx.Err(); err != nil {
			return err
		}

		fragment, fallback, err := r.renderDay(ctx, day)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", day.Date, err)
		}
		needsFallback = needsFallback || fallback

		id := ""
		if doc.Kind == model.KindMulti {
			id = AnchorID(day.Date)
		}
		if err := s.AppendSection(id, fragment); err != nil {
			return err
		}
		if id != "" {
			s.AppendTOCLink("#"+id, day.Date)
		}
	}

	if needsFallback {
		s.EnsureScript(templates.FallbackScriptID, templates.FallbackScript)
	}

	util.LogDebug("Rendered document",
		util.F("kind", doc.Kind.String()),
		util.F("days", len(doc.Days)))
	return nil
}

// renderDay returns the section markup and whether any image relies on the
// in-page fallback script.
func (r *Renderer) renderDay(ctx context.Context, day model.LogDay) ([]byte, bool, error) {
	view := r.formatter.Format(day)
	photos, fallback := r.photos(ctx, view.Photos)

	var buf bytes.Buffer
	if err := r.templates.RenderDay(&buf, templates.DayData{Day: view, Photos: photos}); err != nil {
		return nil, false, err
	}
	return buf.Bytes(), fallback, nil
}

func (r *Renderer) photos(ctx context.Context, in []dayview.Photo) ([]templates.Photo, bool) {
	var out []templates.Photo
	fallback := false
	for _, p := range in {
		if len(p.Candidates) == 0 {
			continue
		}

		if r.loader != nil {
			url, ok := imagepath.Resolve(ctx, r.loader, p.Candidates)
			if !ok {
				util.LogDebug("Image omitted, no candidate loaded", util.F("image", p.Source))
				continue
			}
			out = append(out, templates.Photo{Src: template.URL(url)})
			continue
		}

		photo := templates.Photo{Src: template.URL(p.Candidates[0])}
		if len(p.Candidates) > 1 {
			photo.Fallback = p.Candidates[1:]
			fallback = true
		}
		out = append(out, photo)
	}
	return out, fallback
}
