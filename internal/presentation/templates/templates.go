// Package templates holds the HTML used to render day sections and the
// default host page.
package templates

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-daylog/internal/core/dayview"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed day.html shell.html
var files embed.FS

const (
	// FallbackScriptID marks the image fallback script in a page.
	FallbackScriptID = "daylog-image-fallback"

	// FallbackScript advances an image to its next candidate on each load
	// error and removes the image once none are left.
	FallbackScript = `function dayImageFallback(img) {
  var rest = [];
  try { rest = JSON.parse(img.getAttribute('data-fallback') || '[]'); } catch (_) {}
  if (!rest.length) { img.remove(); return; }
  img.setAttribute('data-fallback', JSON.stringify(rest.slice(1)));
  img.src = rest[0];
}`
)

// Photo is an image ready for output. Fallback lists the candidates the
// browser should try after Src.
type Photo struct {
	Src      template.URL
	Fallback []string
}

// DayData is the input of the "day" template.
type DayData struct {
	Day    dayview.DayView
	Photos []Photo
}

// Templates renders day sections.
type Templates struct {
	set *template.Template
}

var notesMarkdown = goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify))

// Load parses the embedded templates.
func Load() *Templates {
	funcMap := template.FuncMap{
		"markdown": renderInlineMarkdown,
		"json": func(v any) string {
			b, err := sonic.Marshal(v)
			if err != nil {
				return "[]"
			}
			return string(b)
		},
	}

	set := template.Must(template.New("day.html").Funcs(funcMap).ParseFS(files, "day.html"))
	return &Templates{set: set}
}

// RenderDay writes the section markup of one day.
func (t *Templates) RenderDay(w io.Writer, data DayData) error {
	return t.set.ExecuteTemplate(w, "day", data)
}

// Shell returns the default host page.
func Shell() []byte {
	data, err := files.ReadFile("shell.html")
	if err != nil {
		panic("embedded shell.html missing: " + err.Error())
	}
	return data
}

// renderInlineMarkdown renders a note line and strips the paragraph wrapper
// goldmark adds, so the result fits inside a list item. goldmark drops raw
// HTML from notes since unsafe rendering is not enabled.
func renderInlineMarkdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := notesMarkdown.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	out := bytes.TrimSpace(buf.Bytes())
	if inner, ok := bytes.CutPrefix(out, []byte("<p>")); ok {
		if inner, ok = bytes.CutSuffix(inner, []byte("</p>")); ok && !bytes.Contains(inner, []byte("<p>")) {
			out = inner
		}
	}
	return template.HTML(out)
}
