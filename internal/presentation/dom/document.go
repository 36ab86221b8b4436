// Package dom edits the regions of a host HTML page: the embedded JSON
// script, the days container, the table of contents, the header heading and
// the document title.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	DataScriptID = "data-json"
	DaysRootID   = "days-root"
	TOCID        = "toc"
)

var (
	ErrNoDataScript = errors.New("data-json script tag not found")
	ErrNoDaysRoot   = errors.New("days-root container not found")
)

// Document is a parsed host page.
type Document struct {
	root *html.Node
}

// Parse reads a host page.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseFile reads the host page at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Data returns the content of the data-json script. ok is false when the
// script is missing.
func (d *Document) Data() ([]byte, bool) {
	script := d.byID(DataScriptID)
	if script == nil {
		return nil, false
	}
	var buf bytes.Buffer
	for c := script.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			buf.WriteString(c.Data)
		}
	}
	return bytes.TrimSpace(buf.Bytes()), true
}

// SetData replaces the content of the data-json script. "</" is written as
// "<\/" so the JSON cannot close the script element.
func (d *Document) SetData(data []byte) error {
	script := d.byID(DataScriptID)
	if script == nil {
		return ErrNoDataScript
	}
	removeChildren(script)
	script.AppendChild(&html.Node{
		Type: html.TextNode,
		Data: strings.ReplaceAll(string(data), "</", `<\/`),
	})
	return nil
}

// ClearRoot empties the days container.
func (d *Document) ClearRoot() error {
	root := d.byID(DaysRootID)
	if root == nil {
		return ErrNoDaysRoot
	}
	removeChildren(root)
	return nil
}

// ClearTOC empties the table of contents. Pages without one are left alone.
func (d *Document) ClearTOC() {
	if toc := d.byID(TOCID); toc != nil {
		removeChildren(toc)
	}
}

// AppendSection parses fragment in the context of the days container and
// appends it. A non-empty id is assigned to the last appended element.
func (d *Document) AppendSection(id string, fragment []byte) error {
	root := d.byID(DaysRootID)
	if root == nil {
		return ErrNoDaysRoot
	}

	nodes, err := html.ParseFragment(bytes.NewReader(fragment), root)
	if err != nil {
		return fmt.Errorf("failed to parse section: %w", err)
	}

	var last *html.Node
	for _, n := range nodes {
		root.AppendChild(n)
		if n.Type == html.ElementNode {
			last = n
		}
	}
	if id != "" && last != nil {
		setAttr(last, "id", id)
	}
	return nil
}

// AppendTOCLink adds an anchor to the table of contents, if the page has one.
func (d *Document) AppendTOCLink(href, text string) {
	toc := d.byID(TOCID)
	if toc == nil {
		return
	}
	a := element(atom.A)
	setAttr(a, "href", href)
	a.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	toc.AppendChild(a)
}

// SetHeading sets the text of the first h1 inside .site-header.
func (d *Document) SetHeading(text string) {
	header := find(d.root, func(n *html.Node) bool { return hasClass(n, "site-header") })
	if header == nil {
		return
	}
	h1 := find(header, func(n *html.Node) bool { return n.DataAtom == atom.H1 })
	if h1 == nil {
		return
	}
	setText(h1, text)
}

// SetTitle sets the document title, creating the element when missing.
func (d *Document) SetTitle(text string) {
	title := find(d.root, func(n *html.Node) bool { return n.DataAtom == atom.Title })
	if title == nil {
		head := find(d.root, func(n *html.Node) bool { return n.DataAtom == atom.Head })
		if head == nil {
			return
		}
		title = element(atom.Title)
		head.AppendChild(title)
	}
	setText(title, text)
}

// EnsureScript appends an inline script with the given id to the body unless
// an element with that id already exists.
func (d *Document) EnsureScript(id, body string) {
	if d.byID(id) != nil {
		return
	}
	parent := find(d.root, func(n *html.Node) bool { return n.DataAtom == atom.Body })
	if parent == nil {
		parent = d.root
	}
	script := element(atom.Script)
	setAttr(script, "id", id)
	script.AppendChild(&html.Node{Type: html.TextNode, Data: body})
	parent.AppendChild(script)
}

// Render serializes the page.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// Bytes serializes the page to memory.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile serializes the page to path.
func (d *Document) WriteFile(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (d *Document) byID(id string) *html.Node {
	return find(d.root, func(n *html.Node) bool { return attr(n, "id") == id })
}

// find returns the first element below n, in document order, matching pred.
func find(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && pred(c) {
			return c
		}
		if found := find(c, pred); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

func setText(n *html.Node, text string) {
	removeChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}
