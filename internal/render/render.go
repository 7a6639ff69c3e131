// Package render maps backend-compiled post HTML into the final page
// fragment. It is a deterministic, stateless tree transform: recognized
// nodes (code blocks, diagrams, math, headings, images) are rewritten
// into richer markup, everything else passes through untouched.
package render

import (
	"bytes"
	"html/template"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ewahlberg/pressgang/internal/errors"
	"github.com/ewahlberg/pressgang/internal/slug"
)

// Heading is one table-of-contents entry, collected during the transform.
type Heading struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// Result is a transformed post body plus its extracted table of contents.
type Result struct {
	HTML template.HTML
	TOC  []Heading
}

// Transform rewrites backend post HTML for display. The input is a body
// fragment, not a full document.
func Transform(content string) (*Result, error) {
	body := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, errors.New(err).
			Component("render").
			Category(errors.CategoryRender).
			Context("operation", "parse-fragment").
			Context("content_length", len(content)).
			Build()
	}

	// Reparent under a single root so sibling replacement works uniformly.
	for _, n := range nodes {
		body.AppendChild(n)
	}

	t := &transformer{slugger: slug.NewSlugger()}
	t.walk(body)

	var buf bytes.Buffer
	for child := body.FirstChild; child != nil; child = child.NextSibling {
		if err := html.Render(&buf, child); err != nil {
			return nil, errors.New(err).
				Component("render").
				Category(errors.CategoryRender).
				Context("operation", "render-fragment").
				Build()
		}
	}

	return &Result{HTML: template.HTML(buf.String()), TOC: t.toc}, nil
}

type transformer struct {
	slugger *slug.Slugger
	toc     []Heading
}

// walk visits the tree depth-first. Children are collected before
// visiting because transforms replace nodes in place.
func (t *transformer) walk(n *html.Node) {
	var children []*html.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		children = append(children, child)
	}
	for _, child := range children {
		t.walk(child)
	}

	if n.Type != html.ElementNode {
		return
	}

	switch n.Data {
	case "pre":
		t.transformPre(n)
	case "code":
		t.transformInlineCode(n)
	case "h1", "h2", "h3", "h4", "h5", "h6":
		t.transformHeading(n)
	case "img":
		t.transformImage(n)
	}
}

// transformPre rewrites <pre><code class="language-X"> blocks. Mermaid
// sources become diagram hosts, math blocks become display math hosts,
// everything else gets the highlight wrapper with a language label and
// copy affordance.
func (t *transformer) transformPre(pre *html.Node) {
	code := firstElementChild(pre)
	if code == nil || code.Data != "code" {
		return
	}

	lang := codeLanguage(code)
	switch lang {
	case "mermaid":
		host := elem("div", attr("class", "mermaid"))
		host.AppendChild(text(textContent(code)))
		replace(pre, host)
	case "math":
		host := elem("span", attr("class", "math math-display"))
		host.AppendChild(text(textContent(code)))
		replace(pre, host)
	default:
		wrapper := elem("div", attr("class", "code-block"), attr("data-language", lang))

		header := elem("div", attr("class", "code-block-header"))
		label := elem("span", attr("class", "code-block-lang"))
		label.AppendChild(text(lang))
		header.AppendChild(label)

		copyBtn := elem("button",
			attr("type", "button"),
			attr("class", "code-copy"),
			attr("aria-label", "Copy code to clipboard"))
		copyBtn.AppendChild(text("Copy"))
		header.AppendChild(copyBtn)

		wrapper.AppendChild(header)
		replace(pre, wrapper)
		wrapper.AppendChild(pre)
	}
}

// transformInlineCode rewrites inline math and diagram sources. Fenced
// blocks are handled via their parent <pre>, so anything inside a pre
// is skipped here.
func (t *transformer) transformInlineCode(code *html.Node) {
	if code.Parent != nil && code.Parent.Data == "pre" {
		return
	}

	switch {
	case codeLanguage(code) == "mermaid":
		host := elem("div", attr("class", "mermaid"))
		host.AppendChild(text(textContent(code)))
		replace(code, host)
	case codeLanguage(code) == "math" || hasClass(code, "math"):
		host := elem("span", attr("class", "math math-inline"))
		host.AppendChild(text(textContent(code)))
		replace(code, host)
	}
}

// transformHeading assigns a document-unique slug id and appends a
// self-link anchor, recording the heading for the table of contents.
func (t *transformer) transformHeading(h *html.Node) {
	headingText := strings.TrimSpace(textContent(h))
	id := getAttr(h, "id")
	if id == "" {
		id = t.slugger.Slug(headingText)
		h.Attr = append(h.Attr, attr("id", id))
	}

	anchor := elem("a",
		attr("class", "heading-anchor"),
		attr("href", "#"+id),
		attr("aria-hidden", "true"))
	anchor.AppendChild(text("#"))
	h.AppendChild(anchor)

	// The page already renders the post title as its h1, so body h1s
	// keep their anchors but stay out of the table of contents.
	level := int(h.Data[1] - '0')
	if level > 1 {
		t.toc = append(t.toc, Heading{Level: level, ID: id, Text: headingText})
	}
}

// transformImage marks images lazy and wraps titled images in a figure
// with the title as caption.
func (t *transformer) transformImage(img *html.Node) {
	if getAttr(img, "loading") == "" {
		img.Attr = append(img.Attr, attr("loading", "lazy"))
	}

	title := getAttr(img, "title")
	if title == "" {
		return
	}
	if img.Parent != nil && img.Parent.Data == "figure" {
		return
	}

	figure := elem("figure")
	caption := elem("figcaption")
	caption.AppendChild(text(title))
	replace(img, figure)
	figure.AppendChild(img)
	figure.AppendChild(caption)
}

// codeLanguage returns the language from a language-X class, or "text".
func codeLanguage(code *html.Node) string {
	for _, class := range strings.Fields(getAttr(code, "class")) {
		if lang, ok := strings.CutPrefix(class, "language-"); ok && lang != "" {
			return lang
		}
	}
	return "text"
}

// textContent collects the concatenated text nodes under n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			traverse(child)
		}
	}
	traverse(n)
	return b.String()
}

func firstElementChild(n *html.Node) *html.Node {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			return child
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func elem(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// replace puts newNode in oldNode's position. oldNode is detached, so
// the caller may reattach it inside newNode.
func replace(oldNode, newNode *html.Node) {
	parent := oldNode.Parent
	if parent == nil {
		return
	}
	parent.InsertBefore(newNode, oldNode)
	parent.RemoveChild(oldNode)
}
