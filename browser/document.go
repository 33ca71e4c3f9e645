package browser

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a read-only view of the page markup limited to what the
// resolvers need: the script elements in insertion order.
type Document struct {
	scripts []*Element
}

// Element is a single markup element with its attributes.
type Element struct {
	Tag   string
	attrs []html.Attribute
}

// Dataset is the data-* view of an element's attributes keyed by dataset name.
type Dataset map[string]string

// NewElement builds an element from name/value pairs. It is mainly useful for
// synthetic documents in tests.
func NewElement(tag string, attrs map[string]string) *Element {
	el := &Element{Tag: strings.ToLower(tag)}
	for key, value := range attrs {
		el.attrs = append(el.attrs, html.Attribute{Key: strings.ToLower(key), Val: value})
	}
	return el
}

// NewDocument builds a document whose script list is scripts, in order.
func NewDocument(scripts ...*Element) *Document {
	doc := &Document{}
	for _, script := range scripts {
		if script == nil {
			continue
		}
		doc.scripts = append(doc.scripts, script)
	}
	return doc
}

// ParseDocument parses markup and records every script element in document
// order.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("browser: parse document: %w", err)
	}
	doc := &Document{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Script {
			doc.scripts = append(doc.scripts, &Element{
				Tag:   n.Data,
				attrs: append([]html.Attribute(nil), n.Attr...),
			})
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return doc, nil
}

// Scripts returns the script elements in insertion order.
func (d *Document) Scripts() []*Element {
	if d == nil || len(d.scripts) == 0 {
		return nil
	}
	out := make([]*Element, len(d.scripts))
	copy(out, d.scripts)
	return out
}

// Attr returns the raw attribute value for name.
func (e *Element) Attr(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	name = strings.ToLower(name)
	for _, attr := range e.attrs {
		if attr.Namespace == "" && attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

// Dataset returns the element's data-* attributes keyed the way the DOM
// dataset API names them: the "data-" prefix is dropped and every hyphen
// followed by an ASCII lowercase letter becomes that letter upper-cased.
func (e *Element) Dataset() Dataset {
	out := Dataset{}
	if e == nil {
		return out
	}
	for _, attr := range e.attrs {
		if attr.Namespace != "" || !strings.HasPrefix(attr.Key, "data-") {
			continue
		}
		name := datasetName(strings.TrimPrefix(attr.Key, "data-"))
		if _, exists := out[name]; exists {
			continue
		}
		out[name] = attr.Val
	}
	return out
}

// Get returns the dataset value for key and whether it is present.
func (d Dataset) Get(key string) (string, bool) {
	value, ok := d[key]
	return value, ok
}

func datasetName(attr string) string {
	var b strings.Builder
	b.Grow(len(attr))
	for i := 0; i < len(attr); i++ {
		c := attr[i]
		if c == '-' && i+1 < len(attr) && attr[i+1] >= 'a' && attr[i+1] <= 'z' {
			b.WriteByte(attr[i+1] - 'a' + 'A')
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
