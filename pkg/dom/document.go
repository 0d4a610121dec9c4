package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const emptyDocument = "<!DOCTYPE html><html><head></head><body></body></html>"

// Document owns a node tree together with the properties and listeners
// attached to its nodes. Fragments created through a Document may be moved
// into its tree without losing their state.
type Document struct {
	root      *html.Node
	state     map[*html.Node]*nodeState
	selectors map[string]cascadia.Selector
}

type nodeState struct {
	props     map[string]string
	listeners map[string][]Listener
}

// New returns an empty HTML document.
func New() *Document {
	doc, err := ParseString(emptyDocument)
	if err != nil {
		// The literal above always parses.
		panic(err)
	}
	return doc
}

// Parse reads a complete HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse document: %w", err)
	}
	return newDocument(root), nil
}

// ParseString is Parse for in-memory markup.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

func newDocument(root *html.Node) *Document {
	return &Document{
		root:      root,
		state:     make(map[*html.Node]*nodeState),
		selectors: make(map[string]cascadia.Selector),
	}
}

// Root returns the document node wrapped as an Element.
func (d *Document) Root() *Element {
	return d.wrap(d.root)
}

// Body returns the body element, or nil for documents without one.
func (d *Document) Body() *Element {
	return d.Query("body")
}

// Query returns the first element in document order matching selector. It
// returns nil when nothing matches or the selector does not compile.
func (d *Document) Query(selector string) *Element {
	return d.Root().Query(selector)
}

// QueryAll returns every element matching selector in document order.
func (d *Document) QueryAll(selector string) []*Element {
	return d.Root().QueryAll(selector)
}

// CreateElement returns a detached element with the given tag name.
func (d *Document) CreateElement(tag string) *Element {
	tag = strings.ToLower(strings.TrimSpace(tag))
	return d.wrap(&html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	})
}

// Fragment parses markup into a detached <div> holding the resulting nodes,
// the equivalent of assigning innerHTML on a scratch element.
func (d *Document) Fragment(markup string) (*Element, error) {
	holder := d.CreateElement("div")
	if err := holder.SetInnerHTML(markup); err != nil {
		return nil, err
	}
	return holder, nil
}

// Render writes the whole document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// HTML returns the rendered document.
func (d *Document) HTML() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Valid reports whether selector compiles.
func (d *Document) Valid(selector string) error {
	_, err := d.compile(selector)
	return err
}

func (d *Document) compile(selector string) (cascadia.Selector, error) {
	if sel, ok := d.selectors[selector]; ok {
		return sel, nil
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("dom: invalid selector %q: %w", selector, err)
	}
	d.selectors[selector] = sel
	return sel, nil
}

func (d *Document) wrap(node *html.Node) *Element {
	if node == nil {
		return nil
	}
	return &Element{doc: d, node: node}
}

func (d *Document) stateFor(node *html.Node, create bool) *nodeState {
	st, ok := d.state[node]
	if !ok && create {
		st = &nodeState{}
		d.state[node] = st
	}
	return st
}

// release forgets the properties and listeners of node and its descendants.
func (d *Document) release(node *html.Node) {
	if len(d.state) == 0 {
		return
	}
	delete(d.state, node)
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		d.release(c)
	}
}
