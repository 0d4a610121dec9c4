package dom

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is a handle on a node owned by a Document. Handles are cheap; two
// handles for the same node compare equal through Is.
type Element struct {
	doc  *Document
	node *html.Node
}

// Node exposes the underlying html node.
func (e *Element) Node() *html.Node {
	return e.node
}

// Document returns the owning document.
func (e *Element) Document() *Document {
	return e.doc
}

// Is reports whether both handles point at the same node.
func (e *Element) Is(other *Element) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.node == other.node
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string {
	return e.node.Data
}

// ID returns the id attribute.
func (e *Element) ID() string {
	id, _ := e.Attr("id")
	return id
}

// Attr returns the attribute value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, attr := range e.node.Attr {
		if attr.Namespace == "" && attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// SetAttr adds or replaces an attribute.
func (e *Element) SetAttr(name, value string) {
	for i, attr := range e.node.Attr {
		if attr.Namespace == "" && attr.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr deletes an attribute when present.
func (e *Element) RemoveAttr(name string) {
	attrs := e.node.Attr[:0]
	for _, attr := range e.node.Attr {
		if attr.Namespace == "" && attr.Key == name {
			continue
		}
		attrs = append(attrs, attr)
	}
	e.node.Attr = attrs
}

// Attrs returns a copy of every attribute keyed by name.
func (e *Element) Attrs() map[string]string {
	out := make(map[string]string, len(e.node.Attr))
	for _, attr := range e.node.Attr {
		out[attr.Key] = attr.Val
	}
	return out
}

// Data reads a data-* attribute.
func (e *Element) Data(key string) (string, bool) {
	return e.Attr("data-" + key)
}

// SetData writes a data-* attribute.
func (e *Element) SetData(key, value string) {
	e.SetAttr("data-"+key, value)
}

// HasClass reports whether the class attribute lists class.
func (e *Element) HasClass(class string) bool {
	classes, _ := e.Attr("class")
	for _, c := range strings.Fields(classes) {
		if c == class {
			return true
		}
	}
	return false
}

// Prop returns a property stored on the node outside of its markup.
func (e *Element) Prop(name string) (string, bool) {
	st := e.doc.stateFor(e.node, false)
	if st == nil || st.props == nil {
		return "", false
	}
	value, ok := st.props[name]
	return value, ok
}

// SetProp stores a property on the node. Properties are not rendered.
func (e *Element) SetProp(name, value string) {
	st := e.doc.stateFor(e.node, true)
	if st.props == nil {
		st.props = make(map[string]string)
	}
	st.props[name] = value
}

// Value returns the form value of a control: the selected option of a
// <select>, the text of a <textarea> or <output>, the value attribute
// otherwise.
func (e *Element) Value() string {
	switch e.node.DataAtom {
	case atom.Textarea, atom.Output:
		return e.Text()
	case atom.Select:
		return e.selectValue()
	}
	value, _ := e.Attr("value")
	return value
}

// SetValue updates the form value of a control, see Value.
func (e *Element) SetValue(value string) {
	switch e.node.DataAtom {
	case atom.Textarea, atom.Output:
		e.SetText(value)
	case atom.Select:
		for _, option := range e.QueryAll("option") {
			if optionValue(option) == value {
				option.SetAttr("selected", "")
			} else {
				option.RemoveAttr("selected")
			}
		}
	default:
		e.SetAttr("value", value)
	}
}

func (e *Element) selectValue() string {
	options := e.QueryAll("option")
	if len(options) == 0 {
		return ""
	}
	for _, option := range options {
		if option.HasAttr("selected") {
			return optionValue(option)
		}
	}
	return optionValue(options[0])
}

func optionValue(option *Element) string {
	if value, ok := option.Attr("value"); ok {
		return value
	}
	return strings.TrimSpace(option.Text())
}

// Text returns the concatenated text of every descendant text node.
func (e *Element) Text() string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return sb.String()
}

// SetText replaces every child with a single text node.
func (e *Element) SetText(text string) {
	e.Clear()
	if text == "" {
		return
	}
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Query returns the first descendant matching selector, or nil. The element
// itself is never matched.
func (e *Element) Query(selector string) *Element {
	sel, err := e.doc.compile(selector)
	if err != nil {
		return nil
	}
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if found := sel.MatchFirst(c); found != nil {
			return e.doc.wrap(found)
		}
	}
	return nil
}

// QueryAll returns every descendant matching selector in document order.
func (e *Element) QueryAll(selector string) []*Element {
	sel, err := e.doc.compile(selector)
	if err != nil {
		return nil
	}
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		for _, found := range sel.MatchAll(c) {
			out = append(out, e.doc.wrap(found))
		}
	}
	return out
}

// Parent returns the parent element, or nil for detached roots.
func (e *Element) Parent() *Element {
	return e.doc.wrap(e.node.Parent)
}

// Children returns the element children.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// FirstElementChild returns the first element child, or nil.
func (e *Element) FirstElementChild() *Element {
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return e.doc.wrap(c)
		}
	}
	return nil
}

// Connected reports whether the element is attached to its document tree.
func (e *Element) Connected() bool {
	for n := e.node; n != nil; n = n.Parent {
		if n == e.doc.root {
			return true
		}
	}
	return false
}

// AppendChild moves child to the end of e's children.
func (e *Element) AppendChild(child *Element) {
	child.detach()
	e.node.AppendChild(child.node)
}

// ReplaceWith puts other where e is and detaches e. It is a no-op for
// detached elements.
func (e *Element) ReplaceWith(other *Element) {
	parent := e.node.Parent
	if parent == nil || other.Is(e) {
		return
	}
	other.detach()
	parent.InsertBefore(other.node, e.node)
	parent.RemoveChild(e.node)
}

// Remove detaches the element from its parent. Its properties and listeners
// survive so it can be inserted again; use Discard for elements that are
// gone for good.
func (e *Element) Remove() {
	e.detach()
}

// Discard detaches the element and drops the properties and listeners of
// its whole subtree.
func (e *Element) Discard() {
	e.detach()
	e.doc.release(e.node)
}

func (e *Element) detach() {
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

// Clear discards every child node together with its properties and
// listeners.
func (e *Element) Clear() {
	for c := e.node.FirstChild; c != nil; c = e.node.FirstChild {
		e.node.RemoveChild(c)
		e.doc.release(c)
	}
}

// InnerHTML renders the children of e.
func (e *Element) InnerHTML() string {
	var buf bytes.Buffer
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return buf.String()
		}
	}
	return buf.String()
}

// SetInnerHTML replaces the children of e with the parsed markup.
func (e *Element) SetInnerHTML(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.fragmentContext())
	if err != nil {
		return fmt.Errorf("dom: parse fragment: %w", err)
	}
	e.Clear()
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		e.node.AppendChild(n)
	}
	return nil
}

func (e *Element) fragmentContext() *html.Node {
	if e.node.Type == html.ElementNode {
		return &html.Node{Type: html.ElementNode, Data: e.node.Data, DataAtom: e.node.DataAtom}
	}
	return &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
}

// OuterHTML renders e including its own tag.
func (e *Element) OuterHTML() string {
	var buf bytes.Buffer
	if err := html.Render(&buf, e.node); err != nil {
		return ""
	}
	return buf.String()
}
