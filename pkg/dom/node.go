package dom

import (
	"strings"
	"sync/atomic"
)

// NodeType is the node type discriminator.
type NodeType uint8

const (
	ElementNode  NodeType = 1 // <div>, <input>, etc.
	TextNode     NodeType = 3 // Character data
	CommentNode  NodeType = 8 // <!-- ... -->
	DocumentNode NodeType = 9 // Synthetic fragment root
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	case DocumentNode:
		return "Document"
	default:
		return "Unknown"
	}
}

// Attr is a single name/value attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is a mutable markup tree node.
//
// Element nodes carry a tag, ordered attributes, a form value and event
// wiring. Text and comment nodes carry Data. Every node has ordered children
// and a parent link; the tree is mutated in place.
type Node struct {
	Type NodeType
	Tag  string // Element tag name (e.g. "div")

	data     string
	attrs    []Attr
	children []*Node
	parent   *Node
	id       uint64

	value    string
	valueSet bool

	handlers  map[string]Handler
	listeners map[string][]*listener
	observers []*observer
}

var nodeIDCounter uint64

func nextNodeID() uint64 {
	return atomic.AddUint64(&nodeIDCounter, 1)
}

// NewElement creates an element node with the given attributes and children.
func NewElement(tag string, attrs []Attr, children ...*Node) *Node {
	n := &Node{Type: ElementNode, Tag: strings.ToLower(tag), id: nextNodeID()}
	n.attrs = append(n.attrs, attrs...)
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{Type: TextNode, data: text, id: nextNodeID()}
}

// NewComment creates a comment node.
func NewComment(text string) *Node {
	return &Node{Type: CommentNode, data: text, id: nextNodeID()}
}

// NewFragment creates a synthetic root that holds a sequence of nodes.
func NewFragment(children ...*Node) *Node {
	n := &Node{Type: DocumentNode, id: nextNodeID()}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

// ID returns the process-unique identifier of the node.
func (n *Node) ID() uint64 { return n.id }

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n != nil && n.Type == TextNode }

// IsElement reports whether n is an element node.
func (n *Node) IsElement() bool { return n != nil && n.Type == ElementNode }

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// ChildNodes returns a snapshot of the children in document order.
func (n *Node) ChildNodes() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// HasChildNodes reports whether n has at least one child.
func (n *Node) HasChildNodes() bool { return len(n.children) > 0 }

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// AppendChild appends c to n's children, detaching it from its old parent.
func (n *Node) AppendChild(c *Node) {
	if c == nil {
		return
	}
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	c.parent = n
	n.children = append(n.children, c)
}

// RemoveChild detaches c from n. It reports whether c was a child of n.
func (n *Node) RemoveChild(c *Node) bool {
	for i, existing := range n.children {
		if existing == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Walk calls fn for n and every descendant in document order.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.ChildNodes() {
		c.Walk(fn)
	}
}

// FindByID returns the node in n's subtree with the given ID.
func (n *Node) FindByID(id uint64) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.id == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// Data returns the character data of a text or comment node.
func (n *Node) Data() string { return n.data }

// TextContent returns the text of a text node, or the concatenated text of
// all descendant text nodes of an element.
func (n *Node) TextContent() string {
	switch n.Type {
	case TextNode, CommentNode:
		return n.data
	}
	var b strings.Builder
	n.Walk(func(c *Node) bool {
		if c.Type == TextNode {
			b.WriteString(c.data)
		}
		return true
	})
	return b.String()
}

// SetTextContent replaces the text of a text node, or replaces all children
// of an element with a single text node.
func (n *Node) SetTextContent(text string) {
	switch n.Type {
	case TextNode, CommentNode:
		n.data = text
	default:
		n.replaceChildren(NewText(text))
	}
	n.notify(Mutation{Kind: MutationText, Target: n, Value: text})
}

// InnerHTML serializes n's children.
func (n *Node) InnerHTML() string {
	var b strings.Builder
	_ = RenderChildren(&b, n, RenderOptions{})
	return b.String()
}

// SetInnerHTML parses markup as a fragment in the context of n and replaces
// n's children with the result. Markup that cannot be parsed is inserted as
// text.
func (n *Node) SetInnerHTML(markup string) {
	children, err := parseFragmentNodes(markup, n.Tag)
	if err != nil {
		children = []*Node{NewText(markup)}
	}
	n.replaceChildren(children...)
	n.notify(Mutation{Kind: MutationHTML, Target: n, Value: markup})
}

func (n *Node) replaceChildren(children ...*Node) {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = n.children[:0]
	for _, c := range children {
		n.AppendChild(c)
	}
}

// Attributes returns a snapshot of the attributes in order.
func (n *Node) Attributes() []Attr {
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets an attribute, keeping its position if it already exists.
func (n *Node) SetAttr(name, value string) {
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs[i].Value = value
			n.notify(Mutation{Kind: MutationAttr, Target: n, Name: name, Value: value})
			return
		}
	}
	n.attrs = append(n.attrs, Attr{Name: name, Value: value})
	n.notify(Mutation{Kind: MutationAttr, Target: n, Name: name, Value: value})
}

// RemoveAttr removes an attribute. It reports whether it was present.
func (n *Node) RemoveAttr(name string) bool {
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return true
		}
	}
	return false
}

// Value returns the form value of the element. Until SetValue is called it
// falls back to the value attribute.
func (n *Node) Value() string {
	if n.valueSet {
		return n.value
	}
	v, _ := n.Attr("value")
	return v
}

// SetValue sets the form value property. Like the DOM property, it does not
// touch the value attribute.
func (n *Node) SetValue(v string) {
	n.value = v
	n.valueSet = true
	n.notify(Mutation{Kind: MutationValue, Target: n, Value: v})
}
