package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse parses a complete HTML document and returns its <body> element.
func Parse(r io.Reader) (*Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	body := findElement(doc, atom.Body)
	if body == nil {
		return nil, fmt.Errorf("dom: parse: document has no body")
	}
	return convert(body), nil
}

// ParseFragment parses markup as body content and returns a fragment root
// holding the parsed nodes.
func ParseFragment(r io.Reader) (*Node, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	children, err := parseFragmentNodes(string(b), "body")
	if err != nil {
		return nil, err
	}
	return NewFragment(children...), nil
}

// ParseString parses s as a document when it looks like one, and as a
// fragment otherwise.
func ParseString(s string) (*Node, error) {
	if looksLikeDocument(s) {
		return Parse(strings.NewReader(s))
	}
	return ParseFragment(strings.NewReader(s))
}

func looksLikeDocument(s string) bool {
	head := strings.ToLower(strings.TrimSpace(s))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype") ||
		strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<body")
}

// parseFragmentNodes parses markup in the context of an element with the
// given tag.
func parseFragmentNodes(markup, contextTag string) ([]*Node, error) {
	if contextTag == "" {
		contextTag = "body"
	}
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     contextTag,
		DataAtom: atom.Lookup([]byte(contextTag)),
	}
	parsed, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	out := make([]*Node, 0, len(parsed))
	for _, h := range parsed {
		if n := convert(h); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// convert turns an x/net/html node into a Node. Doctypes are dropped.
func convert(h *html.Node) *Node {
	var n *Node
	switch h.Type {
	case html.TextNode:
		return NewText(h.Data)
	case html.CommentNode:
		return NewComment(h.Data)
	case html.ElementNode:
		attrs := make([]Attr, 0, len(h.Attr))
		for _, a := range h.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			attrs = append(attrs, Attr{Name: name, Value: a.Val})
		}
		n = NewElement(h.Data, attrs)
	case html.DocumentNode:
		n = NewFragment()
	default:
		return nil
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if child := convert(c); child != nil {
			n.AppendChild(child)
		}
	}
	return n
}
