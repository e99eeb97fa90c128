package dom

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// IDAttr is the attribute carrying element IDs when RenderOptions.IDs is set.
const IDAttr = "data-vbid"

// textMarkerPrefix prefixes the comment placed before text nodes when
// RenderOptions.IDs is set.
const textMarkerPrefix = "vbid:"

// RenderOptions controls serialization.
type RenderOptions struct {
	// IDs emits node IDs so a client can address nodes: elements get a
	// data-vbid attribute and text nodes are preceded by a <!--vbid:N-->
	// comment.
	IDs bool
}

// Render writes n and its subtree as HTML. A fragment root writes only its
// children.
func Render(w io.Writer, n *Node, opts RenderOptions) error {
	if n.Type == DocumentNode {
		return RenderChildren(w, n, opts)
	}
	for _, h := range toHTML(n, opts, false) {
		if err := html.Render(w, h); err != nil {
			return err
		}
	}
	return nil
}

// RenderChildren writes n's children as HTML.
func RenderChildren(w io.Writer, n *Node, opts RenderOptions) error {
	raw := isRawContext(n)
	for _, c := range n.children {
		for _, h := range toHTML(c, opts, raw) {
			if err := html.Render(w, h); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderString renders n to a string.
func RenderString(n *Node, opts RenderOptions) (string, error) {
	var b strings.Builder
	if err := Render(&b, n, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

// TextMarkerID parses the node ID out of a text marker comment.
func TextMarkerID(comment string) (uint64, bool) {
	if !strings.HasPrefix(comment, textMarkerPrefix) {
		return 0, false
	}
	id, err := strconv.ParseUint(comment[len(textMarkerPrefix):], 10, 64)
	return id, err == nil
}

// isRawContext reports whether children of n are character data where
// markers would be read back as text.
func isRawContext(n *Node) bool {
	if n.Type != ElementNode {
		return false
	}
	switch n.Tag {
	case "script", "style", "textarea", "title", "iframe", "noembed", "noframes", "noscript", "xmp", "plaintext":
		return true
	}
	return false
}

// toHTML converts n to x/net/html nodes. A text node with IDs enabled yields
// its marker comment followed by the text.
func toHTML(n *Node, opts RenderOptions, rawParent bool) []*html.Node {
	switch n.Type {
	case TextNode:
		t := &html.Node{Type: html.TextNode, Data: n.data}
		if opts.IDs && !rawParent {
			marker := &html.Node{Type: html.CommentNode, Data: textMarkerPrefix + strconv.FormatUint(n.id, 10)}
			return []*html.Node{marker, t}
		}
		return []*html.Node{t}
	case CommentNode:
		return []*html.Node{{Type: html.CommentNode, Data: n.data}}
	case DocumentNode:
		var out []*html.Node
		for _, c := range n.children {
			out = append(out, toHTML(c, opts, rawParent)...)
		}
		return out
	}

	h := &html.Node{Type: html.ElementNode, Data: n.Tag}
	for _, a := range n.attrs {
		h.Attr = append(h.Attr, html.Attribute{Key: a.Name, Val: a.Value})
	}
	if n.valueSet && n.Tag != "textarea" {
		h.Attr = setHTMLAttr(h.Attr, "value", n.value)
	}
	if opts.IDs {
		h.Attr = setHTMLAttr(h.Attr, IDAttr, strconv.FormatUint(n.id, 10))
	}

	if n.valueSet && n.Tag == "textarea" {
		h.AppendChild(&html.Node{Type: html.TextNode, Data: n.value})
		return []*html.Node{h}
	}
	raw := isRawContext(n)
	for _, c := range n.children {
		for _, hc := range toHTML(c, opts, raw) {
			h.AppendChild(hc)
		}
	}
	return []*html.Node{h}
}

func setHTMLAttr(attrs []html.Attribute, key, val string) []html.Attribute {
	for i := range attrs {
		if attrs[i].Key == key {
			attrs[i].Val = val
			return attrs
		}
	}
	return append(attrs, html.Attribute{Key: key, Val: val})
}
