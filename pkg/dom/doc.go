// Package dom provides the mutable markup tree the binding engine works on.
//
// Unlike a virtual DOM, nodes here are mutated in place: setting text content,
// inner HTML, a form value or an attribute changes the node directly, and the
// change is reported to any observers registered on the node or one of its
// ancestors.
//
// # Node Types
//
// Node is polymorphic over ElementNode, TextNode and the opaque kinds
// (CommentNode, DocumentNode). DocumentNode is used as a synthetic root for
// fragments.
//
// # Events
//
// Each element has one handler slot per event type (the equivalent of an
// onclick property) plus any number of listeners:
//
//	btn.SetEventHandler("click", save)
//	remove := input.AddEventListener("input", sync)
//	input.Input("new value") // sets Value, dispatches "input"
//
// # Parsing and Rendering
//
// Parse and ParseFragment build trees with golang.org/x/net/html. Render
// serializes back to HTML and can emit node IDs for a live client.
package dom
