package binding

import (
	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/dom"
)

// updaterFunc renders a directive once and installs its watcher.
type updaterFunc func(cc *compilation, node *dom.Node, key string)

// updaters is the closed set of value directives. Directive names not listed
// here are ignored.
var updaters = map[string]updaterFunc{
	"text":  textUpdater,
	"html":  htmlUpdater,
	"model": modelUpdater,
}

// textUpdater handles v-text: the element's text content follows key.
func textUpdater(cc *compilation, node *dom.Node, key string) {
	node.SetTextContent(cc.format(cc.lookup(node, "text", key)))
	cc.watch(node, "text", key, func(v any) {
		node.SetTextContent(cc.format(v))
	})
}

// htmlUpdater handles v-html: the element's children are parsed from key.
func htmlUpdater(cc *compilation, node *dom.Node, key string) {
	node.SetInnerHTML(cc.format(cc.lookup(node, "html", key)))
	cc.watch(node, "html", key, func(v any) {
		node.SetInnerHTML(cc.format(v))
	})
}

// modelUpdater handles v-model: the element's value follows key, and input
// events write the value back to key.
func modelUpdater(cc *compilation, node *dom.Node, key string) {
	node.SetValue(cc.format(cc.lookup(node, "model", key)))
	cc.watch(node, "model", key, func(v any) {
		node.SetValue(cc.format(v))
	})

	store := cc.store
	remove := node.AddEventListener("input", func(dom.Event) {
		store.Set(key, node.Value())
	})
	cc.view.add(&bound{node: node, directive: "model", key: key, remove: remove})
}

// bindEvent handles v-on:<event>: the method named key becomes the element's
// handler for eventType. No watcher is installed.
func (cc *compilation) bindEvent(node *dom.Node, eventType, key string) {
	if eventType == "" {
		cc.report(node, errors.New("W004").WithDetailf("%son: has no event type", cc.prefix))
		return
	}
	h, ok := cc.methods[key]
	if !ok {
		cc.report(node, errors.New("W003").WithDetailf("%son:%s refers to %q", cc.prefix, eventType, key))
	}
	node.SetEventHandler(eventType, h)
	cc.view.add(&bound{node: node, directive: "on", key: key, eventType: eventType})
}
