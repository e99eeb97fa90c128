package binding

import "github.com/vango-dev/vbind/pkg/dom"

// bound is one installed binding. Exactly one of watcher, remove or
// eventType is set.
type bound struct {
	node      *dom.Node
	directive string
	key       string

	watcher   *Watcher
	remove    func()
	eventType string
}

func (b *bound) dispose() {
	switch {
	case b.watcher != nil:
		b.watcher.Dispose()
	case b.remove != nil:
		b.remove()
	case b.eventType != "":
		b.node.RemoveEventHandler(b.eventType)
	}
}

// View owns the bindings installed by one Compile call.
type View struct {
	root  *dom.Node
	bound []*bound
}

func (v *View) add(b *bound) {
	v.bound = append(v.bound, b)
}

// Root returns the compiled root.
func (v *View) Root() *dom.Node {
	return v.root
}

// Watchers returns the live watchers in creation order.
func (v *View) Watchers() []*Watcher {
	var out []*Watcher
	for _, b := range v.bound {
		if b.watcher != nil {
			out = append(out, b.watcher)
		}
	}
	return out
}

// WatchersFor returns the live watchers whose target is node.
func (v *View) WatchersFor(node *dom.Node) []*Watcher {
	var out []*Watcher
	for _, b := range v.bound {
		if b.watcher != nil && b.node == node {
			out = append(out, b.watcher)
		}
	}
	return out
}

// Len returns the number of live watchers.
func (v *View) Len() int {
	n := 0
	for _, b := range v.bound {
		if b.watcher != nil {
			n++
		}
	}
	return n
}

// Dispose removes every binding: watchers are unsubscribed, v-model
// listeners removed and v-on handler slots cleared.
func (v *View) Dispose() {
	for _, b := range v.bound {
		b.dispose()
	}
	v.bound = nil
}

// DisposeSubtree removes the bindings whose target is node or one of its
// descendants and returns how many watchers were disposed. Call it before
// tearing down part of a compiled tree.
func (v *View) DisposeSubtree(node *dom.Node) int {
	disposed := 0
	kept := v.bound[:0]
	for _, b := range v.bound {
		if !node.Contains(b.node) {
			kept = append(kept, b)
			continue
		}
		if b.watcher != nil {
			disposed++
		}
		b.dispose()
	}
	for i := len(kept); i < len(v.bound); i++ {
		v.bound[i] = nil
	}
	v.bound = kept
	return disposed
}
