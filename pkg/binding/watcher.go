package binding

import (
	"sync/atomic"

	"github.com/vango-dev/vbind/pkg/reactive"
)

// Store is the reactive property layer a Watcher binds to.
// *reactive.Store implements it.
type Store interface {
	// Get reads key without tracking.
	Get(key string) (any, bool)

	// Set writes key and updates every subscriber of key in order.
	Set(key string, value any)

	// Tracking returns a reader that subscribes sub to the keys it reads.
	Tracking(sub reactive.Subscriber) reactive.Reader

	// Unsubscribe removes sub from the subscribers of key.
	Unsubscribe(key string, sub reactive.Subscriber) bool
}

// Watcher is one live binding between a store key and a render callback.
type Watcher struct {
	id       uint64
	store    Store
	key      string
	callback func(any)
	hooks    Hooks

	// oldValue is the value the callback last rendered.
	oldValue any

	disposed atomic.Bool
}

// NewWatcher creates a Watcher and discovers its dependency: key is read once
// through a tracking reader, which subscribes the Watcher, and the result
// becomes the baseline for later comparisons.
func NewWatcher(store Store, key string, callback func(any)) *Watcher {
	return newWatcher(store, key, callback, nil)
}

func newWatcher(store Store, key string, callback func(any), hooks Hooks) *Watcher {
	w := &Watcher{
		id:       reactive.NextID(),
		store:    store,
		key:      key,
		callback: callback,
		hooks:    hooks,
	}
	w.oldValue = store.Tracking(w).Get(key)
	return w
}

// Update re-reads the key and runs the callback when the value changed.
// Implements reactive.Subscriber.
func (w *Watcher) Update() {
	if w.disposed.Load() {
		return
	}
	value, _ := w.store.Get(w.key)
	if reactive.Equal(value, w.oldValue) {
		if w.hooks != nil {
			w.hooks.WatcherUpdated(w.key, false)
		}
		return
	}
	w.oldValue = value
	if w.hooks != nil {
		w.hooks.WatcherUpdated(w.key, true)
	}
	w.callback(value)
}

// ID returns the unique identifier for this watcher.
// Implements reactive.Subscriber.
func (w *Watcher) ID() uint64 {
	return w.id
}

// Key returns the tracked key.
func (w *Watcher) Key() string {
	return w.key
}

// Value returns the value last seen by the watcher.
func (w *Watcher) Value() any {
	return w.oldValue
}

// Dispose unsubscribes the watcher. Later updates are no-ops.
func (w *Watcher) Dispose() {
	if w.disposed.Swap(true) {
		return
	}
	w.store.Unsubscribe(w.key, w)
}

// Disposed reports whether Dispose has been called.
func (w *Watcher) Disposed() bool {
	return w.disposed.Load()
}
