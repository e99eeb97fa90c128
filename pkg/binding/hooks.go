package binding

import (
	"sync"

	"github.com/vango-dev/vbind/internal/errors"
)

// Hooks observes the engine. Implementations must be cheap; they run inline
// with compilation and notification.
type Hooks interface {
	// WatcherCreated is called once per installed watcher.
	WatcherCreated(directive string)

	// WatcherUpdated is called on every notification; fired reports whether
	// the callback ran.
	WatcherUpdated(key string, fired bool)

	// Diagnostic is called for every reported diagnostic.
	Diagnostic(code string)
}

// Diagnostics collects the soft failures found during compilation.
type Diagnostics interface {
	Report(d *errors.Error)
}

// Collector is a Diagnostics that keeps every report in order.
type Collector struct {
	mu    sync.Mutex
	items []*errors.Error
}

// Report implements Diagnostics.
func (c *Collector) Report(d *errors.Error) {
	c.mu.Lock()
	c.items = append(c.items, d)
	c.mu.Unlock()
}

// All returns the collected diagnostics.
func (c *Collector) All() []*errors.Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*errors.Error, len(c.items))
	copy(out, c.items)
	return out
}

// Codes returns the codes of the collected diagnostics in order.
func (c *Collector) Codes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.items))
	for i, d := range c.items {
		out[i] = d.Code
	}
	return out
}

// Len returns the number of diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Reset clears the collector.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}
