package reactive

import "sync/atomic"

// Subscriber is anything that can be notified when a property it read
// through a tracking Reader is written.
type Subscriber interface {
	// Update is called after every write to a property the subscriber
	// depends on. The subscriber decides whether the write is a change.
	Update()

	// ID returns a unique identifier for this subscriber.
	// Used to keep subscription idempotent.
	ID() uint64
}

// globalIDCounter is the source of unique IDs for subscribers.
var globalIDCounter uint64

// NextID returns the next unique subscriber ID.
// IDs are monotonically increasing and never reused.
func NextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}
