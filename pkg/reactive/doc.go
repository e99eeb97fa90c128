// Package reactive provides the reactive property layer consumed by the
// binding engine.
//
// A Store holds a flat set of named properties. Reads made through a tracking
// Reader record the reader's Subscriber as a dependent of the property; a
// subsequent Set on that property calls Update on every dependent, in the
// order the dependents subscribed, before Set returns.
//
// # Dependency Tracking
//
// There is no process-wide "current subscriber". A subscriber discovers its
// dependencies by reading through the Reader returned from Store.Tracking:
//
//	r := store.Tracking(w)
//	old := r.Get("msg") // w now depends on "msg"
//
// Plain Get calls never subscribe anything.
//
// # Notification
//
// Set applies the write, then notifies synchronously. No lock is held while
// subscribers run, so a subscriber may itself write to the store.
package reactive
