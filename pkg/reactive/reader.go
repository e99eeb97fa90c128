package reactive

// Reader reads property values.
//
// Readers returned by Store.Tracking subscribe their Subscriber to every key
// they read; they are the explicit form of a "current subscriber" and are
// meant to be dropped once dependency discovery is done.
type Reader interface {
	Get(key string) any
}

type trackingReader struct {
	store *Store
	sub   Subscriber
}

// Get implements Reader.
func (r *trackingReader) Get(key string) any {
	return r.store.track(key, r.sub)
}
