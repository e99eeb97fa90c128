package reactive

import "sync"

// property is one named value and its ordered dependents.
type property struct {
	value   any
	defined bool
	subs    []Subscriber
}

// subscribe appends l unless a subscriber with the same ID is present.
func (p *property) subscribe(l Subscriber) {
	lid := l.ID()
	for _, existing := range p.subs {
		if existing.ID() == lid {
			return
		}
	}
	p.subs = append(p.subs, l)
}

// unsubscribe removes l and keeps the remaining subscribers in order.
func (p *property) unsubscribe(l Subscriber) bool {
	lid := l.ID()
	for i, existing := range p.subs {
		if existing.ID() == lid {
			p.subs = append(p.subs[:i], p.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Store is a set of named reactive properties.
//
// The zero value is not usable; create stores with NewStore.
type Store struct {
	mu    sync.Mutex
	props map[string]*property
	keys  []string
}

// NewStore creates a store holding the given initial values.
// Keys are ordered alphabetically; use NewOrderedStore to keep an order.
func NewStore(values map[string]any) *Store {
	s := &Store{props: make(map[string]*property, len(values))}
	for _, k := range sortedKeys(values) {
		s.define(k, values[k])
	}
	return s
}

// NewOrderedStore creates a store whose properties are defined in the order
// of keys. Values missing from values are defined as nil.
func NewOrderedStore(keys []string, values map[string]any) *Store {
	s := &Store{props: make(map[string]*property, len(keys))}
	for _, k := range keys {
		s.define(k, values[k])
	}
	return s
}

// define adds a property if it does not exist. Caller holds mu or owns s.
func (s *Store) define(key string, value any) *property {
	p, ok := s.props[key]
	if !ok {
		p = &property{}
		s.props[key] = p
	}
	if !p.defined {
		p.defined = true
		p.value = value
		s.keys = append(s.keys, key)
	}
	return p
}

// Get returns the value of key without subscribing anything.
// The boolean reports whether key has been defined.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.props[key]
	if !ok || !p.defined {
		return nil, false
	}
	return p.value, true
}

// Value returns the value of key, or nil when key is undefined.
func (s *Store) Value(key string) any {
	v, _ := s.Get(key)
	return v
}

// Has reports whether key has been defined.
func (s *Store) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Set writes value to key, defining it if needed, and then calls Update on
// every subscriber of key in subscription order.
//
// Subscribers are notified on every write; deciding whether the write is a
// change is left to them.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	p := s.define(key, value)
	p.value = value
	subs := make([]Subscriber, len(p.subs))
	copy(subs, p.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Update()
	}
}

// Unsubscribe removes sub from the dependents of key.
// It reports whether sub was subscribed.
func (s *Store) Unsubscribe(key string, sub Subscriber) bool {
	if sub == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.props[key]
	if !ok {
		return false
	}
	return p.unsubscribe(sub)
}

// Subscribers returns the number of subscribers of key.
func (s *Store) Subscribers(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.props[key]; ok {
		return len(p.subs)
	}
	return 0
}

// Keys returns the defined keys in definition order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Snapshot returns a copy of the current values.
func (s *Store) Snapshot() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any, len(s.props))
	for k, p := range s.props {
		if p.defined {
			out[k] = p.value
		}
	}
	return out
}

// Tracking returns a Reader that subscribes sub to every key it reads.
func (s *Store) Tracking(sub Subscriber) Reader {
	return &trackingReader{store: s, sub: sub}
}

// track reads key and records sub as a dependent.
// Reading an undefined key keeps a placeholder so a later Set notifies sub.
func (s *Store) track(key string, sub Subscriber) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.props[key]
	if !ok {
		p = &property{}
		s.props[key] = p
	}
	if sub != nil {
		p.subscribe(sub)
	}
	return p.value
}
