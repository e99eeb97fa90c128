package reactive

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testSubscriber struct {
	id      uint64
	mu      sync.Mutex
	updates int
	onFire  func()
}

func newTestSubscriber() *testSubscriber {
	return &testSubscriber{id: NextID()}
}

func (s *testSubscriber) Update() {
	s.mu.Lock()
	s.updates++
	s.mu.Unlock()
	if s.onFire != nil {
		s.onFire()
	}
}

func (s *testSubscriber) ID() uint64 {
	return s.id
}

func (s *testSubscriber) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

func TestStoreGetSet(t *testing.T) {
	s := NewStore(map[string]any{"msg": "hi"})

	if v, ok := s.Get("msg"); !ok || v != "hi" {
		t.Errorf("Get(msg) = %v, %v; want hi, true", v, ok)
	}
	if _, ok := s.Get("missing"); ok {
		t.Error("Get(missing) should report undefined")
	}

	s.Set("msg", "bye")
	if got := s.Value("msg"); got != "bye" {
		t.Errorf("Value(msg) = %v, want bye", got)
	}

	s.Set("fresh", 1)
	if !s.Has("fresh") {
		t.Error("Set should define new keys")
	}
}

func TestStoreUntrackedGetDoesNotSubscribe(t *testing.T) {
	s := NewStore(map[string]any{"msg": "hi"})
	sub := newTestSubscriber()

	_, _ = s.Get("msg")
	s.Set("msg", "bye")

	if sub.count() != 0 {
		t.Errorf("untracked read subscribed: %d updates", sub.count())
	}
	if n := s.Subscribers("msg"); n != 0 {
		t.Errorf("Subscribers(msg) = %d, want 0", n)
	}
}

func TestStoreTrackingSubscribes(t *testing.T) {
	s := NewStore(map[string]any{"msg": "hi"})
	sub := newTestSubscriber()

	r := s.Tracking(sub)
	if got := r.Get("msg"); got != "hi" {
		t.Fatalf("tracked Get = %v, want hi", got)
	}
	// Idempotent: a second read does not double-subscribe.
	_ = r.Get("msg")

	if n := s.Subscribers("msg"); n != 1 {
		t.Fatalf("Subscribers(msg) = %d, want 1", n)
	}

	s.Set("msg", "bye")
	if sub.count() != 1 {
		t.Errorf("expected 1 update, got %d", sub.count())
	}

	// Writes notify even when the value is unchanged.
	s.Set("msg", "bye")
	if sub.count() != 2 {
		t.Errorf("expected 2 updates, got %d", sub.count())
	}
}

func TestStoreTrackingUndefinedKey(t *testing.T) {
	s := NewStore(nil)
	sub := newTestSubscriber()

	if got := s.Tracking(sub).Get("later"); got != nil {
		t.Fatalf("tracked Get(later) = %v, want nil", got)
	}
	if s.Has("later") {
		t.Error("tracked read must not define the key")
	}
	if len(s.Keys()) != 0 {
		t.Errorf("Keys() = %v, want none", s.Keys())
	}

	s.Set("later", "now")
	if sub.count() != 1 {
		t.Errorf("expected 1 update after defining key, got %d", sub.count())
	}
}

func TestStoreNotifyOrder(t *testing.T) {
	s := NewStore(map[string]any{"k": 0})
	var order []int
	subs := make([]*testSubscriber, 3)
	for i := range subs {
		i := i
		subs[i] = newTestSubscriber()
		subs[i].onFire = func() { order = append(order, i) }
		s.Tracking(subs[i]).Get("k")
	}

	s.Set("k", 1)
	if diff := cmp.Diff([]int{0, 1, 2}, order); diff != "" {
		t.Errorf("notify order mismatch (-want +got):\n%s", diff)
	}

	// Removing the middle subscriber keeps the others in order.
	order = nil
	if !s.Unsubscribe("k", subs[1]) {
		t.Fatal("Unsubscribe should report removal")
	}
	s.Set("k", 2)
	if diff := cmp.Diff([]int{0, 2}, order); diff != "" {
		t.Errorf("notify order after unsubscribe (-want +got):\n%s", diff)
	}

	if s.Unsubscribe("k", subs[1]) {
		t.Error("second Unsubscribe should report no removal")
	}
	if s.Unsubscribe("nope", subs[0]) {
		t.Error("Unsubscribe on unknown key should report no removal")
	}
}

func TestStoreReentrantSet(t *testing.T) {
	s := NewStore(map[string]any{"a": 0, "b": 0})
	sub := newTestSubscriber()
	sub.onFire = func() {
		s.Set("b", s.Value("a"))
	}
	s.Tracking(sub).Get("a")

	s.Set("a", 7)
	if got := s.Value("b"); got != 7 {
		t.Errorf("b = %v, want 7", got)
	}
}

func TestStoreKeysAndSnapshot(t *testing.T) {
	s := NewOrderedStore([]string{"z", "a"}, map[string]any{"z": 1, "a": 2})
	s.Set("m", 3)

	if diff := cmp.Diff([]string{"z", "a", "m"}, s.Keys()); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
	want := map[string]any{"z": 1, "a": 2, "m": 3}
	if diff := cmp.Diff(want, s.Snapshot()); diff != "" {
		t.Errorf("Snapshot mismatch (-want +got):\n%s", diff)
	}

	sorted := NewStore(map[string]any{"b": 1, "a": 2})
	if diff := cmp.Diff([]string{"a", "b"}, sorted.Keys()); diff != "" {
		t.Errorf("NewStore keys mismatch (-want +got):\n%s", diff)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"nil nil", nil, nil, true},
		{"nil string", nil, "", false},
		{"same string", "x", "x", true},
		{"different string", "x", "y", false},
		{"int vs float", 1, 1.0, false},
		{"same float", 1.5, 1.5, true},
		{"equal slices", []any{1, "a"}, []any{1, "a"}, true},
		{"different slices", []int{1}, []int{2}, false},
		{"equal maps", map[string]any{"a": 1}, map[string]any{"a": 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
