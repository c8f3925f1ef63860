// Package events carries per-entity-type invalidation notifications from
// the cache to mounted views.
package events

import "sync"

// Kind names an entity type, e.g. "company".
type Kind string

type Event struct {
	Kind Kind
}

// Bus is a fan-out of events keyed by Kind. Delivery is coalescing: each
// subscriber holds at most one pending event, which is enough to tell it
// that its data went stale.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Kind]map[int]chan Event
}

func NewBus() *Bus {
	return &Bus{subs: map[Kind]map[int]chan Event{}}
}

// Subscribe returns a channel of events for kind and a cancel func that
// closes it. Cancel is safe to call more than once.
func (b *Bus) Subscribe(kind Kind) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	ch := make(chan Event, 1)
	if b.subs[kind] == nil {
		b.subs[kind] = map[int]chan Event{}
	}
	b.subs[kind][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[kind], id)
			close(ch)
		})
	}
}

// Publish never blocks.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[ev.Kind] {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (b *Bus) Subscribers(kind Kind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[kind])
}
