// Package cache keeps fetched list pages per entity type and makes every
// page of a type stale at once when that type is mutated.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/staffdesk/internal/client/events"
	"github.com/dmitrijs2005/staffdesk/internal/logging"
	"golang.org/x/sync/singleflight"
)

// ErrSuperseded is reported when invalidations keep arriving faster than a
// page can be loaded.
var ErrSuperseded = errors.New("page invalidated while loading")

const maxAttempts = 3

// Key identifies one list page. Two keys are equal only if both fields are
// equal byte for byte.
type Key struct {
	Search string
	Page   int
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%q", k.Page, k.Search)
}

type Page[T any] struct {
	Key        Key
	Items      []T
	TotalPages int
}

// Result is what a read returns. When the load failed, Page holds the last
// good page for the key (if any) and Stale tells that it is out of date.
// Items are shared between readers and must not be modified.
//
// Gen is the invalidation generation the read was answered at. Of two
// results for the same key, the one with the higher Gen is newer.
type Result[T any] struct {
	Page    Page[T]
	HasPage bool
	Err     error
	Stale   bool
	Gen     uint64
}

type Fetcher[T any] func(ctx context.Context, key Key) (Page[T], error)

type entry[T any] struct {
	page    Page[T]
	hasPage bool
	gen     uint64
	err     error
}

type Cache[T any] struct {
	kind   events.Kind
	fetch  Fetcher[T]
	bus    *events.Bus
	logger logging.Logger

	group singleflight.Group

	mu    sync.Mutex
	gen   uint64
	pages map[Key]*entry[T]

	// joined is called once a reader has attached to a load.
	joined func(Key)
}

func New[T any](kind events.Kind, fetch Fetcher[T], bus *events.Bus, logger logging.Logger) *Cache[T] {
	if bus == nil {
		bus = events.NewBus()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Cache[T]{
		kind:   kind,
		fetch:  fetch,
		bus:    bus,
		logger: logger.With("kind", string(kind)),
		pages:  map[Key]*entry[T]{},
	}
}

func (c *Cache[T]) Kind() events.Kind { return c.kind }

// Subscribe delivers an event after every Invalidate of this cache's kind.
func (c *Cache[T]) Subscribe() (<-chan events.Event, func()) {
	return c.bus.Subscribe(c.kind)
}

// Get returns the page for key, loading it when it is missing, stale or
// its last load failed. Concurrent reads of the same key share one load.
// A load that finishes after an Invalidate is thrown away and retried.
func (c *Cache[T]) Get(ctx context.Context, key Key) Result[T] {
	for attempt := 1; ; attempt++ {
		c.mu.Lock()
		gen := c.gen
		if e := c.pages[key]; e != nil && e.hasPage && e.err == nil && e.gen == gen {
			res := Result[T]{Page: e.page, HasPage: true, Gen: gen}
			c.mu.Unlock()
			return res
		}
		c.mu.Unlock()

		ch := c.group.DoChan(fmt.Sprintf("%d/%s", gen, key), func() (any, error) {
			page, err := c.fetch(context.WithoutCancel(ctx), key)
			return c.store(key, gen, page, err)
		})
		if c.joined != nil {
			c.joined(key)
		}

		var res singleflight.Result
		select {
		case <-ctx.Done():
			return c.failure(key, gen, ctx.Err())
		case res = <-ch:
		}

		if errors.Is(res.Err, ErrSuperseded) {
			c.logger.Debug(ctx, "discarding page loaded before invalidation", "key", key.String(), "attempt", attempt)
			if attempt < maxAttempts {
				continue
			}
			return c.failure(key, gen, ErrSuperseded)
		}
		return res.Val.(Result[T])
	}
}

func (c *Cache[T]) store(key Key, gen uint64, page Page[T], err error) (Result[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		return Result[T]{}, ErrSuperseded
	}

	e := c.pages[key]
	if e == nil {
		e = &entry[T]{}
		c.pages[key] = e
	}

	if err != nil {
		// The previous page stays around so the view can still show it.
		e.err = err
		c.logger.Warn(context.Background(), "page load failed", "key", key.String(), "err", err)
		return Result[T]{Page: e.page, HasPage: e.hasPage, Err: err, Stale: e.hasPage, Gen: gen}, nil
	}

	page.Key = key
	*e = entry[T]{page: page, hasPage: true, gen: gen}
	return Result[T]{Page: page, HasPage: true, Gen: gen}, nil
}

func (c *Cache[T]) failure(key Key, gen uint64, err error) Result[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.pages[key]
	if e == nil || !e.hasPage {
		return Result[T]{Err: err, Gen: gen}
	}
	return Result[T]{Page: e.page, HasPage: true, Err: err, Stale: true, Gen: gen}
}

// Invalidate marks every cached page of this kind stale and notifies
// subscribers. Loads already in flight will not be applied.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.mu.Unlock()

	c.bus.Publish(events.Event{Kind: c.kind})
}
