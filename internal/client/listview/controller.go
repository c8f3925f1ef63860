// Package listview drives one paginated, searchable entity table together
// with its create/edit form and delete confirmation.
package listview

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/staffdesk/internal/client/cache"
	"github.com/dmitrijs2005/staffdesk/internal/client/client"
	"github.com/dmitrijs2005/staffdesk/internal/client/entity"
	"github.com/dmitrijs2005/staffdesk/internal/client/events"
	"github.com/dmitrijs2005/staffdesk/internal/client/forms"
	"github.com/dmitrijs2005/staffdesk/internal/client/models"
	"github.com/dmitrijs2005/staffdesk/internal/logging"
)

// Confirmer asks the user a yes/no question and waits for the answer.
type Confirmer interface {
	Confirm(ctx context.Context, p entity.Prompt) (bool, error)
}

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Mutator performs the writes of one entity type.
type Mutator[T any] interface {
	Submit(ctx context.Context, sub forms.Submission) (*T, error)
	Delete(ctx context.Context, id models.ID) error
}

// View is a snapshot of what the table shows.
type View[T any] struct {
	Key        cache.Key
	Rows       []T
	TotalPages int
	Loaded     bool
	Err        error
	Stale      bool
	Form       forms.State
}

type Controller[T any] struct {
	desc    entity.Descriptor[T]
	cache   *cache.Cache[T]
	svc     Mutator[T]
	form    *forms.Machine
	confirm Confirmer
	notify  Notifier
	logger  logging.Logger

	mu        sync.Mutex
	key       cache.Key
	result    cache.Result[T]
	resultKey cache.Key
	loaded    bool
	epoch     uint64 // bumped on Unmount; loads from an older epoch are dropped
	mounted   bool
	unsub     func()
	stop      context.CancelFunc
	watcher   sync.WaitGroup
}

func New[T any](
	desc entity.Descriptor[T],
	c *cache.Cache[T],
	svc Mutator[T],
	previews forms.Previewer,
	confirm Confirmer,
	notify Notifier,
	logger logging.Logger,
) *Controller[T] {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Controller[T]{
		desc:    desc,
		cache:   c,
		svc:     svc,
		form:    forms.NewMachine(desc.Schema, previews),
		confirm: confirm,
		notify:  notify,
		logger:  logger.With("view", desc.Title),
		key:     cache.Key{Page: 1},
	}
}

func (c *Controller[T]) Descriptor() entity.Descriptor[T] { return c.desc }

func (c *Controller[T]) Form() *forms.Machine { return c.form }

func (c *Controller[T]) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

// Mount starts listening for invalidations of the entity type and loads
// the current page. The watcher stops when ctx is done or on Unmount.
func (c *Controller[T]) Mount(ctx context.Context) error {
	c.mu.Lock()
	if c.mounted {
		c.mu.Unlock()
		return nil
	}
	c.mounted = true
	ch, unsub := c.cache.Subscribe()
	wctx, stop := context.WithCancel(ctx)
	c.unsub = unsub
	c.stop = stop
	c.mu.Unlock()

	c.watcher.Add(1)
	go c.watch(wctx, ch)

	return c.Refresh(ctx)
}

func (c *Controller[T]) watch(ctx context.Context, ch <-chan events.Event) {
	defer c.watcher.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			c.logger.Debug(ctx, "reloading after invalidation")
			_ = c.Refresh(ctx)
		}
	}
}

// Unmount stops the watcher, drops any load still in flight and closes an
// open form.
func (c *Controller[T]) Unmount() {
	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return
	}
	c.mounted = false
	c.epoch++
	unsub, stop := c.unsub, c.stop
	c.unsub, c.stop = nil, nil
	c.mu.Unlock()

	stop()
	unsub()
	c.watcher.Wait()
	c.form.Close()
}

// Refresh reloads whatever key is current when the load starts.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	return c.load(ctx, func(cur cache.Key) cache.Key { return cur })
}

// ChangeSearch jumps to page 1 of the new search.
func (c *Controller[T]) ChangeSearch(ctx context.Context, text string) error {
	return c.load(ctx, func(cache.Key) cache.Key { return cache.Key{Search: text, Page: 1} })
}

// ChangePage keeps the search term. Pages outside the last fetched range
// are refused without touching state.
func (c *Controller[T]) ChangePage(ctx context.Context, n int) error {
	c.mu.Lock()
	total := 1
	if c.result.HasPage && c.result.Page.TotalPages > 0 {
		total = c.result.Page.TotalPages
	}
	c.mu.Unlock()

	if n < 1 || n > total {
		return ErrPageOutOfRange
	}
	return c.load(ctx, func(cur cache.Key) cache.Key { return cache.Key{Search: cur.Search, Page: n} })
}

// load makes pick(current key) the current key and fetches it. A result is
// dropped when its key is no longer current, or when a page from a newer
// cache generation was already applied for that key. A command refresh and
// a watcher refresh of the same key may finish in either order.
func (c *Controller[T]) load(ctx context.Context, pick func(cache.Key) cache.Key) error {
	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return ErrNotMounted
	}
	key := pick(c.key)
	c.key = key
	epoch := c.epoch
	c.mu.Unlock()

	res := c.cache.Get(ctx, key)

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case !c.mounted || epoch != c.epoch || key != c.key:
		c.logger.Debug(ctx, "dropping superseded load", "key", key.String())
		return res.Err
	case c.loaded && c.resultKey == key && res.Gen < c.result.Gen:
		c.logger.Debug(ctx, "dropping load older than the applied page", "key", key.String(), "gen", res.Gen)
		return res.Err
	}
	c.result = res
	c.resultKey = key
	c.loaded = true
	if res.Err != nil {
		c.logger.Warn(ctx, "list load failed", "key", key.String(), "err", res.Err)
	}
	return res.Err
}

func (c *Controller[T]) View() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View[T]{
		Key:    c.key,
		Loaded: c.loaded,
		Err:    c.result.Err,
		Stale:  c.result.Stale,
		Form:   c.form.State(),
	}
	if c.result.HasPage {
		v.Rows = append([]T(nil), c.result.Page.Items...)
		v.TotalPages = c.result.Page.TotalPages
	}
	return v
}

// Rows are in exactly the order the backend returned them.
func (c *Controller[T]) Rows() []T { return c.View().Rows }

// Find looks id up among the rows on screen.
func (c *Controller[T]) Find(id models.ID) (T, error) {
	for _, row := range c.Rows() {
		if c.desc.ID(row) == id {
			return row, nil
		}
	}
	var zero T
	return zero, ErrRowNotFound
}

func (c *Controller[T]) OpenCreate() error {
	return c.form.OpenCreate()
}

func (c *Controller[T]) OpenEdit(row T) error {
	return c.form.OpenEdit(c.desc.ID(row), c.desc.Values(row), c.desc.LogoOf(row))
}

func (c *Controller[T]) OpenEditByID(id models.ID) error {
	row, err := c.Find(id)
	if err != nil {
		return err
	}
	return c.OpenEdit(row)
}

func (c *Controller[T]) Cancel() {
	c.form.Close()
}

// Submit sends the open form. Local validation failures return a
// *forms.ValidationError with nothing sent. A 400 returns the form to
// editing with the server's message; any other failure closes it.
func (c *Controller[T]) Submit(ctx context.Context) error {
	sub, err := c.form.Begin()
	if err != nil {
		return err
	}

	failed := c.desc.AddFailedMessage()
	done := c.desc.AddedMessage()
	if sub.Mode == forms.Editing {
		failed = c.desc.UpdateFailedMessage()
		done = c.desc.UpdatedMessage()
	}

	if _, err := c.svc.Submit(ctx, sub); err != nil {
		var rej *client.RejectedError
		if errors.As(err, &rej) {
			_ = c.form.Reject(rej.Fields)
			msg := rej.Message
			if msg == "" {
				msg = failed
			}
			c.notify.Error(msg)
			return err
		}

		c.form.Close()
		if fromServer(err) {
			c.notify.Error(failed)
		} else {
			c.notify.Error(entity.UnexpectedErrorMessage)
		}
		c.logger.Warn(ctx, "submit failed", "mode", sub.Mode.String(), "err", err)
		return err
	}

	c.cache.Invalidate()
	c.form.Close()
	c.notify.Success(done)
	_ = c.Refresh(ctx)
	return nil
}

// RequestDelete asks for confirmation and deletes id. Declining is not an
// error.
func (c *Controller[T]) RequestDelete(ctx context.Context, id models.ID) error {
	ok, err := c.confirm.Confirm(ctx, c.desc.DeletePrompt())
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := c.svc.Delete(ctx, id); err != nil {
		if fromServer(err) {
			c.notify.Error(c.desc.DeleteFailedMessage())
		} else {
			c.notify.Error(c.desc.DeleteUnexpectedMessage())
		}
		c.logger.Warn(ctx, "delete failed", "id", id.String(), "err", err)
		return err
	}

	c.cache.Invalidate()
	c.notify.Success(c.desc.DeletedMessage())
	_ = c.Refresh(ctx)
	return nil
}

// fromServer reports failures the API layer produced: an error response or
// an unreachable server.
func fromServer(err error) bool {
	var rej *client.RejectedError
	var se *client.StatusError
	return errors.As(err, &rej) || errors.As(err, &se) || client.IsTransport(err)
}
