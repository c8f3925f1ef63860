package listview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/staffdesk/internal/client/cache"
	"github.com/dmitrijs2005/staffdesk/internal/client/client"
	"github.com/dmitrijs2005/staffdesk/internal/client/entity"
	"github.com/dmitrijs2005/staffdesk/internal/client/events"
	"github.com/dmitrijs2005/staffdesk/internal/client/forms"
	"github.com/dmitrijs2005/staffdesk/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

// ---- fakes ----

type fakeFetcher struct {
	calls atomic.Int32
	mu    sync.Mutex
	fn    func(key cache.Key) (cache.Page[models.Company], error)
}

func (f *fakeFetcher) fetch(ctx context.Context, key cache.Key) (cache.Page[models.Company], error) {
	f.calls.Add(1)
	f.mu.Lock()
	fn := f.fn
	f.mu.Unlock()
	return fn(key)
}

func (f *fakeFetcher) set(fn func(key cache.Key) (cache.Page[models.Company], error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fn = fn
}

func staticPages(total int, names ...string) func(cache.Key) (cache.Page[models.Company], error) {
	return func(key cache.Key) (cache.Page[models.Company], error) {
		var items []models.Company
		for _, n := range names {
			items = append(items, models.Company{
				ID:      models.ID(n),
				Name:    n + key.Search,
				Email:   n + "@x.com",
				Website: n + ".com",
				Logo:    "/uploads/" + n + ".png",
			})
		}
		return cache.Page[models.Company]{Items: items, TotalPages: total}, nil
	}
}

type fakeMutator struct {
	submitErr error
	deleteErr error

	submitted []forms.Submission
	deleted   []models.ID
}

func (f *fakeMutator) Submit(ctx context.Context, sub forms.Submission) (*models.Company, error) {
	f.submitted = append(f.submitted, sub)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &models.Company{ID: "new"}, nil
}

func (f *fakeMutator) Delete(ctx context.Context, id models.ID) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

type recorder struct {
	mu        sync.Mutex
	successes []string
	errors    []string
	onSuccess func()
}

func (r *recorder) Success(msg string) {
	if r.onSuccess != nil {
		r.onSuccess()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, msg)
}

func (r *recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

type fakeConfirmer struct {
	answer bool
	err    error
	asked  []entity.Prompt
}

func (f *fakeConfirmer) Confirm(ctx context.Context, p entity.Prompt) (bool, error) {
	f.asked = append(f.asked, p)
	return f.answer, f.err
}

type fixture struct {
	ctl     *Controller[models.Company]
	cache   *cache.Cache[models.Company]
	bus     *events.Bus
	fetcher *fakeFetcher
	mut     *fakeMutator
	notes   *recorder
	confirm *fakeConfirmer
}

func newFixture(t *testing.T, fn func(cache.Key) (cache.Page[models.Company], error)) *fixture {
	t.Helper()
	f := &fixture{
		bus:     events.NewBus(),
		fetcher: &fakeFetcher{fn: fn},
		mut:     &fakeMutator{},
		notes:   &recorder{},
		confirm: &fakeConfirmer{answer: true},
	}
	f.cache = cache.New[models.Company]("company", f.fetcher.fetch, f.bus, nil)
	f.ctl = New[models.Company](entity.Companies, f.cache, f.mut, forms.NewPreviewRegistry(), f.confirm, f.notes, nil)
	return f
}

func (f *fixture) mount(t *testing.T) {
	t.Helper()
	require.NoError(t, f.ctl.Mount(context.Background()))
	t.Cleanup(f.ctl.Unmount)
}

func names(rows []models.Company) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}

// ---- navigation ----

func TestMount_LoadsFirstPageInBackendOrder(t *testing.T) {
	f := newFixture(t, staticPages(2, "zeta", "alpha", "mid"))
	f.mount(t)

	v := f.ctl.View()
	assert.True(t, v.Loaded)
	assert.Equal(t, cache.Key{Page: 1}, v.Key)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names(v.Rows))
	assert.Equal(t, 2, v.TotalPages)
	assert.Equal(t, forms.Closed, v.Form)
}

func TestNavigation_RequiresMount(t *testing.T) {
	f := newFixture(t, staticPages(1, "a"))
	assert.ErrorIs(t, f.ctl.ChangeSearch(context.Background(), "x"), ErrNotMounted)
	assert.EqualValues(t, 0, f.fetcher.calls.Load())
}

func TestChangeSearch_ResetsToFirstPage(t *testing.T) {
	f := newFixture(t, staticPages(3, "a"))
	f.mount(t)
	ctx := context.Background()

	require.NoError(t, f.ctl.ChangePage(ctx, 3))
	require.NoError(t, f.ctl.ChangeSearch(ctx, "acme"))

	assert.Equal(t, cache.Key{Search: "acme", Page: 1}, f.ctl.View().Key)
}

func TestChangePage_PreservesSearchAndRejectsOutOfRange(t *testing.T) {
	f := newFixture(t, staticPages(3, "a"))
	f.mount(t)
	ctx := context.Background()

	require.NoError(t, f.ctl.ChangeSearch(ctx, "ac"))
	require.NoError(t, f.ctl.ChangePage(ctx, 2))
	assert.Equal(t, cache.Key{Search: "ac", Page: 2}, f.ctl.View().Key)

	calls := f.fetcher.calls.Load()
	assert.ErrorIs(t, f.ctl.ChangePage(ctx, 0), ErrPageOutOfRange)
	assert.ErrorIs(t, f.ctl.ChangePage(ctx, 4), ErrPageOutOfRange)
	assert.Equal(t, cache.Key{Search: "ac", Page: 2}, f.ctl.View().Key)
	assert.Equal(t, calls, f.fetcher.calls.Load())
}

func TestLoad_LatestWins(t *testing.T) {
	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})
	f := newFixture(t, func(key cache.Key) (cache.Page[models.Company], error) {
		if key.Search == "slow" {
			close(slowStarted)
			<-releaseSlow
		}
		return cache.Page[models.Company]{Items: []models.Company{{ID: "1", Name: key.Search}}, TotalPages: 1}, nil
	})
	f.mount(t)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- f.ctl.ChangeSearch(ctx, "slow") }()
	<-slowStarted

	require.NoError(t, f.ctl.ChangeSearch(ctx, "fast"))
	close(releaseSlow)
	require.NoError(t, <-done)

	v := f.ctl.View()
	assert.Equal(t, "fast", v.Key.Search)
	assert.Equal(t, []string{"fast"}, names(v.Rows))
}

func TestUnmount_IgnoresLateResultsAndUnsubscribes(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	f := newFixture(t, func(key cache.Key) (cache.Page[models.Company], error) {
		if key.Search == "late" {
			close(started)
			<-release
		}
		return cache.Page[models.Company]{Items: []models.Company{{ID: "1", Name: "row-" + key.Search}}, TotalPages: 1}, nil
	})
	require.NoError(t, f.ctl.Mount(context.Background()))
	require.Equal(t, 1, f.bus.Subscribers("company"))

	done := make(chan error, 1)
	go func() { done <- f.ctl.ChangeSearch(context.Background(), "late") }()
	<-started

	f.ctl.Unmount()
	assert.Equal(t, 0, f.bus.Subscribers("company"))
	close(release)
	<-done

	assert.Equal(t, []string{"row-"}, names(f.ctl.View().Rows))
	assert.False(t, f.ctl.Mounted())
}

func TestWatcher_ReloadsOnInvalidation(t *testing.T) {
	f := newFixture(t, staticPages(1, "old"))
	f.mount(t)

	f.fetcher.set(staticPages(1, "new"))
	f.cache.Invalidate()

	require.Eventually(t, func() bool {
		rows := f.ctl.Rows()
		return len(rows) == 1 && rows[0].Name == "new"
	}, time.Second, 5*time.Millisecond)
}

func TestRefresh_InFlightDoesNotUndoSearch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f := newFixture(t, staticPages(1, "a"))
	f.mount(t)
	ctx := context.Background()

	f.fetcher.set(func(key cache.Key) (cache.Page[models.Company], error) {
		if key.Search == "" {
			once.Do(func() { close(started) })
			<-release
		}
		return staticPages(1, "a")(key)
	})
	f.cache.Invalidate()
	<-started

	require.NoError(t, f.ctl.ChangeSearch(ctx, "x"))
	close(release)
	require.NoError(t, f.ctl.Refresh(ctx))

	v := f.ctl.View()
	assert.Equal(t, cache.Key{Search: "x", Page: 1}, v.Key)
	assert.Equal(t, []string{"ax"}, names(v.Rows))
}

// ---- delete ----

func TestRequestDelete_Declined(t *testing.T) {
	f := newFixture(t, staticPages(1, "a"))
	f.confirm.answer = false
	f.mount(t)

	require.NoError(t, f.ctl.RequestDelete(context.Background(), "a"))
	assert.Empty(t, f.mut.deleted)
	assert.Empty(t, f.notes.successes)
	assert.Empty(t, f.notes.errors)
	require.Len(t, f.confirm.asked, 1)
	assert.Equal(t, "Do you want to delete this company?", f.confirm.asked[0].Text)
}

func TestRequestDelete_SuccessInvalidatesBeforeNotifying(t *testing.T) {
	f := newFixture(t, staticPages(1, "a", "b"))
	f.mount(t)

	probe, cancel := f.bus.Subscribe("company")
	defer cancel()
	var invalidatedFirst bool
	f.notes.onSuccess = func() {
		select {
		case <-probe:
			invalidatedFirst = true
		default:
		}
	}

	f.fetcher.set(staticPages(1, "b"))
	require.NoError(t, f.ctl.RequestDelete(context.Background(), "a"))

	assert.Equal(t, []models.ID{"a"}, f.mut.deleted)
	assert.True(t, invalidatedFirst)
	assert.Equal(t, []string{"The company has been deleted."}, f.notes.successes)
	assert.Equal(t, []string{"b"}, names(f.ctl.Rows()))
}

func TestRequestDelete_FailureLeavesStateAlone(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server error", &client.StatusError{Code: http.StatusInternalServerError}, "Failed to delete the company."},
		{"unreachable", client.ErrUnavailable, "Failed to delete the company."},
		{"unexpected", errors.New("decode failure"), "An unexpected error occurred while deleting the company."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, staticPages(1, "a"))
			f.mut.deleteErr = tt.err
			f.mount(t)
			calls := f.fetcher.calls.Load()

			require.Error(t, f.ctl.RequestDelete(context.Background(), "a"))
			assert.Equal(t, []string{tt.want}, f.notes.errors)
			assert.Empty(t, f.notes.successes)
			assert.Equal(t, calls, f.fetcher.calls.Load())
			assert.Equal(t, []string{"a"}, names(f.ctl.Rows()))
		})
	}
}

func TestRequestDelete_PromptError(t *testing.T) {
	f := newFixture(t, staticPages(1, "a"))
	f.confirm.err = errors.New("input closed")
	f.mount(t)

	require.Error(t, f.ctl.RequestDelete(context.Background(), "a"))
	assert.Empty(t, f.mut.deleted)
}

// ---- forms ----

func fillCompany(t *testing.T, m *forms.Machine, email string) {
	t.Helper()
	require.NoError(t, m.Set("name", "Acme"))
	require.NoError(t, m.Set("email", email))
	require.NoError(t, m.Set("website", "acme.com"))
	require.NoError(t, m.Attach(models.NewAttachment("acme.png", pngHeader)))
}

func TestSubmit_ValidationFailureSendsNothing(t *testing.T) {
	f := newFixture(t, staticPages(1, "a"))
	f.mount(t)

	require.NoError(t, f.ctl.OpenCreate())
	err := f.ctl.Submit(context.Background())

	var ve *forms.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, f.mut.submitted)
	assert.Equal(t, forms.Creating, f.ctl.Form().State())
	assert.Empty(t, f.notes.errors)
}

func TestSubmit_CreateSuccess(t *testing.T) {
	f := newFixture(t, staticPages(1, "a"))
	f.mount(t)
	calls := f.fetcher.calls.Load()

	require.NoError(t, f.ctl.OpenCreate())
	fillCompany(t, f.ctl.Form(), "a@acme.com")
	require.NoError(t, f.ctl.Submit(context.Background()))

	require.Len(t, f.mut.submitted, 1)
	assert.Equal(t, forms.Creating, f.mut.submitted[0].Mode)
	assert.Equal(t, forms.Closed, f.ctl.Form().State())
	assert.Equal(t, []string{"Company added successfully!"}, f.notes.successes)
	assert.Greater(t, f.fetcher.calls.Load(), calls)
}

func TestSubmit_ReturnsWithPostMutationRows(t *testing.T) {
	f := newFixture(t, staticPages(1, "a"))
	f.mount(t)
	ctx := context.Background()

	rows := []string{"a"}
	for i := 0; i < 50; i++ {
		rows = append(rows, fmt.Sprintf("n%d", i))
		f.fetcher.set(staticPages(1, rows...))

		require.NoError(t, f.ctl.OpenCreate())
		fillCompany(t, f.ctl.Form(), "a@acme.com")
		require.NoError(t, f.ctl.Submit(ctx))

		require.Len(t, f.ctl.Rows(), len(rows), "submit %d", i)
	}
}

func TestRequestDelete_ReturnsWithPostMutationPageCount(t *testing.T) {
	f := newFixture(t, staticPages(2, "a"))
	f.mount(t)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		f.fetcher.set(staticPages(2, "a"))
		f.cache.Invalidate()
		require.NoError(t, f.ctl.Refresh(ctx))
		require.Equal(t, 2, f.ctl.View().TotalPages)

		f.fetcher.set(staticPages(1, "a"))
		require.NoError(t, f.ctl.RequestDelete(ctx, "b"))
		require.Equal(t, 1, f.ctl.View().TotalPages, "delete %d", i)
		require.ErrorIs(t, f.ctl.ChangePage(ctx, 2), ErrPageOutOfRange)
	}
}

func TestSubmit_RejectedKeepsFormOpen(t *testing.T) {
	f := newFixture(t, staticPages(1, "a"))
	f.mut.submitErr = &client.RejectedError{Message: "Email already exists", Fields: map[string]string{"email": "taken"}}
	f.mount(t)
	calls := f.fetcher.calls.Load()

	require.NoError(t, f.ctl.OpenCreate())
	fillCompany(t, f.ctl.Form(), "dup@acme.com")
	require.Error(t, f.ctl.Submit(context.Background()))

	assert.Equal(t, forms.Creating, f.ctl.Form().State())
	d := f.ctl.Form().Draft()
	assert.Equal(t, "dup@acme.com", d.Values["email"])
	assert.Equal(t, "taken", d.Errors["email"])
	assert.Equal(t, []string{"Email already exists"}, f.notes.errors)
	assert.Equal(t, calls, f.fetcher.calls.Load())
}

func TestSubmit_RejectedWithoutMessageUsesGenericText(t *testing.T) {
	f := newFixture(t, staticPages(1, "a"))
	f.mut.submitErr = &client.RejectedError{}
	f.mount(t)

	require.NoError(t, f.ctl.OpenEditByID("a"))
	require.Error(t, f.ctl.Submit(context.Background()))

	assert.Equal(t, forms.Editing, f.ctl.Form().State())
	assert.Equal(t, []string{"An error occurred while updating the company."}, f.notes.errors)
}

func TestSubmit_OtherFailuresCloseTheForm(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unreachable", client.ErrUnavailable, "An error occurred while adding the company."},
		{"server error", &client.StatusError{Code: 500}, "An error occurred while adding the company."},
		{"unexpected", errors.New("boom"), "Unexpected error occurred. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, staticPages(1, "a"))
			f.mut.submitErr = tt.err
			f.mount(t)

			require.NoError(t, f.ctl.OpenCreate())
			fillCompany(t, f.ctl.Form(), "a@acme.com")
			require.Error(t, f.ctl.Submit(context.Background()))

			assert.Equal(t, forms.Closed, f.ctl.Form().State())
			assert.Equal(t, []string{tt.want}, f.notes.errors)
		})
	}
}

func TestSubmit_EditSeedsFromRowAndUpdates(t *testing.T) {
	f := newFixture(t, staticPages(1, "a"))
	f.mount(t)

	require.NoError(t, f.ctl.OpenEditByID("a"))
	assert.Equal(t, "/uploads/a.png", f.ctl.Form().PreviewRef())
	require.NoError(t, f.ctl.Form().Set("email", "new@a.com"))
	require.NoError(t, f.ctl.Submit(context.Background()))

	require.Len(t, f.mut.submitted, 1)
	sub := f.mut.submitted[0]
	assert.Equal(t, forms.Editing, sub.Mode)
	assert.Equal(t, models.ID("a"), sub.TargetID)
	assert.Empty(t, sub.Files)
	assert.Equal(t, []string{"Company updated successfully!"}, f.notes.successes)
}

func TestSubmit_ClosesEvenWhenRefetchFails(t *testing.T) {
	f := newFixture(t, staticPages(1, "a"))
	f.mount(t)

	f.fetcher.set(func(cache.Key) (cache.Page[models.Company], error) {
		return cache.Page[models.Company]{}, client.ErrUnavailable
	})
	require.NoError(t, f.ctl.OpenEditByID("a"))
	require.NoError(t, f.ctl.Submit(context.Background()))

	assert.Equal(t, forms.Closed, f.ctl.Form().State())
	assert.Equal(t, []string{"Company updated successfully!"}, f.notes.successes)
	v := f.ctl.View()
	require.ErrorIs(t, v.Err, client.ErrUnavailable)
	assert.True(t, v.Stale)
	assert.Equal(t, []string{"a"}, names(v.Rows))
}

func TestOpenEditByID_UnknownRow(t *testing.T) {
	f := newFixture(t, staticPages(1, "a"))
	f.mount(t)
	assert.ErrorIs(t, f.ctl.OpenEditByID("zzz"), ErrRowNotFound)
	assert.Equal(t, forms.Closed, f.ctl.Form().State())
}

func TestCancelAndUnmountCloseForm(t *testing.T) {
	f := newFixture(t, staticPages(1, "a"))
	require.NoError(t, f.ctl.Mount(context.Background()))

	require.NoError(t, f.ctl.OpenCreate())
	f.ctl.Cancel()
	assert.Equal(t, forms.Closed, f.ctl.Form().State())

	require.NoError(t, f.ctl.OpenCreate())
	f.ctl.Unmount()
	assert.Equal(t, forms.Closed, f.ctl.Form().State())
}

// ---- render ----

func TestRender(t *testing.T) {
	f := newFixture(t, staticPages(3, "a", "b"))
	f.mount(t)
	require.NoError(t, f.ctl.ChangeSearch(context.Background(), "x"))

	var buf bytes.Buffer
	require.NoError(t, f.ctl.Render(&buf))
	out := buf.String()

	assert.Contains(t, out, `Companies matching "x"`)
	assert.Contains(t, out, "Company Name")
	assert.Contains(t, out, "ax")
	assert.Contains(t, out, "/uploads/b.png")
	assert.Contains(t, out, "Page: [1] 2 3")
	assert.NotContains(t, out, "!")
}

func TestRender_ShowsFailure(t *testing.T) {
	f := newFixture(t, func(cache.Key) (cache.Page[models.Company], error) {
		return cache.Page[models.Company]{}, client.ErrUnavailable
	})
	require.Error(t, f.ctl.Mount(context.Background()))
	t.Cleanup(f.ctl.Unmount)

	var buf bytes.Buffer
	require.NoError(t, f.ctl.Render(&buf))
	assert.Contains(t, buf.String(), "! Could not load companies")
}

func TestPageBar(t *testing.T) {
	assert.Equal(t, "Page: [1]", pageBar(1, 0))
	assert.Equal(t, "Page: 1 [2] 3", pageBar(2, 3))
}
