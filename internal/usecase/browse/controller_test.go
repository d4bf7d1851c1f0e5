package browse

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kailas-cloud/apicat/internal/domain"
	"github.com/kailas-cloud/apicat/internal/domain/page"
	"github.com/kailas-cloud/apicat/internal/domain/search/mode"
	"github.com/kailas-cloud/apicat/internal/domain/search/order"
	"github.com/kailas-cloud/apicat/internal/domain/search/request"
)

// --- Mocks ---

type mockCatalog struct {
	searchFn   func(ctx context.Context, intent request.Intent) (page.Page[domain.ApiMetadata], error)
	continueFn func(ctx context.Context, c page.Cursor) (page.Page[domain.ApiMetadata], error)

	searches  atomic.Int32
	continues atomic.Int32
}

func (m *mockCatalog) Search(ctx context.Context, intent request.Intent) (page.Page[domain.ApiMetadata], error) {
	m.searches.Add(1)
	return m.searchFn(ctx, intent)
}

func (m *mockCatalog) Continue(ctx context.Context, c page.Cursor) (page.Page[domain.ApiMetadata], error) {
	m.continues.Add(1)
	return m.continueFn(ctx, c)
}

func apis(titles ...string) []domain.ApiMetadata {
	out := make([]domain.ApiMetadata, 0, len(titles))
	for _, t := range titles {
		out = append(out, domain.ApiMetadata{Name: t, Title: t})
	}
	return out
}

func titles(items []domain.ApiMetadata) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func intent(t *testing.T, text string) request.Intent {
	t.Helper()
	i, err := request.NewIntent(text, nil, mode.Lexical)
	if err != nil {
		t.Fatalf("NewIntent: %v", err)
	}
	return i
}

// twoPages serves page 1 with link "p2" and a terminal page 2.
func twoPages() *mockCatalog {
	return &mockCatalog{
		searchFn: func(_ context.Context, _ request.Intent) (page.Page[domain.ApiMetadata], error) {
			return page.New(apis("B", "A"), "p2"), nil
		},
		continueFn: func(_ context.Context, c page.Cursor) (page.Page[domain.ApiMetadata], error) {
			if c.Link() != "p2" {
				return page.Page[domain.ApiMetadata]{}, errors.New("unexpected cursor " + c.Link())
			}
			return page.New(apis("C"), ""), nil
		},
	}
}

// --- Tests ---

func TestController_LoadMoreUntilTerminal(t *testing.T) {
	cat := twoPages()
	c := New(cat, nil, nil)
	defer c.Close()
	ctx := context.Background()

	if err := c.SetIntent(ctx, intent(t, "")); err != nil {
		t.Fatalf("SetIntent: %v", err)
	}
	v := c.View()
	if v.State != StateReady || !v.HasMore || v.IsLoading {
		t.Fatalf("after first page: %+v", v)
	}

	ok, err := c.LoadMore(ctx)
	if !ok || err != nil {
		t.Fatalf("LoadMore = %v, %v", ok, err)
	}
	v = c.View()
	if v.HasMore {
		t.Error("HasMore should be false after terminal page")
	}
	if got := titles(v.Items); !equalStrings(got, []string{"B", "A", "C"}) {
		t.Errorf("items = %v, want fetch order", got)
	}

	ok, err = c.LoadMore(ctx)
	if ok || err != nil {
		t.Errorf("LoadMore on terminal = %v, %v", ok, err)
	}
	if n := cat.continues.Load(); n != 1 {
		t.Errorf("continue calls = %d, want 1", n)
	}
}

func TestController_SameIntentIsNoop(t *testing.T) {
	cat := twoPages()
	c := New(cat, nil, nil)
	defer c.Close()

	_ = c.SetIntent(context.Background(), intent(t, "pets"))
	_ = c.SetIntent(context.Background(), intent(t, "pets"))
	if n := cat.searches.Load(); n != 1 {
		t.Errorf("searches = %d, want 1", n)
	}

	_ = c.SetIntent(context.Background(), intent(t, "cats"))
	if n := cat.searches.Load(); n != 2 {
		t.Errorf("searches = %d, want 2", n)
	}
	if v := c.View(); !v.HasMore || len(v.Items) != 2 {
		t.Errorf("new intent should reset to its first page: %+v", c.View())
	}
}

func TestController_ErrorThenRetry(t *testing.T) {
	fail := true
	cat := &mockCatalog{
		searchFn: func(_ context.Context, _ request.Intent) (page.Page[domain.ApiMetadata], error) {
			if fail {
				return page.Page[domain.ApiMetadata]{}, domain.ErrTransport
			}
			return page.New(apis("A"), ""), nil
		},
	}
	c := New(cat, nil, nil)
	defer c.Close()

	err := c.SetIntent(context.Background(), intent(t, "x"))
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("err = %v", err)
	}
	v := c.View()
	if v.State != StateError || v.Err == nil || v.Error == "" || len(v.Items) != 0 {
		t.Errorf("view = %+v", v)
	}
	if ok, _ := c.LoadMore(context.Background()); ok {
		t.Error("LoadMore must not fetch after a failed first page")
	}

	fail = false
	if err := c.SetIntent(context.Background(), intent(t, "x")); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if c.State() != StateReady || cat.searches.Load() != 2 {
		t.Errorf("state = %s, searches = %d", c.State(), cat.searches.Load())
	}
}

func TestController_LoadMoreErrorKeepsPages(t *testing.T) {
	cat := twoPages()
	cat.continueFn = func(_ context.Context, _ page.Cursor) (page.Page[domain.ApiMetadata], error) {
		return page.Page[domain.ApiMetadata]{}, domain.ErrRateLimited
	}
	c := New(cat, nil, nil)
	defer c.Close()

	_ = c.SetIntent(context.Background(), intent(t, ""))
	ok, err := c.LoadMore(context.Background())
	if ok || !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("LoadMore = %v, %v", ok, err)
	}
	v := c.View()
	if v.State != StateError || len(v.Items) != 2 || !v.HasMore {
		t.Errorf("view = %+v", v)
	}
}

func TestController_LoadMoreRetriesFailedNextPage(t *testing.T) {
	cat := twoPages()
	fail := true
	cat.continueFn = func(_ context.Context, c page.Cursor) (page.Page[domain.ApiMetadata], error) {
		if c.Link() != "p2" {
			t.Errorf("cursor = %q, want p2", c.Link())
		}
		if fail {
			return page.Page[domain.ApiMetadata]{}, domain.ErrRateLimited
		}
		return page.New(apis("C"), ""), nil
	}
	c := New(cat, nil, nil)
	defer c.Close()

	_ = c.SetIntent(context.Background(), intent(t, ""))
	if _, err := c.LoadMore(context.Background()); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("first LoadMore err = %v", err)
	}

	fail = false
	ok, err := c.LoadMore(context.Background())
	if !ok || err != nil {
		t.Fatalf("retry LoadMore = %v, %v, want true, nil", ok, err)
	}
	v := c.View()
	if v.State != StateReady || v.Err != nil || v.HasMore {
		t.Errorf("view = %+v", v)
	}
	if got := titles(v.Items); !equalStrings(got, []string{"B", "A", "C"}) {
		t.Errorf("items = %v", got)
	}
	if n := cat.continues.Load(); n != 2 {
		t.Errorf("continue calls = %d, want 2", n)
	}
	if n := cat.searches.Load(); n != 1 {
		t.Errorf("searches = %d, want 1", n)
	}
}

func TestController_ConcurrentLoadMoreIgnored(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	cat := twoPages()
	cat.continueFn = func(_ context.Context, _ page.Cursor) (page.Page[domain.ApiMetadata], error) {
		close(started)
		<-release
		return page.New(apis("C"), "p3"), nil
	}
	c := New(cat, nil, nil)
	defer c.Close()
	_ = c.SetIntent(context.Background(), intent(t, ""))

	done := make(chan bool)
	go func() {
		ok, _ := c.LoadMore(context.Background())
		done <- ok
	}()
	<-started

	if !c.View().IsLoadingMore {
		t.Error("IsLoadingMore should be set while the next page is in flight")
	}
	if ok, err := c.LoadMore(context.Background()); ok || err != nil {
		t.Errorf("second LoadMore = %v, %v, want ignored", ok, err)
	}
	close(release)
	if !<-done {
		t.Error("first LoadMore should succeed")
	}
	if n := cat.continues.Load(); n != 1 {
		t.Errorf("continue calls = %d, want 1", n)
	}
}

func TestController_StaleNextPageDropped(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	cat := &mockCatalog{
		searchFn: func(_ context.Context, i request.Intent) (page.Page[domain.ApiMetadata], error) {
			if i.Text() == "new" {
				return page.New(apis("N"), ""), nil
			}
			return page.New(apis("O1"), "p2"), nil
		},
		continueFn: func(_ context.Context, _ page.Cursor) (page.Page[domain.ApiMetadata], error) {
			close(started)
			<-release
			return page.New(apis("O2"), ""), nil
		},
	}
	c := New(cat, nil, nil)
	defer c.Close()
	_ = c.SetIntent(context.Background(), intent(t, "old"))

	done := make(chan bool)
	go func() {
		ok, _ := c.LoadMore(context.Background())
		done <- ok
	}()
	<-started

	if err := c.SetIntent(context.Background(), intent(t, "new")); err != nil {
		t.Fatalf("SetIntent: %v", err)
	}
	close(release)
	if <-done {
		t.Error("stale LoadMore should report false")
	}

	if got := titles(c.View().Items); !equalStrings(got, []string{"N"}) {
		t.Errorf("items = %v, want [N]", got)
	}
	if c.State() != StateReady {
		t.Errorf("state = %s", c.State())
	}
}

func TestController_StaleFirstPageDropped(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	cat := &mockCatalog{
		searchFn: func(_ context.Context, i request.Intent) (page.Page[domain.ApiMetadata], error) {
			if i.Text() == "slow" {
				close(started)
				<-release
				return page.New(apis("S"), ""), nil
			}
			return page.New(apis("F"), ""), nil
		},
	}
	c := New(cat, nil, nil)
	defer c.Close()

	slow := intent(t, "slow")
	errc := make(chan error)
	go func() { errc <- c.SetIntent(context.Background(), slow) }()
	<-started
	_ = c.SetIntent(context.Background(), intent(t, "fast"))
	close(release)
	if err := <-errc; err != nil {
		t.Errorf("stale SetIntent err = %v", err)
	}

	if got := titles(c.View().Items); !equalStrings(got, []string{"F"}) {
		t.Errorf("items = %v, want [F]", got)
	}
}

func TestController_WaitsForAuthentication(t *testing.T) {
	cat := twoPages()
	s := NewSession(false)
	c := New(cat, s, nil)
	defer c.Close()

	if err := c.SetIntent(context.Background(), intent(t, "")); err != nil {
		t.Fatalf("SetIntent: %v", err)
	}
	if c.State() != StateIdle || cat.searches.Load() != 0 {
		t.Fatalf("state = %s, searches = %d", c.State(), cat.searches.Load())
	}
	if _, err := c.LoadMore(context.Background()); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("LoadMore err = %v", err)
	}

	s.SetAuthenticated(true)
	c.Wait()

	if c.State() != StateReady || cat.searches.Load() != 1 {
		t.Errorf("state = %s, searches = %d", c.State(), cat.searches.Load())
	}
	if len(c.View().Items) != 2 {
		t.Errorf("items = %v", titles(c.View().Items))
	}
}

func TestController_ViewSortedBySession(t *testing.T) {
	cat := twoPages()
	c := New(cat, nil, nil)
	defer c.Close()
	_ = c.SetIntent(context.Background(), intent(t, ""))
	_, _ = c.LoadMore(context.Background())

	if err := c.Session().SetSort(order.Spec{Field: order.FieldTitle, Direction: order.Asc}); err != nil {
		t.Fatalf("SetSort: %v", err)
	}
	if got := titles(c.View().Items); !equalStrings(got, []string{"A", "B", "C"}) {
		t.Errorf("asc = %v", got)
	}
	_ = c.Session().SetSort(order.Spec{Field: order.FieldTitle, Direction: order.Desc})
	if got := titles(c.View().Items); !equalStrings(got, []string{"C", "B", "A"}) {
		t.Errorf("desc = %v", got)
	}
	if cat.searches.Load() != 1 || cat.continues.Load() != 1 {
		t.Error("sorting must not refetch")
	}
}

func TestController_EmptyResult(t *testing.T) {
	cat := &mockCatalog{
		searchFn: func(_ context.Context, _ request.Intent) (page.Page[domain.ApiMetadata], error) {
			return page.Empty[domain.ApiMetadata](), nil
		},
	}
	c := New(cat, nil, nil)
	defer c.Close()
	_ = c.SetIntent(context.Background(), intent(t, "nothing"))

	v := c.View()
	if !v.Empty || v.HasMore || v.Items == nil {
		t.Errorf("view = %+v", v)
	}
}

func TestController_CloseCancelsResumedLoad(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	cat := &mockCatalog{
		searchFn: func(ctx context.Context, _ request.Intent) (page.Page[domain.ApiMetadata], error) {
			wg.Done()
			<-ctx.Done()
			return page.Page[domain.ApiMetadata]{}, ctx.Err()
		},
	}
	s := NewSession(false)
	c := New(cat, s, nil)
	_ = c.SetIntent(context.Background(), intent(t, ""))
	s.SetAuthenticated(true)
	wg.Wait()

	closed := make(chan struct{})
	go func() {
		c.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not cancel the background load")
	}
	if c.State() != StateError {
		t.Errorf("state = %s, want error", c.State())
	}
}

func TestController_NoResumeAfterClose(t *testing.T) {
	cat := twoPages()
	s := NewSession(false)
	c := New(cat, s, nil)
	_ = c.SetIntent(context.Background(), intent(t, ""))
	c.Close()

	// A notification already in flight when Close ran.
	c.onSessionChange(Snapshot{Authenticated: false}, Snapshot{Authenticated: true})
	s.SetAuthenticated(true)
	c.Wait()

	if n := cat.searches.Load(); n != 0 {
		t.Errorf("searches = %d, want 0 after Close", n)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %s, want idle", c.State())
	}
}
