package browse

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/apicat/internal/domain"
	"github.com/kailas-cloud/apicat/internal/domain/page"
	"github.com/kailas-cloud/apicat/internal/domain/search/order"
	"github.com/kailas-cloud/apicat/internal/domain/search/request"
	"github.com/kailas-cloud/apicat/internal/logger"
	"github.com/kailas-cloud/apicat/internal/metrics"
)

// State is the controller's position in the fetch lifecycle.
type State string

// State constants.
const (
	StateIdle        State = "idle"
	StateLoading     State = "loading"
	StateReady       State = "ready"
	StateLoadingMore State = "loading_more"
	StateError       State = "error"
)

// Controller owns the pages fetched for the current search intent.
//
// The mutex guards state between network calls and is never held across
// one. Every fetch is tagged with the generation it started in; a response
// whose generation is no longer current is dropped.
type Controller struct {
	catalog Catalog
	session *Session
	logger  *zap.Logger

	mu        sync.Mutex
	intent    request.Intent
	hasIntent bool
	pages     page.Sequence[domain.ApiMetadata]
	state     State
	err       error
	gen       uint64
	closed    bool

	bg          context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	unsubscribe func()
}

// New creates a controller bound to session. A nil session is an
// authenticated one. Close releases the session subscription.
func New(catalog Catalog, session *Session, l *zap.Logger) *Controller {
	if session == nil {
		session = NewSession(true)
	}
	bg, cancel := context.WithCancel(context.Background())
	c := &Controller{
		catalog: catalog,
		session: session,
		logger:  logger.OrNop(l),
		state:   StateIdle,
		bg:      bg,
		cancel:  cancel,
	}
	c.unsubscribe = session.Subscribe(c.onSessionChange)
	return c
}

// Session returns the bound session.
func (c *Controller) Session() *Session { return c.session }

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Intent returns the current intent and whether one was set.
func (c *Controller) Intent() (request.Intent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intent, c.hasIntent
}

// SetIntent replaces the search intent, drops every fetched page and loads
// the first page. An intent equal to the current one is ignored unless the
// last fetch failed, in which case it is retried. While unauthenticated the
// controller stays idle and loads once the session authenticates.
func (c *Controller) SetIntent(ctx context.Context, intent request.Intent) error {
	c.mu.Lock()
	if c.hasIntent && c.intent.Equal(intent) && c.state != StateError {
		c.mu.Unlock()
		return nil
	}
	c.intent = intent
	c.hasIntent = true
	c.pages.Reset()
	c.err = nil
	c.gen++
	if !c.session.Authenticated() {
		c.state = StateIdle
		c.mu.Unlock()
		return nil
	}
	c.state = StateLoading
	gen := c.gen
	c.mu.Unlock()

	return c.loadFirst(ctx, gen, intent)
}

// LoadMore fetches the page after the last one. After a failed next page
// it retries the same cursor and keeps the pages already fetched. It reports
// false without fetching while a fetch is in flight, before the first page,
// after a failed first page, or once the last page is terminal.
func (c *Controller) LoadMore(ctx context.Context) (bool, error) {
	if !c.session.Authenticated() {
		return false, domain.ErrNotAuthenticated
	}

	c.mu.Lock()
	if c.state != StateReady && c.state != StateError {
		c.mu.Unlock()
		return false, nil
	}
	next, ok := c.pages.Last()
	if !ok || next.IsTerminal() {
		c.mu.Unlock()
		return false, nil
	}
	c.state = StateLoadingMore
	c.err = nil
	gen := c.gen
	c.mu.Unlock()

	p, err := c.catalog.Continue(ctx, next)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.dropStale("next")
		return false, nil
	}
	if err != nil {
		c.state = StateError
		c.err = err
		return false, err
	}
	c.pages.Append(p)
	c.state = StateReady
	return true, nil
}

// View renders the fetched items with the session's sort applied.
func (c *Controller) View() View {
	c.mu.Lock()
	items := c.pages.Flatten()
	v := View{
		State:         c.state,
		IsLoading:     c.state == StateLoading,
		IsLoadingMore: c.state == StateLoadingMore,
		HasMore:       c.pages.HasMore(),
		Empty:         c.state == StateReady && len(items) == 0,
		Err:           c.err,
	}
	c.mu.Unlock()

	v.Items = order.Apply(items, c.session.Sort(), SortKey)
	if v.Err != nil {
		v.Error = v.Err.Error()
	}
	return v
}

// Wait blocks until background loads started by the session finish.
func (c *Controller) Wait() { c.wg.Wait() }

// Close stops listening to the session and cancels background loads.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.unsubscribe()
	c.cancel()
	c.wg.Wait()
}

func (c *Controller) loadFirst(ctx context.Context, gen uint64, intent request.Intent) error {
	p, err := c.catalog.Search(ctx, intent)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.dropStale("first")
		return nil
	}
	if err != nil {
		c.state = StateError
		c.err = err
		return err
	}
	c.pages.Append(p)
	c.state = StateReady
	return nil
}

// onSessionChange resumes an idle controller when the session authenticates.
func (c *Controller) onSessionChange(prev, cur Snapshot) {
	if prev.Authenticated || !cur.Authenticated {
		return
	}
	c.mu.Lock()
	if c.closed || !c.hasIntent || c.state != StateIdle {
		c.mu.Unlock()
		return
	}
	c.state = StateLoading
	gen := c.gen
	intent := c.intent
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		if err := c.loadFirst(c.bg, gen, intent); err != nil {
			c.logger.Warn("resumed load failed", zap.Error(err))
		}
	}()
}

// dropStale must be called with mu held.
func (c *Controller) dropStale(kind string) {
	metrics.BrowseStaleDropsTotal.Inc()
	c.logger.Debug("stale page dropped", zap.String("kind", kind), zap.Uint64("generation", c.gen))
}
