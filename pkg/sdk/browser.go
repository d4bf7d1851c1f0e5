package apicat

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/apicat/internal/domain/search/order"
	"github.com/kailas-cloud/apicat/internal/usecase/browse"
)

// Layout is the presentation hint kept with a browser's session.
type Layout = browse.Layout

// Layouts.
const (
	LayoutGrid = browse.LayoutGrid
	LayoutList = browse.LayoutList
)

// Browser accumulates pages for one query at a time. It is safe for
// concurrent use; a response for a superseded query is discarded.
type Browser struct {
	ctrl *browse.Controller
	obs  *observer
}

// NewBrowser creates a browser whose session starts authenticated when the
// client has a token. Close it when done.
func (c *Client) NewBrowser() *Browser {
	return &Browser{
		ctrl: browse.New(c.catalog, browse.NewSession(c.authenticated), nil),
		obs:  c.obs,
	}
}

// SetQuery replaces the query and loads its first page. Setting the same
// query again is a no-op unless the last load failed. While unauthenticated
// the load is deferred until SetAuthenticated(true).
func (b *Browser) SetQuery(ctx context.Context, q Query) (err error) {
	rec := b.obs.begin("browse.query", "text", q.Text, "semantic", q.Semantic)
	defer func() { rec.end(err) }()

	intent, err := q.toIntent()
	if err != nil {
		return fmt.Errorf("set query: %w", err)
	}
	return b.ctrl.SetIntent(ctx, intent)
}

// LoadMore fetches the next page, retrying the same page after a failure.
// It reports false when there is nothing to load or another load is in
// flight.
func (b *Browser) LoadMore(ctx context.Context) (_ bool, err error) {
	rec := b.obs.begin("browse.more")
	defer func() { rec.end(err) }()

	return b.ctrl.LoadMore(ctx)
}

// View returns the accumulated items in session sort order.
func (b *Browser) View() View { return b.ctrl.View() }

// SetSort orders fetched items locally, e.g. "title:desc".
// An empty string restores server order.
func (b *Browser) SetSort(s string) error {
	spec, err := order.Parse(s)
	if err != nil {
		return err
	}
	return b.ctrl.Session().SetSort(spec)
}

// SetLayout records the presentation hint.
func (b *Browser) SetLayout(l Layout) error { return b.ctrl.Session().SetLayout(l) }

// SetAuthenticated flips the session's sign-in state. Becoming
// authenticated resumes a deferred first page in the background.
func (b *Browser) SetAuthenticated(on bool) { b.ctrl.Session().SetAuthenticated(on) }

// Wait blocks until background loads finish.
func (b *Browser) Wait() { b.ctrl.Wait() }

// Close cancels background loads and detaches from the session.
func (b *Browser) Close() { b.ctrl.Close() }
