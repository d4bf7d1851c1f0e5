package page

import "context"

// Cursor is an opaque server-issued locator for the next page.
// It is dereferenced as is and never parsed.
type Cursor struct {
	link string
}

// NewCursor wraps a next-page link. An empty link is terminal.
func NewCursor(link string) Cursor { return Cursor{link: link} }

// IsTerminal reports whether there is no further page.
func (c Cursor) IsTerminal() bool { return c.link == "" }

// Link returns the raw locator.
func (c Cursor) Link() string { return c.link }

// Page is one slice of a server-paginated listing.
type Page[T any] struct {
	Items []T
	Next  Cursor
}

// New builds a page, replacing a nil item list with an empty one.
func New[T any](items []T, next string) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Next: NewCursor(next)}
}

// Empty is the terminal page with no items.
func Empty[T any]() Page[T] {
	return Page[T]{Items: []T{}}
}

// Envelope is the list response shape of the data API.
type Envelope[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"nextLink,omitempty"`
}

// Page converts the envelope, tolerating a missing value field.
func (e Envelope[T]) Page() Page[T] {
	return New(e.Value, e.NextLink)
}

// Follower dereferences a cursor into the next page.
type Follower[T any] interface {
	Follow(ctx context.Context, c Cursor) (Page[T], error)
}

// FetchNext follows c unless it is terminal, in which case it returns an
// empty terminal page without calling f.
func FetchNext[T any](ctx context.Context, f Follower[T], c Cursor) (Page[T], error) {
	if c.IsTerminal() {
		return Empty[T](), nil
	}
	return f.Follow(ctx, c)
}

// Sequence is the pages fetched so far for one query, in fetch order.
type Sequence[T any] struct {
	pages []Page[T]
}

// Append adds the next page.
func (s *Sequence[T]) Append(p Page[T]) { s.pages = append(s.pages, p) }

// Reset drops every page.
func (s *Sequence[T]) Reset() { s.pages = nil }

// Len returns the number of pages.
func (s *Sequence[T]) Len() int { return len(s.pages) }

// Last returns the cursor of the newest page, terminal when empty.
func (s *Sequence[T]) Last() (Cursor, bool) {
	if len(s.pages) == 0 {
		return Cursor{}, false
	}
	return s.pages[len(s.pages)-1].Next, true
}

// HasMore reports whether the newest page points to another one.
func (s *Sequence[T]) HasMore() bool {
	c, ok := s.Last()
	return ok && !c.IsTerminal()
}

// Flatten concatenates items in page order, then in-page order.
func (s *Sequence[T]) Flatten() []T {
	n := 0
	for _, p := range s.pages {
		n += len(p.Items)
	}
	out := make([]T, 0, n)
	for _, p := range s.pages {
		out = append(out, p.Items...)
	}
	return out
}
