package page

import (
	"context"
	"encoding/json"
	"testing"
)

type mockFollower struct {
	fn    func(ctx context.Context, c Cursor) (Page[string], error)
	calls int
}

func (m *mockFollower) Follow(ctx context.Context, c Cursor) (Page[string], error) {
	m.calls++
	return m.fn(ctx, c)
}

func TestEnvelope_MissingValue(t *testing.T) {
	var env Envelope[string]
	if err := json.Unmarshal([]byte(`{"nextLink":"https://x/next"}`), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	p := env.Page()
	if p.Items == nil || len(p.Items) != 0 {
		t.Errorf("items = %#v, want empty non-nil", p.Items)
	}
	if p.Next.IsTerminal() || p.Next.Link() != "https://x/next" {
		t.Errorf("next = %q", p.Next.Link())
	}
}

func TestCursor(t *testing.T) {
	if !NewCursor("").IsTerminal() {
		t.Error("empty cursor must be terminal")
	}
	raw := "https://host/apis?$skipToken=abc%3D%3D&$top=50"
	if got := NewCursor(raw).Link(); got != raw {
		t.Errorf("Link() = %q, want verbatim %q", got, raw)
	}
}

func TestFetchNext_TerminalSkipsCall(t *testing.T) {
	f := &mockFollower{fn: func(context.Context, Cursor) (Page[string], error) {
		t.Fatal("follower must not be called")
		return Page[string]{}, nil
	}}
	p, err := FetchNext[string](context.Background(), f, NewCursor(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Items) != 0 || !p.Next.IsTerminal() {
		t.Errorf("page = %+v", p)
	}
}

func TestFetchNext_Follows(t *testing.T) {
	f := &mockFollower{fn: func(_ context.Context, c Cursor) (Page[string], error) {
		if c.Link() != "next-1" {
			t.Errorf("link = %q", c.Link())
		}
		return New([]string{"c"}, ""), nil
	}}
	p, err := FetchNext[string](context.Background(), f, NewCursor("next-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.calls != 1 || p.Items[0] != "c" {
		t.Errorf("calls = %d, items = %v", f.calls, p.Items)
	}
}

func TestSequence(t *testing.T) {
	var s Sequence[string]
	if s.HasMore() {
		t.Error("empty sequence has no more")
	}
	if _, ok := s.Last(); ok {
		t.Error("empty sequence has no last cursor")
	}
	s.Append(New([]string{"a", "b"}, "t1"))
	if !s.HasMore() {
		t.Error("expected more after page with token")
	}
	s.Append(New([]string{"c"}, ""))
	if s.HasMore() {
		t.Error("terminal page ends the sequence")
	}
	got := s.Flatten()
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("Flatten() = %v", got)
	}
	s.Reset()
	if s.Len() != 0 || len(s.Flatten()) != 0 {
		t.Error("Reset must empty the sequence")
	}
}
