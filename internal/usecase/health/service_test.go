package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks[ComponentCatalog] != CheckOK {
		t.Errorf("expected catalog %q, got %q", CheckOK, r.Checks[ComponentCatalog])
	}
	if r.Checks[ComponentCache] != CheckOK {
		t.Errorf("expected cache %q, got %q", CheckOK, r.Checks[ComponentCache])
	}
}

func TestCheck_CatalogError(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("conn refused")}, &mockPinger{})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks[ComponentCatalog] != CheckError {
		t.Errorf("expected catalog %q, got %q", CheckError, r.Checks[ComponentCatalog])
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[ComponentCatalog] != CheckOK {
		t.Errorf("expected catalog %q, got %q", CheckOK, r.Checks[ComponentCatalog])
	}
	if r.Checks[ComponentCache] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks[ComponentCache])
	}
}

func TestCheck_BothFail(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("down")}, &mockPinger{err: errors.New("down")})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_NoCache(t *testing.T) {
	svc := New(&mockPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks[ComponentCache]; ok {
		t.Error("expected no cache check")
	}
}
