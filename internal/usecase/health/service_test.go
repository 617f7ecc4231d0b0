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
	svc := New(&mockPinger{}).WithCache(&mockPinger{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks[ComponentIndex] != CheckOK {
		t.Errorf("expected index %q, got %q", CheckOK, r.Checks[ComponentIndex])
	}
	if r.Checks[ComponentCache] != CheckOK {
		t.Errorf("expected cache %q, got %q", CheckOK, r.Checks[ComponentCache])
	}
}

func TestCheck_IndexError(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("conn refused")}).WithCache(&mockPinger{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[ComponentIndex] != CheckError {
		t.Errorf("expected index %q, got %q", CheckError, r.Checks[ComponentIndex])
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(&mockPinger{}).WithCache(&mockPinger{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[ComponentCache] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks[ComponentCache])
	}
}

func TestCheck_AllFail(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("db down")}).WithCache(&mockPinger{err: errors.New("cache down")})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_StaticIndexNoCache(t *testing.T) {
	svc := New(nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks[ComponentCache]; ok {
		t.Error("cache should not be reported when not configured")
	}
	if r.Checks[ComponentIndex] != CheckOK {
		t.Errorf("expected index %q, got %q", CheckOK, r.Checks[ComponentIndex])
	}
}
