package session

import (
	"testing"
	"time"

	"github.com/drayac/Martin/internal/local"
)

func TestCreateAndGet(t *testing.T) {
	m := NewManager(time.Hour)

	s, err := m.Create(local.English)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.ID == "" {
		t.Fatalf("expected a session id")
	}
	if s.Language != local.English {
		t.Fatalf("expected english, got %v", s.Language)
	}

	got, ok := m.Get(s.ID)
	if !ok || got != s {
		t.Fatalf("expected the same session back")
	}
	if _, ok := m.Get("01ARZ3NDEKTSV4RRFFQ69G5FAV"); ok {
		t.Fatalf("unknown id should miss")
	}
}

func TestGetExpiresStaleSessions(t *testing.T) {
	m := NewManager(time.Minute)

	s, err := m.Create(local.English)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	s.LastSeen = time.Now().Add(-2 * time.Minute)

	if _, ok := m.Get(s.ID); ok {
		t.Fatalf("stale session should be dropped on lookup")
	}
	if _, ok := m.Get(s.ID); ok {
		t.Fatalf("dropped session must stay gone")
	}
}

func TestGetRefreshesLastSeen(t *testing.T) {
	m := NewManager(time.Minute)

	s, err := m.Create(local.French)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	s.LastSeen = time.Now().Add(-50 * time.Second)

	if _, ok := m.Get(s.ID); !ok {
		t.Fatalf("session inside the ttl should survive")
	}
	if time.Since(s.LastSeen) > time.Second {
		t.Fatalf("lookup should refresh last seen, got %v", s.LastSeen)
	}
}

func TestCreateSweepsStaleSessions(t *testing.T) {
	m := NewManager(time.Minute)

	stale, err := m.Create(local.English)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	stale.LastSeen = time.Now().Add(-2 * time.Minute)

	if _, err := m.Create(local.English); err != nil {
		t.Fatalf("create: %v", err)
	}
	m.mu.RLock()
	_, ok := m.byID[stale.ID]
	m.mu.RUnlock()
	if ok {
		t.Fatalf("creating a session should sweep stale ones")
	}
}

func TestBusyGate(t *testing.T) {
	s := &Session{}

	if !s.TryAcquire() {
		t.Fatalf("fresh session should acquire")
	}
	if s.TryAcquire() {
		t.Fatalf("second acquire while held must fail")
	}
	s.Release()
	if !s.TryAcquire() {
		t.Fatalf("release should free the gate")
	}
}

func TestCleanupTickCounts(t *testing.T) {
	s := &Session{}
	for want := int64(1); want <= 3; want++ {
		if got := s.CleanupTick(); got != want {
			t.Fatalf("tick %d: got %d", want, got)
		}
	}
}
