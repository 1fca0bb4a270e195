// ABOUTME: Tests for the simulation session store.
// ABOUTME: Covers capacity eviction, TTL cleanup, and access refresh.

package web

import (
	"testing"
	"time"

	"github.com/statemap-research/basin/boolnet"
)

func testStepper(t *testing.T) *boolnet.Stepper {
	t.Helper()
	net, err := boolnet.Compile(nil, []string{"A = !A"})
	if err != nil {
		t.Fatalf("compile network: %v", err)
	}
	return boolnet.NewStepper(net, 0)
}

func TestSessionStoreCreateAndGet(t *testing.T) {
	st := NewSessionStore(10, time.Hour)

	sim := st.Create("net-1", testStepper(t))
	if sim.ID == "" {
		t.Fatal("expected a session id")
	}
	if sim.NetworkID != "net-1" {
		t.Errorf("expected network id net-1, got %q", sim.NetworkID)
	}

	got, ok := st.Get(sim.ID)
	if !ok {
		t.Fatal("expected to find the session")
	}
	if got != sim {
		t.Error("expected the same session instance")
	}

	if _, ok := st.Get("missing"); ok {
		t.Error("expected a miss for an unknown id")
	}
}

func TestSessionStoreEvictsOldestAtCapacity(t *testing.T) {
	st := NewSessionStore(2, time.Hour)

	first := st.Create("net-1", testStepper(t))
	second := st.Create("net-1", testStepper(t))
	first.LastAccess = time.Now().Add(-time.Minute)

	third := st.Create("net-1", testStepper(t))

	if st.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", st.Len())
	}
	if _, ok := st.Get(first.ID); ok {
		t.Error("expected the oldest session to be evicted")
	}
	if _, ok := st.Get(second.ID); !ok {
		t.Error("expected the newer session to survive")
	}
	if _, ok := st.Get(third.ID); !ok {
		t.Error("expected the newest session to survive")
	}
}

func TestSessionStoreCleanupRemovesIdleSessions(t *testing.T) {
	st := NewSessionStore(10, time.Minute)

	idle := st.Create("net-1", testStepper(t))
	active := st.Create("net-1", testStepper(t))
	idle.LastAccess = time.Now().Add(-time.Hour)

	if removed := st.Cleanup(); removed != 1 {
		t.Fatalf("expected 1 removed session, got %d", removed)
	}
	if _, ok := st.Get(idle.ID); ok {
		t.Error("expected the idle session to be gone")
	}
	if _, ok := st.Get(active.ID); !ok {
		t.Error("expected the active session to remain")
	}
}

func TestSessionStoreGetRefreshesAccessTime(t *testing.T) {
	st := NewSessionStore(10, time.Minute)

	sim := st.Create("net-1", testStepper(t))
	sim.LastAccess = time.Now().Add(-time.Hour)

	if _, ok := st.Get(sim.ID); !ok {
		t.Fatal("expected to find the session")
	}

	if removed := st.Cleanup(); removed != 0 {
		t.Errorf("expected refreshed session to survive cleanup, removed %d", removed)
	}
}
