package auth

import (
	"path/filepath"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/internal/storage"
)

func newStore(t *testing.T) storage.Provider {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "store.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	return store
}

func TestSaveAndCurrent(t *testing.T) {
	gokeyring.MockInit()
	store := newStore(t)

	user := models.User{Username: "alice", Role: "student", Batch: "B1"}
	if err := Save(store, user, "tok-1"); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, ok := Current(store)
	if !ok {
		t.Fatal("Current() reported no session after Save()")
	}
	if got != user {
		t.Errorf("Current() = %+v, want %+v", got, user)
	}

	if token := TokenSource(store)(); token != "tok-1" {
		t.Errorf("TokenSource() = %q, want %q", token, "tok-1")
	}
}

func TestClear(t *testing.T) {
	gokeyring.MockInit()
	store := newStore(t)

	user := models.User{Username: "bob", Role: "student", Batch: "B2"}
	if err := Save(store, user, "tok-2"); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := Clear(store); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}

	if _, ok := Current(store); ok {
		t.Error("Current() found a session after Clear()")
	}
	if token := TokenSource(store)(); token != "" {
		t.Errorf("TokenSource() = %q after Clear(), want empty", token)
	}
}

func TestTokenSourceNoSession(t *testing.T) {
	gokeyring.MockInit()
	store := newStore(t)

	if token := TokenSource(store)(); token != "" {
		t.Errorf("TokenSource() = %q with no session, want empty", token)
	}
}

func TestSessionsPerUserSurviveSwitching(t *testing.T) {
	gokeyring.MockInit()
	store := newStore(t)

	alice := models.User{Username: "alice", Role: "student", Batch: "B1"}
	carol := models.User{Username: "carol", Role: "admin"}
	if err := Save(store, alice, "tok-a"); err != nil {
		t.Fatalf("Save(alice) failed: %v", err)
	}
	if err := Save(store, carol, "tok-c"); err != nil {
		t.Fatalf("Save(carol) failed: %v", err)
	}

	// carol is current; alice's record is retained
	got, ok := Current(store)
	if !ok || got.Username != "carol" {
		t.Errorf("Current() = (%+v, %v), want carol", got, ok)
	}
	if token := TokenSource(store)(); token != "tok-c" {
		t.Errorf("TokenSource() = %q, want %q", token, "tok-c")
	}
}
