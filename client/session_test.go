package client

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func tempStore(t *testing.T) *FileTokenStore {
	t.Helper()
	return NewFileTokenStore(filepath.Join(t.TempDir(), "credentials.json"))
}

func adminCreds() Credentials {
	return Credentials{
		Token: "tok",
		User:  User{ID: "u1", Username: "alice", Role: "admin", Active: true},
	}
}

func TestFileTokenStore_Roundtrip(t *testing.T) {
	store := tempStore(t)

	if _, err := store.Load(); err != ErrNoCredentials {
		t.Fatalf("expected ErrNoCredentials on empty store, got %v", err)
	}

	if err := store.Save(adminCreds()); err != nil {
		t.Fatalf("save: %v", err)
	}
	creds, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if creds.Token != "tok" || creds.User.Username != "alice" {
		t.Fatalf("loaded %+v", creds)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Load(); err != ErrNoCredentials {
		t.Fatalf("expected ErrNoCredentials after clear, got %v", err)
	}
	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestFileTokenStore_CorruptCache(t *testing.T) {
	store := tempStore(t)
	if err := store.Save(adminCreds()); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Overwrite with garbage; a corrupt cache behaves like no cache.
	if err := os.WriteFile(store.path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	if _, err := store.Load(); err != ErrNoCredentials {
		t.Fatalf("expected ErrNoCredentials for corrupt cache, got %v", err)
	}
}

func TestSession_Hydrate(t *testing.T) {
	store := tempStore(t)
	if err := store.Save(adminCreds()); err != nil {
		t.Fatalf("save: %v", err)
	}

	s := NewSession(store)
	if s.State() != StateInit {
		t.Fatalf("fresh session state = %v", s.State())
	}
	if !s.Hydrate() {
		t.Fatalf("expected hydration from cache")
	}
	if s.State() != StateHydrated {
		t.Fatalf("state after hydrate = %v", s.State())
	}
	if s.Token() != "tok" {
		t.Fatalf("token = %q", s.Token())
	}
	if user, ok := s.Current(); !ok || user.Username != "alice" {
		t.Fatalf("current = %+v, %v", user, ok)
	}
}

func TestSession_Hydrate_EmptyStore(t *testing.T) {
	s := NewSession(tempStore(t))
	if s.Hydrate() {
		t.Fatalf("hydrate must fail on an empty store")
	}
	if s.State() != StateInit {
		t.Fatalf("state = %v", s.State())
	}
}

func TestSession_Allowed(t *testing.T) {
	s := NewSession(tempStore(t))

	// Unauthenticated sessions are never allowed.
	if s.Allowed() || s.Allowed("admin") {
		t.Fatalf("unauthenticated session must not pass guards")
	}

	s.establish(adminCreds())

	if !s.Allowed() {
		t.Fatalf("empty allow-list must admit any authenticated user")
	}
	if !s.Allowed("admin") || !s.Allowed("editor", "admin") {
		t.Fatalf("admin must pass admin guards")
	}
	if s.Allowed("editor") || s.Allowed("viewer", "editor") {
		t.Fatalf("admin must not pass editor-only guards")
	}

	// An inactive cached user never passes, regardless of role.
	inactive := adminCreds()
	inactive.User.Active = false
	s.establish(inactive)
	if s.Allowed() || s.Allowed("admin") {
		t.Fatalf("inactive user must not pass guards")
	}
}

func TestSession_TeardownInvokesOnExpiredOnce(t *testing.T) {
	store := tempStore(t)
	s := NewSession(store)

	calls := 0
	s.OnExpired = func() { calls++ }
	s.establish(adminCreds())

	// Concurrent 401s from parallel requests collapse into one callback.
	s.teardown()
	s.teardown()

	if calls != 1 {
		t.Fatalf("OnExpired called %d times", calls)
	}
	if s.Token() != "" || s.State() != StateInit {
		t.Fatalf("session not cleared: token=%q state=%v", s.Token(), s.State())
	}
	if _, err := store.Load(); err != ErrNoCredentials {
		t.Fatalf("cache not cleared: %v", err)
	}

	// A new login re-arms the expiry callback.
	s.establish(adminCreds())
	s.teardown()
	if calls != 2 {
		t.Fatalf("OnExpired not re-armed, calls = %d", calls)
	}
}

func TestSession_Logout(t *testing.T) {
	store := tempStore(t)
	s := NewSession(store)

	calls := 0
	s.OnExpired = func() { calls++ }
	s.establish(adminCreds())

	s.Logout(context.Background())

	if calls != 0 {
		t.Fatalf("logout must not invoke OnExpired")
	}
	if s.Token() != "" || s.State() != StateInit {
		t.Fatalf("session not cleared after logout")
	}
	if _, err := store.Load(); err != ErrNoCredentials {
		t.Fatalf("cache not cleared after logout: %v", err)
	}
}
