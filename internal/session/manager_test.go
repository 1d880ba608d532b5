package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"chirp/internal/model"
)

// makeToken forges an unsigned JWT carrying the identity claims the
// server embeds. The manager never verifies signatures.
func makeToken(t *testing.T, userID int64, username string) string {
	t.Helper()
	enc := func(v any) string {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatal(err)
		}
		return base64.RawURLEncoding.EncodeToString(b)
	}
	header := enc(map[string]string{"alg": "HS256", "typ": "JWT"})
	payload := enc(map[string]any{
		"token_type": "access",
		"user_id":    userID,
		"username":   username,
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
	sig := base64.RawURLEncoding.EncodeToString([]byte("x"))
	return header + "." + payload + "." + sig
}

type fakeAuthAPI struct {
	loginPair    model.TokenPair
	loginErr     error
	registerErr  error
	registered   int
	logoutCalls  []string
	logoutErr    error
	refreshPair  model.TokenPair
	refreshErr   error
	refreshCalls int
}

func (f *fakeAuthAPI) Login(ctx context.Context, username, password string) (model.TokenPair, error) {
	return f.loginPair, f.loginErr
}

func (f *fakeAuthAPI) Register(ctx context.Context, username, password, confirmation string) error {
	f.registered++
	return f.registerErr
}

func (f *fakeAuthAPI) Logout(ctx context.Context, refresh string) error {
	f.logoutCalls = append(f.logoutCalls, refresh)
	return f.logoutErr
}

func (f *fakeAuthAPI) RefreshToken(ctx context.Context, refresh string) (model.TokenPair, error) {
	f.refreshCalls++
	return f.refreshPair, f.refreshErr
}

func newTestManager(t *testing.T, api AuthAPI) *Manager {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "storage.json"))
	return NewManager(store, api, time.Minute)
}

func TestStartupWithoutTokensIsAnonymous(t *testing.T) {
	m := newTestManager(t, &fakeAuthAPI{})
	if m.Authenticated() {
		t.Fatal("expected anonymous startup")
	}
	if _, ok := m.User(); ok {
		t.Fatal("no user without tokens")
	}
	if m.AccessToken() != "" {
		t.Fatal("anonymous access token must be empty")
	}
}

func TestStartupRestoresStoredSession(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "storage.json"))
	access := makeToken(t, 7, "ada")
	if err := store.Save(model.TokenPair{Access: access, Refresh: "r"}); err != nil {
		t.Fatal(err)
	}
	m := NewManager(store, &fakeAuthAPI{}, time.Minute)
	user, ok := m.User()
	if !ok || user.ID != 7 || user.Username != "ada" {
		t.Fatalf("restored identity mismatch: %+v ok=%v", user, ok)
	}
	if m.AccessToken() != access {
		t.Fatal("restored access token mismatch")
	}
}

func TestStartupDiscardsUndecodableToken(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "storage.json"))
	if err := store.Save(model.TokenPair{Access: "not-a-jwt", Refresh: "r"}); err != nil {
		t.Fatal(err)
	}
	m := NewManager(store, &fakeAuthAPI{}, time.Minute)
	if m.Authenticated() {
		t.Fatal("undecodable token should leave the session anonymous")
	}
	if pair, _ := store.Load(); pair != nil {
		t.Fatal("bad stored token should be cleared")
	}
}

func TestLoginActivatesAndPersists(t *testing.T) {
	access := makeToken(t, 3, "grace")
	api := &fakeAuthAPI{loginPair: model.TokenPair{Access: access, Refresh: "r1"}}
	store := NewStore(filepath.Join(t.TempDir(), "storage.json"))
	m := NewManager(store, api, time.Minute)
	if err := m.Login(context.Background(), "grace", "pw"); err != nil {
		t.Fatal(err)
	}
	user, ok := m.User()
	if !ok || user.Username != "grace" || user.ID != 3 {
		t.Fatalf("identity not derived from token: %+v", user)
	}
	pair, err := store.Load()
	if err != nil || pair == nil || pair.Refresh != "r1" {
		t.Fatalf("session not persisted: %+v %v", pair, err)
	}
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	api := &fakeAuthAPI{loginErr: errors.New("bad credentials")}
	m := newTestManager(t, api)
	if err := m.Login(context.Background(), "x", "y"); err == nil {
		t.Fatal("expected error")
	}
	if m.Authenticated() {
		t.Fatal("failed login must not create a session")
	}
}

func TestRegisterMismatchNeverHitsNetwork(t *testing.T) {
	api := &fakeAuthAPI{}
	m := newTestManager(t, api)
	err := m.Register(context.Background(), "ada", "pw1", "pw2")
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if api.registered != 0 {
		t.Fatalf("network call issued on local validation failure: %d", api.registered)
	}
}

func TestRegisterDoesNotAlterActiveSession(t *testing.T) {
	access := makeToken(t, 1, "ada")
	api := &fakeAuthAPI{loginPair: model.TokenPair{Access: access, Refresh: "r"}}
	m := newTestManager(t, api)
	if err := m.Login(context.Background(), "ada", "pw"); err != nil {
		t.Fatal(err)
	}
	if err := m.Register(context.Background(), "other", "pw", "pw"); err != nil {
		t.Fatal(err)
	}
	if tok := m.AccessToken(); tok != access {
		t.Fatal("register changed the active session")
	}
}

func TestLogoutClearsLocallyDespiteServerError(t *testing.T) {
	access := makeToken(t, 1, "ada")
	api := &fakeAuthAPI{
		loginPair: model.TokenPair{Access: access, Refresh: "r9"},
		logoutErr: errors.New("server down"),
	}
	store := NewStore(filepath.Join(t.TempDir(), "storage.json"))
	m := NewManager(store, api, time.Minute)
	if err := m.Login(context.Background(), "ada", "pw"); err != nil {
		t.Fatal(err)
	}
	m.Logout(context.Background())
	if m.Authenticated() {
		t.Fatal("logout must complete locally regardless of server errors")
	}
	if pair, _ := store.Load(); pair != nil {
		t.Fatal("store not cleared")
	}
	if len(api.logoutCalls) != 1 || api.logoutCalls[0] != "r9" {
		t.Fatalf("server not notified with refresh token: %v", api.logoutCalls)
	}
}

func TestRefreshReplacesTokensInPlace(t *testing.T) {
	oldAccess := makeToken(t, 1, "ada")
	newAccess := makeToken(t, 1, "ada")
	api := &fakeAuthAPI{
		loginPair:   model.TokenPair{Access: oldAccess, Refresh: "r-old"},
		refreshPair: model.TokenPair{Access: newAccess, Refresh: "r-new"},
	}
	m := newTestManager(t, api)
	if err := m.Login(context.Background(), "ada", "pw"); err != nil {
		t.Fatal(err)
	}
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if m.AccessToken() != newAccess {
		t.Fatal("access token not replaced")
	}
	if !m.Authenticated() {
		t.Fatal("refresh success must keep the session active")
	}
}

func TestRefreshWithoutRotationKeepsRefreshToken(t *testing.T) {
	access := makeToken(t, 1, "ada")
	api := &fakeAuthAPI{
		loginPair:   model.TokenPair{Access: access, Refresh: "r-keep"},
		refreshPair: model.TokenPair{Access: makeToken(t, 1, "ada")},
	}
	m := newTestManager(t, api)
	if err := m.Login(context.Background(), "ada", "pw"); err != nil {
		t.Fatal(err)
	}
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	m.mu.Lock()
	refresh := m.tokens.Refresh
	m.mu.Unlock()
	if refresh != "r-keep" {
		t.Fatalf("refresh token lost on non-rotating response: %q", refresh)
	}
}

func TestRefreshFailureForcesLogout(t *testing.T) {
	access := makeToken(t, 1, "ada")
	api := &fakeAuthAPI{
		loginPair:  model.TokenPair{Access: access, Refresh: "r"},
		refreshErr: errors.New("token blacklisted"),
	}
	m := newTestManager(t, api)
	if err := m.Login(context.Background(), "ada", "pw"); err != nil {
		t.Fatal(err)
	}
	if err := m.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if m.Authenticated() {
		t.Fatal("refresh failure must force logout")
	}
}

func TestRefreshWhileAnonymousIsNoop(t *testing.T) {
	api := &fakeAuthAPI{}
	m := newTestManager(t, api)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if api.refreshCalls != 0 {
		t.Fatal("anonymous refresh should not call the server")
	}
}
