package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"chirp/internal/logging"
	"chirp/internal/metrics"
	"chirp/internal/model"
)

// ErrPasswordMismatch is returned by Register before any network call when
// the confirmation does not match.
var ErrPasswordMismatch = errors.New("passwords do not match")

// AuthAPI is the slice of the API client the session manager needs.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (model.TokenPair, error)
	Register(ctx context.Context, username, password, confirmation string) error
	Logout(ctx context.Context, refresh string) error
	RefreshToken(ctx context.Context, refresh string) (model.TokenPair, error)
}

// Manager owns the one session per process: Anonymous, or Active with a
// token pair and the identity decoded from the access token. It is the
// only writer of the token store.
//
//	Anonymous --login ok--> Active
//	Active --logout or refresh failure--> Anonymous
//	Active --refresh ok--> Active (tokens replaced in place)
type Manager struct {
	mu            sync.Mutex
	store         *Store
	api           AuthAPI
	refreshPeriod time.Duration

	tokens *model.TokenPair
	user   *Identity
}

// NewManager restores any stored session. A corrupt or undecodable stored
// token is discarded rather than failing startup.
func NewManager(store *Store, api AuthAPI, refreshPeriod time.Duration) *Manager {
	m := &Manager{store: store, api: api, refreshPeriod: refreshPeriod}
	pair, err := store.Load()
	if err != nil {
		logging.Warn("session_restore_failed", map[string]any{"error": err.Error()})
		return m
	}
	if pair == nil {
		return m
	}
	ident, err := decodeIdentity(pair.Access)
	if err != nil {
		logging.Warn("session_restore_bad_token", map[string]any{"error": err.Error()})
		_ = store.Clear()
		return m
	}
	m.tokens = pair
	m.user = &ident
	logging.Info("session_restored", map[string]any{"username": ident.Username})
	return m
}

// Login exchanges credentials for a session. On failure nothing changes.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	pair, err := m.api.Login(ctx, username, password)
	if err != nil {
		return err
	}
	ident, err := decodeIdentity(pair.Access)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.tokens = &pair
	m.user = &ident
	m.mu.Unlock()
	if err := m.store.Save(pair); err != nil {
		logging.Warn("session_persist_failed", map[string]any{"error": err.Error()})
	}
	logging.Info("login", map[string]any{"username": ident.Username})
	return nil
}

// Register creates an account. The confirmation check happens locally;
// a mismatch never reaches the network. The active session, if any, is
// untouched either way.
func (m *Manager) Register(ctx context.Context, username, password, confirmation string) error {
	if password != confirmation {
		return ErrPasswordMismatch
	}
	return m.api.Register(ctx, username, password, confirmation)
}

// Logout clears local state first, then best-effort tells the server to
// blacklist the refresh token. A network failure never blocks the local
// logout.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	var refresh string
	if m.tokens != nil {
		refresh = m.tokens.Refresh
	}
	m.tokens = nil
	m.user = nil
	m.mu.Unlock()
	if err := m.store.Clear(); err != nil {
		logging.Warn("session_clear_failed", map[string]any{"error": err.Error()})
	}
	if refresh != "" {
		if err := m.api.Logout(ctx, refresh); err != nil {
			logging.Warn("logout_notify_failed", map[string]any{"error": err.Error()})
		}
	}
	logging.Info("logout", nil)
}

// Refresh exchanges the refresh token for a new access token. Any failure
// forces a logout. When the server does not rotate the refresh token the
// old one is kept.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	if m.tokens == nil {
		m.mu.Unlock()
		return nil
	}
	refresh := m.tokens.Refresh
	m.mu.Unlock()

	pair, err := m.api.RefreshToken(ctx, refresh)
	if err != nil {
		metrics.TokenRefreshFailures.Inc()
		logging.Error("token_refresh_failed", map[string]any{"error": err.Error()})
		m.Logout(ctx)
		return err
	}
	if pair.Refresh == "" {
		pair.Refresh = refresh
	}
	ident, err := decodeIdentity(pair.Access)
	if err != nil {
		metrics.TokenRefreshFailures.Inc()
		logging.Error("token_refresh_bad_token", map[string]any{"error": err.Error()})
		m.Logout(ctx)
		return err
	}
	m.mu.Lock()
	m.tokens = &pair
	m.user = &ident
	m.mu.Unlock()
	if err := m.store.Save(pair); err != nil {
		logging.Warn("session_persist_failed", map[string]any{"error": err.Error()})
	}
	metrics.TokenRefreshes.Inc()
	return nil
}

// Run refreshes on a timer until the context ends. The period must be
// comfortably shorter than the access-token lifetime.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.refreshPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if m.Authenticated() {
				_ = m.Refresh(ctx)
			}
		}
	}
}

// AccessToken implements apiclient.TokenSource. Empty when anonymous.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokens == nil {
		return ""
	}
	return m.tokens.Access
}

// User returns the identity decoded from the access token, if any.
func (m *Manager) User() (Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return Identity{}, false
	}
	return *m.user, true
}

// Authenticated reports whether a session is active.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens != nil
}
