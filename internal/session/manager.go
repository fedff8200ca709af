package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/itinera/console/internal/itinera"
)

// The two fixed credential keys mirrored from the browser-storage design:
// the bearer token and the serialized user profile. They are written and
// cleared together.
const (
	credToken   = "token"
	credProfile = "profile"
)

// Session is the in-memory view of an authenticated console session.
type Session struct {
	ID          string
	UserID      string
	Role        string
	Email       string
	DisplayName string
	ExpiresAt   time.Time
}

// Manager persists sessions and their credential entries in the console's
// local store and arms one auto-logout timer per session for exactly the
// token's remaining lifetime. Logout — explicit or timer-fired — clears
// memory and durable storage unconditionally.
type Manager struct {
	db      *sql.DB
	sealKey []byte

	// OnLogout, if set, runs after a session is destroyed (explicitly or by
	// its expiry timer). Used to release per-user state such as live drafts.
	OnLogout func(sessionID, userID string)

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

func NewManager(db *sql.DB, sealKey []byte) *Manager {
	return &Manager{
		db:      db,
		sealKey: sealKey,
		timers:  make(map[string]*time.Timer),
	}
}

// Start creates a session from a fresh login response. The token must carry
// a valid future expiry; the auto-logout timer is armed for expiry − now.
func (m *Manager) Start(ctx context.Context, token string, user itinera.User) (Session, error) {
	exp, err := TokenExpiry(token, time.Now())
	if err != nil {
		return Session{}, err
	}

	s := Session{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Role:        user.Role,
		Email:       user.Email,
		DisplayName: displayName(user),
		ExpiresAt:   exp,
	}

	sealedToken, err := seal(m.sealKey, []byte(token))
	if err != nil {
		return Session{}, fmt.Errorf("sealing token: %w", err)
	}
	profile, err := json.Marshal(user)
	if err != nil {
		return Session{}, fmt.Errorf("encoding profile: %w", err)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return Session{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, role, email, display_name, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.ID, s.UserID, s.Role, s.Email, s.DisplayName, exp.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return Session{}, fmt.Errorf("storing session: %w", err)
	}
	for key, value := range map[string][]byte{credToken: sealedToken, credProfile: profile} {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO credentials (session_id, key, value) VALUES (?, ?, ?)
		`, s.ID, key, value); err != nil {
			return Session{}, fmt.Errorf("storing credential %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Session{}, err
	}

	m.armTimer(s.ID, s.UserID, exp)
	return s, nil
}

// Lookup resolves a session cookie value to a live session and its bearer
// token. An expired or unreadable session is destroyed on sight — stale
// credentials never survive a failed lookup.
func (m *Manager) Lookup(ctx context.Context, sessionID string) (Session, string, error) {
	var s Session
	var expiresAt string
	err := m.db.QueryRowContext(ctx, `
		SELECT id, user_id, role, email, display_name, expires_at
		FROM sessions WHERE id = ?
	`, sessionID).Scan(&s.ID, &s.UserID, &s.Role, &s.Email, &s.DisplayName, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, "", ErrNoSession
	}
	if err != nil {
		return Session{}, "", err
	}

	s.ExpiresAt, err = time.Parse(time.RFC3339Nano, expiresAt)
	if err != nil || !s.ExpiresAt.After(time.Now()) {
		m.Destroy(context.WithoutCancel(ctx), sessionID, s.UserID)
		return Session{}, "", ErrNoSession
	}

	var sealedToken []byte
	err = m.db.QueryRowContext(ctx, `
		SELECT value FROM credentials WHERE session_id = ? AND key = ?
	`, sessionID, credToken).Scan(&sealedToken)
	if err != nil {
		m.Destroy(context.WithoutCancel(ctx), sessionID, s.UserID)
		return Session{}, "", ErrNoSession
	}
	token, err := open(m.sealKey, sealedToken)
	if err != nil {
		m.Destroy(context.WithoutCancel(ctx), sessionID, s.UserID)
		return Session{}, "", ErrNoSession
	}

	return s, string(token), nil
}

// Profile returns the stored serialized user profile for the session.
func (m *Manager) Profile(ctx context.Context, sessionID string) (itinera.User, error) {
	var raw []byte
	err := m.db.QueryRowContext(ctx, `
		SELECT value FROM credentials WHERE session_id = ? AND key = ?
	`, sessionID, credProfile).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return itinera.User{}, ErrNoSession
	}
	if err != nil {
		return itinera.User{}, err
	}

	var u itinera.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return itinera.User{}, fmt.Errorf("decoding profile: %w", err)
	}
	return u, nil
}

// Hydrate rearms timers for sessions that survived a restart and clears the
// ones that expired while the process was down. Mirrors the app-start
// bootstrap: present and future-dated means authenticated, everything else
// is cleaned up immediately.
func (m *Manager) Hydrate(ctx context.Context) error {
	rows, err := m.db.QueryContext(ctx, `SELECT id, user_id, expires_at FROM sessions`)
	if err != nil {
		return fmt.Errorf("loading sessions: %w", err)
	}
	defer rows.Close()

	type row struct {
		id, userID string
		expiresAt  string
	}
	var all []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.userID, &r.expiresAt); err != nil {
			return err
		}
		all = append(all, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	now := time.Now()
	for _, r := range all {
		exp, err := time.Parse(time.RFC3339Nano, r.expiresAt)
		if err != nil || !exp.After(now) {
			m.Destroy(ctx, r.id, r.userID)
			continue
		}
		m.armTimer(r.id, r.userID, exp)
	}
	return nil
}

// Destroy removes the session and both credential entries, stops its timer,
// and fires the logout hook. It cannot fail in a way that leaves stale
// credentials: the delete is attempted regardless of earlier errors.
func (m *Manager) Destroy(ctx context.Context, sessionID, userID string) {
	m.mu.Lock()
	if t, ok := m.timers[sessionID]; ok {
		t.Stop()
		delete(m.timers, sessionID)
	}
	m.mu.Unlock()

	// credentials rows go with the session via ON DELETE CASCADE.
	m.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)

	if m.OnLogout != nil {
		m.OnLogout(sessionID, userID)
	}
}

func (m *Manager) armTimer(sessionID, userID string, exp time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	if t, ok := m.timers[sessionID]; ok {
		t.Stop()
	}
	m.timers[sessionID] = time.AfterFunc(time.Until(exp), func() {
		m.Destroy(context.Background(), sessionID, userID)
	})
}

// Close stops all timers without destroying sessions; they are rehydrated
// on the next start.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for id, t := range m.timers {
		t.Stop()
		delete(m.timers, id)
	}
}

func displayName(u itinera.User) string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}
