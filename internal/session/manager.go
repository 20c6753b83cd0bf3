// Package session manages server-side login sessions. Sessions live in the
// sessions table; a user has at most one at a time, and expiry is enforced
// by timestamp comparison at read time rather than a background sweep.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tmt/internal/database"
)

// TTL is how long a newly created session remains valid.
const TTL = 15 * time.Minute

var (
	// ErrSessionNotFound is returned when no session matches the lookup
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when the session row is past its expiry
	ErrSessionExpired = errors.New("session expired")
	// ErrUserNotFound is returned when the login email resolves to no user
	ErrUserNotFound = errors.New("user not found")
)

// Manager defines the interface for session management operations
type Manager interface {
	// CreateOrGet returns the user's existing session unchanged, or inserts
	// a fresh one with a new id and expiry
	CreateOrGet(ctx context.Context, userEmail string) (*Session, error)

	// Get retrieves a session by id
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Delete removes a session; deleting a missing session is not an error
	Delete(ctx context.Context, sessionID string) error

	// FromClaims loads the session referenced by a decoded token, requiring
	// both the session id and user id to match a live, unexpired row
	FromClaims(ctx context.Context, sessionID, userID string) (*Session, error)
}

type manager struct {
	db database.Service
}

// NewManager creates a database-backed session manager
func NewManager(db database.Service) Manager {
	return &manager{db: db}
}

func (m *manager) CreateOrGet(ctx context.Context, userEmail string) (*Session, error) {
	var userID string
	err := m.db.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, userEmail).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	sess := &Session{}
	err = m.db.QueryRow(ctx,
		`SELECT id, user_id, expires FROM sessions WHERE user_id = $1`, userID).
		Scan(&sess.ID, &sess.UserID, &sess.Expires)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	sess = &Session{
		ID:      uuid.New().String(),
		UserID:  userID,
		Expires: time.Now().Add(TTL),
	}
	_, err = m.db.Exec(ctx,
		`INSERT INTO sessions (id, user_id, expires) VALUES ($1, $2, $3)`,
		sess.ID, sess.UserID, sess.Expires)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

func (m *manager) Get(ctx context.Context, sessionID string) (*Session, error) {
	sess := &Session{}
	err := m.db.QueryRow(ctx,
		`SELECT id, user_id, expires FROM sessions WHERE id = $1`, sessionID).
		Scan(&sess.ID, &sess.UserID, &sess.Expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

func (m *manager) Delete(ctx context.Context, sessionID string) error {
	if _, err := m.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (m *manager) FromClaims(ctx context.Context, sessionID, userID string) (*Session, error) {
	sess := &Session{}
	err := m.db.QueryRow(ctx,
		`SELECT id, user_id, expires FROM sessions WHERE id = $1 AND user_id = $2`,
		sessionID, userID).
		Scan(&sess.ID, &sess.UserID, &sess.Expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if sess.Expired(time.Now()) {
		return nil, ErrSessionExpired
	}
	return sess, nil
}
