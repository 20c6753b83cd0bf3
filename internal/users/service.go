// Package users implements account signup, the invite/confirmation flow,
// and password verification against the stored bcrypt hashes.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tmt/internal/database"
	"tmt/internal/email"
)

// InviteTTL is the validity window of a confirmation invite.
const InviteTTL = 7 * 24 * time.Hour

var (
	// ErrEmailExists is returned when the signup email is already registered
	ErrEmailExists = errors.New("email already registered")
	// ErrInviteNotFound is returned when no matching, unexpired invite exists
	ErrInviteNotFound = errors.New("invite not found")
)

// Service defines the user and invite operations
type Service interface {
	CreateUserAndInvite(ctx context.Context, userEmail, password string) (*UserInviteResponse, error)
	GetInvite(ctx context.Context, inviteID string) (*Invite, error)
	MarkInviteSent(ctx context.Context, inviteID string) (*Invite, error)
	ConfirmUser(ctx context.Context, inviteID, userID, userEmail string) (*User, error)

	// VerifyPassword reports whether a confirmed user with this email exists
	// and the candidate matches the stored hash. A missing user, an
	// unconfirmed user, and a wrong password are indistinguishable.
	VerifyPassword(ctx context.Context, userEmail, candidate string) (bool, error)
}

type service struct {
	db     database.Service
	mailer email.Sender
	logger *slog.Logger
}

// NewService creates a new users service
func NewService(db database.Service, mailer email.Sender, logger *slog.Logger) Service {
	return &service{db: db, mailer: mailer, logger: logger}
}

func (s *service) CreateUserAndInvite(ctx context.Context, userEmail, password string) (*UserInviteResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	resp := &UserInviteResponse{
		Email:  userEmail,
		UserID: uuid.New().String(),
	}
	inviteID := uuid.New().String()

	err = s.db.WithinTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, email, password, confirmed) VALUES ($1, $2, $3, FALSE)`,
			resp.UserID, userEmail, string(hash))
		if err != nil {
			if isUniqueViolation(err) {
				return ErrEmailExists
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO invites (id, user_id, email, status, expires) VALUES ($1, $2, $3, $4, $5)`,
			inviteID, resp.UserID, userEmail, StatusCreated, time.Now().Add(InviteTTL))
		if err != nil {
			return fmt.Errorf("failed to create invite: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp.InviteID = inviteID
	s.logger.Info("created user with invite", "user_id", resp.UserID, "invite_id", inviteID)
	return resp, nil
}

func (s *service) GetInvite(ctx context.Context, inviteID string) (*Invite, error) {
	inv := &Invite{}
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, email, status, expires FROM invites WHERE id = $1`, inviteID).
		Scan(&inv.ID, &inv.UserID, &inv.Email, &inv.Status, &inv.Expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInviteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	return inv, nil
}

func (s *service) MarkInviteSent(ctx context.Context, inviteID string) (*Invite, error) {
	inv := &Invite{}
	err := s.db.QueryRow(ctx,
		`UPDATE invites SET status = $1 WHERE id = $2
		 RETURNING id, user_id, email, status, expires`,
		StatusSent, inviteID).
		Scan(&inv.ID, &inv.UserID, &inv.Email, &inv.Status, &inv.Expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInviteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark invite sent: %w", err)
	}

	// Delivery is best effort; the invite can be re-sent by hitting the
	// endpoint again.
	if err := s.mailer.SendInvite(inv.Email, inv.UserID, inv.ID); err != nil {
		s.logger.Warn("failed to send invite email", "invite_id", inv.ID, "error", err)
	}
	return inv, nil
}

func (s *service) ConfirmUser(ctx context.Context, inviteID, userID, userEmail string) (*User, error) {
	user := &User{}
	err := s.db.WithinTx(ctx, func(tx *sql.Tx) error {
		var acceptedID string
		err := tx.QueryRowContext(ctx,
			`UPDATE invites SET status = $1
			 WHERE id = $2 AND user_id = $3 AND email = $4 AND expires > NOW()
			 RETURNING id`,
			StatusAccepted, inviteID, userID, userEmail).
			Scan(&acceptedID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInviteNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to accept invite: %w", err)
		}

		err = tx.QueryRowContext(ctx,
			`UPDATE users SET confirmed = TRUE WHERE id = $1
			 RETURNING id, email, confirmed`,
			userID).
			Scan(&user.ID, &user.Email, &user.Confirmed)
		if err != nil {
			return fmt.Errorf("failed to confirm user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("confirmed user", "user_id", user.ID)
	return user, nil
}

func (s *service) VerifyPassword(ctx context.Context, userEmail, candidate string) (bool, error) {
	var hash string
	err := s.db.QueryRow(ctx,
		`SELECT password FROM users WHERE email = $1 AND confirmed = TRUE`, userEmail).
		Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil, nil
}

// isUniqueViolation checks for a Postgres unique constraint violation
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}
