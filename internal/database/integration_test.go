package database_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"tmt/internal/database"
	"tmt/internal/email"
	"tmt/internal/pagination"
	"tmt/internal/session"
	"tmt/internal/tabs"
	"tmt/internal/tags"
	"tmt/internal/users"
)

// startPostgres provisions a throwaway database and returns a migrated
// service. Set INTEGRATION=1 to run; the test is skipped otherwise so the
// suite passes without Docker.
func startPostgres(t *testing.T) database.Service {
	t.Helper()
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run database integration tests")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("tmt_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)

	svc, err := database.NewWithDB(db)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = svc.Close()
	})
	return svc
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSignupLoginAndResources(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	userSvc := users.NewService(db, email.NewSender(email.NewConfig()), testLogger())
	sessions := session.NewManager(db)

	// Signup creates the user and invite together
	resp, err := userSvc.CreateUserAndInvite(ctx, "it@example.com", "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, resp.UserID)
	require.NotEmpty(t, resp.InviteID)

	// Duplicate email is rejected
	_, err = userSvc.CreateUserAndInvite(ctx, "it@example.com", "other")
	require.ErrorIs(t, err, users.ErrEmailExists)

	// Unconfirmed users cannot log in
	ok, err := userSvc.VerifyPassword(ctx, "it@example.com", "hunter2")
	require.NoError(t, err)
	require.False(t, ok)

	inv, err := userSvc.MarkInviteSent(ctx, resp.InviteID)
	require.NoError(t, err)
	require.Equal(t, users.StatusSent, inv.Status)

	user, err := userSvc.ConfirmUser(ctx, resp.InviteID, resp.UserID, "it@example.com")
	require.NoError(t, err)
	require.True(t, user.Confirmed)

	// An accepted invite cannot confirm twice with the wrong email
	_, err = userSvc.ConfirmUser(ctx, resp.InviteID, resp.UserID, "other@example.com")
	require.ErrorIs(t, err, users.ErrInviteNotFound)

	ok, err = userSvc.VerifyPassword(ctx, "it@example.com", "hunter2")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = userSvc.VerifyPassword(ctx, "it@example.com", "wrong")
	require.NoError(t, err)
	require.False(t, ok)

	// Repeated logins share one session
	sess1, err := sessions.CreateOrGet(ctx, "it@example.com")
	require.NoError(t, err)
	sess2, err := sessions.CreateOrGet(ctx, "it@example.com")
	require.NoError(t, err)
	require.Equal(t, sess1.ID, sess2.ID)

	loaded, err := sessions.FromClaims(ctx, sess1.ID, resp.UserID)
	require.NoError(t, err)
	require.Equal(t, sess1.ID, loaded.ID)

	_, err = sessions.FromClaims(ctx, sess1.ID, "someone-else")
	require.ErrorIs(t, err, session.ErrSessionNotFound)

	require.NoError(t, sessions.Delete(ctx, sess1.ID))
	_, err = sessions.FromClaims(ctx, sess1.ID, resp.UserID)
	require.ErrorIs(t, err, session.ErrSessionNotFound)

	testTabsAndTags(t, db, resp.UserID)
}

func TestExpiryEnforcedOnRows(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	userSvc := users.NewService(db, email.NewSender(email.NewConfig()), testLogger())
	sessions := session.NewManager(db)

	resp, err := userSvc.CreateUserAndInvite(ctx, "late@example.com", "hunter2")
	require.NoError(t, err)

	// Push the invite past its window; confirming must fail and leave the
	// user unconfirmed
	_, err = db.Exec(ctx,
		`UPDATE invites SET expires = NOW() - INTERVAL '1 hour' WHERE id = $1`,
		resp.InviteID)
	require.NoError(t, err)

	_, err = userSvc.ConfirmUser(ctx, resp.InviteID, resp.UserID, "late@example.com")
	require.ErrorIs(t, err, users.ErrInviteNotFound)

	var confirmed bool
	err = db.QueryRow(ctx,
		`SELECT confirmed FROM users WHERE id = $1`, resp.UserID).Scan(&confirmed)
	require.NoError(t, err)
	require.False(t, confirmed)

	var status string
	err = db.QueryRow(ctx,
		`SELECT status FROM invites WHERE id = $1`, resp.InviteID).Scan(&status)
	require.NoError(t, err)
	require.Equal(t, string(users.StatusCreated), status)

	// Restore the window so the account can be confirmed and logged in
	_, err = db.Exec(ctx,
		`UPDATE invites SET expires = NOW() + INTERVAL '1 hour' WHERE id = $1`,
		resp.InviteID)
	require.NoError(t, err)

	user, err := userSvc.ConfirmUser(ctx, resp.InviteID, resp.UserID, "late@example.com")
	require.NoError(t, err)
	require.True(t, user.Confirmed)

	sess, err := sessions.CreateOrGet(ctx, "late@example.com")
	require.NoError(t, err)

	loaded, err := sessions.FromClaims(ctx, sess.ID, resp.UserID)
	require.NoError(t, err)
	require.Equal(t, sess.ID, loaded.ID)

	// A session row past its expiry is expired, not missing
	_, err = db.Exec(ctx,
		`UPDATE sessions SET expires = NOW() - INTERVAL '1 minute' WHERE id = $1`,
		sess.ID)
	require.NoError(t, err)

	_, err = sessions.FromClaims(ctx, sess.ID, resp.UserID)
	require.ErrorIs(t, err, session.ErrSessionExpired)
}

func testTabsAndTags(t *testing.T, db database.Service, userID string) {
	ctx := context.Background()
	tabRepo := tabs.NewRepository(db)
	tagRepo := tags.NewRepository(db)
	tabSvc := tabs.NewService(tabRepo)
	tagSvc := tags.NewService(tagRepo)

	notes := "read later"
	tab, err := tabSvc.Create(ctx, userID, "https://example.com", &notes)
	require.NoError(t, err)

	got, err := tabSvc.Get(ctx, userID, tab.ID)
	require.NoError(t, err)
	require.Equal(t, tab.ID, got.ID)

	// Foreign user sees the tab as absent
	_, err = tabSvc.Get(ctx, "other-user", tab.ID)
	require.ErrorIs(t, err, tabs.ErrTabNotFound)

	tag, err := tagSvc.Create(ctx, userID, "reading")
	require.NoError(t, err)

	// Attach is idempotent
	_, err = tagSvc.Attach(ctx, userID, tab.ID, tag.ID)
	require.NoError(t, err)
	_, err = tagSvc.Attach(ctx, userID, tab.ID, tag.ID)
	require.NoError(t, err)

	// Ownership gate fires before the write
	_, err = tagSvc.Attach(ctx, "other-user", tab.ID, tag.ID)
	require.ErrorIs(t, err, tags.ErrNotOwner)

	// Full tag-set replace: keep the existing tag, mint a fresh one
	updated, err := tabSvc.Update(ctx, userID, tab.ID,
		tabs.TabPatch{URL: "https://example.com/changed"},
		[]tags.MaybeNewTag{
			{ID: &tag.ID, UserID: userID, Tag: tag.Tag},
			{UserID: userID, Tag: "later"},
		})
	require.NoError(t, err)
	require.Equal(t, "https://example.com/changed", updated.Tab.URL)
	require.Len(t, updated.Tags, 2)

	// Replaying the same set leaves it set-equal
	refs := make([]tags.MaybeNewTag, 0, len(updated.Tags))
	for i := range updated.Tags {
		refs = append(refs, tags.MaybeNewTag{
			ID:     &updated.Tags[i].ID,
			UserID: userID,
			Tag:    updated.Tags[i].Tag,
		})
	}
	replayed, err := tabSvc.Update(ctx, userID, tab.ID,
		tabs.TabPatch{URL: "https://example.com/changed"}, refs)
	require.NoError(t, err)
	require.Len(t, replayed.Tags, 2)

	// Fuzzy search is case-insensitive and scoped to the owner
	matches, err := tagSvc.Search(ctx, userID, "REA")
	require.NoError(t, err)
	require.Len(t, matches.Matches, 1)
	require.Equal(t, "reading", matches.Matches[0].Tag)

	matches, err = tagSvc.Search(ctx, "other-user", "rea")
	require.NoError(t, err)
	require.Empty(t, matches.Matches)

	page, err := tagSvc.List(ctx, userID, pagination.New(1, 25))
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	require.False(t, page.HasMore)

	// Tags come back alphabetically descending
	require.Equal(t, "reading", page.Results[0].Tag)
	require.Equal(t, "later", page.Results[1].Tag)

	tabPage, err := tabSvc.List(ctx, userID, pagination.New(1, 25))
	require.NoError(t, err)
	require.Len(t, tabPage.Results, 1)

	require.NoError(t, tabSvc.Delete(ctx, userID, tab.ID))
	require.ErrorIs(t, tabSvc.Delete(ctx, userID, tab.ID), tabs.ErrTabNotFound)

	// Cascade removed the links; the tags themselves remain
	page, err = tagSvc.List(ctx, userID, pagination.New(1, 25))
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
}
