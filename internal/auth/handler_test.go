package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"tmt/internal/session"
	"tmt/internal/token"
	"tmt/internal/users"
)

// Mock users service for testing
type mockUsersService struct {
	verifyPasswordFunc func(ctx context.Context, userEmail, candidate string) (bool, error)
}

func (m *mockUsersService) CreateUserAndInvite(ctx context.Context, userEmail, password string) (*users.UserInviteResponse, error) {
	return nil, nil
}

func (m *mockUsersService) GetInvite(ctx context.Context, inviteID string) (*users.Invite, error) {
	return nil, nil
}

func (m *mockUsersService) MarkInviteSent(ctx context.Context, inviteID string) (*users.Invite, error) {
	return nil, nil
}

func (m *mockUsersService) ConfirmUser(ctx context.Context, inviteID, userID, userEmail string) (*users.User, error) {
	return nil, nil
}

func (m *mockUsersService) VerifyPassword(ctx context.Context, userEmail, candidate string) (bool, error) {
	if m.verifyPasswordFunc != nil {
		return m.verifyPasswordFunc(ctx, userEmail, candidate)
	}
	return false, nil
}

func authRouter(us users.Service, mgr session.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(us, mgr, token.NewCodec(testSecret), discardLogger())
	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func TestAuthorize_Success(t *testing.T) {
	us := &mockUsersService{
		verifyPasswordFunc: func(ctx context.Context, userEmail, candidate string) (bool, error) {
			return true, nil
		},
	}
	mgr := &mockSessionManager{
		createOrGetFunc: func(ctx context.Context, userEmail string) (*session.Session, error) {
			return &session.Session{
				ID:      "session-1",
				UserID:  "user-1",
				Expires: time.Now().Add(session.TTL),
			}, nil
		},
	}
	r := authRouter(us, mgr)

	body, _ := json.Marshal(AuthPayload{ClientID: "a@b.com", ClientSecret: "pw"})
	req := httptest.NewRequest(http.MethodPost, "/authorize", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp AuthBody
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.TokenType != "Bearer" {
		t.Errorf("Expected token_type Bearer, got %s", resp.TokenType)
	}

	claims, err := token.NewCodec(testSecret).Decode(resp.AccessToken)
	if err != nil {
		t.Fatalf("Issued token does not decode: %v", err)
	}
	if claims.UserID() != "user-1" || claims.SessionID() != "session-1" {
		t.Errorf("Unexpected claims: sub=%s jti=%s", claims.UserID(), claims.SessionID())
	}
}

func TestAuthorize_ReusesExistingSession(t *testing.T) {
	us := &mockUsersService{
		verifyPasswordFunc: func(ctx context.Context, userEmail, candidate string) (bool, error) {
			return true, nil
		},
	}
	mgr := &mockSessionManager{
		createOrGetFunc: func(ctx context.Context, userEmail string) (*session.Session, error) {
			return &session.Session{
				ID:      "stable-session",
				UserID:  "user-1",
				Expires: time.Now().Add(session.TTL),
			}, nil
		},
	}
	r := authRouter(us, mgr)

	var sessionIDs []string
	for i := 0; i < 2; i++ {
		body, _ := json.Marshal(AuthPayload{ClientID: "a@b.com", ClientSecret: "pw"})
		req := httptest.NewRequest(http.MethodPost, "/authorize", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		var resp AuthBody
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		claims, err := token.NewCodec(testSecret).Decode(resp.AccessToken)
		if err != nil {
			t.Fatalf("Issued token does not decode: %v", err)
		}
		sessionIDs = append(sessionIDs, claims.SessionID())
	}

	if sessionIDs[0] != sessionIDs[1] {
		t.Errorf("Expected repeated logins to share a session, got %s and %s", sessionIDs[0], sessionIDs[1])
	}
}

func TestAuthorize_MissingCredentials(t *testing.T) {
	r := authRouter(&mockUsersService{}, &mockSessionManager{})

	for _, body := range []string{`{}`, `{"client_id":"a@b.com"}`, `{"client_secret":"pw"}`} {
		req := httptest.NewRequest(http.MethodPost, "/authorize", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Body %s: expected status 400, got %d", body, w.Code)
		}
	}
}

func TestAuthorize_WrongCredentials(t *testing.T) {
	us := &mockUsersService{
		verifyPasswordFunc: func(ctx context.Context, userEmail, candidate string) (bool, error) {
			return false, nil
		},
	}
	r := authRouter(us, &mockSessionManager{})

	body, _ := json.Marshal(AuthPayload{ClientID: "a@b.com", ClientSecret: "bad"})
	req := httptest.NewRequest(http.MethodPost, "/authorize", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestLogout_DeletesSession(t *testing.T) {
	var deleted string
	mgr := &mockSessionManager{
		deleteFunc: func(ctx context.Context, sessionID string) error {
			deleted = sessionID
			return nil
		},
	}
	r := authRouter(&mockUsersService{}, mgr)

	codec := token.NewCodec(testSecret)
	signed := signToken(t, codec, "user-1", "session-1", time.Now().Add(10*time.Minute))

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if deleted != "session-1" {
		t.Errorf("Expected session-1 to be deleted, got %q", deleted)
	}
}

func TestLogout_NoToken(t *testing.T) {
	r := authRouter(&mockUsersService{}, &mockSessionManager{})

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}
