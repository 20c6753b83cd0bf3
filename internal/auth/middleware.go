package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tmt/internal/session"
	"tmt/internal/token"
)

// Context keys set by the middlewares
const (
	CtxUserID    = "user_id"
	CtxSessionID = "session_id"
)

// TokenMiddleware extracts and decodes the bearer token without consulting
// the session store. Logout uses it so that a token whose session is
// already gone can still log out cleanly.
func TokenMiddleware(codec *token.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := decodeBearer(c, codec)
		if !ok {
			return
		}
		c.Set(CtxUserID, claims.UserID())
		c.Set(CtxSessionID, claims.SessionID())
		c.Next()
	}
}

// SessionMiddleware decodes the bearer token and verifies that the session
// it references still exists and has not expired. The database row is the
// authoritative expiry check. On success the resolved identity is injected
// into the gin context.
func SessionMiddleware(codec *token.Codec, sessions session.Manager, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := decodeBearer(c, codec)
		if !ok {
			return
		}

		sess, err := sessions.FromClaims(c.Request.Context(), claims.SessionID(), claims.UserID())
		if err != nil {
			switch {
			case errors.Is(err, session.ErrSessionNotFound):
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
			case errors.Is(err, session.ErrSessionExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token Expired"})
			default:
				logger.Error("failed to load session", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			}
			return
		}

		c.Set(CtxUserID, sess.UserID)
		c.Set(CtxSessionID, sess.ID)
		c.Next()
	}
}

// decodeBearer pulls the Authorization header apart and decodes the token,
// aborting the request on failure.
func decodeBearer(c *gin.Context, codec *token.Codec) (*token.Claims, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
		return nil, false
	}

	claims, err := codec.Decode(parts[1])
	if err != nil {
		if errors.Is(err, token.ErrTokenExpired) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token Expired"})
		} else {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
		}
		return nil, false
	}
	return claims, true
}

// UserID extracts the authenticated user id from the gin context
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// SessionID extracts the authenticated session id from the gin context
func SessionID(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxSessionID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
