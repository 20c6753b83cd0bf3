package auth

// AuthPayload is the login request body. The field names follow the OAuth
// client-credential convention the frontend already speaks: client_id is
// the account email, client_secret the password.
type AuthPayload struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// AuthBody is the successful login response
type AuthBody struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// NewAuthBody wraps a signed token
func NewAuthBody(accessToken string) AuthBody {
	return AuthBody{AccessToken: accessToken, TokenType: "Bearer"}
}

// LogoutResult is the successful logout response
type LogoutResult struct {
	SessionID string `json:"session_id"`
	OK        bool   `json:"ok"`
}
