package users

import "time"

// InviteStatus is the lifecycle state of an invite
type InviteStatus string

const (
	StatusCreated  InviteStatus = "Created"
	StatusSent     InviteStatus = "Sent"
	StatusAccepted InviteStatus = "Accepted"
	StatusExpired  InviteStatus = "Expired"
)

// User represents an account. The password hash never leaves the service.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Password  string `json:"-"`
	Confirmed bool   `json:"confirmed"`
}

// Invite is a time-boxed permission to confirm a newly created account
type Invite struct {
	ID      string       `json:"id"`
	UserID  string       `json:"user_id"`
	Email   string       `json:"email"`
	Status  InviteStatus `json:"status"`
	Expires time.Time    `json:"expires"`
}

// NewUserRequest is the signup payload
type NewUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserInviteResponse is returned after signup
type UserInviteResponse struct {
	Email    string `json:"email"`
	InviteID string `json:"invite_id"`
	UserID   string `json:"user_id"`
}

// ConfirmationRequest is the payload for confirming an account
type ConfirmationRequest struct {
	Email    string `json:"email" binding:"required,email"`
	InviteID string `json:"invite_id" binding:"required"`
}
