package models

import (
	"time"

	"github.com/google/uuid"
)

// TokenResponse is the payload returned after a successful login or refresh.
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	UserID       uuid.UUID `json:"user_id"`
	Role         Role      `json:"role"`
	IssuedAt     time.Time `json:"issued_at"`
}
