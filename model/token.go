// file: model/token.go

package model

import "time"

// RefreshToken is a row of the refresh token ledger. The signed token string
// itself is the lookup key.
type RefreshToken struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
