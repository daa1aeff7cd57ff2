package model

import "time"

// RefreshToken is refresh token model entity. Token is an opaque random
// string and serves as the primary key, it carries no decodable content.
type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
