package model

import "time"

// User is user model entity
type User struct {
	ID            string
	Username      string
	Email         string
	PasswordHash  string
	Role          string
	Phone         string
	Active        bool
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
