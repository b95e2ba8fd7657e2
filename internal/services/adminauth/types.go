package adminauth

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrSessionNotFound = errors.New("session not found")
)

type SessionRecord struct {
	SID       string
	AdminID   string
	Role      string
	ExpiresAt time.Time
}

type AccessClaims struct {
	AdminID   string
	SID       string
	Role      string
	ExpiresAt time.Time
}
