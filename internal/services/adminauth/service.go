package adminauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

type SessionStore interface {
	Create(ctx context.Context, session SessionRecord) error
	GetSession(ctx context.Context, sid string) (SessionRecord, error)
	DeleteSession(ctx context.Context, sid string) error
}

type Service struct {
	jwt        *JWTManager
	sessions   SessionStore
	sessionTTL time.Duration
	now        func() time.Time
}

type SessionResult struct {
	AccessToken   string
	AccessExpires time.Time
	SID           string
}

func NewService(jwtManager *JWTManager, sessions SessionStore, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}

	return &Service{
		jwt:        jwtManager,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// CreateSession opens a moderator session and issues its access token.
// Operator credential checks happen upstream; this subsystem only needs a
// verifiable actor identity for the audit trail.
func (s *Service) CreateSession(ctx context.Context, adminID, role string) (SessionResult, error) {
	if strings.TrimSpace(adminID) == "" {
		return SessionResult{}, ErrInvalidInput
	}
	if role != RoleAdmin && role != RoleModerator {
		return SessionResult{}, ErrInvalidInput
	}
	if s.jwt == nil || s.sessions == nil {
		return SessionResult{}, fmt.Errorf("admin auth dependencies are not configured")
	}

	sid := uuid.NewString()
	expiresAt := s.now().UTC().Add(s.sessionTTL)

	if err := s.sessions.Create(ctx, SessionRecord{
		SID:       sid,
		AdminID:   adminID,
		Role:      role,
		ExpiresAt: expiresAt,
	}); err != nil {
		return SessionResult{}, fmt.Errorf("create admin session: %w", err)
	}

	token, tokenExpires, err := s.jwt.GenerateAccessToken(adminID, sid, role)
	if err != nil {
		return SessionResult{}, fmt.Errorf("generate admin access token: %w", err)
	}

	return SessionResult{
		AccessToken:   token,
		AccessExpires: tokenExpires,
		SID:           sid,
	}, nil
}

func (s *Service) ValidateAccessToken(ctx context.Context, raw string) (AccessClaims, error) {
	if s.jwt == nil || s.sessions == nil {
		return AccessClaims{}, fmt.Errorf("admin auth dependencies are not configured")
	}

	claims, err := s.jwt.ParseAccessToken(raw)
	if err != nil {
		return AccessClaims{}, err
	}

	session, err := s.sessions.GetSession(ctx, claims.SID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return AccessClaims{}, ErrUnauthorized
		}
		return AccessClaims{}, fmt.Errorf("get admin session: %w", err)
	}
	if session.AdminID != claims.AdminID {
		return AccessClaims{}, ErrUnauthorized
	}
	if s.now().UTC().After(session.ExpiresAt) {
		return AccessClaims{}, ErrUnauthorized
	}

	return claims, nil
}

func (s *Service) Logout(ctx context.Context, sid string) error {
	if strings.TrimSpace(sid) == "" {
		return ErrInvalidInput
	}
	if s.sessions == nil {
		return fmt.Errorf("admin auth dependencies are not configured")
	}
	return s.sessions.DeleteSession(ctx, sid)
}
