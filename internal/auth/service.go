package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"labtasks-backend/internal/model"
	"labtasks-backend/internal/repository"
)

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	Create(ctx context.Context, username, email, passwordHash string) (uint64, error)
}

// TokenStore is the persistent revocation list. A revoked jti must never
// validate again, so Revoke may not be undone.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, userID uint64, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Session is the result of a successful login or registration.
type Session struct {
	User       model.User
	Access     string
	Refresh    string
	RefreshExp time.Time
}

// RefreshResult carries the new access token and, when rotation is on,
// the replacement refresh token for the session cookie.
type RefreshResult struct {
	Access     string
	Rotated    bool
	Refresh    string
	RefreshExp time.Time
}

// Service coordinates credential verification, token issuance, refresh
// and revocation. All dependencies are injected at construction; the
// service holds no global state.
type Service struct {
	users      UserStore
	tokens     TokenStore
	issuer     *Issuer
	bcryptCost int
	rotate     bool
}

func NewService(users UserStore, tokens TokenStore, issuer *Issuer, bcryptCost int, rotate bool) *Service {
	return &Service{users: users, tokens: tokens, issuer: issuer, bcryptCost: bcryptCost, rotate: rotate}
}

// Login verifies the credentials and issues a fresh token pair. Unknown
// username and wrong password both return ErrInvalidCredentials; store
// failures are passed through so handlers can answer 500.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.issuePair(u)
}

// Register creates the user and logs them in immediately.
func (s *Service) Register(ctx context.Context, username, email, password string) (Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return Session{}, err
	}
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	id, err := s.users.Create(ctx, username, email, string(hash))
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return Session{}, ErrUsernameTaken
		}
		return Session{}, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return Session{}, err
	}
	return s.issuePair(u)
}

// Refresh validates a presented refresh token and issues a new access
// token. With rotation enabled the presented token is revoked and a new
// refresh token minted; without it the same token stays valid until
// natural expiry. Every failure past the missing-token check collapses
// into ErrInvalidToken, including store lookup failures: an ambiguous
// revocation state must never produce a usable token.
func (s *Service) Refresh(ctx context.Context, raw string) (RefreshResult, error) {
	if strings.TrimSpace(raw) == "" {
		return RefreshResult{}, ErrMissingToken
	}
	claims, err := s.issuer.ParseRefresh(raw)
	if err != nil {
		return RefreshResult{}, ErrInvalidToken
	}
	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil || revoked {
		return RefreshResult{}, ErrInvalidToken
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return RefreshResult{}, ErrInvalidToken
	}
	access, err := s.issuer.IssueAccess(u)
	if err != nil {
		return RefreshResult{}, err
	}
	if !s.rotate {
		return RefreshResult{Access: access}, nil
	}
	// Revoke before minting the replacement so a failed rotation can
	// never leave two live tokens in the lineage.
	if err := s.tokens.Revoke(ctx, claims.ID, u.ID, claims.ExpiresAt.Time); err != nil {
		return RefreshResult{}, ErrInvalidToken
	}
	refresh, _, exp, err := s.issuer.IssueRefresh(u)
	if err != nil {
		return RefreshResult{}, err
	}
	return RefreshResult{Access: access, Rotated: true, Refresh: refresh, RefreshExp: exp}, nil
}

// Logout revokes the presented refresh token. It is a graceful no-op for
// missing, malformed or already-revoked tokens: logging out twice must
// not fail differently than once.
func (s *Service) Logout(ctx context.Context, raw string) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	claims, err := s.issuer.ParseRefresh(raw)
	if err != nil {
		return
	}
	_ = s.tokens.Revoke(ctx, claims.ID, claims.UserID, claims.ExpiresAt.Time)
}

func (s *Service) issuePair(u model.User) (Session, error) {
	access, err := s.issuer.IssueAccess(u)
	if err != nil {
		return Session{}, err
	}
	refresh, _, exp, err := s.issuer.IssueRefresh(u)
	if err != nil {
		return Session{}, err
	}
	return Session{User: u, Access: access, Refresh: refresh, RefreshExp: exp}, nil
}
