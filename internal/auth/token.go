package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"labtasks-backend/internal/model"
)

// Token type discriminator carried in the "typ" claim. An access token
// can never be replayed against the refresh endpoint and vice versa.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims is the payload of both token kinds. Refresh tokens additionally
// carry a uuid in the registered ID (jti) claim; that uuid is the key the
// revocation list is indexed by.
type Claims struct {
	UserID    uint64 `json:"uid"`
	IsAdmin   bool   `json:"adm"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// Issuer mints and validates HS256-signed tokens. Validation is a pure
// computation: signature and expiry only, no storage lookups.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// RefreshTTL reports the configured refresh token lifetime. The session
// cookie max-age must match it.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// IssueAccess signs a short-lived access token for the user. The admin
// flag travels in the token so the authorization gate needs no I/O.
func (i *Issuer) IssueAccess(u model.User) (string, error) {
	now := time.Now().UTC()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    u.ID,
		IsAdmin:   u.IsAdmin,
		TokenType: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
		},
	})
	return t.SignedString(i.secret)
}

// IssueRefresh signs a long-lived refresh token with a fresh uuid jti and
// returns the token, its jti and its expiry.
func (i *Issuer) IssueRefresh(u model.User) (string, string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(i.refreshTTL)
	jti := uuid.NewString()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    u.ID,
		TokenType: TypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return signed, jti, exp, nil
}

// ParseAccess validates an access token and returns its claims.
func (i *Issuer) ParseAccess(raw string) (*Claims, error) {
	return i.parse(raw, TypeAccess)
}

// ParseRefresh validates a refresh token and returns its claims. Revocation
// is not checked here; the refresh coordinator consults the token store.
func (i *Issuer) ParseRefresh(raw string) (*Claims, error) {
	return i.parse(raw, TypeRefresh)
}

func (i *Issuer) parse(raw, wantType string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	// Malformed, bad signature and expired all collapse into one error.
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
