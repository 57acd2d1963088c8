// internal/app/system/auth/tokens.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired is returned for a well-formed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for anything else that fails verification.
	ErrTokenInvalid = errors.New("token invalid")
)

const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

// Claims is what a verified token says about its bearer.
type Claims struct {
	UserID string
	Role   string
}

type tokenClaims struct {
	Role string `json:"role"`
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 access and refresh tokens.
type Tokens struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokens returns a token issuer signing with secret.
func NewTokens(secret string, accessTTL, refreshTTL time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, fmt.Errorf("token lifetimes must be positive (access %s, refresh %s)", accessTTL, refreshTTL)
	}
	return &Tokens{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL, now: time.Now}, nil
}

// SetClock replaces the time source. Tests only.
func (t *Tokens) SetClock(now func() time.Time) { t.now = now }

// RefreshTTL is how long a refresh token stays valid.
func (t *Tokens) RefreshTTL() time.Duration { return t.refreshTTL }

// Issue returns a signed access token for the user.
func (t *Tokens) Issue(userID, role string) (string, error) {
	return t.sign(userID, role, kindAccess, t.accessTTL)
}

// IssueRefresh returns a signed refresh token for the user.
func (t *Tokens) IssueRefresh(userID, role string) (string, error) {
	return t.sign(userID, role, kindRefresh, t.refreshTTL)
}

// Verify checks an access token.
func (t *Tokens) Verify(token string) (Claims, error) {
	return t.verify(token, kindAccess)
}

// VerifyRefresh checks a refresh token.
func (t *Tokens) VerifyRefresh(token string) (Claims, error) {
	return t.verify(token, kindRefresh)
}

func (t *Tokens) sign(userID, role, kind string, ttl time.Duration) (string, error) {
	now := t.now()
	claims := tokenClaims{
		Role: role,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

func (t *Tokens) verify(token, kind string) (Claims, error) {
	if token == "" {
		return Claims{}, ErrTokenInvalid
	}
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if claims.Kind != kind || claims.Subject == "" || claims.Role == "" {
		return Claims{}, ErrTokenInvalid
	}
	return Claims{UserID: claims.Subject, Role: claims.Role}, nil
}
