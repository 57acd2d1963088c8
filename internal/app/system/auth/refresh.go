// internal/app/system/auth/refresh.go
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// ErrNoRefresh is returned when the request carries no refresh cookie.
var ErrNoRefresh = errors.New("no refresh token")

const refreshTokenKey = "refresh_token"

// RefreshStore keeps the refresh token in a signed, HttpOnly cookie.
type RefreshStore struct {
	store *sessions.CookieStore
	name  string
}

// NewRefreshStore builds the cookie store. In production (secure=true)
// cookies are Secure and SameSite=None; in dev, Lax over plain http.
func NewRefreshStore(key, name, domain string, secure bool, maxAge time.Duration, logger *zap.Logger) (*RefreshStore, error) {
	if key == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(key) < 32 {
		logger.Warn("session key is short; 32+ chars recommended", zap.Int("length", len(key)))
	}

	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		store.Options.SameSite = http.SameSiteNoneMode
	}
	store.MaxAge(store.Options.MaxAge)

	logger.Info("refresh cookie store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.Duration("max_age", maxAge))
	return &RefreshStore{store: store, name: name}, nil
}

// GenerateKey returns a random key suitable for NewRefreshStore, for dev
// runs that start without a configured session key.
func GenerateKey() string {
	return fmt.Sprintf("%x", securecookie.GenerateRandomKey(32))
}

// Save writes token into the refresh cookie.
func (s *RefreshStore) Save(w http.ResponseWriter, r *http.Request, token string) error {
	sess, _ := s.store.Get(r, s.name)
	sess.Values[refreshTokenKey] = token
	return sess.Save(r, w)
}

// Token reads the refresh token. A cookie that fails to decode (tampered,
// or signed with an old key) is ErrTokenInvalid.
func (s *RefreshStore) Token(r *http.Request) (string, error) {
	sess, err := s.store.Get(r, s.name)
	if err != nil {
		var se securecookie.Error
		if errors.As(err, &se) && se.IsDecode() {
			return "", ErrTokenInvalid
		}
		return "", err
	}
	tok, _ := sess.Values[refreshTokenKey].(string)
	if tok == "" {
		return "", ErrNoRefresh
	}
	return tok, nil
}

// Clear expires the refresh cookie.
func (s *RefreshStore) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, s.name)
	delete(sess.Values, refreshTokenKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
