package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSession is returned for a malformed, forged or expired session token
var ErrInvalidSession = errors.New("session not found or expired")

// Sessions issues and verifies signed session tokens carried in a cookie
type Sessions struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time
}

// NewSessions creates a session manager
func NewSessions(secret string, ttl time.Duration, cookieName string, secure bool) *Sessions {
	return &Sessions{
		secret:     []byte(secret),
		ttl:        ttl,
		cookieName: cookieName,
		secure:     secure,
		now:        time.Now,
	}
}

// CookieName returns the name of the session cookie
func (s *Sessions) CookieName() string {
	return s.cookieName
}

// TTL returns the session lifetime
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

// Issue creates a token for userID
func (s *Sessions) Issue(userID int64) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: failed to sign session: %w", err)
	}
	return token, nil
}

// Parse verifies a token and returns the user id it was issued for
func (s *Sessions) Parse(token string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidSession
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidSession
	}
	return userID, nil
}
