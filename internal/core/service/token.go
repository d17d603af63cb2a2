package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is the session lifetime of an issued token.
const DefaultTokenTTL = 72 * time.Hour

var errEmptySubject = errors.New("token has no subject")

// TokenManager issues and verifies HS256 session tokens. A token carries only
// the user id as subject and an expiry; roles are never embedded.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for userID. Every call yields a distinct token.
func (m *TokenManager) Issue(userID string) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse verifies the signature and expiry of token and returns its subject.
func (m *TokenManager) Parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", jwt.ErrTokenSignatureInvalid
	}
	if claims.Subject == "" {
		return "", errEmptySubject
	}
	return claims.Subject, nil
}
