package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers bad signatures, malformed tokens and wrong
	// signing methods.
	ErrInvalidToken = errors.New("invalid verification token")
	// ErrExpiredToken is returned for structurally valid tokens past expiry.
	ErrExpiredToken = errors.New("verification token expired")
)

// VerifyClaims binds a user id and email into an email-verification token.
type VerifyClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies email-verification tokens, HS256 signed
// with a process-wide secret loaded once at startup.
type TokenManager struct {
	Secret []byte
	TTL    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{Secret: []byte(secret), TTL: ttl}
}

// Issue creates a signed token proving control of email for the given user.
func (m *TokenManager) Issue(userID, email string) (string, time.Time, error) {
	exp := time.Now().Add(m.TTL)
	claims := &VerifyClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Verify decodes a token back into its claims. Expiry is reported as
// ErrExpiredToken; every other failure collapses into ErrInvalidToken.
func (m *TokenManager) Verify(tokenStr string) (*VerifyClaims, error) {
	claims := &VerifyClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
