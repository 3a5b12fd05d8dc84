package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

const tokenIssuer = "courseportal"

// SessionTokens signs session IDs into HS256 tokens for the session cookie
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionTokens creates a signer. Tokens expire after ttl.
func NewSessionTokens(secret string, ttl time.Duration) *SessionTokens {
	return &SessionTokens{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Claims defines the token content
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// TTL returns how long issued tokens stay valid
func (s *SessionTokens) TTL() time.Duration {
	return s.ttl
}

// Issue signs sessionID into a token
func (s *SessionTokens) Issue(sessionID string) (string, error) {
	now := s.now()
	claims := &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// SessionID validates tokenString and returns the session ID it carries
func (s *SessionTokens) SessionID(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", ErrInvalidToken
	}
	return claims.SessionID, nil
}
