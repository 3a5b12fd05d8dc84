package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost used when hashing secrets
const BcryptCost = 12

// ErrNoAdminSecret is returned when neither a secret nor a hash is configured
var ErrNoAdminSecret = errors.New("no admin secret configured")

// AdminAuthenticator decides whether a presented secret grants the admin role
type AdminAuthenticator interface {
	Authenticate(secret string) bool
}

// StaticSecret compares against a shared secret in constant time
type StaticSecret struct {
	secret []byte
}

// NewStaticSecret creates a StaticSecret
func NewStaticSecret(secret string) *StaticSecret {
	return &StaticSecret{secret: []byte(secret)}
}

// Authenticate implements AdminAuthenticator
func (s *StaticSecret) Authenticate(secret string) bool {
	if len(s.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(s.secret, []byte(secret)) == 1
}

// HashedSecret checks the presented secret against a bcrypt hash
type HashedSecret struct {
	hash string
}

// NewHashedSecret creates a HashedSecret from a bcrypt hash
func NewHashedSecret(hash string) *HashedSecret {
	return &HashedSecret{hash: hash}
}

// Authenticate implements AdminAuthenticator
func (h *HashedSecret) Authenticate(secret string) bool {
	return CheckPassword(h.hash, secret)
}

// NewAdminAuthenticator prefers the bcrypt hash when one is configured
func NewAdminAuthenticator(secret, secretHash string) (AdminAuthenticator, error) {
	switch {
	case secretHash != "":
		if _, err := bcrypt.Cost([]byte(secretHash)); err != nil {
			return nil, err
		}
		return NewHashedSecret(secretHash), nil
	case secret != "":
		return NewStaticSecret(secret), nil
	}
	return nil, ErrNoAdminSecret
}

// HashPassword hashes a secret with bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword verifies a secret against its bcrypt hash
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
