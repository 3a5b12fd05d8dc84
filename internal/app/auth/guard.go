package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/courseportal/internal/app/models"
	"github.com/yigit/courseportal/internal/app/session"
	"github.com/yigit/courseportal/internal/pkg/apperrors"
	pkgauth "github.com/yigit/courseportal/internal/pkg/auth"
)

// StudentAuthenticator validates student credentials against the store
type StudentAuthenticator interface {
	Authenticate(ctx context.Context, rollno, password string) (*models.Student, error)
}

// Guard maps session tokens to callers and issues tokens on login
type Guard struct {
	sessions session.Store
	tokens   *pkgauth.SessionTokens
	admin    pkgauth.AdminAuthenticator
	students StudentAuthenticator
	logger   zerolog.Logger
}

// NewGuard creates a new Guard
func NewGuard(sessions session.Store, tokens *pkgauth.SessionTokens, admin pkgauth.AdminAuthenticator, students StudentAuthenticator, logger zerolog.Logger) *Guard {
	return &Guard{
		sessions: sessions,
		tokens:   tokens,
		admin:    admin,
		students: students,
		logger:   logger,
	}
}

// Resolve returns the caller behind token. Missing, tampered, expired or
// revoked tokens all resolve to the anonymous caller.
func (g *Guard) Resolve(ctx context.Context, token string) models.Caller {
	if token == "" {
		return models.AnonymousCaller()
	}

	id, err := g.tokens.SessionID(token)
	if err != nil {
		g.logger.Debug().Err(err).Msg("Rejected session token")
		return models.AnonymousCaller()
	}

	caller, err := g.sessions.Get(ctx, id)
	if err != nil {
		return models.AnonymousCaller()
	}
	return caller
}

// LoginAdmin grants an admin session when secret is accepted
func (g *Guard) LoginAdmin(ctx context.Context, secret string) (string, error) {
	if !g.admin.Authenticate(secret) {
		g.logger.Warn().Msg("Failed admin login attempt")
		return "", apperrors.ErrInvalidCredentials
	}
	return g.startSession(ctx, models.AdminCaller())
}

// LoginStudent validates the credentials and grants a student session
func (g *Guard) LoginStudent(ctx context.Context, rollno, password string) (string, *models.Student, error) {
	student, err := g.students.Authenticate(ctx, rollno, password)
	if err != nil {
		return "", nil, err
	}

	token, err := g.startSession(ctx, models.StudentCaller(student.Rollno))
	if err != nil {
		return "", nil, err
	}
	return token, student, nil
}

// Logout revokes the session behind token. Unknown tokens are ignored.
func (g *Guard) Logout(ctx context.Context, token string) error {
	id, err := g.tokens.SessionID(token)
	if err != nil {
		if errors.Is(err, pkgauth.ErrExpiredToken) || errors.Is(err, pkgauth.ErrInvalidToken) {
			return nil
		}
		return err
	}
	return g.sessions.Delete(ctx, id)
}

func (g *Guard) startSession(ctx context.Context, caller models.Caller) (string, error) {
	id, err := g.sessions.Create(ctx, caller)
	if err != nil {
		return "", err
	}
	token, err := g.tokens.Issue(id)
	if err != nil {
		_ = g.sessions.Delete(ctx, id)
		return "", err
	}
	g.logger.Info().Str("role", string(caller.Role)).Str("rollno", caller.Rollno.String()).Msg("Session started")
	return token, nil
}
