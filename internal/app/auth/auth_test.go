package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/courseportal/internal/app/models"
	"github.com/yigit/courseportal/internal/app/session"
	"github.com/yigit/courseportal/internal/pkg/apperrors"
	pkgauth "github.com/yigit/courseportal/internal/pkg/auth"
)

type stubStudents struct {
	students map[string]models.Student
}

func (s stubStudents) Authenticate(_ context.Context, rollno, password string) (*models.Student, error) {
	st, ok := s.students[rollno]
	if !ok || st.Password != password {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &st, nil
}

func newTestGuard() (*Guard, *session.MemoryStore) {
	sessions := session.NewMemoryStore(time.Hour)
	students := stubStudents{students: map[string]models.Student{
		"R1": {Rollno: "R1", Name: "Asha", Password: "pw"},
	}}
	return NewGuard(sessions, pkgauth.NewSessionTokens("secret", time.Hour),
		pkgauth.NewStaticSecret("admin123"), students, zerolog.Nop()), sessions
}

func TestResolveWithoutToken(t *testing.T) {
	g, _ := newTestGuard()
	assert.True(t, g.Resolve(context.Background(), "").IsAnonymous())
	assert.True(t, g.Resolve(context.Background(), "garbage").IsAnonymous())
}

func TestLoginAdmin(t *testing.T) {
	g, _ := newTestGuard()
	ctx := context.Background()

	_, err := g.LoginAdmin(ctx, "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	token, err := g.LoginAdmin(ctx, "admin123")
	require.NoError(t, err)
	assert.True(t, g.Resolve(ctx, token).IsAdmin())
}

func TestLoginStudent(t *testing.T) {
	g, _ := newTestGuard()
	ctx := context.Background()

	_, _, err := g.LoginStudent(ctx, "R1", "bad")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	token, student, err := g.LoginStudent(ctx, "R1", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Asha", student.Name)

	caller := g.Resolve(ctx, token)
	assert.True(t, caller.IsStudent())
	assert.Equal(t, models.Rollno("R1"), caller.Rollno)
}

func TestLogoutRevokesSession(t *testing.T) {
	g, sessions := newTestGuard()
	ctx := context.Background()

	token, err := g.LoginAdmin(ctx, "admin123")
	require.NoError(t, err)
	require.NoError(t, g.Logout(ctx, token))

	assert.True(t, g.Resolve(ctx, token).IsAnonymous())
	assert.Equal(t, 0, sessions.Len())
	assert.NoError(t, g.Logout(ctx, "not-a-token"))
}

func TestTokenFromAnotherSecretIsAnonymous(t *testing.T) {
	g, sessions := newTestGuard()
	ctx := context.Background()

	id, err := sessions.Create(ctx, models.AdminCaller())
	require.NoError(t, err)
	forged, err := pkgauth.NewSessionTokens("guessed", time.Hour).Issue(id)
	require.NoError(t, err)

	assert.True(t, g.Resolve(ctx, forged).IsAnonymous())
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, RequireAdmin(models.AdminCaller()))

	err := RequireAdmin(models.StudentCaller("R1"))
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, AdminLoginPath, apperrors.DetailsOf(err)["login"])
	assert.ErrorIs(t, RequireAdmin(models.AnonymousCaller()), apperrors.ErrUnauthorized)
}

func TestRequireStudentSelf(t *testing.T) {
	assert.NoError(t, RequireStudentSelf(models.StudentCaller("R1"), "R1"))
	assert.ErrorIs(t, RequireStudentSelf(models.StudentCaller("R2"), "R1"), apperrors.ErrUnauthorized)
	assert.ErrorIs(t, RequireStudentSelf(models.AdminCaller(), "R1"), apperrors.ErrUnauthorized)

	err := RequireStudent(models.Caller{Role: models.RoleStudent})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, StudentLoginPath, apperrors.DetailsOf(err)["login"])
}

func TestRequireAny(t *testing.T) {
	assert.NoError(t, RequireAny(models.AdminCaller(), models.RoleAdmin, models.RoleStudent))
	assert.NoError(t, RequireAny(models.StudentCaller("R1"), models.RoleAdmin, models.RoleStudent))

	err := RequireAny(models.AnonymousCaller(), models.RoleAdmin, models.RoleStudent)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
	assert.NoError(t, RequireAny(models.AnonymousCaller(), models.RoleAnonymous))
}
