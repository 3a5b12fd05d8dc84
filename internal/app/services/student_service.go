package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/courseportal/internal/app/auth"
	"github.com/yigit/courseportal/internal/app/models"
	"github.com/yigit/courseportal/internal/app/repositories"
	"github.com/yigit/courseportal/internal/pkg/apperrors"
	"github.com/yigit/courseportal/internal/pkg/logger"
	"github.com/yigit/courseportal/internal/pkg/validation"
)

// StudentService defines the interface for student account operations
type StudentService interface {
	Register(ctx context.Context, caller models.Caller, rollno, name, password string) (*models.Student, error)
	Authenticate(ctx context.Context, rollno, password string) (*models.Student, error)
	GetStudent(ctx context.Context, caller models.Caller, rollno models.Rollno) (*models.Student, error)
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	store repositories.Store
}

var _ auth.StudentAuthenticator = (*studentServiceImpl)(nil)

// NewStudentService creates a new student service instance
func NewStudentService(store repositories.Store) StudentService {
	return &studentServiceImpl{store: store}
}

// Register creates a student account. Any caller may register and the
// caller's session is left unchanged.
func (s *studentServiceImpl) Register(ctx context.Context, caller models.Caller, rollno, name, password string) (*models.Student, error) {
	student := &models.Student{
		Rollno:   models.Rollno(strings.TrimSpace(rollno)),
		Name:     name,
		Password: password,
	}
	if err := validation.Struct(student); err != nil {
		return nil, err
	}

	if err := s.store.CreateStudent(ctx, student); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateKey) {
			return nil, apperrors.ErrRollnoAlreadyExists.WithDetails(map[string]interface{}{"rollno": student.Rollno})
		}
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	logger.Info().Str("rollno", student.Rollno.String()).Str("callerRole", string(caller.Role)).Msg("Student registered")
	return student, nil
}

// Authenticate returns the student matching both rollno and password.
// Unknown roll numbers and wrong passwords give the same error.
func (s *studentServiceImpl) Authenticate(ctx context.Context, rollno, password string) (*models.Student, error) {
	id, err := models.ParseRollno(rollno)
	if err != nil || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	student, err := s.store.GetStudentByCredentials(ctx, id, password)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error checking credentials: %w", err)
	}
	return student, nil
}

// GetStudent returns the caller's own record
func (s *studentServiceImpl) GetStudent(ctx context.Context, caller models.Caller, rollno models.Rollno) (*models.Student, error) {
	if err := auth.RequireStudentSelf(caller, rollno); err != nil {
		return nil, err
	}

	student, err := s.store.GetStudent(ctx, rollno)
	if err != nil {
		return nil, fmt.Errorf("error getting student: %w", err)
	}
	return student, nil
}
