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

// CourseService defines the interface for catalog operations
type CourseService interface {
	AddCourse(ctx context.Context, caller models.Caller, courseID, courseName string) (*models.Course, error)
	ListCourses(ctx context.Context, caller models.Caller) ([]*models.Course, error)
	GetCourse(ctx context.Context, caller models.Caller, courseID string) (*models.Course, error)
	DeleteCourse(ctx context.Context, caller models.Caller, courseID string) (*models.Course, error)
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	store repositories.Store
}

// NewCourseService creates a new course service instance
func NewCourseService(store repositories.Store) CourseService {
	return &courseServiceImpl{store: store}
}

// AddCourse adds a course to the catalog
func (s *courseServiceImpl) AddCourse(ctx context.Context, caller models.Caller, courseID, courseName string) (*models.Course, error) {
	if err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}

	course := &models.Course{
		ID:   models.CourseID(strings.TrimSpace(courseID)),
		Name: strings.TrimSpace(courseName),
	}
	if err := validation.Struct(course); err != nil {
		return nil, err
	}

	if err := s.store.CreateCourse(ctx, course); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateKey) {
			return nil, apperrors.ErrCourseIDAlreadyExists.WithDetails(map[string]interface{}{"courseId": course.ID})
		}
		return nil, fmt.Errorf("error creating course: %w", err)
	}

	logger.Info().Str("courseId", course.ID.String()).Msg("Course added")
	return course, nil
}

// ListCourses returns the whole catalog ordered by course ID
func (s *courseServiceImpl) ListCourses(ctx context.Context, caller models.Caller) ([]*models.Course, error) {
	if err := auth.RequireAny(caller, models.RoleAdmin, models.RoleStudent); err != nil {
		return nil, err
	}

	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	return courses, nil
}

// GetCourse returns one course
func (s *courseServiceImpl) GetCourse(ctx context.Context, caller models.Caller, courseID string) (*models.Course, error) {
	if err := auth.RequireAny(caller, models.RoleAdmin, models.RoleStudent); err != nil {
		return nil, err
	}

	id, err := models.ParseCourseID(courseID)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	course, err := s.store.GetCourse(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting course: %w", err)
	}
	return course, nil
}

// DeleteCourse removes a course and its registrations. It returns the
// deleted course, or nil without error when no such course exists.
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, caller models.Caller, courseID string) (*models.Course, error) {
	if err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}

	id, err := models.ParseCourseID(courseID)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	course, err := s.store.GetCourse(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting course: %w", err)
	}

	deleted, err := s.store.DeleteCourse(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error deleting course: %w", err)
	}
	if !deleted {
		return nil, nil
	}

	logger.Info().Str("courseId", id.String()).Msg("Course deleted")
	return course, nil
}
