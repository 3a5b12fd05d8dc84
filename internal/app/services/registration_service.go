package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/courseportal/internal/app/auth"
	"github.com/yigit/courseportal/internal/app/models"
	"github.com/yigit/courseportal/internal/app/repositories"
	"github.com/yigit/courseportal/internal/pkg/apperrors"
	"github.com/yigit/courseportal/internal/pkg/logger"
)

// RegistrationService defines the interface for enrollment operations
type RegistrationService interface {
	EnrollMany(ctx context.Context, caller models.Caller, rollno models.Rollno, courseIDs []string) (models.EnrollResult, error)
	ListMyCourses(ctx context.Context, caller models.Caller, rollno models.Rollno) ([]*models.Course, error)
	StudentDashboard(ctx context.Context, caller models.Caller, rollno models.Rollno) (*models.StudentDashboard, error)
	ListAllRegisteredStudents(ctx context.Context, caller models.Caller) ([]*models.StudentSummary, error)
	AdminDashboard(ctx context.Context, caller models.Caller) (*models.AdminDashboard, error)
}

// registrationServiceImpl implements the RegistrationService interface
type registrationServiceImpl struct {
	store repositories.Store
}

// NewRegistrationService creates a new registration service instance
func NewRegistrationService(store repositories.Store) RegistrationService {
	return &registrationServiceImpl{store: store}
}

// EnrollMany registers the student for every requested course it is not
// already registered for. Repeated IDs in the request count once.
func (s *registrationServiceImpl) EnrollMany(ctx context.Context, caller models.Caller, rollno models.Rollno, courseIDs []string) (models.EnrollResult, error) {
	if err := auth.RequireStudentSelf(caller, rollno); err != nil {
		return models.EnrollResult{}, err
	}

	ids, err := models.ParseCourseIDs(courseIDs)
	if err != nil {
		return models.EnrollResult{}, apperrors.NewValidationError(err.Error())
	}
	ids = repositories.DedupeCourseIDs(ids)

	result := models.EnrollResult{Requested: len(ids)}
	if len(ids) == 0 {
		return result, nil
	}

	created, err := s.store.EnrollCourses(ctx, rollno, ids)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return models.EnrollResult{}, s.missingReference(ctx, rollno, ids)
		}
		return models.EnrollResult{}, fmt.Errorf("error enrolling courses: %w", err)
	}
	result.Created = created

	logger.Info().
		Str("rollno", rollno.String()).
		Int("requested", result.Requested).
		Int("created", result.Created).
		Msg("Courses enrolled")
	return result, nil
}

// missingReference tells which side of a rejected registration is gone.
// The session's student can vanish when the store is recreated.
func (s *registrationServiceImpl) missingReference(ctx context.Context, rollno models.Rollno, ids []models.CourseID) error {
	if _, err := s.store.GetStudent(ctx, rollno); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrStudentNotFound.WithDetails(map[string]interface{}{"rollno": rollno})
		}
		return fmt.Errorf("error getting student: %w", err)
	}
	return apperrors.ErrCourseNotFound.WithDetails(map[string]interface{}{"courses": ids})
}

// ListMyCourses returns the student's courses ordered by name
func (s *registrationServiceImpl) ListMyCourses(ctx context.Context, caller models.Caller, rollno models.Rollno) ([]*models.Course, error) {
	if err := auth.RequireStudentSelf(caller, rollno); err != nil {
		return nil, err
	}

	courses, err := s.store.ListCoursesForStudent(ctx, rollno)
	if err != nil {
		return nil, fmt.Errorf("error listing student courses: %w", err)
	}
	return courses, nil
}

// StudentDashboard returns the catalog along with the student's registrations
func (s *registrationServiceImpl) StudentDashboard(ctx context.Context, caller models.Caller, rollno models.Rollno) (*models.StudentDashboard, error) {
	if err := auth.RequireStudentSelf(caller, rollno); err != nil {
		return nil, err
	}

	student, err := s.store.GetStudent(ctx, rollno)
	if err != nil {
		return nil, fmt.Errorf("error getting student: %w", err)
	}

	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}

	ids, err := s.store.ListRegisteredCourseIDs(ctx, rollno)
	if err != nil {
		return nil, fmt.Errorf("error listing registrations: %w", err)
	}

	registered := make(map[models.CourseID]bool, len(ids))
	for _, id := range ids {
		registered[id] = true
	}

	return &models.StudentDashboard{
		Student:    student,
		Courses:    courses,
		Registered: registered,
	}, nil
}

// ListAllRegisteredStudents returns every student with their course names,
// including students without registrations
func (s *registrationServiceImpl) ListAllRegisteredStudents(ctx context.Context, caller models.Caller) ([]*models.StudentSummary, error) {
	if err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}

	summaries, err := s.store.ListStudentSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing registered students: %w", err)
	}
	return summaries, nil
}

// AdminDashboard returns catalog and student totals
func (s *registrationServiceImpl) AdminDashboard(ctx context.Context, caller models.Caller) (*models.AdminDashboard, error) {
	if err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}

	courses, err := s.store.CountCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting courses: %w", err)
	}
	students, err := s.store.CountStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting students: %w", err)
	}

	return &models.AdminDashboard{CourseCount: courses, StudentCount: students}, nil
}
