package repositories

import (
	"context"
	"database/sql"

	"github.com/yigit/courseportal/internal/app/models"
)

// Store is the persistence layer for students, courses and registrations.
// Implementations map constraint violations onto apperrors.ErrDuplicateKey
// and apperrors.ErrNotFound, and a missing or corrupt store onto
// apperrors.ErrStoreUnavailable.
type Store interface {
	CreateStudent(ctx context.Context, student *models.Student) error
	GetStudent(ctx context.Context, rollno models.Rollno) (*models.Student, error)
	GetStudentByCredentials(ctx context.Context, rollno models.Rollno, password string) (*models.Student, error)
	CountStudents(ctx context.Context) (int, error)

	CreateCourse(ctx context.Context, course *models.Course) error
	GetCourse(ctx context.Context, id models.CourseID) (*models.Course, error)
	ListCourses(ctx context.Context) ([]*models.Course, error)
	CountCourses(ctx context.Context) (int, error)
	// DeleteCourse removes the course and its registrations. It reports
	// false without error when the course does not exist.
	DeleteCourse(ctx context.Context, id models.CourseID) (bool, error)

	CreateRegistration(ctx context.Context, reg models.Registration) error
	// EnrollCourses registers rollno for every course in ids, skipping pairs
	// that already exist, and returns how many rows were created.
	EnrollCourses(ctx context.Context, rollno models.Rollno, ids []models.CourseID) (int, error)
	ListRegisteredCourseIDs(ctx context.Context, rollno models.Rollno) ([]models.CourseID, error)
	ListCoursesForStudent(ctx context.Context, rollno models.Rollno) ([]*models.Course, error)
	ListStudentSummaries(ctx context.Context) ([]*models.StudentSummary, error)

	// Ping verifies that the store is reachable and its schema present.
	Ping(ctx context.Context) error
	Close() error
}

// SummaryBuilder folds the rows of the students LEFT JOIN registrations
// LEFT JOIN courses query into one summary per student, keeping row order.
type SummaryBuilder struct {
	summaries []*models.StudentSummary
	index     map[models.Rollno]*models.StudentSummary
}

// NewSummaryBuilder creates an empty SummaryBuilder
func NewSummaryBuilder() *SummaryBuilder {
	return &SummaryBuilder{index: make(map[models.Rollno]*models.StudentSummary)}
}

// Add records one joined row. courseID is NULL for students without
// registrations; courseName is NULL when the registration has no course row.
func (b *SummaryBuilder) Add(rollno, name string, courseID, courseName sql.NullString) {
	key := models.Rollno(rollno)
	summary, ok := b.index[key]
	if !ok {
		summary = &models.StudentSummary{Rollno: key, Name: name, Courses: []string{}}
		b.index[key] = summary
		b.summaries = append(b.summaries, summary)
	}
	if courseID.Valid {
		summary.CourseCount++
		if courseName.Valid {
			summary.Courses = append(summary.Courses, courseName.String)
		}
	}
}

// Summaries returns the collected summaries
func (b *SummaryBuilder) Summaries() []*models.StudentSummary {
	if b.summaries == nil {
		return []*models.StudentSummary{}
	}
	return b.summaries
}

// DedupeCourseIDs returns ids without repeats, keeping first occurrences.
func DedupeCourseIDs(ids []models.CourseID) []models.CourseID {
	seen := make(map[models.CourseID]struct{}, len(ids))
	out := make([]models.CourseID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// EnrollBatchSize bounds the rows of one registrations insert. Each row
// binds two variables, which keeps a batch far below SQLite's limit.
const EnrollBatchSize = 500

// BatchCourseIDs splits ids into consecutive batches of at most size ids.
func BatchCourseIDs(ids []models.CourseID, size int) [][]models.CourseID {
	if size <= 0 {
		size = EnrollBatchSize
	}
	batches := make([][]models.CourseID, 0, (len(ids)+size-1)/size)
	for len(ids) > size {
		batches = append(batches, ids[:size:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		batches = append(batches, ids)
	}
	return batches
}
