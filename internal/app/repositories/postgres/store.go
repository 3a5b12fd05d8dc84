package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/courseportal/internal/app/migrations"
	"github.com/yigit/courseportal/internal/app/models"
	"github.com/yigit/courseportal/internal/app/repositories"
	"github.com/yigit/courseportal/internal/db"
	"github.com/yigit/courseportal/internal/pkg/apperrors"
	"github.com/yigit/courseportal/internal/pkg/dberrors"
)

var _ repositories.Store = (*Store)(nil)

// Store provides PostgreSQL-backed persistence over a pgx pool.
type Store struct {
	db     *db.PostgresDB
	q      repositories.Queries
	logger zerolog.Logger
}

// NewStore wraps an open connection pool
func NewStore(database *db.PostgresDB, logger zerolog.Logger) *Store {
	return &Store{
		db:     database,
		q:      repositories.NewQueries(squirrel.Dollar),
		logger: logger.With().Str("store", "postgres").Logger(),
	}
}

// Migrate applies pending schema migrations
func (s *Store) Migrate(ctx context.Context) error {
	migrator, err := migrations.NewMigrator(s, migrations.DialectPostgres, s.logger)
	if err != nil {
		return err
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("database migrations failed: %w", err)
	}
	return nil
}

// classify maps pgx errors onto the store error taxonomy
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case dberrors.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %w", apperrors.ErrDuplicateKey, err)
	case dberrors.IsForeignKeyError(err):
		return fmt.Errorf("%w: %w", apperrors.ErrNotFound, err)
	case dberrors.IsConnectionError(err):
		return fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
	}
	return err
}

// Close closes the pool
func (s *Store) Close() error {
	s.db.Close()
	return nil
}

// Ping checks connectivity and that the three tables exist
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: ping: %w", apperrors.ErrStoreUnavailable, err)
	}

	var tables int
	err := s.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM information_schema.tables
		 WHERE table_schema = current_schema() AND table_name IN ($1, $2, $3)`,
		repositories.TableStudents, repositories.TableCourses, repositories.TableRegistrations,
	).Scan(&tables)
	if err != nil {
		return fmt.Errorf("%w: check schema: %w", apperrors.ErrStoreUnavailable, err)
	}
	if tables != 3 {
		return fmt.Errorf("%w: schema incomplete (%d of 3 tables)", apperrors.ErrStoreUnavailable, tables)
	}
	return nil
}

// EnsureMigrationTable creates the migration tracking table if it doesn't exist
func (s *Store) EnsureMigrationTable(ctx context.Context) error {
	_, err := s.db.Pool.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`)
	return classify(err)
}

// IsMigrationApplied checks if a specific migration has already been applied
func (s *Store) IsMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version,
	).Scan(&exists)
	if err != nil {
		return false, classify(err)
	}
	return exists, nil
}

// ApplyMigration executes a migration and records it in one transaction
func (s *Store) ApplyMigration(ctx context.Context, version, statements string) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, statements); err != nil {
			return fmt.Errorf("error occurred during SQL migration execution: %w", classify(err))
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			return fmt.Errorf("failed to record migration: %w", classify(err))
		}
		return nil
	})
}

// CreateStudent inserts a new student
func (s *Store) CreateStudent(ctx context.Context, student *models.Student) error {
	query, args, err := s.q.InsertStudent(student)
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}
	if _, err := s.db.Pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("error creating student: %w", classify(err))
	}
	return nil
}

// GetStudent loads a student by roll number
func (s *Store) GetStudent(ctx context.Context, rollno models.Rollno) (*models.Student, error) {
	query, args, err := s.q.SelectStudent(rollno)
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}
	return s.scanStudent(ctx, query, args)
}

// GetStudentByCredentials loads a student whose roll number and password both match
func (s *Store) GetStudentByCredentials(ctx context.Context, rollno models.Rollno, password string) (*models.Student, error) {
	query, args, err := s.q.SelectStudentByCredentials(rollno, password)
	if err != nil {
		return nil, fmt.Errorf("failed to build credentials query: %w", err)
	}
	return s.scanStudent(ctx, query, args)
}

func (s *Store) scanStudent(ctx context.Context, query string, args []interface{}) (*models.Student, error) {
	var student models.Student
	var rollno string
	err := s.db.Pool.QueryRow(ctx, query, args...).Scan(&rollno, &student.Name, &student.Password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error getting student: %w", classify(err))
	}
	student.Rollno = models.Rollno(rollno)
	return &student, nil
}

// CountStudents returns the number of registered students
func (s *Store) CountStudents(ctx context.Context) (int, error) {
	return s.count(ctx, repositories.TableStudents)
}

// CountCourses returns the number of catalog courses
func (s *Store) CountCourses(ctx context.Context) (int, error) {
	return s.count(ctx, repositories.TableCourses)
}

func (s *Store) count(ctx context.Context, table string) (int, error) {
	query, args, err := s.q.Count(table)
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var n int
	if err := s.db.Pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting %s: %w", table, classify(err))
	}
	return n, nil
}

// CreateCourse inserts a new course
func (s *Store) CreateCourse(ctx context.Context, course *models.Course) error {
	query, args, err := s.q.InsertCourse(course)
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}
	if _, err := s.db.Pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("error creating course: %w", classify(err))
	}
	return nil
}

// GetCourse loads a course by ID
func (s *Store) GetCourse(ctx context.Context, id models.CourseID) (*models.Course, error) {
	query, args, err := s.q.SelectCourse(id)
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	var course models.Course
	var courseID string
	if err := s.db.Pool.QueryRow(ctx, query, args...).Scan(&courseID, &course.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error getting course: %w", classify(err))
	}
	course.ID = models.CourseID(courseID)
	return &course, nil
}

// ListCourses returns the whole catalog
func (s *Store) ListCourses(ctx context.Context) ([]*models.Course, error) {
	query, args, err := s.q.SelectCourses()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}
	return s.queryCourses(ctx, query, args)
}

// ListCoursesForStudent returns the student's courses ordered by name
func (s *Store) ListCoursesForStudent(ctx context.Context, rollno models.Rollno) ([]*models.Course, error) {
	query, args, err := s.q.SelectCoursesForStudent(rollno)
	if err != nil {
		return nil, fmt.Errorf("failed to build student courses query: %w", err)
	}
	return s.queryCourses(ctx, query, args)
}

func (s *Store) queryCourses(ctx context.Context, query string, args []interface{}) ([]*models.Course, error) {
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying courses: %w", classify(err))
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", classify(err))
		}
		courses = append(courses, &models.Course{ID: models.CourseID(id), Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", classify(err))
	}
	return courses, nil
}

// DeleteCourse removes a course and its registrations in one transaction
func (s *Store) DeleteCourse(ctx context.Context, id models.CourseID) (bool, error) {
	regQuery, regArgs, err := s.q.DeleteCourseRegistrations(id)
	if err != nil {
		return false, fmt.Errorf("failed to build delete registrations query: %w", err)
	}
	courseQuery, courseArgs, err := s.q.DeleteCourse(id)
	if err != nil {
		return false, fmt.Errorf("failed to build delete course query: %w", err)
	}

	var deleted bool
	err = s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, regQuery, regArgs...); err != nil {
			return fmt.Errorf("error deleting course registrations: %w", classify(err))
		}
		cmdTag, err := tx.Exec(ctx, courseQuery, courseArgs...)
		if err != nil {
			return fmt.Errorf("error deleting course: %w", classify(err))
		}
		deleted = cmdTag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, classify(err)
	}
	return deleted, nil
}

// CreateRegistration inserts one registration
func (s *Store) CreateRegistration(ctx context.Context, reg models.Registration) error {
	query, args, err := s.q.InsertRegistration(reg)
	if err != nil {
		return fmt.Errorf("failed to build create registration query: %w", err)
	}
	if _, err := s.db.Pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("error creating registration: %w", classify(err))
	}
	return nil
}

// EnrollCourses inserts the missing registrations in batches within one
// transaction, so an unknown course leaves no partial enrollment.
func (s *Store) EnrollCourses(ctx context.Context, rollno models.Rollno, ids []models.CourseID) (int, error) {
	ids = repositories.DedupeCourseIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	created := 0
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, batch := range repositories.BatchCourseIDs(ids, repositories.EnrollBatchSize) {
			query, args, err := s.q.InsertRegistrationsIgnoringExisting(rollno, batch)
			if err != nil {
				return fmt.Errorf("failed to build enroll query: %w", err)
			}
			cmdTag, err := tx.Exec(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("error enrolling courses: %w", classify(err))
			}
			created += int(cmdTag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// ListRegisteredCourseIDs returns the IDs of the student's registrations
func (s *Store) ListRegisteredCourseIDs(ctx context.Context, rollno models.Rollno) ([]models.CourseID, error) {
	query, args, err := s.q.SelectRegisteredCourseIDs(rollno)
	if err != nil {
		return nil, fmt.Errorf("failed to build registered ids query: %w", err)
	}

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying registered ids: %w", classify(err))
	}
	defer rows.Close()

	ids := []models.CourseID{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning registered id: %w", classify(err))
		}
		ids = append(ids, models.CourseID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registered ids: %w", classify(err))
	}
	return ids, nil
}

// ListStudentSummaries returns every student with their registered course names
func (s *Store) ListStudentSummaries(ctx context.Context) ([]*models.StudentSummary, error) {
	query, args, err := s.q.SelectStudentSummaryRows()
	if err != nil {
		return nil, fmt.Errorf("failed to build student summaries query: %w", err)
	}

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying student summaries: %w", classify(err))
	}
	defer rows.Close()

	builder := repositories.NewSummaryBuilder()
	for rows.Next() {
		var rollno, name string
		var courseID, courseName sql.NullString
		if err := rows.Scan(&rollno, &name, &courseID, &courseName); err != nil {
			return nil, fmt.Errorf("error scanning student summary row: %w", classify(err))
		}
		builder.Add(rollno, name, courseID, courseName)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student summary rows: %w", classify(err))
	}
	return builder.Summaries(), nil
}
