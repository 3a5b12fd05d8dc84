package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
	"github.com/yigit/courseportal/internal/app/migrations"
	"github.com/yigit/courseportal/internal/app/models"
	"github.com/yigit/courseportal/internal/app/repositories"
	"github.com/yigit/courseportal/internal/pkg/apperrors"
	_ "modernc.org/sqlite"
)

var _ repositories.Store = (*Store)(nil)

// Store provides SQLite-backed persistence in a single store file. When
// the file is replaced on disk, Ping reopens the handle on the new file.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	file   os.FileInfo // identity of the file db was opened on
	path   string
	q      repositories.Queries
	logger zerolog.Logger
}

// Open opens the store file at path without touching its schema.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, file, err := openFile(cleanPath)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:     db,
		file:   file,
		path:   cleanPath,
		q:      repositories.NewQueries(squirrel.Question),
		logger: logger.With().Str("store", "sqlite").Logger(),
	}, nil
}

func openFile(path string) (*sql.DB, os.FileInfo, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite db: %w", classify(err))
	}
	// One connection serializes writers on the single store file.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping sqlite db: %w", classify(err))
	}

	file, err := os.Stat(path)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("%w: store file %s: %w", apperrors.ErrStoreUnavailable, path, err)
	}
	return db, file, nil
}

// conn returns the current handle
func (s *Store) conn() *sql.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db
}

// follow reopens the handle when the file at path is no longer the one it
// was opened on, e.g. after the initializer recreated the store.
func (s *Store) follow(current os.FileInfo) error {
	s.mu.RLock()
	same := os.SameFile(s.file, current)
	s.mu.RUnlock()
	if same {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if os.SameFile(s.file, current) {
		return nil
	}

	db, file, err := openFile(s.path)
	if err != nil {
		return fmt.Errorf("%w: reopen replaced store file: %w", apperrors.ErrStoreUnavailable, err)
	}
	old := s.db
	s.db, s.file = db, file
	if err := old.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to close handle on replaced store file")
	}
	s.logger.Info().Str("path", s.path).Msg("Store file was replaced, reopened")
	return nil
}

// OpenAndMigrate opens the store file and applies pending migrations.
func OpenAndMigrate(ctx context.Context, path string, logger zerolog.Logger) (*Store, error) {
	store, err := Open(path, logger)
	if err != nil {
		return nil, err
	}

	migrator, err := migrations.NewMigrator(store, migrations.DialectSQLite, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Path returns the store file location
func (s *Store) Path() string {
	return s.path
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks that the store file still exists and holds the three tables.
// A file replaced since the last check is reopened first.
func (s *Store) Ping(ctx context.Context) error {
	current, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("%w: store file %s: %w", apperrors.ErrStoreUnavailable, s.path, err)
	}
	if err := s.follow(current); err != nil {
		return err
	}

	var tables int
	err = s.conn().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN (?, ?, ?)`,
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
	_, err := s.conn().ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`)
	return classify(err)
}

// IsMigrationApplied checks if a specific migration has already been applied
func (s *Store) IsMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	err := s.conn().QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)`, version,
	).Scan(&exists)
	if err != nil {
		return false, classify(err)
	}
	return exists, nil
}

// ApplyMigration executes a migration and records it in one transaction
func (s *Store) ApplyMigration(ctx context.Context, version, statements string) error {
	tx, err := s.conn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration transaction: %w", classify(err))
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, statements); err != nil {
		return fmt.Errorf("exec migration: %w", classify(err))
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
		return fmt.Errorf("record migration: %w", classify(err))
	}
	return classify(tx.Commit())
}

// CreateStudent inserts a new student
func (s *Store) CreateStudent(ctx context.Context, student *models.Student) error {
	query, args, err := s.q.InsertStudent(student)
	if err != nil {
		return fmt.Errorf("build create student query: %w", err)
	}
	if _, err := s.conn().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create student: %w", classify(err))
	}
	return nil
}

// GetStudent loads a student by roll number
func (s *Store) GetStudent(ctx context.Context, rollno models.Rollno) (*models.Student, error) {
	query, args, err := s.q.SelectStudent(rollno)
	if err != nil {
		return nil, fmt.Errorf("build get student query: %w", err)
	}
	return s.scanStudent(ctx, query, args)
}

// GetStudentByCredentials loads a student whose roll number and password both match
func (s *Store) GetStudentByCredentials(ctx context.Context, rollno models.Rollno, password string) (*models.Student, error) {
	query, args, err := s.q.SelectStudentByCredentials(rollno, password)
	if err != nil {
		return nil, fmt.Errorf("build credentials query: %w", err)
	}
	return s.scanStudent(ctx, query, args)
}

func (s *Store) scanStudent(ctx context.Context, query string, args []interface{}) (*models.Student, error) {
	var student models.Student
	var rollno string
	err := s.conn().QueryRowContext(ctx, query, args...).Scan(&rollno, &student.Name, &student.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("get student: %w", classify(err))
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
		return 0, fmt.Errorf("build count query: %w", err)
	}
	var n int
	if err := s.conn().QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, classify(err))
	}
	return n, nil
}

// CreateCourse inserts a new course
func (s *Store) CreateCourse(ctx context.Context, course *models.Course) error {
	query, args, err := s.q.InsertCourse(course)
	if err != nil {
		return fmt.Errorf("build create course query: %w", err)
	}
	if _, err := s.conn().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create course: %w", classify(err))
	}
	return nil
}

// GetCourse loads a course by ID
func (s *Store) GetCourse(ctx context.Context, id models.CourseID) (*models.Course, error) {
	query, args, err := s.q.SelectCourse(id)
	if err != nil {
		return nil, fmt.Errorf("build get course query: %w", err)
	}

	var course models.Course
	var courseID string
	if err := s.conn().QueryRowContext(ctx, query, args...).Scan(&courseID, &course.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", classify(err))
	}
	course.ID = models.CourseID(courseID)
	return &course, nil
}

// ListCourses returns the whole catalog
func (s *Store) ListCourses(ctx context.Context) ([]*models.Course, error) {
	query, args, err := s.q.SelectCourses()
	if err != nil {
		return nil, fmt.Errorf("build list courses query: %w", err)
	}
	return s.queryCourses(ctx, query, args)
}

// ListCoursesForStudent returns the student's courses ordered by name
func (s *Store) ListCoursesForStudent(ctx context.Context, rollno models.Rollno) ([]*models.Course, error) {
	query, args, err := s.q.SelectCoursesForStudent(rollno)
	if err != nil {
		return nil, fmt.Errorf("build student courses query: %w", err)
	}
	return s.queryCourses(ctx, query, args)
}

func (s *Store) queryCourses(ctx context.Context, query string, args []interface{}) ([]*models.Course, error) {
	rows, err := s.conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", classify(err))
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan course row: %w", classify(err))
		}
		courses = append(courses, &models.Course{ID: models.CourseID(id), Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate course rows: %w", classify(err))
	}
	return courses, nil
}

// DeleteCourse removes a course and its registrations in one transaction
func (s *Store) DeleteCourse(ctx context.Context, id models.CourseID) (bool, error) {
	regQuery, regArgs, err := s.q.DeleteCourseRegistrations(id)
	if err != nil {
		return false, fmt.Errorf("build delete registrations query: %w", err)
	}
	courseQuery, courseArgs, err := s.q.DeleteCourse(id)
	if err != nil {
		return false, fmt.Errorf("build delete course query: %w", err)
	}

	tx, err := s.conn().BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete course: %w", classify(err))
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, regQuery, regArgs...); err != nil {
		return false, fmt.Errorf("delete course registrations: %w", classify(err))
	}
	res, err := tx.ExecContext(ctx, courseQuery, courseArgs...)
	if err != nil {
		return false, fmt.Errorf("delete course: %w", classify(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete course rows affected: %w", classify(err))
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete course: %w", classify(err))
	}
	return affected > 0, nil
}

// CreateRegistration inserts one registration
func (s *Store) CreateRegistration(ctx context.Context, reg models.Registration) error {
	query, args, err := s.q.InsertRegistration(reg)
	if err != nil {
		return fmt.Errorf("build create registration query: %w", err)
	}
	if _, err := s.conn().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create registration: %w", classify(err))
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

	tx, err := s.conn().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin enroll: %w", classify(err))
	}
	defer func() { _ = tx.Rollback() }()

	created := 0
	for _, batch := range repositories.BatchCourseIDs(ids, repositories.EnrollBatchSize) {
		query, args, err := s.q.InsertRegistrationsIgnoringExisting(rollno, batch)
		if err != nil {
			return 0, fmt.Errorf("build enroll query: %w", err)
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("enroll courses: %w", classify(err))
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("enroll rows affected: %w", classify(err))
		}
		created += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit enroll: %w", classify(err))
	}
	return created, nil
}

// ListRegisteredCourseIDs returns the IDs of the student's registrations
func (s *Store) ListRegisteredCourseIDs(ctx context.Context, rollno models.Rollno) ([]models.CourseID, error) {
	query, args, err := s.q.SelectRegisteredCourseIDs(rollno)
	if err != nil {
		return nil, fmt.Errorf("build registered ids query: %w", err)
	}

	rows, err := s.conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query registered ids: %w", classify(err))
	}
	defer rows.Close()

	ids := []models.CourseID{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan registered id: %w", classify(err))
		}
		ids = append(ids, models.CourseID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registered ids: %w", classify(err))
	}
	return ids, nil
}

// ListStudentSummaries returns every student with their registered course names
func (s *Store) ListStudentSummaries(ctx context.Context) ([]*models.StudentSummary, error) {
	query, args, err := s.q.SelectStudentSummaryRows()
	if err != nil {
		return nil, fmt.Errorf("build student summaries query: %w", err)
	}

	rows, err := s.conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query student summaries: %w", classify(err))
	}
	defer rows.Close()

	builder := repositories.NewSummaryBuilder()
	for rows.Next() {
		var rollno, name string
		var courseID, courseName sql.NullString
		if err := rows.Scan(&rollno, &name, &courseID, &courseName); err != nil {
			return nil, fmt.Errorf("scan student summary row: %w", classify(err))
		}
		builder.Add(rollno, name, courseID, courseName)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate student summary rows: %w", classify(err))
	}
	return builder.Summaries(), nil
}
