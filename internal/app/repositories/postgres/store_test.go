package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/courseportal/internal/app/models"
	"github.com/yigit/courseportal/internal/db"
	"github.com/yigit/courseportal/internal/pkg/apperrors"
)

// openTestStore connects to PORTAL_TEST_POSTGRES_DSN and resets the schema.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("PORTAL_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PORTAL_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `DROP TABLE IF EXISTS registrations, courses, students, schema_migrations`)
	require.NoError(t, err)

	store := NewStore(&db.PostgresDB{Pool: pool}, zerolog.Nop())
	require.NoError(t, store.Migrate(ctx))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPostgresStoreLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.CreateStudent(ctx, &models.Student{Rollno: "R1", Name: "Asha", Password: "pw"}))
	require.NoError(t, store.CreateStudent(ctx, &models.Student{Rollno: "R2", Name: "Bilal", Password: "pw"}))
	require.NoError(t, store.CreateCourse(ctx, &models.Course{ID: "A", Name: "Course A"}))
	require.NoError(t, store.CreateCourse(ctx, &models.Course{ID: "B", Name: "Course B"}))

	err := store.CreateCourse(ctx, &models.Course{ID: "A", Name: "Other"})
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateKey), "got %v", err)

	created, err := store.EnrollCourses(ctx, "R1", []models.CourseID{"A", "B", "A"})
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	created, err = store.EnrollCourses(ctx, "R1", []models.CourseID{"A"})
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	_, err = store.EnrollCourses(ctx, "R1", []models.CourseID{"ZZZ"})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "got %v", err)

	summaries, err := store.ListStudentSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 2, summaries[0].CourseCount)
	assert.Equal(t, []string{"Course A", "Course B"}, summaries[0].Courses)
	assert.Equal(t, 0, summaries[1].CourseCount)

	deleted, err := store.DeleteCourse(ctx, "A")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.DeleteCourse(ctx, "A")
	require.NoError(t, err)
	assert.False(t, deleted)

	courses, err := store.ListCoursesForStudent(ctx, "R1")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, models.CourseID("B"), courses[0].ID)

	_, err = store.GetStudentByCredentials(ctx, "R1", "nope")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
