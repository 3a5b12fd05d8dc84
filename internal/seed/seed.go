package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/courseportal/internal/app/models"
	appRepos "github.com/yigit/courseportal/internal/app/repositories"
	"github.com/yigit/courseportal/internal/pkg/apperrors"
)

// SampleCourses is the catalog a fresh store starts with
var SampleCourses = []appModels.Course{
	{ID: "CS101", Name: "Introduction to Computer Science"},
	{ID: "CS102", Name: "Data Structures and Algorithms"},
	{ID: "CS103", Name: "Database Management Systems"},
	{ID: "CS104", Name: "Web Development"},
	{ID: "CS105", Name: "Software Engineering"},
}

// CreateDefaultData inserts the sample courses that don't exist yet and
// returns how many were added.
func CreateDefaultData(ctx context.Context, store appRepos.Store, lgr zerolog.Logger) (int, error) {
	lgr.Info().Msg("Checking/Creating sample courses...")

	var finalErr error // To collect potential errors without stopping the process
	added := 0
	for _, course := range SampleCourses {
		course := course
		err := store.CreateCourse(ctx, &course)
		switch {
		case err == nil:
			added++
		case errors.Is(err, apperrors.ErrDuplicateKey):
			lgr.Debug().Str("courseId", course.ID.String()).Msg("Sample course already exists")
		default:
			lgr.Error().Err(err).Str("courseId", course.ID.String()).Msg("Error creating sample course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Int("added", added).Msg("Sample courses checked")
	return added, finalErr
}
