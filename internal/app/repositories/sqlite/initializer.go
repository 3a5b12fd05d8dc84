package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/yigit/courseportal/internal/pkg/apperrors"
)

// Check reports whether path holds a readable SQLite database
func Check(ctx context.Context, path string) error {
	store, err := Open(path, zerolog.Nop())
	if err != nil {
		return err
	}
	defer store.Close()

	var result string
	if err := store.conn().QueryRowContext(ctx, `PRAGMA quick_check`).Scan(&result); err != nil {
		return fmt.Errorf("%w: quick check: %w", apperrors.ErrStoreUnavailable, classify(err))
	}
	if result != "ok" {
		return fmt.Errorf("%w: quick check: %s", apperrors.ErrStoreUnavailable, result)
	}
	return nil
}

// Remove deletes the store file along with its WAL and shared-memory files
func Remove(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return nil
}

// Initialize prepares the store file at path. An existing file is removed
// when force is set or when it is not a readable database; the schema is
// then migrated. It reports whether a file was removed.
func Initialize(ctx context.Context, path string, force bool, logger zerolog.Logger) (*Store, bool, error) {
	removed := false
	if _, err := os.Stat(path); err == nil {
		recreate := force
		if !recreate {
			if err := Check(ctx, path); err != nil {
				logger.Warn().Err(err).Str("path", path).Msg("Store file is unreadable, recreating")
				recreate = true
			}
		}
		if recreate {
			if err := Remove(path); err != nil {
				return nil, false, err
			}
			removed = true
			logger.Info().Str("path", path).Msg("Removed existing store file")
		}
	}

	store, err := OpenAndMigrate(ctx, path, logger)
	if err != nil {
		return nil, removed, err
	}
	return store, removed, nil
}
