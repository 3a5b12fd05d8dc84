package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/courseportal/internal/pkg/apperrors"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// classify maps driver errors onto the store error taxonomy. The original
// error stays in the chain for logging.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr *moderncsqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		switch code {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return fmt.Errorf("%w: %w", apperrors.ErrDuplicateKey, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %w", apperrors.ErrNotFound, err)
		}

		switch code & 0xff {
		case sqlite3.SQLITE_CONSTRAINT:
			msg := sqliteErr.Error()
			if strings.Contains(msg, "FOREIGN KEY") {
				return fmt.Errorf("%w: %w", apperrors.ErrNotFound, err)
			}
			if strings.Contains(msg, "UNIQUE") {
				return fmt.Errorf("%w: %w", apperrors.ErrDuplicateKey, err)
			}
		case sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_CANTOPEN:
			return fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
		case sqlite3.SQLITE_ERROR:
			if strings.Contains(sqliteErr.Error(), "no such table") {
				return fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
			}
		}
	}

	if errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
	}
	return err
}
