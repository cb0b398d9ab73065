package database

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/quorumbot/errors"
)

// SQLite reports lock contention only in the message text.
var busyMarkers = []string{"database is locked", "database table is locked", "sqlite_busy"}

// IsBusyError reports whether err is SQLite lock contention. Another
// writer holds the file; the same statement usually succeeds shortly.
func IsBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range busyMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// FromDatabase maps a gorm error for resource to an AppError: not found,
// retryable busy (503), or a plain database error. nil stays nil.
func FromDatabase(err error, resource string) *apperrors.AppError {
	switch {
	case err == nil:
		return nil
	case IsNotFoundError(err):
		return apperrors.NotFound(resource, "").WithCause(err)
	case IsBusyError(err):
		return apperrors.New(apperrors.ErrCodeDatabaseError, "The "+resource+" store is busy, try again.", http.StatusServiceUnavailable).
			WithCause(err)
	default:
		return apperrors.DatabaseError(err)
	}
}
