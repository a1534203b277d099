package admin

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned for unknown views and records
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned for operations a view does not enable
	ErrForbidden = errors.New("operation not permitted")
	// ErrInvalidFilter is returned for malformed list parameters
	ErrInvalidFilter = errors.New("invalid filter")
)

// statusForError maps storage and admin errors to an HTTP status
func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidFilter):
		return http.StatusBadRequest
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return http.StatusConflict
	case strings.Contains(err.Error(), "constraint failed"):
		// untranslated SQLite constraint errors
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// messageForError is the text shown on the error page
func messageForError(err error) string {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return "A record with the same unique value already exists."
	case errors.Is(err, gorm.ErrForeignKeyViolated), strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return "The record is referenced by, or references, another record."
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound.Error()
	case statusForError(err) >= http.StatusInternalServerError:
		// Driver text stays in the log
		return "Something went wrong while processing the request."
	default:
		return err.Error()
	}
}
