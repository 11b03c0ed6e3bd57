package service

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/padraicbc/courseapi/repository"
)

var (
	// ErrNotFound is returned when an id-based lookup, update or delete finds no entity.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique identity (email, username) is already taken.
	ErrConflict = errors.New("conflict")
	// ErrInvalidCredentials is returned by login and token refresh on any mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries every rule the input broke.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

func invalid(msgs ...string) error {
	return &ValidationError{Messages: msgs}
}

// deleteFailed reports a failed delete commit. A row removed by someone else after
// it was fetched is the same no-op as deleting an absent row.
func deleteFailed(log *zap.Logger, err error, fields ...zap.Field) (bool, error) {
	if errors.Is(err, repository.ErrNoRows) {
		log.Warn("row already deleted", fields...)
		return false, nil
	}
	return false, err
}
