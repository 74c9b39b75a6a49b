package service

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/netpong/internal/world"
)

// Errors returned by Join and Tick. Callers match them with errors.Is.
var (
	// ErrMissingField means a required request field was absent.
	ErrMissingField = errors.New("service: missing required field")

	// ErrNotStarted means Tick was called before any Join.
	ErrNotStarted = fmt.Errorf("service: game not started: %w", world.ErrNoWorld)

	// ErrInternal means the physics step failed unexpectedly.
	ErrInternal = errors.New("service: internal error")
)

func missingField(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, name)
}
