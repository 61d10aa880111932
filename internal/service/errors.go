// Package service provides business logic services for photofeed.
package service

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prn-tf/photofeed/internal/domain"
)

// ErrInternalError marks a failure that is none of the domain error kinds.
var ErrInternalError = errors.New("internal server error")

// classify passes domain errors through unchanged and wraps anything else
// as ErrInternalError.
func classify(err error) error {
	if err == nil || domain.Kind(err) != nil {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInternalError, err)
}

// logFailure logs err at a level chosen by its kind: client mistakes at warn,
// storage and unexpected failures at error.
func logFailure(logger zerolog.Logger, err error) *zerolog.Event {
	switch domain.Kind(err) {
	case domain.ErrInvalidInput, domain.ErrNotFound, domain.ErrConflict:
		return logger.Warn().Err(err)
	default:
		return logger.Error().Err(err)
	}
}
