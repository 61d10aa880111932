// Package domain contains the core business entities for photofeed.
package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the stores matches exactly one of these
// through errors.Is, which is what the HTTP layer maps to a status code.
var (
	// ErrInvalidInput marks a client-correctable request problem: a missing or
	// blank required field, an out-of-range pagination value, an unknown sort token.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a reference to a user, post or image that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a uniqueness violation.
	ErrConflict = errors.New("conflict")

	// ErrFileAccess marks a failure of the underlying blob storage.
	ErrFileAccess = errors.New("file access error")
)

var (
	// ===========================================
	// User Errors
	// ===========================================

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

	// ErrUserIDRequired indicates an update without a user ID.
	ErrUserIDRequired = fmt.Errorf("%w: user id is required", ErrInvalidInput)

	// ErrEmailRequired indicates a missing or blank email.
	ErrEmailRequired = fmt.Errorf("%w: email is required", ErrInvalidInput)

	// ErrEmailAlreadyExists indicates the email is already used by another user.
	ErrEmailAlreadyExists = fmt.Errorf("%w: email is already in use", ErrConflict)

	// ===========================================
	// Post Errors
	// ===========================================

	// ErrPostNotFound indicates the requested post does not exist.
	ErrPostNotFound = fmt.Errorf("post %w", ErrNotFound)

	// ErrPostIDRequired indicates an update without a post ID.
	ErrPostIDRequired = fmt.Errorf("%w: post id is required", ErrInvalidInput)

	// ErrDescriptionRequired indicates a missing or blank post description.
	ErrDescriptionRequired = fmt.Errorf("%w: description must not be blank", ErrInvalidInput)

	// ErrInvalidSortOrder indicates a sort token other than asc or desc.
	ErrInvalidSortOrder = fmt.Errorf("%w: sort must be 'asc' or 'desc'", ErrInvalidInput)

	// ErrNegativeFrom indicates a negative pagination offset.
	ErrNegativeFrom = fmt.Errorf("%w: from must not be negative", ErrInvalidInput)

	// ErrNegativeSize indicates a negative page size.
	ErrNegativeSize = fmt.Errorf("%w: size must not be negative", ErrInvalidInput)

	// ===========================================
	// Image Errors
	// ===========================================

	// ErrImageNotFound indicates the requested image metadata does not exist.
	ErrImageNotFound = fmt.Errorf("image %w", ErrNotFound)

	// ErrImageFileMissing indicates the metadata exists but its file does not.
	ErrImageFileMissing = fmt.Errorf("%w: image file not found", ErrFileAccess)

	// ErrImageFileUnreadable indicates the image file exists but could not be read.
	ErrImageFileUnreadable = fmt.Errorf("%w: image file could not be read", ErrFileAccess)

	// ErrImageFileWrite indicates the image bytes could not be persisted.
	ErrImageFileWrite = fmt.Errorf("%w: image file could not be written", ErrFileAccess)
)

// DomainError wraps a domain error with additional context.
type DomainError struct {
	// Err is the underlying domain error.
	Err error

	// Message provides additional context.
	Message string

	// Resource identifies the affected resource (e.g., "user 7", a storage path).
	Resource string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Err.Error(), e.Message, e.Resource)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError with context.
func NewDomainError(err error, message, resource string) *DomainError {
	return &DomainError{
		Err:      err,
		Message:  message,
		Resource: resource,
	}
}

// Kind reports which error kind err belongs to, or nil if it is none of them.
func Kind(err error) error {
	for _, kind := range []error{ErrInvalidInput, ErrNotFound, ErrConflict, ErrFileAccess} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
