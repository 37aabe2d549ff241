// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external
// dependencies beyond uuid parsing.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrConflict      = errors.New("uniqueness conflict")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")

	// Authorization errors
	ErrForbidden = errors.New("forbidden")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
	ErrRateLimited        = errors.New("rate limited")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "course", "discussion", "ranking"
	Op      string // Operation that failed, e.g., "Upsert", "Search"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Course domain errors
var (
	ErrCourseNotFound      = NewDomainError("course", "Find", ErrNotFound, "course not found")
	ErrCourseMissingField  = NewDomainError("course", "Validate", ErrEmptyValue, "required course field is missing")
	ErrInvalidPlatform     = NewDomainError("course", "Validate", ErrInvalidInput, "unknown course platform")
	ErrReviewNotFound      = NewDomainError("review", "Find", ErrNotFound, "review not found")
	ErrInvalidReviewRating = NewDomainError("review", "Validate", ErrValueOutOfRange, "rating must be between 0 and 5")
	ErrReviewMissingCourse = NewDomainError("review", "Validate", ErrInvalidID, "review must reference a course")
	ErrReviewMissingUser   = NewDomainError("review", "Validate", ErrInvalidID, "review must reference a user")
)

// Discussion domain errors
var (
	ErrDiscussionNotFound  = NewDomainError("discussion", "Find", ErrNotFound, "discussion not found")
	ErrReplyNotFound       = NewDomainError("reply", "Find", ErrNotFound, "reply not found")
	ErrParentReplyNotFound = NewDomainError("reply", "Create", ErrNotFound, "parent reply not found")
	ErrNotReplyOwner       = NewDomainError("reply", "Tombstone", ErrForbidden, "only the reply author may delete it")
	ErrEmptyReplyText      = NewDomainError("reply", "Validate", ErrEmptyValue, "reply text cannot be empty")
	ErrEmptyDiscussionText = NewDomainError("discussion", "Validate", ErrEmptyValue, "discussion title and description are required")
)

// Engagement domain errors
var (
	ErrLikeTargetNotFound = NewDomainError("engagement", "AddLike", ErrNotFound, "liked object does not exist")
	ErrInvalidObjectType  = NewDomainError("engagement", "Validate", ErrInvalidInput, "unknown like object type")
)

// Journey domain errors
var (
	ErrJourneyNotFound      = NewDomainError("journey", "Find", ErrNotFound, "learning journey not found")
	ErrJourneyPositionTaken = NewDomainError("journey", "AppendCourse", ErrConflict, "journey position is already occupied")
	ErrInvalidJourneyOrder  = NewDomainError("journey", "Validate", ErrValueOutOfRange, "course position must be positive")
)

// Ranking domain errors
var (
	ErrEmptyQueryEmbedding = NewDomainError("ranking", "Search", ErrValidation, "query embedding is empty")
	ErrInvalidLimit        = NewDomainError("ranking", "Search", ErrValidation, "limit must be positive")
	ErrInvalidWeight       = NewDomainError("ranking", "Search", ErrValidation, "similarity weight must be in (0, 1)")
	ErrInvalidThreshold    = NewDomainError("ranking", "Search", ErrValidation, "similarity threshold must be in [0, 1)")
)

// User domain errors
var (
	ErrUserNotFound = NewDomainError("user", "Find", ErrNotFound, "user not found")
	ErrInvalidEmail = NewDomainError("user", "Validate", ErrInvalidFormat, "invalid email address")
)

// External service errors
var (
	ErrEmbeddingUnavailable = NewDomainError("embedder", "Embed", ErrServiceUnavailable, "embedding gateway is unavailable")
	ErrEmbeddingRateLimited = NewDomainError("embedder", "Embed", ErrRateLimited, "embedding gateway rate limit exceeded")
	ErrStorageUnavailable   = NewDomainError("storage", "Query", ErrServiceUnavailable, "storage is unavailable")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if the error is a uniqueness conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists) || errors.Is(err, ErrConflict)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsPermissionDenied checks if the error is an authorization failure.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsRetryable checks if the operation can be retried by the caller.
// Validation and not-found errors are never retryable. Nothing inside the
// content or ranking operations retries these silently - the decision
// belongs to the caller.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRateLimited)
}
