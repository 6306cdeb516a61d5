package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyContent is returned when a post or draft is submitted with
	// blank content. Nothing is stored.
	ErrEmptyContent = errors.New("post content cannot be empty")

	// ErrNotAuthenticated is returned when an immediate publish is requested
	// but no credential has been stored.
	ErrNotAuthenticated = errors.New("not authenticated with publisher")

	// ErrPostNotFound is returned for operations on a missing post id.
	ErrPostNotFound = errors.New("post not found")
)

// AuthError is a failed login against the publisher. Timeout distinguishes a
// login that did not resolve within the configured deadline from one the
// publisher rejected.
type AuthError struct {
	Reason  string
	Timeout bool
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("login failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("login failed: %s", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError wraps a rejected login.
func NewAuthError(reason string, err error) *AuthError {
	return &AuthError{Reason: reason, Err: err}
}

// NewAuthTimeout wraps a login that hit the configured deadline.
func NewAuthTimeout(err error) *AuthError {
	return &AuthError{Reason: "login timed out", Timeout: true, Err: err}
}

// PublishError is a failed remote publish after validation passed. The post
// record created for the attempt survives in unpublished state.
type PublishError struct {
	PostID int
	Err    error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("failed to publish post %d: %v", e.PostID, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
