// Package apperror defines the error taxonomy shared by services and the HTTP layer.
package apperror

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Kind classifies an error for callers.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindPolicy       Kind = "policy_violation"
	KindProtocol     Kind = "protocol"
	KindUnauthorized Kind = "unauthorized"
	KindTransient    Kind = "transient"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")

	ErrInvalidStars    = errors.New("stars must be between 1 and 5")
	ErrSelfRating      = errors.New("you cannot rate yourself")
	ErrDuplicateRating = errors.New("you already rated this user today")
	ErrSelfReport      = errors.New("you cannot report yourself")
	ErrSelfConnection  = errors.New("you cannot connect with yourself")
	ErrDuplicateEdge   = errors.New("connection already exists")
	ErrNotVerified     = errors.New("both users must be verified to connect")
	ErrBanned          = errors.New("account is banned")
	ErrNotConnected    = errors.New("users are not connected")
)

// AppError carries a Kind and a human-readable message next to the cause.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError.
func New(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func Validation(err error) *AppError { return New(KindValidation, err.Error(), err) }

func NotFound(what string) *AppError { return New(KindNotFound, what+" not found", ErrNotFound) }

func Policy(err error) *AppError { return New(KindPolicy, err.Error(), err) }

func Protocol(message string) *AppError { return New(KindProtocol, message, nil) }

func Unauthorized(message string) *AppError { return New(KindUnauthorized, message, ErrUnauthorized) }

func Transient(err error) *AppError {
	return New(KindTransient, "service temporarily unavailable", err)
}

// KindOf reports the Kind of err, or "" when err is not classified.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return KindTransient
	}
	return ""
}

// MapErrorToStatus maps an error to an HTTP status code.
func MapErrorToStatus(err error) int {
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	switch KindOf(err) {
	case KindValidation, KindProtocol:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindPolicy:
		if errors.Is(err, ErrDuplicateEdge) || errors.Is(err, ErrDuplicateRating) {
			return http.StatusConflict
		}
		return http.StatusForbidden
	case KindTransient:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the text safe to show a client.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	if KindOf(err) == KindNotFound {
		return ErrNotFound.Error()
	}
	return "internal server error"
}
