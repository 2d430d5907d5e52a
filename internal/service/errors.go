package service

import (
	"errors"
	"strings"
)

var (
	// ErrForbidden means the principal's role does not allow the operation.
	ErrForbidden = errors.New("forbidden: insufficient permissions")

	// ErrUnauthenticated means no valid session backs the request.
	ErrUnauthenticated = errors.New("missing or invalid session token")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountInactive    = errors.New("account is inactive")
)

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}
