package models

import "errors"

// Domain errors. Services wrap these with fmt.Errorf("...: %w") and the
// HTTP layer maps them to a status code with errors.Is.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidToken      = errors.New("invalid token")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrNotFound          = errors.New("not found")
	ErrDuplicateIdentity = errors.New("email or name already registered")
	ErrConflict          = errors.New("conflict")
	ErrReferenceNotFound = errors.New("referenced entity not found")
	ErrWeakPassword      = errors.New("password too weak")
)
