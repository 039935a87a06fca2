package models

import "errors"

// Sentinel errors shared between the service layer and the HTTP layer.
// Handlers map these to status codes; everything else is a 500.
var (
	ErrEmailTaken      = errors.New("the email is already registered")
	ErrHandleTaken     = errors.New("the handle is already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
)
