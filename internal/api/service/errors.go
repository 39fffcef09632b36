package service

import "errors"

// Sentinel errors returned by the service layer. The HTTP layer maps
// these to stable machine-readable kinds and status codes; nothing
// below the service boundary leaks driver or crypto error text.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")
	ErrOrgMissing         = errors.New("organization missing")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrAlreadyUsed        = errors.New("already used")
	ErrExpired            = errors.New("expired")
	ErrInvalidRequest     = errors.New("invalid request")
)
