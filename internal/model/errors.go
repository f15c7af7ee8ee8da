package model

import "errors"

var (
	// Account related errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("inactive account")

	// Token codec errors. These never escape the access resolver; they are
	// collapsed to an anonymous resolution and only logged.
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenBadSignature = errors.New("token signature invalid")
	ErrTokenExpired      = errors.New("token expired")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotOwner     = errors.New("not the resource owner")

	// PRD related errors
	ErrPRDNotFound      = errors.New("prd not found")
	ErrTemplateNotFound = errors.New("prompt template not found")
	ErrGenerationFailed = errors.New("prd generation failed")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
