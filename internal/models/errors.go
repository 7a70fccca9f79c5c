package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")

	// Authentication Errors
	ErrUnauthorized   = errors.New("unauthorized")
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("token is malformed")

	// AI & Topic Errors
	ErrAINotConfigured     = errors.New("AI backend is not configured")
	ErrMalformedAIResponse = errors.New("AI response could not be parsed into the expected shape")
	ErrInvalidTopic        = errors.New("topic failed validation")

	// Curriculum Errors
	ErrLevelNotFound = errors.New("curriculum level not found")

	// General Request/Server Errors
	ErrInternalServer = errors.New("internal server error")
	ErrInvalidInput   = errors.New("invalid input data")
)
