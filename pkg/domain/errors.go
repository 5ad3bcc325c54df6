package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrForbidden           = errors.New("forbidden")
	ErrChatCreation        = errors.New("Failed to create Chat")
	ErrProviderUnavailable = errors.New("model provider unavailable")
	ErrStreamInterrupted   = errors.New("stream interrupted")
)
