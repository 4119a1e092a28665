package domain

import "errors"

// Domain errors (no external dependencies).
var (
	ErrNotFound          = errors.New("resource not found")
	ErrValidation        = errors.New("invalid input")
	ErrDuplicate         = errors.New("duplicate resource")
	ErrConflict          = errors.New("conflict with current state")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrRateNotFound      = errors.New("no metal rate registered")
	ErrContention        = errors.New("transaction contention, retry the event")
	ErrInvalidTransition = errors.New("invalid unit status transition")
)
