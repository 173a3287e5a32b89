package services

import "errors"

// Common service errors
var (
	ErrNotFound           = errors.New("record not found")
	ErrReferenceNotFound  = errors.New("referenced record does not exist")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrAlreadyPosted      = errors.New("journal entry is already posted")
	ErrUnknownJournalType = errors.New("unknown journal type")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidState       = errors.New("invalid state transition")
	ErrNoEligibleEntries  = errors.New("no unbilled delivery notes for this customer")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrDuplicate          = errors.New("duplicate record")
)
