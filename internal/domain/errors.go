package domain

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrAlreadyFinalized    = errors.New("competition already finalized")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrDraftNotFound       = errors.New("no draft in progress")
	ErrNoPendingJoin       = errors.New("no pending join context")
	ErrInvalidInput        = errors.New("invalid input for current step")
)
