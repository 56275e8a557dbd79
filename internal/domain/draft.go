package domain

import "time"

// DraftStep is the wizard cursor: each step accepts exactly one input kind.
type DraftStep int

const (
	StepImage DraftStep = iota
	StepCaption
	StepDeadline
	StepWinnerCount
)

func (s DraftStep) String() string {
	switch s {
	case StepImage:
		return "image"
	case StepCaption:
		return "caption"
	case StepDeadline:
		return "deadline"
	case StepWinnerCount:
		return "winner_count"
	}
	return "unknown"
}

// Draft is a competition under construction by one admin. It lives only
// in memory and is discarded on commit or cancellation.
type Draft struct {
	AdminID     int64
	Step        DraftStep
	PhotoFileID string
	Caption     string
	Deadline    time.Time
	WinnerCount int
	UpdatedAt   time.Time
}
