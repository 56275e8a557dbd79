package config

import "time"

const (
	// Referral reward per invited user, in UC.
	ReferralReward = 3

	// Minimum balance required to open the withdrawal menu.
	WithdrawMinimum = 60

	// Maintenance loop cadence
	SweepInterval = 30 * time.Second

	// Abandoned wizard drafts and pending join contexts older than this
	// are dropped by the scheduler.
	DraftTTL = 30 * time.Minute

	// Rating output is capped to keep the message under Telegram limits.
	RatingMaxRows = 200

	// Referral rating default window
	RatingDefaultDays = 7

	// Wizard input formats
	DeadlineLayout = "2006-01-02 15:04"
	DateLayout     = "2006-01-02"
)

// WithdrawAmounts are the fixed UC amounts offered in the withdrawal menu.
var WithdrawAmounts = []int{60, 120, 180, 325}
