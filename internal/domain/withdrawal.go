package domain

import (
	"time"

	"github.com/google/uuid"
)

// Withdrawal is the audit record of a manual payout handoff. The actual
// payout happens outside the bot; admins are notified and settle it by hand.
type Withdrawal struct {
	ID        uuid.UUID
	UserID    int64
	Amount    int
	PubgID    string
	CreatedAt time.Time
}
