package domain

import "time"

type User struct {
	TelegramID int64
	Balance    int
	ReferrerID *int64
	Joined     time.Time
	CreatedAt  time.Time
}
