package domain

// RatingEntry is one row of the referral leaderboard.
type RatingEntry struct {
	UserID    int64
	Referrals int
}
