package domain

import "time"

// Surface names used as keys in Competition.Posts.
const (
	SurfaceChannel = "channel"
	SurfaceGroup   = "group"
)

// Participant is one entry in a competition's participant list.
type Participant struct {
	UserID  int64  `json:"id"`
	Comment string `json:"comment,omitempty"`
}

// PostRef identifies a published competition post on one surface.
type PostRef struct {
	ChatID    string `json:"chat_id"`
	MessageID int    `json:"message_id"`
}

// Competition is the persisted record of one giveaway. The requested
// winner count and the drawn winner ids are separate fields; WinnerIDs
// stays empty until the competition is finalized.
type Competition struct {
	ID                   int64
	PhotoFileID          string
	Caption              string
	Deadline             time.Time
	RequestedWinnerCount int
	Participants         []Participant
	Finalized            bool
	WinnerIDs            []int64
	Posts                map[string]PostRef
	CreatedAt            time.Time
}

// HasParticipant reports whether the user id is already in the list.
func (c *Competition) HasParticipant(userID int64) bool {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// AddParticipant appends an entry, refusing duplicates.
func (c *Competition) AddParticipant(userID int64, comment string) bool {
	if c.HasParticipant(userID) {
		return false
	}
	c.Participants = append(c.Participants, Participant{UserID: userID, Comment: comment})
	return true
}

// Expired reports whether the deadline has passed at the given instant.
func (c *Competition) Expired(now time.Time) bool {
	return !now.Before(c.Deadline)
}
