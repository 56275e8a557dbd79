package handler

import "sync"

// inputKind tags what the next free-text or photo message from a user
// should be interpreted as.
type inputKind int

const (
	inputNone inputKind = iota
	inputUCImage
	inputWithdrawPubgID
	inputRatingStart
	inputRatingEnd
	inputCompCaption
	inputCompDeadline
	inputCompWinners
)

type pendingInput struct {
	kind   inputKind
	amount int    // withdrawal amount
	start  string // rating window start, YYYY-MM-DD
	compID int64  // competition being edited
}

// inputStore keeps per-user conversation state outside the competition
// wizard. An entry is replaced by any newer expectation and cleared once
// consumed or on "back".
type inputStore struct {
	mu sync.Mutex
	m  map[int64]pendingInput
}

func newInputStore() *inputStore {
	return &inputStore{m: make(map[int64]pendingInput)}
}

func (s *inputStore) set(userID int64, p pendingInput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[userID] = p
}

func (s *inputStore) get(userID int64) (pendingInput, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.m[userID]
	return p, ok
}

func (s *inputStore) clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, userID)
}
