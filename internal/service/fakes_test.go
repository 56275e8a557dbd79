package service

import (
	"context"
	"sync"
	"time"

	"github.com/swkombat/ucbot/internal/domain"
)

// fakeStore is an in-memory CompetitionStore. Update applies the callback
// to a copy and writes it back only on success, like the real transaction.
type fakeStore struct {
	mu     sync.Mutex
	nextID int64
	comps  map[int64]*domain.Competition
}

func newFakeStore() *fakeStore {
	return &fakeStore{comps: make(map[int64]*domain.Competition)}
}

func (s *fakeStore) Create(ctx context.Context, c *domain.Competition) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	cp := cloneCompetition(c)
	cp.ID = s.nextID
	s.comps[cp.ID] = cp
	return cp.ID, nil
}

func (s *fakeStore) Get(ctx context.Context, id int64) (*domain.Competition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comps[id]
	if !ok {
		return nil, domain.ErrCompetitionNotFound
	}
	return cloneCompetition(c), nil
}

func (s *fakeStore) List(ctx context.Context) ([]*domain.Competition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Competition, 0, len(s.comps))
	for id := int64(1); id <= s.nextID; id++ {
		if c, ok := s.comps[id]; ok {
			out = append(out, cloneCompetition(c))
		}
	}
	return out, nil
}

func (s *fakeStore) ListOpen(ctx context.Context) ([]*domain.Competition, error) {
	all, _ := s.List(ctx)
	open := all[:0]
	for _, c := range all {
		if !c.Finalized {
			open = append(open, c)
		}
	}
	return open, nil
}

func (s *fakeStore) Update(ctx context.Context, id int64, fn func(*domain.Competition) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comps[id]
	if !ok {
		return domain.ErrCompetitionNotFound
	}
	cp := cloneCompetition(c)
	if err := fn(cp); err != nil {
		return err
	}
	s.comps[id] = cp
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comps[id]; !ok {
		return domain.ErrCompetitionNotFound
	}
	delete(s.comps, id)
	return nil
}

func cloneCompetition(c *domain.Competition) *domain.Competition {
	cp := *c
	cp.Participants = append([]domain.Participant(nil), c.Participants...)
	cp.WinnerIDs = append([]int64(nil), c.WinnerIDs...)
	cp.Posts = make(map[string]domain.PostRef, len(c.Posts))
	for k, v := range c.Posts {
		cp.Posts[k] = v
	}
	return &cp
}

// fakePublisher records every publish, refresh and broadcast.
type fakePublisher struct {
	mu         sync.Mutex
	published  []int64
	refreshed  []int64
	broadcasts []string
	publishErr error
}

func (p *fakePublisher) Publish(ctx context.Context, c *domain.Competition) (map[string]domain.PostRef, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.publishErr != nil {
		return nil, p.publishErr
	}
	p.published = append(p.published, c.ID)
	return map[string]domain.PostRef{
		domain.SurfaceChannel: {ChatID: "@channel", MessageID: 100},
		domain.SurfaceGroup:   {ChatID: "@group", MessageID: 200},
	}, nil
}

func (p *fakePublisher) Refresh(ctx context.Context, c *domain.Competition) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refreshed = append(p.refreshed, c.ID)
	return nil
}

func (p *fakePublisher) Broadcast(ctx context.Context, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.broadcasts = append(p.broadcasts, text)
}

// fakeNotifier records direct messages per recipient.
type fakeNotifier struct {
	mu   sync.Mutex
	sent map[int64][]string
	fail map[int64]error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(map[int64][]string), fail: make(map[int64]error)}
}

func (n *fakeNotifier) NotifyUser(ctx context.Context, userID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err, ok := n.fail[userID]; ok {
		return err
	}
	n.sent[userID] = append(n.sent[userID], text)
	return nil
}

// fakeOracle answers eligibility from a set; everyone else is ineligible.
type fakeOracle struct {
	mu       sync.Mutex
	eligible map[int64]bool
	calls    int
}

func newFakeOracle(ids ...int64) *fakeOracle {
	o := &fakeOracle{eligible: make(map[int64]bool)}
	for _, id := range ids {
		o.eligible[id] = true
	}
	return o
}

func (o *fakeOracle) IsEligible(ctx context.Context, userID int64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	return o.eligible[userID]
}

func (o *fakeOracle) set(userID int64, ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.eligible[userID] = ok
}

// fakeProfiles resolves display identities.
type fakeProfiles struct {
	usernames  map[int64]string
	firstNames map[int64]string
}

func (p *fakeProfiles) GetProfile(ctx context.Context, userID int64) (string, string, error) {
	if u, ok := p.usernames[userID]; ok {
		return u, p.firstNames[userID], nil
	}
	if f, ok := p.firstNames[userID]; ok {
		return "", f, nil
	}
	return "", "", domain.ErrUserNotFound
}

// fakeUserStore backs the referral tests.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[int64]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*domain.User)}
}

func (s *fakeUserStore) CreateIfAbsent(ctx context.Context, telegramID int64, referrerID *int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[telegramID]; ok {
		return false, nil
	}
	s.users[telegramID] = &domain.User{
		TelegramID: telegramID,
		ReferrerID: referrerID,
		Joined:     time.Now(),
		CreatedAt:  time.Now(),
	}
	return true, nil
}

func (s *fakeUserStore) Get(ctx context.Context, telegramID int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[telegramID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) Exists(ctx context.Context, telegramID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[telegramID]
	return ok, nil
}

func (s *fakeUserStore) AddBalance(ctx context.Context, telegramID int64, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[telegramID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Balance += delta
	return nil
}

func (s *fakeUserStore) Deduct(ctx context.Context, telegramID int64, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[telegramID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.Balance < amount {
		return domain.ErrInsufficientBalance
	}
	u.Balance -= amount
	return nil
}

func (s *fakeUserStore) RatingBetween(ctx context.Context, start, end time.Time) ([]domain.RatingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[int64]int)
	for _, u := range s.users {
		if u.ReferrerID != nil && !u.Joined.Before(start) && u.Joined.Before(end) {
			counts[*u.ReferrerID]++
		}
	}
	out := make([]domain.RatingEntry, 0, len(counts))
	for id, n := range counts {
		out = append(out, domain.RatingEntry{UserID: id, Referrals: n})
	}
	return out, nil
}

type fakeWithdrawalStore struct {
	mu        sync.Mutex
	created   []*domain.Withdrawal
	createErr error
}

func (s *fakeWithdrawalStore) Create(ctx context.Context, userID int64, amount int, pubgID string) (*domain.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	w := &domain.Withdrawal{UserID: userID, Amount: amount, PubgID: pubgID, CreatedAt: time.Now()}
	s.created = append(s.created, w)
	return w, nil
}
