package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/swkombat/ucbot/internal/domain"
)

// CompetitionStore is the durable participant store. Update must run the
// callback against a fresh copy of the record and write it back atomically,
// serializing concurrent read-modify-write sequences on the same id.
type CompetitionStore interface {
	Create(ctx context.Context, c *domain.Competition) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Competition, error)
	List(ctx context.Context) ([]*domain.Competition, error)
	ListOpen(ctx context.Context) ([]*domain.Competition, error)
	Update(ctx context.Context, id int64, fn func(*domain.Competition) error) error
	Delete(ctx context.Context, id int64) error
}

// Publisher renders a competition onto the channel and group surfaces.
type Publisher interface {
	Publish(ctx context.Context, c *domain.Competition) (map[string]domain.PostRef, error)
	Refresh(ctx context.Context, c *domain.Competition) error
	Broadcast(ctx context.Context, text string)
}

// Notifier delivers a direct message to one user.
type Notifier interface {
	NotifyUser(ctx context.Context, userID int64, text string) error
}

// JoinOutcome is the result of a join attempt.
type JoinOutcome int

const (
	JoinAdded JoinOutcome = iota
	JoinAlreadyIn
	JoinNotFound
	JoinPending
	JoinClosed
)

type CompetitionService struct {
	store   CompetitionStore
	oracle  MembershipChecker
	pub     Publisher
	pending *PendingJoins
}

func NewCompetitionService(store CompetitionStore, oracle MembershipChecker, pub Publisher, pending *PendingJoins) *CompetitionService {
	return &CompetitionService{store: store, oracle: oracle, pub: pub, pending: pending}
}

// Create persists a new competition and publishes it on both surfaces.
// Publishing failures are logged; the competition stays created either way.
func (s *CompetitionService) Create(ctx context.Context, c *domain.Competition) (int64, error) {
	id, err := s.store.Create(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("create competition: %w", err)
	}

	posts, err := s.pub.Publish(ctx, c)
	if err != nil {
		slog.Error("publish competition", "competition_id", id, "error", err)
	}
	if len(posts) > 0 {
		if err := s.store.Update(ctx, id, func(c *domain.Competition) error {
			for surface, ref := range posts {
				c.Posts[surface] = ref
			}
			return nil
		}); err != nil {
			slog.Error("persist post handles", "competition_id", id, "error", err)
		}
	}
	return id, nil
}

func (s *CompetitionService) Get(ctx context.Context, id int64) (*domain.Competition, error) {
	return s.store.Get(ctx, id)
}

func (s *CompetitionService) List(ctx context.Context) ([]*domain.Competition, error) {
	return s.store.List(ctx)
}

// Join adds the user to the competition if they are eligible. An
// ineligible user gets a pending context instead, to be resolved by a
// later confirmation callback.
func (s *CompetitionService) Join(ctx context.Context, compID, userID int64) (JoinOutcome, error) {
	c, err := s.store.Get(ctx, compID)
	if err != nil {
		if errors.Is(err, domain.ErrCompetitionNotFound) {
			return JoinNotFound, nil
		}
		return JoinNotFound, err
	}
	if c.Finalized {
		return JoinClosed, nil
	}
	if c.HasParticipant(userID) {
		return JoinAlreadyIn, nil
	}

	if !s.oracle.IsEligible(ctx, userID) {
		s.pending.Set(userID, compID)
		return JoinPending, nil
	}

	outcome := JoinAdded
	err = s.store.Update(ctx, compID, func(c *domain.Competition) error {
		if c.Finalized {
			outcome = JoinClosed
			return nil
		}
		if !c.AddParticipant(userID, "") {
			outcome = JoinAlreadyIn
		}
		return nil
	})
	if err != nil {
		return JoinNotFound, err
	}

	if outcome == JoinAdded {
		s.pending.Clear(userID)
		s.refresh(ctx, compID)
	}
	return outcome, nil
}

// ConfirmJoin resolves an eligibility-confirmation callback. A zero compID
// means the callback carried no competition id and the pending context is
// used instead.
func (s *CompetitionService) ConfirmJoin(ctx context.Context, userID, compID int64) (JoinOutcome, int64, error) {
	if compID == 0 {
		var ok bool
		compID, ok = s.pending.Get(userID)
		if !ok {
			return JoinNotFound, 0, domain.ErrNoPendingJoin
		}
	}
	outcome, err := s.Join(ctx, compID, userID)
	if outcome == JoinAlreadyIn {
		s.pending.Clear(userID)
	}
	return outcome, compID, err
}

// EditCaption, EditDeadline and EditWinnerCount mutate an open
// competition and refresh its posts. Finalized competitions are immutable.

func (s *CompetitionService) EditCaption(ctx context.Context, id int64, caption string) error {
	return s.edit(ctx, id, func(c *domain.Competition) { c.Caption = caption })
}

func (s *CompetitionService) EditDeadline(ctx context.Context, id int64, deadline time.Time) error {
	return s.edit(ctx, id, func(c *domain.Competition) { c.Deadline = deadline })
}

func (s *CompetitionService) EditWinnerCount(ctx context.Context, id int64, count int) error {
	if count <= 0 {
		return domain.ErrInvalidInput
	}
	return s.edit(ctx, id, func(c *domain.Competition) { c.RequestedWinnerCount = count })
}

func (s *CompetitionService) edit(ctx context.Context, id int64, mutate func(*domain.Competition)) error {
	err := s.store.Update(ctx, id, func(c *domain.Competition) error {
		if c.Finalized {
			return domain.ErrAlreadyFinalized
		}
		mutate(c)
		return nil
	})
	if err != nil {
		return err
	}
	s.refresh(ctx, id)
	return nil
}

func (s *CompetitionService) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

func (s *CompetitionService) refresh(ctx context.Context, id int64) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		slog.Error("load competition for refresh", "competition_id", id, "error", err)
		return
	}
	if err := s.pub.Refresh(ctx, c); err != nil {
		slog.Error("refresh competition posts", "competition_id", id, "error", err)
	}
}
