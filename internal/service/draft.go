package service

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/swkombat/ucbot/internal/config"
	"github.com/swkombat/ucbot/internal/domain"
)

// DraftService is the admin creation wizard. One draft per admin, strictly
// ordered steps (image, caption, deadline, winner count), validation in
// place: invalid input leaves the cursor where it is. "Back" is a uniform
// transition to the previous step, valid at every step; at the first step
// it cancels the draft.
type DraftService struct {
	mu     sync.Mutex
	drafts map[int64]*domain.Draft
	now    func() time.Time
}

func NewDraftService() *DraftService {
	return &DraftService{drafts: make(map[int64]*domain.Draft), now: time.Now}
}

// Start begins a new draft, replacing any previous one for this admin.
func (s *DraftService) Start(adminID int64) *domain.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := &domain.Draft{AdminID: adminID, Step: domain.StepImage, UpdatedAt: s.now()}
	s.drafts[adminID] = d
	return d
}

func (s *DraftService) Get(adminID int64) (*domain.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[adminID]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	return d, nil
}

func (s *DraftService) Cancel(adminID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, adminID)
}

// Back moves the cursor one step back. It reports canceled=true when the
// draft was at the first step and has been discarded.
func (s *DraftService) Back(adminID int64) (step domain.DraftStep, canceled bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[adminID]
	if !ok {
		return 0, false, domain.ErrDraftNotFound
	}
	if d.Step == domain.StepImage {
		delete(s.drafts, adminID)
		return domain.StepImage, true, nil
	}
	d.Step--
	d.UpdatedAt = s.now()
	return d.Step, false, nil
}

// SetImage stores the artwork and advances to the caption step.
func (s *DraftService) SetImage(adminID int64, fileID string) error {
	return s.apply(adminID, domain.StepImage, func(d *domain.Draft) error {
		if fileID == "" {
			return domain.ErrInvalidInput
		}
		d.PhotoFileID = fileID
		return nil
	})
}

// SetCaption stores the free text; a lone "-" means an empty caption.
func (s *DraftService) SetCaption(adminID int64, text string) error {
	return s.apply(adminID, domain.StepCaption, func(d *domain.Draft) error {
		text = strings.TrimSpace(text)
		if text == "-" {
			text = ""
		}
		d.Caption = text
		return nil
	})
}

func (s *DraftService) SetDeadline(adminID int64, text string) error {
	return s.apply(adminID, domain.StepDeadline, func(d *domain.Draft) error {
		deadline, err := time.Parse(config.DeadlineLayout, strings.TrimSpace(text))
		if err != nil {
			return domain.ErrInvalidInput
		}
		d.Deadline = deadline
		return nil
	})
}

func (s *DraftService) SetWinnerCount(adminID int64, text string) error {
	return s.apply(adminID, domain.StepWinnerCount, func(d *domain.Draft) error {
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil || n <= 0 {
			return domain.ErrInvalidInput
		}
		d.WinnerCount = n
		return nil
	})
}

// apply runs the mutation when the draft exists and sits at the expected
// step, then advances the cursor.
func (s *DraftService) apply(adminID int64, step domain.DraftStep, fn func(*domain.Draft) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[adminID]
	if !ok {
		return domain.ErrDraftNotFound
	}
	if d.Step != step {
		return domain.ErrInvalidInput
	}
	if err := fn(d); err != nil {
		return err
	}
	d.Step++
	d.UpdatedAt = s.now()
	return nil
}

// Commit converts a completed draft into a competition record and discards
// the draft. The record is not yet persisted or published.
func (s *DraftService) Commit(adminID int64) (*domain.Competition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[adminID]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	if d.Step <= domain.StepWinnerCount {
		return nil, domain.ErrInvalidInput
	}
	delete(s.drafts, adminID)
	return &domain.Competition{
		PhotoFileID:          d.PhotoFileID,
		Caption:              d.Caption,
		Deadline:             d.Deadline,
		RequestedWinnerCount: d.WinnerCount,
		Participants:         []domain.Participant{},
		Posts:                map[string]domain.PostRef{},
	}, nil
}

// Sweep discards drafts untouched for longer than ttl.
func (s *DraftService) Sweep(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-ttl)
	for id, d := range s.drafts {
		if d.UpdatedAt.Before(cutoff) {
			delete(s.drafts, id)
		}
	}
}
