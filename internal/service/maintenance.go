package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/swkombat/ucbot/internal/domain"
)

// Maintenance is the periodic sweep over all open competitions: it evicts
// participants whose subscription lapsed and finalizes competitions whose
// deadline has passed. Failures are isolated per competition and per
// participant so one bad item never aborts the rest of the sweep.
type Maintenance struct {
	store    CompetitionStore
	oracle   MembershipChecker
	pub      Publisher
	notif    Notifier
	resolver *Resolver
	now      func() time.Time
}

func NewMaintenance(store CompetitionStore, oracle MembershipChecker, pub Publisher, notif Notifier, resolver *Resolver) *Maintenance {
	return &Maintenance{
		store:    store,
		oracle:   oracle,
		pub:      pub,
		notif:    notif,
		resolver: resolver,
		now:      time.Now,
	}
}

// Tick runs one maintenance cycle.
func (m *Maintenance) Tick(ctx context.Context) {
	comps, err := m.store.ListOpen(ctx)
	if err != nil {
		slog.Error("maintenance: list open competitions", "error", err)
		return
	}

	for _, c := range comps {
		if err := m.evictIneligible(ctx, c); err != nil {
			slog.Error("maintenance: eligibility sweep", "competition_id", c.ID, "error", err)
		}
	}

	now := m.now()
	for _, c := range comps {
		if !c.Expired(now) {
			continue
		}
		if err := m.resolver.Finalize(ctx, c.ID); err != nil {
			slog.Error("maintenance: finalize", "competition_id", c.ID, "error", err)
		}
	}
}

// evictIneligible re-checks every participant of one competition. The
// slow oracle calls happen outside the row lock; only the participants
// seen ineligible here are removed, so a join landing mid-sweep survives.
func (m *Maintenance) evictIneligible(ctx context.Context, c *domain.Competition) error {
	evict := make(map[int64]bool)
	for _, p := range c.Participants {
		if !m.oracle.IsEligible(ctx, p.UserID) {
			evict[p.UserID] = true
		}
	}
	if len(evict) == 0 {
		return nil
	}

	removed := 0
	err := m.store.Update(ctx, c.ID, func(c *domain.Competition) error {
		if c.Finalized {
			return nil
		}
		kept := c.Participants[:0]
		for _, p := range c.Participants {
			if evict[p.UserID] {
				removed++
				continue
			}
			kept = append(kept, p)
		}
		c.Participants = kept
		return nil
	})
	if err != nil {
		return err
	}
	if removed == 0 {
		return nil
	}

	for userID := range evict {
		err := m.notif.NotifyUser(ctx, userID, fmt.Sprintf(
			"❗ Siz Konkurs #%d dan chetlatildingiz, chunki obuna bekor qilingan. "+
				"Qaytadan qatnashish uchun obuna bo'ling va postdagi tugmani bosing.", c.ID))
		if err != nil {
			slog.Warn("eviction notification failed", "competition_id", c.ID, "user_id", userID, "error", err)
		}
	}

	fresh, err := m.store.Get(ctx, c.ID)
	if err != nil {
		return err
	}
	if err := m.pub.Refresh(ctx, fresh); err != nil {
		slog.Error("refresh after eviction", "competition_id", c.ID, "error", err)
	}
	return nil
}
