package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"

	"github.com/swkombat/ucbot/internal/domain"
)

// ProfileAPI resolves a user's public-facing identity.
type ProfileAPI interface {
	GetProfile(ctx context.Context, userID int64) (username, firstName string, err error)
}

// Resolver performs the one-time finalization of an expired competition:
// it draws winners uniformly without replacement, announces them on both
// surfaces and persists the outcome. The random source is injected so
// tests can use a fixed seed.
type Resolver struct {
	store    CompetitionStore
	pub      Publisher
	notif    Notifier
	profiles ProfileAPI
	adminIDs []int64

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewResolver(store CompetitionStore, pub Publisher, notif Notifier, profiles ProfileAPI, adminIDs []int64, rnd *rand.Rand) *Resolver {
	return &Resolver{
		store:    store,
		pub:      pub,
		notif:    notif,
		profiles: profiles,
		adminIDs: adminIDs,
		rnd:      rnd,
	}
}

// Finalize settles the competition. It is an idempotent no-op when the
// competition is already finalized: the guard is checked under the store's
// row lock, so the announcement sequence runs at most once per id.
func (r *Resolver) Finalize(ctx context.Context, compID int64) error {
	var (
		winnerIDs    []int64
		participants int
	)
	err := r.store.Update(ctx, compID, func(c *domain.Competition) error {
		if c.Finalized {
			return domain.ErrAlreadyFinalized
		}
		participants = len(c.Participants)
		winnerIDs = r.draw(c)
		c.WinnerIDs = winnerIDs
		c.Finalized = true
		return nil
	})
	if errors.Is(err, domain.ErrAlreadyFinalized) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("finalize competition %d: %w", compID, err)
	}

	if participants == 0 {
		r.pub.Broadcast(ctx, fmt.Sprintf("⚠️ #%d konkursi yakunlandi. Ishtirokchilar bo'lmadi.", compID))
		return nil
	}

	r.announce(ctx, compID, winnerIDs)
	return nil
}

// draw selects min(requested, len(participants)) entries, every subset
// equally likely.
func (r *Resolver) draw(c *domain.Competition) []int64 {
	n := len(c.Participants)
	if n == 0 {
		return []int64{}
	}
	k := c.RequestedWinnerCount
	if k > n {
		k = n
	}

	r.mu.Lock()
	order := r.rnd.Perm(n)
	r.mu.Unlock()

	winners := make([]int64, 0, k)
	for _, idx := range order[:k] {
		winners = append(winners, c.Participants[idx].UserID)
	}
	return winners
}

func (r *Resolver) announce(ctx context.Context, compID int64, winnerIDs []int64) {
	mentions := make([]string, 0, len(winnerIDs))
	for _, id := range winnerIDs {
		mentions = append(mentions, r.mention(ctx, id))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🎊 Konkurs #%d yakunlandi! G'oliblar:\n", compID)
	for i, m := range mentions {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, m)
	}
	sb.WriteString("\nAdminlar siz bilan bog'lanadi.")
	r.pub.Broadcast(ctx, sb.String())

	for _, id := range winnerIDs {
		err := r.notif.NotifyUser(ctx, id,
			fmt.Sprintf("🎉 Tabriklaymiz! Siz Konkurs #%d g'olibisiz! Adminlar bilan bog'laning.", compID))
		if err != nil {
			slog.Warn("winner notification failed", "competition_id", compID, "user_id", id, "error", err)
		}
	}

	adminText := fmt.Sprintf("Konkurs #%d yakunlandi. G'oliblar:\n%s", compID, strings.Join(mentions, "\n"))
	for _, adminID := range r.adminIDs {
		if err := r.notif.NotifyUser(ctx, adminID, adminText); err != nil {
			slog.Warn("admin notification failed", "admin_id", adminID, "error", err)
		}
	}
}

// mention prefers @username, then first name, then a synthetic id token.
func (r *Resolver) mention(ctx context.Context, userID int64) string {
	username, firstName, err := r.profiles.GetProfile(ctx, userID)
	if err == nil {
		if username != "" {
			return "@" + username
		}
		if firstName != "" {
			return firstName
		}
	}
	return fmt.Sprintf("ID:%d", userID)
}
