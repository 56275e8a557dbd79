package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/swkombat/ucbot/internal/config"
	"github.com/swkombat/ucbot/internal/domain"
)

// UserStore is the durable user/balance store.
type UserStore interface {
	CreateIfAbsent(ctx context.Context, telegramID int64, referrerID *int64) (bool, error)
	Get(ctx context.Context, telegramID int64) (*domain.User, error)
	Exists(ctx context.Context, telegramID int64) (bool, error)
	AddBalance(ctx context.Context, telegramID int64, delta int) error
	Deduct(ctx context.Context, telegramID int64, amount int) error
	RatingBetween(ctx context.Context, start, end time.Time) ([]domain.RatingEntry, error)
}

// WithdrawalStore records payout handoffs.
type WithdrawalStore interface {
	Create(ctx context.Context, userID int64, amount int, pubgID string) (*domain.Withdrawal, error)
}

// ReferralService owns the UC bookkeeping: registration with referral
// credit, balances, the leaderboard and the manual withdrawal handoff.
type ReferralService struct {
	users       UserStore
	withdrawals WithdrawalStore
}

func NewReferralService(users UserStore, withdrawals WithdrawalStore) *ReferralService {
	return &ReferralService{users: users, withdrawals: withdrawals}
}

// Register creates the user on first contact. The referral payload is the
// inviter's telegram id; the inviter is credited exactly once, and only
// when they already exist at the moment of creation. Self-referrals and
// unknown referrers are ignored.
func (s *ReferralService) Register(ctx context.Context, userID int64, refPayload string) (bool, error) {
	var referrerID *int64
	if refPayload != "" {
		ref, err := strconv.ParseInt(refPayload, 10, 64)
		if err == nil && ref != userID {
			exists, err := s.users.Exists(ctx, ref)
			if err != nil {
				return false, fmt.Errorf("check referrer: %w", err)
			}
			if exists {
				referrerID = &ref
			}
		}
	}

	created, err := s.users.CreateIfAbsent(ctx, userID, referrerID)
	if err != nil {
		return false, fmt.Errorf("register user: %w", err)
	}

	if created && referrerID != nil {
		if err := s.users.AddBalance(ctx, *referrerID, config.ReferralReward); err != nil {
			slog.Error("credit referrer", "referrer_id", *referrerID, "error", err)
		}
	}
	return created, nil
}

func (s *ReferralService) Balance(ctx context.Context, userID int64) (int, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return u.Balance, nil
}

// Withdraw deducts the amount and records the handoff. The deduction is
// rolled back if the audit row cannot be written.
func (s *ReferralService) Withdraw(ctx context.Context, userID int64, amount int, pubgID string) (*domain.Withdrawal, error) {
	if err := s.users.Deduct(ctx, userID, amount); err != nil {
		return nil, err
	}
	w, err := s.withdrawals.Create(ctx, userID, amount, pubgID)
	if err != nil {
		if refundErr := s.users.AddBalance(ctx, userID, amount); refundErr != nil {
			slog.Error("refund after failed withdrawal", "user_id", userID, "amount", amount, "error", refundErr)
		}
		return nil, fmt.Errorf("record withdrawal: %w", err)
	}
	return w, nil
}

func (s *ReferralService) Rating(ctx context.Context, start, end time.Time) ([]domain.RatingEntry, error) {
	return s.users.RatingBetween(ctx, start, end)
}
