package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swkombat/ucbot/internal/domain"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// CreateIfAbsent inserts the user and reports whether a row was actually
// created. An existing user is left untouched, including their referrer.
func (r *UserRepo) CreateIfAbsent(ctx context.Context, telegramID int64, referrerID *int64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO users (telegram_id, referrer_id) VALUES ($1, $2)
		 ON CONFLICT (telegram_id) DO NOTHING`,
		telegramID, referrerID)
	if err != nil {
		return false, fmt.Errorf("insert user: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *UserRepo) Get(ctx context.Context, telegramID int64) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx,
		`SELECT telegram_id, balance, referrer_id, joined, created_at
		 FROM users WHERE telegram_id = $1`, telegramID).
		Scan(&u.TelegramID, &u.Balance, &u.ReferrerID, &u.Joined, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) Exists(ctx context.Context, telegramID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE telegram_id = $1)`, telegramID).
		Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepo) AddBalance(ctx context.Context, telegramID int64, delta int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET balance = balance + $2 WHERE telegram_id = $1`,
		telegramID, delta)
	if err != nil {
		return fmt.Errorf("add balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Deduct atomically subtracts the amount, failing when the balance would
// go negative.
func (r *UserRepo) Deduct(ctx context.Context, telegramID int64, amount int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET balance = balance - $2
		 WHERE telegram_id = $1 AND balance >= $2`,
		telegramID, amount)
	if err != nil {
		return fmt.Errorf("deduct balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientBalance
	}
	return nil
}

// RatingBetween counts, per referrer, the users they invited who joined
// inside the window, most referrals first.
func (r *UserRepo) RatingBetween(ctx context.Context, start, end time.Time) ([]domain.RatingEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT referrer_id, COUNT(*) AS referrals
		 FROM users
		 WHERE referrer_id IS NOT NULL AND joined >= $1 AND joined < $2
		 GROUP BY referrer_id
		 ORDER BY referrals DESC, referrer_id`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("rating query: %w", err)
	}
	defer rows.Close()

	var entries []domain.RatingEntry
	for rows.Next() {
		var e domain.RatingEntry
		if err := rows.Scan(&e.UserID, &e.Referrals); err != nil {
			return nil, fmt.Errorf("scan rating row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
