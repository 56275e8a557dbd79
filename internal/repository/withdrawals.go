package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swkombat/ucbot/internal/domain"
)

type WithdrawalRepo struct {
	pool *pgxpool.Pool
}

func NewWithdrawalRepo(pool *pgxpool.Pool) *WithdrawalRepo {
	return &WithdrawalRepo{pool: pool}
}

func (r *WithdrawalRepo) Create(ctx context.Context, userID int64, amount int, pubgID string) (*domain.Withdrawal, error) {
	w := &domain.Withdrawal{
		ID:     uuid.New(),
		UserID: userID,
		Amount: amount,
		PubgID: pubgID,
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO withdrawals (id, user_id, amount, pubg_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		w.ID, w.UserID, w.Amount, w.PubgID).Scan(&w.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert withdrawal: %w", err)
	}
	return w, nil
}
