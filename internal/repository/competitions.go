package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swkombat/ucbot/internal/domain"
)

type CompetitionRepo struct {
	pool *pgxpool.Pool
}

func NewCompetitionRepo(pool *pgxpool.Pool) *CompetitionRepo {
	return &CompetitionRepo{pool: pool}
}

const competitionColumns = `id, photo_file_id, caption, deadline,
	requested_winner_count, participants, finalized, winner_ids, posts, created_at`

func (r *CompetitionRepo) Create(ctx context.Context, c *domain.Competition) (int64, error) {
	participants, posts, err := marshalCompetitionBlobs(c)
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.pool.QueryRow(ctx,
		`INSERT INTO competitions
		 (photo_file_id, caption, deadline, requested_winner_count, participants, finalized, winner_ids, posts)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		c.PhotoFileID, c.Caption, c.Deadline, c.RequestedWinnerCount,
		participants, c.Finalized, c.WinnerIDs, posts).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert competition: %w", err)
	}
	c.ID = id
	return id, nil
}

func (r *CompetitionRepo) Get(ctx context.Context, id int64) (*domain.Competition, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+competitionColumns+` FROM competitions WHERE id = $1`, id)
	return scanCompetition(row)
}

func (r *CompetitionRepo) List(ctx context.Context) ([]*domain.Competition, error) {
	return r.list(ctx, `SELECT `+competitionColumns+` FROM competitions ORDER BY id`)
}

func (r *CompetitionRepo) ListOpen(ctx context.Context) ([]*domain.Competition, error) {
	return r.list(ctx, `SELECT `+competitionColumns+` FROM competitions WHERE NOT finalized ORDER BY id`)
}

func (r *CompetitionRepo) list(ctx context.Context, query string) ([]*domain.Competition, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}
	defer rows.Close()

	var comps []*domain.Competition
	for rows.Next() {
		c, err := scanCompetition(rows)
		if err != nil {
			return nil, err
		}
		comps = append(comps, c)
	}
	return comps, rows.Err()
}

// Update runs fn against the current record inside a transaction holding
// the row lock, then writes the whole record back. This serializes every
// read-modify-write on a given competition id, so a join racing a
// maintenance eviction cannot lose its write and the finalized guard can
// only be passed once.
func (r *CompetitionRepo) Update(ctx context.Context, id int64, fn func(*domain.Competition) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT `+competitionColumns+` FROM competitions WHERE id = $1 FOR UPDATE`, id)
	c, err := scanCompetition(row)
	if err != nil {
		return err
	}

	if err := fn(c); err != nil {
		return err
	}

	participants, posts, err := marshalCompetitionBlobs(c)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE competitions SET
		 photo_file_id = $2, caption = $3, deadline = $4, requested_winner_count = $5,
		 participants = $6, finalized = $7, winner_ids = $8, posts = $9
		 WHERE id = $1`,
		id, c.PhotoFileID, c.Caption, c.Deadline, c.RequestedWinnerCount,
		participants, c.Finalized, c.WinnerIDs, posts)
	if err != nil {
		return fmt.Errorf("write competition: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *CompetitionRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM competitions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete competition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCompetitionNotFound
	}
	return nil
}

func marshalCompetitionBlobs(c *domain.Competition) (participants, posts []byte, err error) {
	if c.Participants == nil {
		c.Participants = []domain.Participant{}
	}
	if c.Posts == nil {
		c.Posts = map[string]domain.PostRef{}
	}
	participants, err = json.Marshal(c.Participants)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal participants: %w", err)
	}
	posts, err = json.Marshal(c.Posts)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal posts: %w", err)
	}
	return participants, posts, nil
}

func scanCompetition(row pgx.Row) (*domain.Competition, error) {
	var (
		c            domain.Competition
		participants []byte
		posts        []byte
	)
	err := row.Scan(&c.ID, &c.PhotoFileID, &c.Caption, &c.Deadline,
		&c.RequestedWinnerCount, &participants, &c.Finalized, &c.WinnerIDs,
		&posts, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("scan competition: %w", err)
	}
	if err := json.Unmarshal(participants, &c.Participants); err != nil {
		return nil, fmt.Errorf("unmarshal participants: %w", err)
	}
	if err := json.Unmarshal(posts, &c.Posts); err != nil {
		return nil, fmt.Errorf("unmarshal posts: %w", err)
	}
	return &c, nil
}
