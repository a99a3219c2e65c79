package postgres

import (
	"context"
	"time"

	"github.com/campusbites/canteenhub/internal/domain/feedback"
	"github.com/campusbites/canteenhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FeedbackRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewFeedbackRepo(pool *pgxpool.Pool, prom *observability.Prom) *FeedbackRepo {
	return &FeedbackRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *FeedbackRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *FeedbackRepo) Create(ctx context.Context, fb feedback.Feedback) error {
	return r.observe("feedback.create", func() error {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO feedback (id, user_id, category, stars, comment, created_at)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, fb.ID, fb.UserID, fb.Category, fb.Stars, fb.Comment, fb.CreatedAt)
		return err
	})
}

func (r *FeedbackRepo) ListByUser(ctx context.Context, userID string) ([]feedback.Feedback, error) {
	var rows pgx.Rows
	var err error

	err = r.observe("feedback.list_by_user", func() error {
		rows, err = r.pool.Query(ctx, `
			SELECT id, user_id, category, stars, comment, created_at
			FROM feedback
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
		`, userID)
		return err
	})

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	return scanFeedback(rows)
}

// ListCursor pages across all users' feedback, newest first. The zero
// afterCreatedAt/afterID pair means "from the top".
func (r *FeedbackRepo) ListCursor(ctx context.Context, limit int, afterCreatedAt time.Time, afterID string) ([]feedback.Feedback, bool, error) {
	var rows pgx.Rows
	var err error

	// fetch one extra row to learn whether another page exists

	err = r.observe("feedback.list_cursor", func() error {
		if afterID == "" {
			rows, err = r.pool.Query(ctx, `
				SELECT id, user_id, category, stars, comment, created_at
				FROM feedback
				ORDER BY created_at DESC, id DESC
				LIMIT $1
			`, limit+1)
			return err
		}

		rows, err = r.pool.Query(ctx, `
			SELECT id, user_id, category, stars, comment, created_at
			FROM feedback
			WHERE (created_at, id) < ($1, $2)
			ORDER BY created_at DESC, id DESC
			LIMIT $3
		`, afterCreatedAt, afterID, limit+1)
		return err
	})

	if err != nil {
		return nil, false, err
	}

	defer rows.Close()

	items, err := scanFeedback(rows)

	if err != nil {
		return nil, false, err
	}

	hasMore := len(items) > limit

	if hasMore {
		items = items[:limit]
	}

	return items, hasMore, nil
}

func scanFeedback(rows pgx.Rows) ([]feedback.Feedback, error) {
	items := []feedback.Feedback{}

	for rows.Next() {
		var fb feedback.Feedback

		err := rows.Scan(&fb.ID, &fb.UserID, &fb.Category, &fb.Stars, &fb.Comment, &fb.CreatedAt)

		if err != nil {
			return nil, err
		}

		items = append(items, fb)
	}

	return items, rows.Err()
}
