package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/folioworks/portfolio-api/internal/domain/aboutme"
	"github.com/folioworks/portfolio-api/internal/observability"
	"github.com/google/uuid"
)

type AboutMeRepo struct {
	pool *sql.DB
	mx   *observability.Prom
}

func NewAboutMeRepo(pool *sql.DB, mx *observability.Prom) *AboutMeRepo {
	return &AboutMeRepo{pool: pool, mx: mx}
}

func (r *AboutMeRepo) Get(ctx context.Context) (aboutme.AboutMe, error) {
	var a aboutme.AboutMe

	err := observe(r.mx, "aboutme.get", func() error {
		return r.pool.QueryRowContext(ctx,
			`SELECT id, text, updated_at FROM about_me LIMIT 1`,
		).Scan(&a.ID, &a.Text, &a.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return aboutme.AboutMe{}, aboutme.ErrNotFound
		}

		return aboutme.AboutMe{}, err
	}

	return a, nil
}

// Upsert writes the single about-me record, creating it on first use.
func (r *AboutMeRepo) Upsert(ctx context.Context, text string) (aboutme.AboutMe, error) {
	var out aboutme.AboutMe

	err := observe(r.mx, "aboutme.upsert", func() error {
		tx, err := r.pool.BeginTx(ctx, nil)

		if err != nil {
			return err
		}

		return finishTx(tx, func() error {
			now := time.Now().UTC()

			var id string

			err := tx.QueryRowContext(ctx, `SELECT id FROM about_me LIMIT 1`).Scan(&id)

			switch {
			case err == nil:
				_, err = tx.ExecContext(ctx,
					`UPDATE about_me SET text = ?, updated_at = ? WHERE id = ?`,
					text, now, id,
				)
			case errors.Is(err, sql.ErrNoRows):
				id = uuid.NewString()
				_, err = tx.ExecContext(ctx,
					`INSERT INTO about_me (id, text, updated_at) VALUES (?, ?, ?)`,
					id, text, now,
				)
			}

			if err != nil {
				return err
			}

			out = aboutme.AboutMe{ID: id, Text: text, UpdatedAt: now}

			return nil
		}())
	})

	if err != nil {
		return aboutme.AboutMe{}, err
	}

	return out, nil
}
