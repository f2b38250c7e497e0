package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/folioworks/portfolio-api/internal/domain/herobanner"
	"github.com/folioworks/portfolio-api/internal/observability"
	"github.com/folioworks/portfolio-api/internal/ordering"
)

type HeroBannerRepo struct {
	pool *sql.DB
	ix   ordering.Indexer
	mx   *observability.Prom
}

func NewHeroBannerRepo(pool *sql.DB, mx *observability.Prom) *HeroBannerRepo {
	return &HeroBannerRepo{
		pool: pool,
		ix:   ordering.ForTable("hero_banner_texts"),
		mx:   mx,
	}
}

const heroBannerColumns = `id, text, is_active, position, created_at`

func scanHeroBanner(row interface{ Scan(dest ...any) error }, h *herobanner.Text) error {
	var active int

	err := row.Scan(&h.ID, &h.Text, &active, &h.Order, &h.CreatedAt)

	if err != nil {
		return err
	}

	// SQLite stores booleans as 0/1
	h.IsActive = active == 1

	return nil
}

func (r *HeroBannerRepo) List(ctx context.Context, filter herobanner.ListTextsFilter) ([]herobanner.Text, int, error) {
	baseQuery := `SELECT ` + heroBannerColumns + `,
		COUNT(*) OVER() AS total
	FROM hero_banner_texts
	`

	var conds []string
	var args []interface{}

	if filter.Search != nil {
		conds = append(conds, "text LIKE ?")
		args = append(args, "%"+*filter.Search+"%")
	}

	if filter.IsActive != nil {
		conds = append(conds, "is_active = ?")
		if *filter.IsActive {
			args = append(args, 1)
		} else {
			args = append(args, 0)
		}
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	query += " ORDER BY position ASC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	output := make([]herobanner.Text, 0, filter.Limit)
	total := 0

	err := observe(r.mx, "herobanner.list", func() error {
		rows, err := r.pool.QueryContext(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var h herobanner.Text
			var active, t int

			err = rows.Scan(&h.ID, &h.Text, &active, &h.Order, &h.CreatedAt, &t)

			if err != nil {
				return err
			}

			h.IsActive = active == 1

			total = t
			output = append(output, h)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, 0, err
	}

	return output, total, nil
}

func (r *HeroBannerRepo) GetByID(ctx context.Context, id string) (herobanner.Text, error) {
	var h herobanner.Text

	err := observe(r.mx, "herobanner.get", func() error {
		row := r.pool.QueryRowContext(ctx,
			`SELECT `+heroBannerColumns+` FROM hero_banner_texts WHERE id = ?`, id)

		return scanHeroBanner(row, &h)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return herobanner.Text{}, herobanner.ErrNotFound
		}

		return herobanner.Text{}, err
	}

	return h, nil
}

func (r *HeroBannerRepo) Create(ctx context.Context, req herobanner.CreateTextRequest) (herobanner.Text, error) {
	h := herobanner.NewFromCreateRequest(req)

	err := observe(r.mx, "herobanner.create", func() error {
		tx, err := r.pool.BeginTx(ctx, nil)

		if err != nil {
			return err
		}

		return finishTx(tx, func() error {
			taken, err := naturalKeyTaken(ctx, tx, "hero_banner_texts", "text", h.Text, "")

			if err != nil {
				return err
			}

			if taken {
				return herobanner.ErrAlreadyExists
			}

			pos, err := r.ix.NextPosition(ctx, tx)

			if err != nil {
				return err
			}

			h.Order = pos

			active := 0
			if h.IsActive {
				active = 1
			}

			_, err = tx.ExecContext(ctx,
				`INSERT INTO hero_banner_texts (id, text, is_active, position, created_at)
				VALUES (?, ?, ?, ?, ?)`,
				h.ID, h.Text, active, h.Order, h.CreatedAt,
			)

			if err != nil {
				return err
			}

			if req.Order != nil && *req.Order != h.Order {
				err = r.ix.Reposition(ctx, tx, h.ID, h.Order, *req.Order)

				if err != nil {
					return err
				}

				h.Order = *req.Order
			}

			return nil
		}())
	})

	if err != nil {
		return herobanner.Text{}, err
	}

	return h, nil
}

func (r *HeroBannerRepo) Update(ctx context.Context, id string, req herobanner.UpdateTextRequest) (herobanner.Text, error) {
	var out herobanner.Text

	err := observe(r.mx, "herobanner.update", func() error {
		tx, err := r.pool.BeginTx(ctx, nil)

		if err != nil {
			return err
		}

		return finishTx(tx, func() error {
			var cur herobanner.Text

			row := tx.QueryRowContext(ctx,
				`SELECT `+heroBannerColumns+` FROM hero_banner_texts WHERE id = ?`, id)

			err := scanHeroBanner(row, &cur)

			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return herobanner.ErrNotFound
				}
				return err
			}

			if req.Text != nil && *req.Text != cur.Text {
				taken, err := naturalKeyTaken(ctx, tx, "hero_banner_texts", "text", *req.Text, id)

				if err != nil {
					return err
				}

				if taken {
					return herobanner.ErrAlreadyExists
				}
			}

			var sets []string
			var args []interface{}

			if req.Text != nil {
				sets = append(sets, "text = ?")
				args = append(args, *req.Text)
			}
			if req.IsActive != nil {
				sets = append(sets, "is_active = ?")
				if *req.IsActive {
					args = append(args, 1)
				} else {
					args = append(args, 0)
				}
			}

			if len(sets) > 0 {
				args = append(args, id)

				_, err = tx.ExecContext(ctx,
					fmt.Sprintf(`UPDATE hero_banner_texts SET %s WHERE id = ?`, strings.Join(sets, ", ")),
					args...,
				)

				if err != nil {
					return err
				}
			}

			if req.Order != nil && *req.Order != cur.Order {
				err = r.ix.Reposition(ctx, tx, id, cur.Order, *req.Order)

				if err != nil {
					return err
				}
			}

			row = tx.QueryRowContext(ctx,
				`SELECT `+heroBannerColumns+` FROM hero_banner_texts WHERE id = ?`, id)

			return scanHeroBanner(row, &out)
		}())
	})

	if err != nil {
		return herobanner.Text{}, err
	}

	return out, nil
}

func (r *HeroBannerRepo) Delete(ctx context.Context, id string) error {
	return observe(r.mx, "herobanner.delete", func() error {
		tx, err := r.pool.BeginTx(ctx, nil)

		if err != nil {
			return err
		}

		return finishTx(tx, func() error {
			var pos int

			err := tx.QueryRowContext(ctx,
				`SELECT position FROM hero_banner_texts WHERE id = ?`, id).Scan(&pos)

			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return herobanner.ErrNotFound
				}
				return err
			}

			_, err = tx.ExecContext(ctx, `DELETE FROM hero_banner_texts WHERE id = ?`, id)

			if err != nil {
				return err
			}

			return r.ix.CloseGap(ctx, tx, pos)
		}())
	})
}
