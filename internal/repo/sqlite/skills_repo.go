package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/folioworks/portfolio-api/internal/domain/skill"
	"github.com/folioworks/portfolio-api/internal/observability"
	"github.com/folioworks/portfolio-api/internal/ordering"
)

type SkillsRepo struct {
	pool *sql.DB
	ix   ordering.Indexer
	mx   *observability.Prom
}

func NewSkillsRepo(pool *sql.DB, mx *observability.Prom) *SkillsRepo {
	return &SkillsRepo{
		pool: pool,
		ix:   ordering.ForTable("skills"),
		mx:   mx,
	}
}

const skillColumns = `id, name, category, description, image_url, position, created_at`

func scanSkill(row interface{ Scan(dest ...any) error }, s *skill.Skill) error {
	var category, description, imageURL sql.NullString

	err := row.Scan(
		&s.ID,
		&s.Name,
		&category,
		&description,
		&imageURL,
		&s.Order,
		&s.CreatedAt,
	)

	if err != nil {
		return err
	}

	s.Category = fromNullable(category)
	s.Description = fromNullable(description)
	s.ImageURL = fromNullable(imageURL)

	return nil
}

func (r *SkillsRepo) List(ctx context.Context, filter skill.ListSkillsFilter) ([]skill.Skill, int, error) {
	baseQuery := `SELECT ` + skillColumns + `,
		COUNT(*) OVER() AS total
	FROM skills
	`

	var conds []string
	var args []interface{}

	if filter.Category != nil {
		conds = append(conds, "category = ?")
		args = append(args, *filter.Category)
	}

	if filter.Search != nil {
		conds = append(conds, "(name LIKE ? OR description LIKE ?)")
		pattern := "%" + *filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	query += " ORDER BY position ASC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	output := make([]skill.Skill, 0, filter.Limit)
	total := 0

	err := observe(r.mx, "skills.list", func() error {
		rows, err := r.pool.QueryContext(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var s skill.Skill
			var t int
			var category, description, imageURL sql.NullString

			err = rows.Scan(&s.ID, &s.Name, &category, &description, &imageURL, &s.Order, &s.CreatedAt, &t)

			if err != nil {
				return err
			}

			s.Category = fromNullable(category)
			s.Description = fromNullable(description)
			s.ImageURL = fromNullable(imageURL)

			total = t
			output = append(output, s)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, 0, err
	}

	return output, total, nil
}

func (r *SkillsRepo) GetByID(ctx context.Context, id string) (skill.Skill, error) {
	var s skill.Skill

	err := observe(r.mx, "skills.get", func() error {
		row := r.pool.QueryRowContext(ctx,
			`SELECT `+skillColumns+` FROM skills WHERE id = ?`, id)

		return scanSkill(row, &s)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return skill.Skill{}, skill.ErrNotFound
		}

		return skill.Skill{}, err
	}

	return s, nil
}

func (r *SkillsRepo) Create(ctx context.Context, req skill.CreateSkillRequest) (skill.Skill, error) {
	s := skill.NewFromCreateRequest(req)

	err := observe(r.mx, "skills.create", func() error {
		tx, err := r.pool.BeginTx(ctx, nil)

		if err != nil {
			return err
		}

		return finishTx(tx, func() error {
			taken, err := naturalKeyTaken(ctx, tx, "skills", "name", s.Name, "")

			if err != nil {
				return err
			}

			if taken {
				return skill.ErrAlreadyExists
			}

			pos, err := r.ix.NextPosition(ctx, tx)

			if err != nil {
				return err
			}

			s.Order = pos

			_, err = tx.ExecContext(ctx,
				`INSERT INTO skills (id, name, category, description, image_url, position, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				s.ID, s.Name, nullable(s.Category), nullable(s.Description),
				nullable(s.ImageURL), s.Order, s.CreatedAt,
			)

			if err != nil {
				return err
			}

			if req.Order != nil && *req.Order != s.Order {
				err = r.ix.Reposition(ctx, tx, s.ID, s.Order, *req.Order)

				if err != nil {
					return err
				}

				s.Order = *req.Order
			}

			return nil
		}())
	})

	if err != nil {
		return skill.Skill{}, err
	}

	return s, nil
}

func (r *SkillsRepo) Update(ctx context.Context, id string, req skill.UpdateSkillRequest) (skill.Skill, error) {
	var out skill.Skill

	err := observe(r.mx, "skills.update", func() error {
		tx, err := r.pool.BeginTx(ctx, nil)

		if err != nil {
			return err
		}

		return finishTx(tx, func() error {
			var cur skill.Skill

			row := tx.QueryRowContext(ctx,
				`SELECT `+skillColumns+` FROM skills WHERE id = ?`, id)

			err := scanSkill(row, &cur)

			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return skill.ErrNotFound
				}
				return err
			}

			if req.Name != nil && *req.Name != cur.Name {
				taken, err := naturalKeyTaken(ctx, tx, "skills", "name", *req.Name, id)

				if err != nil {
					return err
				}

				if taken {
					return skill.ErrAlreadyExists
				}
			}

			var sets []string
			var args []interface{}

			if req.Name != nil {
				sets = append(sets, "name = ?")
				args = append(args, *req.Name)
			}
			if req.Category != nil {
				sets = append(sets, "category = ?")
				args = append(args, nullable(*req.Category))
			}
			if req.Description != nil {
				sets = append(sets, "description = ?")
				args = append(args, nullable(*req.Description))
			}
			if req.ImageURL != nil {
				sets = append(sets, "image_url = ?")
				args = append(args, nullable(*req.ImageURL))
			}

			if len(sets) > 0 {
				args = append(args, id)

				_, err = tx.ExecContext(ctx,
					fmt.Sprintf(`UPDATE skills SET %s WHERE id = ?`, strings.Join(sets, ", ")),
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
				`SELECT `+skillColumns+` FROM skills WHERE id = ?`, id)

			return scanSkill(row, &out)
		}())
	})

	if err != nil {
		return skill.Skill{}, err
	}

	return out, nil
}

func (r *SkillsRepo) Delete(ctx context.Context, id string) error {
	return observe(r.mx, "skills.delete", func() error {
		tx, err := r.pool.BeginTx(ctx, nil)

		if err != nil {
			return err
		}

		return finishTx(tx, func() error {
			var pos int

			err := tx.QueryRowContext(ctx,
				`SELECT position FROM skills WHERE id = ?`, id).Scan(&pos)

			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return skill.ErrNotFound
				}
				return err
			}

			_, err = tx.ExecContext(ctx, `DELETE FROM skills WHERE id = ?`, id)

			if err != nil {
				return err
			}

			return r.ix.CloseGap(ctx, tx, pos)
		}())
	})
}
