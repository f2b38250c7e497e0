package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/folioworks/portfolio-api/internal/domain/project"
	"github.com/folioworks/portfolio-api/internal/observability"
	"github.com/folioworks/portfolio-api/internal/ordering"
)

type ProjectsRepo struct {
	pool *sql.DB
	ix   ordering.Indexer
	mx   *observability.Prom
}

// constructor function

func NewProjectsRepo(pool *sql.DB, mx *observability.Prom) *ProjectsRepo {
	return &ProjectsRepo{
		pool: pool,
		ix:   ordering.ForTable("projects"),
		mx:   mx,
	}
}

const projectColumns = `id, title, description, skills, github_link, demo_link, category, image_url, position, created_at`

func scanProject(row interface{ Scan(dest ...any) error }, p *project.Project) error {
	var description, skills, githubLink, demoLink, category, imageURL sql.NullString

	err := row.Scan(
		&p.ID,
		&p.Title,
		&description,
		&skills,
		&githubLink,
		&demoLink,
		&category,
		&imageURL,
		&p.Order,
		&p.CreatedAt,
	)

	if err != nil {
		return err
	}

	p.Description = fromNullable(description)
	p.Skills = splitCSV(skills)
	p.GithubLink = fromNullable(githubLink)
	p.DemoLink = fromNullable(demoLink)
	p.Category = fromNullable(category)
	p.ImageURL = fromNullable(imageURL)

	return nil
}

func (r *ProjectsRepo) List(ctx context.Context, filter project.ListProjectsFilter) ([]project.Project, int, error) {
	baseQuery := `SELECT ` + projectColumns + `,
		COUNT(*) OVER() AS total
	FROM projects
	`

	var conds []string
	var args []interface{}

	if filter.Search != nil {
		conds = append(conds, "(title LIKE ? OR description LIKE ?)")
		pattern := "%" + *filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	if filter.Category != nil {
		conds = append(conds, "category = ?")
		args = append(args, *filter.Category)
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// stable ordering by the maintained position
	query += " ORDER BY position ASC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	output := make([]project.Project, 0, filter.Limit)
	total := 0

	err := observe(r.mx, "projects.list", func() error {
		rows, err := r.pool.QueryContext(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var p project.Project
			var t int
			var description, skills, githubLink, demoLink, category, imageURL sql.NullString

			err = rows.Scan(
				&p.ID, &p.Title, &description, &skills, &githubLink, &demoLink,
				&category, &imageURL, &p.Order, &p.CreatedAt, &t,
			)

			if err != nil {
				return err
			}

			p.Description = fromNullable(description)
			p.Skills = splitCSV(skills)
			p.GithubLink = fromNullable(githubLink)
			p.DemoLink = fromNullable(demoLink)
			p.Category = fromNullable(category)
			p.ImageURL = fromNullable(imageURL)

			total = t
			output = append(output, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, 0, err
	}

	return output, total, nil
}

func (r *ProjectsRepo) GetByID(ctx context.Context, id string) (project.Project, error) {
	var p project.Project

	err := observe(r.mx, "projects.get", func() error {
		row := r.pool.QueryRowContext(ctx,
			`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)

		return scanProject(row, &p)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return project.Project{}, project.ErrNotFound
		}

		return project.Project{}, err
	}

	return p, nil
}

// Create appends the project at the end of the collection unless an explicit
// order was requested, in which case the insert and the shift happen in the
// same transaction.
func (r *ProjectsRepo) Create(ctx context.Context, req project.CreateProjectRequest) (project.Project, error) {
	p := project.NewFromCreateRequest(req)

	err := observe(r.mx, "projects.create", func() error {
		tx, err := r.pool.BeginTx(ctx, nil)

		if err != nil {
			return err
		}

		return finishTx(tx, func() error {
			taken, err := naturalKeyTaken(ctx, tx, "projects", "title", p.Title, "")

			if err != nil {
				return err
			}

			if taken {
				return project.ErrAlreadyExists
			}

			pos, err := r.ix.NextPosition(ctx, tx)

			if err != nil {
				return err
			}

			p.Order = pos

			_, err = tx.ExecContext(ctx,
				`INSERT INTO projects (id, title, description, skills, github_link, demo_link, category, image_url, position, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				p.ID, p.Title, nullable(p.Description), joinCSV(p.Skills),
				nullable(p.GithubLink), nullable(p.DemoLink), nullable(p.Category),
				nullable(p.ImageURL), p.Order, p.CreatedAt,
			)

			if err != nil {
				return err
			}

			if req.Order != nil && *req.Order != p.Order {
				err = r.ix.Reposition(ctx, tx, p.ID, p.Order, *req.Order)

				if err != nil {
					return err
				}

				p.Order = *req.Order
			}

			return nil
		}())
	})

	if err != nil {
		return project.Project{}, err
	}

	return p, nil
}

func (r *ProjectsRepo) Update(ctx context.Context, id string, req project.UpdateProjectRequest) (project.Project, error) {
	var out project.Project

	err := observe(r.mx, "projects.update", func() error {
		tx, err := r.pool.BeginTx(ctx, nil)

		if err != nil {
			return err
		}

		return finishTx(tx, func() error {
			var cur project.Project

			row := tx.QueryRowContext(ctx,
				`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)

			err := scanProject(row, &cur)

			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return project.ErrNotFound
				}
				return err
			}

			if req.Title != nil && *req.Title != cur.Title {
				taken, err := naturalKeyTaken(ctx, tx, "projects", "title", *req.Title, id)

				if err != nil {
					return err
				}

				if taken {
					return project.ErrAlreadyExists
				}
			}

			// partial update: only the provided fields are written
			var sets []string
			var args []interface{}

			if req.Title != nil {
				sets = append(sets, "title = ?")
				args = append(args, *req.Title)
			}
			if req.Description != nil {
				sets = append(sets, "description = ?")
				args = append(args, nullable(*req.Description))
			}
			if req.Skills != nil {
				sets = append(sets, "skills = ?")
				args = append(args, joinCSV(*req.Skills))
			}
			if req.GithubLink != nil {
				sets = append(sets, "github_link = ?")
				args = append(args, nullable(*req.GithubLink))
			}
			if req.DemoLink != nil {
				sets = append(sets, "demo_link = ?")
				args = append(args, nullable(*req.DemoLink))
			}
			if req.Category != nil {
				sets = append(sets, "category = ?")
				args = append(args, nullable(*req.Category))
			}
			if req.ImageURL != nil {
				sets = append(sets, "image_url = ?")
				args = append(args, nullable(*req.ImageURL))
			}

			if len(sets) > 0 {
				args = append(args, id)

				_, err = tx.ExecContext(ctx,
					fmt.Sprintf(`UPDATE projects SET %s WHERE id = ?`, strings.Join(sets, ", ")),
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
				`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)

			return scanProject(row, &out)
		}())
	})

	if err != nil {
		return project.Project{}, err
	}

	return out, nil
}

func (r *ProjectsRepo) Delete(ctx context.Context, id string) error {
	return observe(r.mx, "projects.delete", func() error {
		tx, err := r.pool.BeginTx(ctx, nil)

		if err != nil {
			return err
		}

		return finishTx(tx, func() error {
			var pos int

			err := tx.QueryRowContext(ctx,
				`SELECT position FROM projects WHERE id = ?`, id).Scan(&pos)

			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return project.ErrNotFound
				}
				return err
			}

			_, err = tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)

			if err != nil {
				return err
			}

			return r.ix.CloseGap(ctx, tx, pos)
		}())
	})
}
