package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/folioworks/portfolio-api/internal/domain/blogpost"
	"github.com/folioworks/portfolio-api/internal/observability"
)

type BlogRepo struct {
	pool *sql.DB
	mx   *observability.Prom
}

func NewBlogRepo(pool *sql.DB, mx *observability.Prom) *BlogRepo {
	return &BlogRepo{pool: pool, mx: mx}
}

const blogColumns = `id, title, content, publication_date, tags, meta_description, image_url`

func scanPost(row interface{ Scan(dest ...any) error }, p *blogpost.Post) error {
	var tags, metaDescription, imageURL sql.NullString

	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.PublicationDate,
		&tags,
		&metaDescription,
		&imageURL,
	)

	if err != nil {
		return err
	}

	p.Tags = splitCSV(tags)
	p.MetaDescription = fromNullable(metaDescription)
	p.ImageURL = fromNullable(imageURL)

	return nil
}

func (r *BlogRepo) List(ctx context.Context, filter blogpost.ListPostsFilter) ([]blogpost.Post, int, error) {
	baseQuery := `SELECT ` + blogColumns + `,
		COUNT(*) OVER() AS total
	FROM blog_posts
	`

	var conds []string
	var args []interface{}

	if filter.Search != nil {
		conds = append(conds, "(title LIKE ? OR content LIKE ?)")
		pattern := "%" + *filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	if filter.Tag != nil {
		// tags live in a CSV column; wrap both sides with commas for an
		// exact-element match
		conds = append(conds, "(',' || COALESCE(tags, '') || ',') LIKE ?")
		args = append(args, "%,"+*filter.Tag+",%")
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// newest first
	query += " ORDER BY publication_date DESC, id ASC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	output := make([]blogpost.Post, 0, filter.Limit)
	total := 0

	err := observe(r.mx, "blog.list", func() error {
		rows, err := r.pool.QueryContext(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var p blogpost.Post
			var t int
			var tags, metaDescription, imageURL sql.NullString

			err = rows.Scan(&p.ID, &p.Title, &p.Content, &p.PublicationDate, &tags, &metaDescription, &imageURL, &t)

			if err != nil {
				return err
			}

			p.Tags = splitCSV(tags)
			p.MetaDescription = fromNullable(metaDescription)
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

func (r *BlogRepo) GetByID(ctx context.Context, id string) (blogpost.Post, error) {
	var p blogpost.Post

	err := observe(r.mx, "blog.get", func() error {
		row := r.pool.QueryRowContext(ctx,
			`SELECT `+blogColumns+` FROM blog_posts WHERE id = ?`, id)

		return scanPost(row, &p)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return blogpost.Post{}, blogpost.ErrNotFound
		}

		return blogpost.Post{}, err
	}

	return p, nil
}

func (r *BlogRepo) Create(ctx context.Context, req blogpost.CreatePostRequest) (blogpost.Post, error) {
	p := blogpost.NewFromCreateRequest(req)

	err := observe(r.mx, "blog.create", func() error {
		tx, err := r.pool.BeginTx(ctx, nil)

		if err != nil {
			return err
		}

		return finishTx(tx, func() error {
			taken, err := naturalKeyTaken(ctx, tx, "blog_posts", "title", p.Title, "")

			if err != nil {
				return err
			}

			if taken {
				return blogpost.ErrAlreadyExists
			}

			_, err = tx.ExecContext(ctx,
				`INSERT INTO blog_posts (id, title, content, publication_date, tags, meta_description, image_url)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				p.ID, p.Title, p.Content, p.PublicationDate,
				joinCSV(p.Tags), nullable(p.MetaDescription), nullable(p.ImageURL),
			)

			return err
		}())
	})

	if err != nil {
		return blogpost.Post{}, err
	}

	return p, nil
}

func (r *BlogRepo) Update(ctx context.Context, id string, req blogpost.UpdatePostRequest) (blogpost.Post, error) {
	var out blogpost.Post

	err := observe(r.mx, "blog.update", func() error {
		tx, err := r.pool.BeginTx(ctx, nil)

		if err != nil {
			return err
		}

		return finishTx(tx, func() error {
			var cur blogpost.Post

			row := tx.QueryRowContext(ctx,
				`SELECT `+blogColumns+` FROM blog_posts WHERE id = ?`, id)

			err := scanPost(row, &cur)

			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return blogpost.ErrNotFound
				}
				return err
			}

			if req.Title != nil && *req.Title != cur.Title {
				taken, err := naturalKeyTaken(ctx, tx, "blog_posts", "title", *req.Title, id)

				if err != nil {
					return err
				}

				if taken {
					return blogpost.ErrAlreadyExists
				}
			}

			var sets []string
			var args []interface{}

			if req.Title != nil {
				sets = append(sets, "title = ?")
				args = append(args, *req.Title)
			}
			if req.Content != nil {
				sets = append(sets, "content = ?")
				args = append(args, *req.Content)
			}
			if req.PublicationDate != nil {
				sets = append(sets, "publication_date = ?")
				args = append(args, req.PublicationDate.UTC())
			}
			if req.Tags != nil {
				sets = append(sets, "tags = ?")
				args = append(args, joinCSV(*req.Tags))
			}
			if req.MetaDescription != nil {
				sets = append(sets, "meta_description = ?")
				args = append(args, nullable(*req.MetaDescription))
			}
			if req.ImageURL != nil {
				sets = append(sets, "image_url = ?")
				args = append(args, nullable(*req.ImageURL))
			}

			if len(sets) > 0 {
				args = append(args, id)

				_, err = tx.ExecContext(ctx,
					fmt.Sprintf(`UPDATE blog_posts SET %s WHERE id = ?`, strings.Join(sets, ", ")),
					args...,
				)

				if err != nil {
					return err
				}
			}

			row = tx.QueryRowContext(ctx,
				`SELECT `+blogColumns+` FROM blog_posts WHERE id = ?`, id)

			return scanPost(row, &out)
		}())
	})

	if err != nil {
		return blogpost.Post{}, err
	}

	return out, nil
}

func (r *BlogRepo) Delete(ctx context.Context, id string) error {
	return observe(r.mx, "blog.delete", func() error {
		res, err := r.pool.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)

		if err != nil {
			return err
		}

		n, err := res.RowsAffected()

		if err != nil {
			return err
		}

		if n == 0 {
			return blogpost.ErrNotFound
		}

		return nil
	})
}
