package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/folioworks/portfolio-api/internal/observability"
)

// observe funnels a repo call through the DB metrics when they are wired.
func observe(mx *observability.Prom, op string, fn func() error) error {
	if mx == nil {
		return fn()
	}

	return mx.ObserveDB(op, fn)
}

// finishTx commits when err is nil, otherwise rolls back and keeps the
// original error. A failed mid-shift statement therefore unwinds the whole
// mutation, never leaving a partially applied permutation behind.
func finishTx(tx *sql.Tx, err error) error {
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// CSV storage for list-ish columns, matching the legacy schema.

func joinCSV(items []string) sql.NullString {
	if len(items) == 0 {
		return sql.NullString{}
	}

	return sql.NullString{String: strings.Join(items, ","), Valid: true}
}

func splitCSV(s sql.NullString) []string {
	if !s.Valid || s.String == "" {
		return []string{}
	}

	parts := strings.Split(s.String, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}

	return sql.NullString{String: s, Valid: true}
}

func fromNullable(s sql.NullString) string {
	if !s.Valid {
		return ""
	}

	return s.String
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// naturalKeyTaken reports whether another row already uses the natural key
// value. excludeID skips the row being updated so renaming to the same value
// is not a conflict.
func naturalKeyTaken(ctx context.Context, q querier, table, column, value, excludeID string) (bool, error) {
	var id string

	query := fmt.Sprintf(`SELECT id FROM %s WHERE %s = ?`, table, column)
	args := []any{value}

	if excludeID != "" {
		query += ` AND id != ?`
		args = append(args, excludeID)
	}

	err := q.QueryRowContext(ctx, query, args...).Scan(&id)

	if err == nil {
		return true, nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}

	return false, err
}
