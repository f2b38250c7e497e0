package ordering

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Execer is the slice of *sql.Tx / *sql.DB the indexer needs. Every
// multi-row shift must run on a transaction so no reader ever observes a
// half-applied permutation.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var ErrInvalidPosition = errors.New("position out of range")

// Indexer keeps the position column of one table a dense 1..N permutation.
// The table name is always a compile-time constant supplied by a repository,
// never user input.
type Indexer struct {
	table string
}

func ForTable(table string) Indexer {
	return Indexer{table: table}
}

// NextPosition returns the append slot: max(position)+1, 1 when empty.
func (ix Indexer) NextPosition(ctx context.Context, q Execer) (int, error) {
	var next int

	err := q.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COALESCE(MAX(position), 0) + 1 FROM %s`, ix.table),
	).Scan(&next)

	if err != nil {
		return 0, err
	}

	return next, nil
}

func (ix Indexer) Count(ctx context.Context, q Execer) (int, error) {
	var n int

	err := q.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s`, ix.table),
	).Scan(&n)

	if err != nil {
		return 0, err
	}

	return n, nil
}

// Reposition moves the row with the given id from oldPos to newPos, shifting
// everything in between by one so the permutation stays dense. newPos is
// validated against the current size before any row is touched.
func (ix Indexer) Reposition(ctx context.Context, q Execer, id string, oldPos, newPos int) error {
	if oldPos == newPos {
		return nil
	}

	n, err := ix.Count(ctx, q)

	if err != nil {
		return err
	}

	if newPos < 1 || newPos > n {
		return ErrInvalidPosition
	}

	if newPos > oldPos {
		// moving later: everything in (oldPos, newPos] slides down one
		_, err = q.ExecContext(ctx,
			fmt.Sprintf(`UPDATE %s SET position = position - 1 WHERE position > ? AND position <= ?`, ix.table),
			oldPos, newPos,
		)
	} else {
		// moving earlier: everything in [newPos, oldPos) slides up one
		_, err = q.ExecContext(ctx,
			fmt.Sprintf(`UPDATE %s SET position = position + 1 WHERE position >= ? AND position < ?`, ix.table),
			newPos, oldPos,
		)
	}

	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET position = ? WHERE id = ?`, ix.table),
		newPos, id,
	)

	return err
}

// CloseGap shifts every row past a deleted position down by one, restoring a
// dense 1..N-1 permutation. Call it after the row itself is gone.
func (ix Indexer) CloseGap(ctx context.Context, q Execer, removedPos int) error {
	_, err := q.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET position = position - 1 WHERE position > ?`, ix.table),
		removedPos,
	)

	return err
}
