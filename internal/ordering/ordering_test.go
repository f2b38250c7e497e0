package ordering_test

import (
	"context"
	"database/sql"
	"sort"
	"testing"

	"github.com/folioworks/portfolio-api/internal/ordering"
	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE items (id TEXT PRIMARY KEY, position INTEGER NOT NULL)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}

	return db
}

func insert(t *testing.T, db *sql.DB, ix ordering.Indexer, id string) {
	t.Helper()

	ctx := context.Background()

	pos, err := ix.NextPosition(ctx, db)
	if err != nil {
		t.Fatalf("next position: %v", err)
	}

	_, err = db.ExecContext(ctx, `INSERT INTO items (id, position) VALUES (?, ?)`, id, pos)
	if err != nil {
		t.Fatalf("insert %s: %v", id, err)
	}
}

// permutation reads back id->position and fails unless positions are exactly 1..N.
func permutation(t *testing.T, db *sql.DB) map[string]int {
	t.Helper()

	rows, err := db.Query(`SELECT id, position FROM items`)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	defer rows.Close()

	got := map[string]int{}
	var positions []int

	for rows.Next() {
		var id string
		var pos int
		if err := rows.Scan(&id, &pos); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got[id] = pos
		positions = append(positions, pos)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}

	sort.Ints(positions)
	for i, pos := range positions {
		if pos != i+1 {
			t.Fatalf("positions are not dense 1..N: %v", positions)
		}
	}

	return got
}

func TestAppendAssignsNextPosition(t *testing.T) {
	db := newTestDB(t)
	ix := ordering.ForTable("items")

	pos, err := ix.NextPosition(context.Background(), db)
	if err != nil {
		t.Fatalf("next position: %v", err)
	}
	if pos != 1 {
		t.Errorf("empty table: got %d, want 1", pos)
	}

	insert(t, db, ix, "a")
	insert(t, db, ix, "b")

	pos, err = ix.NextPosition(context.Background(), db)
	if err != nil {
		t.Fatalf("next position: %v", err)
	}
	if pos != 3 {
		t.Errorf("after two inserts: got %d, want 3", pos)
	}
}

func TestRepositionLater(t *testing.T) {
	db := newTestDB(t)
	ix := ordering.ForTable("items")

	for _, id := range []string{"A", "B", "C", "D", "E"} {
		insert(t, db, ix, id)
	}

	// move B from 2 to 5
	if err := ix.Reposition(context.Background(), db, "B", 2, 5); err != nil {
		t.Fatalf("reposition: %v", err)
	}

	got := permutation(t, db)
	want := map[string]int{"A": 1, "C": 2, "D": 3, "E": 4, "B": 5}

	for id, pos := range want {
		if got[id] != pos {
			t.Errorf("%s: got position %d, want %d", id, got[id], pos)
		}
	}
}

func TestRepositionEarlier(t *testing.T) {
	db := newTestDB(t)
	ix := ordering.ForTable("items")

	for _, id := range []string{"A", "B", "C", "D", "E"} {
		insert(t, db, ix, id)
	}

	// move D from 4 to 2
	if err := ix.Reposition(context.Background(), db, "D", 4, 2); err != nil {
		t.Fatalf("reposition: %v", err)
	}

	got := permutation(t, db)
	want := map[string]int{"A": 1, "D": 2, "B": 3, "C": 4, "E": 5}

	for id, pos := range want {
		if got[id] != pos {
			t.Errorf("%s: got position %d, want %d", id, got[id], pos)
		}
	}
}

func TestRepositionOutOfRange(t *testing.T) {
	db := newTestDB(t)
	ix := ordering.ForTable("items")

	for _, id := range []string{"A", "B", "C"} {
		insert(t, db, ix, id)
	}

	for _, target := range []int{0, -1, 4, 100} {
		err := ix.Reposition(context.Background(), db, "A", 1, target)
		if err != ordering.ErrInvalidPosition {
			t.Errorf("target %d: got %v, want ErrInvalidPosition", target, err)
		}
	}

	// nothing moved
	got := permutation(t, db)
	want := map[string]int{"A": 1, "B": 2, "C": 3}
	for id, pos := range want {
		if got[id] != pos {
			t.Errorf("%s: got position %d, want %d", id, got[id], pos)
		}
	}
}

func TestCloseGapAfterDelete(t *testing.T) {
	db := newTestDB(t)
	ix := ordering.ForTable("items")

	for _, id := range []string{"A", "B", "C", "D"} {
		insert(t, db, ix, id)
	}

	ctx := context.Background()

	// delete C (position 3), then close the gap
	if _, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, "C"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := ix.CloseGap(ctx, db, 3); err != nil {
		t.Fatalf("close gap: %v", err)
	}

	got := permutation(t, db)
	want := map[string]int{"A": 1, "B": 2, "D": 3}

	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for id, pos := range want {
		if got[id] != pos {
			t.Errorf("%s: got position %d, want %d", id, got[id], pos)
		}
	}
}

func TestDensityUnderMixedOperations(t *testing.T) {
	db := newTestDB(t)
	ix := ordering.ForTable("items")
	ctx := context.Background()

	ids := []string{"a", "b", "c", "d", "e", "f", "g"}
	for _, id := range ids {
		insert(t, db, ix, id)
	}

	moves := []struct {
		id       string
		from, to int
	}{
		{"a", 1, 7},
		{"g", 6, 1},
		{"d", 5, 3},
	}

	for _, mv := range moves {
		if err := ix.Reposition(ctx, db, mv.id, mv.from, mv.to); err != nil {
			t.Fatalf("reposition %s %d->%d: %v", mv.id, mv.from, mv.to, err)
		}
		permutation(t, db)
	}

	// remove whatever sits at position 4, close the gap, re-check density
	var victim string
	if err := db.QueryRowContext(ctx, `SELECT id FROM items WHERE position = 4`).Scan(&victim); err != nil {
		t.Fatalf("find victim: %v", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, victim); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := ix.CloseGap(ctx, db, 4); err != nil {
		t.Fatalf("close gap: %v", err)
	}

	got := permutation(t, db)
	if len(got) != len(ids)-1 {
		t.Fatalf("got %d rows, want %d", len(got), len(ids)-1)
	}

	insert(t, db, ix, "h")
	got = permutation(t, db)
	if got["h"] != len(ids) {
		t.Errorf("appended row: got position %d, want %d", got["h"], len(ids))
	}
}
