package observability

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

func (p *Prom) ObserveDB(op string, fn func() error) error {
	start := time.Now()
	err := fn()

	status := "ok"

	if err != nil {
		status = "error"
		p.DbErrorsTotal.WithLabelValues(op, classifyDBErr(err)).Inc()
	}
	p.DbQueryDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
	return err

}

func classifyDBErr(err error) string {
	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		// low byte is the primary result code, the rest is the extended code
		switch sqErr.Code() & 0xff {
		case sqlite3.SQLITE_CONSTRAINT:
			if sqErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
				return "unique_violation"
			}
			return "constraint"
		case sqlite3.SQLITE_BUSY:
			return "busy"
		case sqlite3.SQLITE_LOCKED:
			return "locked"
		case sqlite3.SQLITE_FULL:
			return "disk_full"
		default:
			return "sqlite_" + strconv.Itoa(sqErr.Code())
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "connection"):
		return "connection"
	default:
		return "unknown"
	}
}
