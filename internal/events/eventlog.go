package events

import (
	"context"
	"database/sql"
	"time"
)

// Event is one row of the append-only event_log table.
type Event struct {
	Seq       int64  `json:"seq"`
	Type      string `json:"type"`
	Key       string `json:"key"`
	DataJSON  string `json:"data"`
	CreatedAt int64  `json:"created_at"`
}

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Append writes e through ex, so callers can log inside their own transaction.
func Append(ctx context.Context, ex Execer, e Event) error {
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	_, err := ex.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4)`,
		e.Type, e.Key, e.DataJSON, e.CreatedAt)
	return err
}

type Log struct{ db *sql.DB }

func NewLog(db *sql.DB) *Log { return &Log{db: db} }

func (l *Log) Append(ctx context.Context, e Event) error {
	return Append(ctx, l.db, e)
}

// Since returns up to limit events with seq greater than after, oldest first.
func (l *Log) Since(ctx context.Context, after int64, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT seq, typ, key, data, created_at FROM event_log
		 WHERE seq > $1 ORDER BY seq LIMIT $2`, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Seq, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Cursor returns the last seq a consumer acknowledged, or 0.
func (l *Log) Cursor(ctx context.Context, name string) (int64, error) {
	var seq int64
	err := l.db.QueryRowContext(ctx, `SELECT seq FROM event_cursors WHERE name=$1`, name).Scan(&seq)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return seq, err
}

func (l *Log) SetCursor(ctx context.Context, name string, seq int64) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO event_cursors (name, seq) VALUES ($1,$2)
		 ON CONFLICT (name) DO UPDATE SET seq = excluded.seq`, name, seq)
	return err
}
