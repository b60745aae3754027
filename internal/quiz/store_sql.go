package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nurseconnect/lms/internal/db"
)

type SQLStore struct {
	db       *sql.DB
	cascades []Cascade
}

func NewSQLStore(dbh *sql.DB, cascades ...Cascade) *SQLStore {
	return &SQLStore{db: dbh, cascades: cascades}
}

const quizColumns = `id,title,questions_json,subject,grade,max_attempts,professor_id,hidden,created_at`

func (s *SQLStore) Create(ctx context.Context, q Quiz) (Quiz, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.Questions == nil {
		q.Questions = []Question{}
	}
	qj, err := json.Marshal(q.Questions)
	if err != nil {
		return Quiz{}, err
	}
	q.CreatedAt = time.Now().Unix()
	_, err = s.db.ExecContext(ctx, `INSERT INTO quizzes (`+quizColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		q.ID, q.Title, string(qj), q.Subject, q.Grade, nullInt(q.MaxAttempts), q.ProfessorID, q.Hidden, q.CreatedAt)
	if err != nil {
		return Quiz{}, fmt.Errorf("insert quiz: %w", err)
	}
	return q, nil
}

func (s *SQLStore) Update(ctx context.Context, q Quiz) (Quiz, error) {
	if q.Questions == nil {
		q.Questions = []Question{}
	}
	qj, err := json.Marshal(q.Questions)
	if err != nil {
		return Quiz{}, err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE quizzes
		SET title=$1, questions_json=$2, subject=$3, grade=$4, max_attempts=$5, hidden=$6
		WHERE id=$7`,
		q.Title, string(qj), q.Subject, q.Grade, nullInt(q.MaxAttempts), q.Hidden, q.ID)
	if err != nil {
		return Quiz{}, fmt.Errorf("update quiz: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Quiz{}, ErrNotFound
	}
	return s.Get(ctx, q.ID)
}

func (s *SQLStore) Get(ctx context.Context, id string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE id=$1`, id)
	q, qjson, err := scanQuiz(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrNotFound
		}
		return Quiz{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &q.Questions); err != nil {
		// metadata is still returned so the quiz can be fixed or deleted
		q.Questions = nil
		return q, fmt.Errorf("%w: quiz %s: %v", ErrMalformedQuestions, id, err)
	}
	return q, nil
}

func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]Quiz, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, cond+"$"+strconv.Itoa(len(args)))
	}
	if opts.Subject != "" {
		add("subject=", opts.Subject)
	}
	if opts.Grade != "" {
		add("grade=", opts.Grade)
	}
	if opts.ProfessorID != "" {
		add("professor_id=", opts.ProfessorID)
	}
	if !opts.IncludeHidden {
		add("hidden=", false)
	}
	q := `SELECT ` + quizColumns + ` FROM quizzes`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Quiz{}
	for rows.Next() {
		qz, qjson, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(qjson), &qz.Questions); err != nil {
			// keep the listing usable; Get reports the corruption
			log.Printf("quiz %s: malformed questions: %v", qz.ID, err)
			qz.Questions = []Question{}
		}
		out = append(out, qz)
	}
	return out, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	return db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		for _, c := range s.cascades {
			if err := c(ctx, tx, id); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM quizzes WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quizzes`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuiz(sc scanner) (Quiz, string, error) {
	var (
		q     Quiz
		qjson string
		limit sql.NullInt64
	)
	if err := sc.Scan(&q.ID, &q.Title, &qjson, &q.Subject, &q.Grade, &limit, &q.ProfessorID, &q.Hidden, &q.CreatedAt); err != nil {
		return Quiz{}, "", err
	}
	if limit.Valid {
		m := int(limit.Int64)
		q.MaxAttempts = &m
	}
	return q, qjson, nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}
