package attempt

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nurseconnect/lms/internal/db"
	"github.com/nurseconnect/lms/internal/events"
)

// insertRetries bounds how often a lost ordinal race is retried.
const insertRetries = 5

type SQLStore struct{ db *sql.DB }

func NewSQLStore(dbh *sql.DB) *SQLStore { return &SQLStore{db: dbh} }

const attemptColumns = `id,student_id,quiz_id,ordinal,score,total,correct_json,solved_at`

func (s *SQLStore) CountByStudentAndQuiz(ctx context.Context, studentID, quizID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attempts WHERE student_id=$1 AND quiz_id=$2`,
		studentID, quizID).Scan(&n)
	return n, err
}

func (s *SQLStore) InsertWithinLimit(ctx context.Context, a Attempt, limit int) (Attempt, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.SolvedAt == 0 {
		a.SolvedAt = time.Now().Unix()
	}
	correct := ""
	if a.Correct != nil {
		b, err := json.Marshal(a.Correct)
		if err != nil {
			return Attempt{}, err
		}
		correct = string(b)
	}

	for try := 0; ; try++ {
		err := db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
			var n int
			if err := tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM attempts WHERE student_id=$1 AND quiz_id=$2`,
				a.StudentID, a.QuizID).Scan(&n); err != nil {
				return err
			}
			if n >= limit {
				return ErrAttemptLimit
			}
			a.Ordinal = n + 1
			if _, err := tx.ExecContext(ctx, `INSERT INTO attempts (`+attemptColumns+`)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
				a.ID, a.StudentID, a.QuizID, a.Ordinal, a.Score, a.Total, correct, a.SolvedAt); err != nil {
				return err
			}
			data, err := json.Marshal(a)
			if err != nil {
				return err
			}
			return events.Append(ctx, tx, events.Event{
				Type:      EventRecorded,
				Key:       a.QuizID,
				DataJSON:  string(data),
				CreatedAt: a.SolvedAt,
			})
		})
		switch {
		case err == nil:
			return a, nil
		case db.IsUniqueViolation(err) && try < insertRetries:
			// a concurrent submission took this ordinal; count again
			continue
		case errors.Is(err, ErrAttemptLimit):
			return Attempt{}, err
		default:
			return Attempt{}, fmt.Errorf("insert attempt: %w", err)
		}
	}
}

func (s *SQLStore) FindByQuiz(ctx context.Context, quizID string) ([]Attempt, error) {
	return s.query(ctx, `SELECT `+attemptColumns+` FROM attempts
		WHERE quiz_id=$1 ORDER BY solved_at DESC, ordinal DESC`, quizID)
}

func (s *SQLStore) FindByStudent(ctx context.Context, studentID string) ([]Attempt, error) {
	return s.query(ctx, `SELECT `+attemptColumns+` FROM attempts
		WHERE student_id=$1 ORDER BY solved_at, ordinal`, studentID)
}

func (s *SQLStore) FindByStudentAndQuiz(ctx context.Context, studentID, quizID string) (Attempt, error) {
	list, err := s.query(ctx, `SELECT `+attemptColumns+` FROM attempts
		WHERE student_id=$1 AND quiz_id=$2 ORDER BY ordinal DESC LIMIT 1`, studentID, quizID)
	if err != nil {
		return Attempt{}, err
	}
	if len(list) == 0 {
		return Attempt{}, ErrNotFound
	}
	return list[0], nil
}

func (s *SQLStore) DeleteByQuiz(ctx context.Context, quizID string) error {
	return db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		return s.DeleteByQuizTx(ctx, tx, quizID)
	})
}

// DeleteByQuizTx matches quiz.Cascade so quiz deletion removes attempts in
// the same transaction.
func (s *SQLStore) DeleteByQuizTx(ctx context.Context, tx *sql.Tx, quizID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM attempts WHERE quiz_id=$1`, quizID)
	return err
}

func (s *SQLStore) query(ctx context.Context, q string, args ...any) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Attempt{}
	for rows.Next() {
		var (
			a       Attempt
			correct string
		)
		if err := rows.Scan(&a.ID, &a.StudentID, &a.QuizID, &a.Ordinal, &a.Score, &a.Total, &correct, &a.SolvedAt); err != nil {
			return nil, err
		}
		if correct != "" {
			if err := json.Unmarshal([]byte(correct), &a.Correct); err != nil {
				return nil, fmt.Errorf("attempt %s: correctness vector: %w", a.ID, err)
			}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
