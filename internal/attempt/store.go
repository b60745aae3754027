package attempt

import (
	"context"
	"database/sql"
)

type Store interface {
	CountByStudentAndQuiz(ctx context.Context, studentID, quizID string) (int, error)
	// InsertWithinLimit stores a as the next ordinal for its (student, quiz)
	// pair, or fails with ErrAttemptLimit when limit rows already exist.
	// The check and the insert are atomic.
	InsertWithinLimit(ctx context.Context, a Attempt, limit int) (Attempt, error)
	FindByQuiz(ctx context.Context, quizID string) ([]Attempt, error)
	// FindByStudentAndQuiz returns the latest attempt or ErrNotFound.
	FindByStudentAndQuiz(ctx context.Context, studentID, quizID string) (Attempt, error)
	FindByStudent(ctx context.Context, studentID string) ([]Attempt, error)
	DeleteByQuiz(ctx context.Context, quizID string) error
	DeleteByQuizTx(ctx context.Context, tx *sql.Tx, quizID string) error
}
