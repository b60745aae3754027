package quiz

import (
	"context"
	"database/sql"
)

type Repository interface {
	Create(ctx context.Context, q Quiz) (Quiz, error)
	Update(ctx context.Context, q Quiz) (Quiz, error)
	Get(ctx context.Context, id string) (Quiz, error)
	List(ctx context.Context, opts ListOpts) ([]Quiz, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// Cascade removes rows that belong to a quiz, inside the delete transaction.
type Cascade func(ctx context.Context, tx *sql.Tx, quizID string) error
