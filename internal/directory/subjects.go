package directory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nurseconnect/lms/internal/db"
)

func (s *SQLStore) CreateSubject(ctx context.Context, sub Subject) (Subject, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO subjects (id, name) VALUES ($1,$2)`, sub.ID, sub.Name)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Subject{}, fmt.Errorf("subject %q: %w", sub.Name, ErrDuplicate)
		}
		return Subject{}, fmt.Errorf("insert subject: %w", err)
	}
	return sub, nil
}

func (s *SQLStore) ListSubjects(ctx context.Context) ([]Subject, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM subjects ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Subject{}
	for rows.Next() {
		var sub Subject
		if err := rows.Scan(&sub.ID, &sub.Name); err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteSubject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM subjects WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
