package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nurseconnect/lms/internal/db"
)

type SQLStore struct{ db *sql.DB }

func NewSQLStore(dbh *sql.DB) *SQLStore { return &SQLStore{db: dbh} }

const studentColumns = `id,first_name,last_name,email,code,grade`

func (s *SQLStore) CreateStudent(ctx context.Context, st Student) (Student, error) {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	if st.Code == "" {
		code, err := NewCode()
		if err != nil {
			return Student{}, err
		}
		st.Code = code
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO students (`+studentColumns+`) VALUES ($1,$2,$3,$4,$5,$6)`,
		st.ID, st.FirstName, st.LastName, st.Email, st.Code, st.Grade)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Student{}, fmt.Errorf("student: %w", ErrDuplicate)
		}
		return Student{}, fmt.Errorf("insert student: %w", err)
	}
	return st, nil
}

// UpdateStudent changes profile fields; the login code is kept.
func (s *SQLStore) UpdateStudent(ctx context.Context, st Student) (Student, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE students SET first_name=$1, last_name=$2, email=$3, grade=$4 WHERE id=$5`,
		st.FirstName, st.LastName, st.Email, st.Grade, st.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Student{}, fmt.Errorf("student: %w", ErrDuplicate)
		}
		return Student{}, fmt.Errorf("update student: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Student{}, ErrNotFound
	}
	return s.GetStudent(ctx, st.ID)
}

func (s *SQLStore) GetStudent(ctx context.Context, id string) (Student, error) {
	return s.studentWhere(ctx, "id", id)
}

func (s *SQLStore) StudentByCode(ctx context.Context, code string) (Student, error) {
	return s.studentWhere(ctx, "code", code)
}

func (s *SQLStore) studentWhere(ctx context.Context, col, v string) (Student, error) {
	var st Student
	err := s.db.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE `+col+`=$1`, v).
		Scan(&st.ID, &st.FirstName, &st.LastName, &st.Email, &st.Code, &st.Grade)
	if errors.Is(err, sql.ErrNoRows) {
		return Student{}, ErrNotFound
	}
	return st, err
}

func (s *SQLStore) StudentExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM students WHERE id=$1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// ListStudents returns students ordered by name; grade filters when set.
func (s *SQLStore) ListStudents(ctx context.Context, grade string) ([]Student, error) {
	q := `SELECT ` + studentColumns + ` FROM students`
	var args []any
	if grade != "" {
		q += ` WHERE grade=$1`
		args = append(args, grade)
	}
	q += ` ORDER BY last_name, first_name, id`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Student{}
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.FirstName, &st.LastName, &st.Email, &st.Code, &st.Grade); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteStudent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) CountStudents(ctx context.Context) (int, error) {
	return s.count(ctx, "students")
}

// ImportStudents upserts by email in one transaction. New rows get a fresh
// code; existing rows keep theirs.
func (s *SQLStore) ImportStudents(ctx context.Context, rows []Student) (inserted, updated int, err error) {
	err = db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		for i, r := range rows {
			if r.FirstName == "" || r.LastName == "" || r.Email == "" || r.Grade == "" {
				return fmt.Errorf("row %d: first_name, last_name, email and grade are required", i+1)
			}
			var id string
			err := tx.QueryRowContext(ctx, `SELECT id FROM students WHERE email=$1`, r.Email).Scan(&id)
			switch {
			case err == nil:
				if _, err := tx.ExecContext(ctx, `UPDATE students SET first_name=$1, last_name=$2, grade=$3 WHERE id=$4`,
					r.FirstName, r.LastName, r.Grade, id); err != nil {
					return err
				}
				updated++
			case errors.Is(err, sql.ErrNoRows):
				code, err := NewCode()
				if err != nil {
					return err
				}
				if _, err := tx.ExecContext(ctx, `INSERT INTO students (`+studentColumns+`) VALUES ($1,$2,$3,$4,$5,$6)`,
					uuid.NewString(), r.FirstName, r.LastName, r.Email, code, r.Grade); err != nil {
					return err
				}
				inserted++
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return inserted, updated, nil
}

func (s *SQLStore) count(ctx context.Context, table string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n)
	return n, err
}
