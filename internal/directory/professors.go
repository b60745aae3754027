package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nurseconnect/lms/internal/db"
)

const professorColumns = `id,first_name,last_name,email,code`

func (s *SQLStore) CreateProfessor(ctx context.Context, p Professor) (Professor, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Code == "" {
		code, err := NewCode()
		if err != nil {
			return Professor{}, err
		}
		p.Code = code
	}
	err := db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO professors (`+professorColumns+`) VALUES ($1,$2,$3,$4,$5)`,
			p.ID, p.FirstName, p.LastName, p.Email, p.Code); err != nil {
			return err
		}
		return setSubjects(ctx, tx, p.ID, p.SubjectIDs)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Professor{}, fmt.Errorf("professor: %w", ErrDuplicate)
		}
		return Professor{}, fmt.Errorf("insert professor: %w", err)
	}
	return s.GetProfessor(ctx, p.ID)
}

// UpdateProfessor changes profile fields. A nil SubjectIDs keeps the
// current subjects; an empty slice clears them. An empty Code keeps the
// current code.
func (s *SQLStore) UpdateProfessor(ctx context.Context, p Professor) (Professor, error) {
	err := db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE professors
			SET first_name=$1, last_name=$2, email=$3, code=CASE WHEN $4='' THEN code ELSE $5 END
			WHERE id=$6`,
			p.FirstName, p.LastName, p.Email, p.Code, p.Code, p.ID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		if p.SubjectIDs == nil {
			return nil
		}
		return setSubjects(ctx, tx, p.ID, p.SubjectIDs)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Professor{}, err
		}
		if db.IsUniqueViolation(err) {
			return Professor{}, fmt.Errorf("professor: %w", ErrDuplicate)
		}
		return Professor{}, fmt.Errorf("update professor: %w", err)
	}
	return s.GetProfessor(ctx, p.ID)
}

func setSubjects(ctx context.Context, tx *sql.Tx, professorID string, subjectIDs []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM professor_subjects WHERE professor_id=$1`, professorID); err != nil {
		return err
	}
	for _, sid := range subjectIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO professor_subjects (professor_id, subject_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			professorID, sid); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLStore) GetProfessor(ctx context.Context, id string) (Professor, error) {
	return s.professorWhere(ctx, "id", id)
}

func (s *SQLStore) ProfessorByCode(ctx context.Context, code string) (Professor, error) {
	return s.professorWhere(ctx, "code", code)
}

func (s *SQLStore) professorWhere(ctx context.Context, col, v string) (Professor, error) {
	var p Professor
	err := s.db.QueryRowContext(ctx, `SELECT `+professorColumns+` FROM professors WHERE `+col+`=$1`, v).
		Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Code)
	if errors.Is(err, sql.ErrNoRows) {
		return Professor{}, ErrNotFound
	}
	if err != nil {
		return Professor{}, err
	}
	p.Subjects, err = s.subjectsOf(ctx, p.ID)
	if err != nil {
		return Professor{}, err
	}
	p.SubjectIDs = make([]string, len(p.Subjects))
	for i, sub := range p.Subjects {
		p.SubjectIDs[i] = sub.ID
	}
	return p, nil
}

// ListProfessors returns professors without their codes. withSubjects
// also loads each professor's subjects.
func (s *SQLStore) ListProfessors(ctx context.Context, withSubjects bool) ([]Professor, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,first_name,last_name,email FROM professors ORDER BY last_name, first_name, id`)
	if err != nil {
		return nil, err
	}
	out := []Professor{}
	for rows.Next() {
		var p Professor
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !withSubjects {
		return out, nil
	}
	for i := range out {
		subs, err := s.subjectsOf(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Subjects = subs
		out[i].SubjectIDs = make([]string, len(subs))
		for j, sub := range subs {
			out[i].SubjectIDs[j] = sub.ID
		}
	}
	return out, nil
}

func (s *SQLStore) DeleteProfessor(ctx context.Context, id string) error {
	return db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM professor_subjects WHERE professor_id=$1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM professors WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *SQLStore) CountProfessors(ctx context.Context) (int, error) {
	return s.count(ctx, "professors")
}

func (s *SQLStore) subjectsOf(ctx context.Context, professorID string) ([]Subject, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT s.id, s.name FROM subjects s
		JOIN professor_subjects ps ON ps.subject_id = s.id
		WHERE ps.professor_id=$1 ORDER BY s.name`, professorID)
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

func (s *SQLStore) ProfessorExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM professors WHERE id=$1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
