package material

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("material not found")

type Material struct {
	ID          string `json:"id"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	ImageURL    string `json:"image_url,omitempty" validate:"omitempty,url"`
	FileURL     string `json:"file_url,omitempty" validate:"omitempty,url"`
	Subject     string `json:"subject" validate:"required"`
	Grade       string `json:"grade"`
	Hidden      bool   `json:"hidden"`
	CreatedAt   int64  `json:"created_at,omitempty"`
}

type ListOpts struct {
	Subject       string
	Grade         string
	IncludeHidden bool
}

type SQLStore struct{ db *sql.DB }

func NewSQLStore(dbh *sql.DB) *SQLStore { return &SQLStore{db: dbh} }

const materialColumns = `id,title,description,image_url,file_url,subject,grade,hidden,created_at`

func (s *SQLStore) Create(ctx context.Context, m Material) (Material, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now().Unix()
	_, err := s.db.ExecContext(ctx, `INSERT INTO materials (`+materialColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		m.ID, m.Title, m.Description, m.ImageURL, m.FileURL, m.Subject, m.Grade, m.Hidden, m.CreatedAt)
	if err != nil {
		return Material{}, fmt.Errorf("insert material: %w", err)
	}
	return m, nil
}

func (s *SQLStore) Update(ctx context.Context, m Material) (Material, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE materials
		SET title=$1, description=$2, image_url=$3, file_url=$4, subject=$5, grade=$6, hidden=$7
		WHERE id=$8`,
		m.Title, m.Description, m.ImageURL, m.FileURL, m.Subject, m.Grade, m.Hidden, m.ID)
	if err != nil {
		return Material{}, fmt.Errorf("update material: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Material{}, ErrNotFound
	}
	return s.Get(ctx, m.ID)
}

func (s *SQLStore) Get(ctx context.Context, id string) (Material, error) {
	var m Material
	err := s.db.QueryRowContext(ctx, `SELECT `+materialColumns+` FROM materials WHERE id=$1`, id).
		Scan(&m.ID, &m.Title, &m.Description, &m.ImageURL, &m.FileURL, &m.Subject, &m.Grade, &m.Hidden, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Material{}, ErrNotFound
	}
	return m, err
}

func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]Material, error) {
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
	if !opts.IncludeHidden {
		add("hidden=", false)
	}
	q := `SELECT ` + materialColumns + ` FROM materials`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Material{}
	for rows.Next() {
		var m Material
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.ImageURL, &m.FileURL, &m.Subject, &m.Grade, &m.Hidden, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM materials WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM materials`).Scan(&n)
	return n, err
}

// MarkRead records that the student has read the material. Repeating the
// call is a no-op.
func (s *SQLStore) MarkRead(ctx context.Context, studentID, materialID string) error {
	if _, err := s.Get(ctx, materialID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO read_materials (student_id, material_id, read_at) VALUES ($1,$2,$3)
		 ON CONFLICT (student_id, material_id) DO NOTHING`,
		studentID, materialID, time.Now().Unix())
	return err
}

// ReadIDs lists the materials a student has read, oldest first.
func (s *SQLStore) ReadIDs(ctx context.Context, studentID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT material_id FROM read_materials WHERE student_id=$1 ORDER BY read_at, material_id`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
