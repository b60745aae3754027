package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// EnsureAdmin seeds the admin account if no admin with that email exists.
// passHash must already be a bcrypt hash.
func (s *SQLStore) EnsureAdmin(ctx context.Context, email, passHash string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admins (id, email, password_hash) VALUES ($1,$2,$3) ON CONFLICT (email) DO NOTHING`,
		uuid.NewString(), email, passHash)
	return err
}

func (s *SQLStore) AdminByEmail(ctx context.Context, email string) (Admin, error) {
	var a Admin
	err := s.db.QueryRowContext(ctx, `SELECT id, email, password_hash FROM admins WHERE email=$1`, email).
		Scan(&a.ID, &a.Email, &a.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return Admin{}, ErrNotFound
	}
	return a, err
}

func (s *SQLStore) adminByID(ctx context.Context, id string) (Admin, error) {
	var a Admin
	err := s.db.QueryRowContext(ctx, `SELECT id, email, password_hash FROM admins WHERE id=$1`, id).
		Scan(&a.ID, &a.Email, &a.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return Admin{}, ErrNotFound
	}
	return a, err
}

// AuthenticateAdmin checks an email/password pair. Unknown email and wrong
// password both yield ErrBadCredentials.
func (s *SQLStore) AuthenticateAdmin(ctx context.Context, email, password string) (Admin, error) {
	a, err := s.AdminByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return Admin{}, ErrBadCredentials
	}
	if err != nil {
		return Admin{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return Admin{}, ErrBadCredentials
	}
	return a, nil
}

// ChangeAdminPassword replaces the hash after verifying the current password.
func (s *SQLStore) ChangeAdminPassword(ctx context.Context, adminID, current, next string) error {
	a, err := s.adminByID(ctx, adminID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(current)) != nil {
		return ErrBadCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `UPDATE admins SET password_hash=$1 WHERE id=$2`, string(hash), adminID)
	return err
}
