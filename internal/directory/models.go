package directory

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicate      = errors.New("already exists")
	ErrBadCredentials = errors.New("invalid credentials")
)

type Student struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Code      string `json:"code"`
	Grade     string `json:"grade" validate:"required"`
}

type Professor struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"first_name" validate:"required"`
	LastName   string    `json:"last_name" validate:"required"`
	Email      string    `json:"email" validate:"required,email"`
	Code       string    `json:"code,omitempty"`
	SubjectIDs []string  `json:"subject_ids"`
	Subjects   []Subject `json:"subjects,omitempty"`
}

type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name" validate:"required"`
}

type Admin struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// NewCode returns a random login code: 8 bytes, hex encoded.
func NewCode() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
