package http

import (
	"context"
	"errors"
	"net/http"

	authmw "github.com/nurseconnect/lms/internal/auth/middleware"
	"github.com/nurseconnect/lms/internal/directory"
	"github.com/nurseconnect/lms/internal/rbac"
)

type codeLoginReq struct {
	Code string `json:"code" validate:"notblank"`
}

type StudentFinder interface {
	StudentByCode(ctx context.Context, code string) (directory.Student, error)
}

type ProfessorFinder interface {
	ProfessorByCode(ctx context.Context, code string) (directory.Professor, error)
}

type AdminAccounts interface {
	AuthenticateAdmin(ctx context.Context, email, password string) (directory.Admin, error)
	ChangeAdminPassword(ctx context.Context, adminID, current, next string) error
}

// loginErr hides whether a code exists.
func loginErr(err error) error {
	if errors.Is(err, directory.ErrNotFound) {
		return directory.ErrBadCredentials
	}
	return err
}

// POST /auth/student {code}
func StudentLoginHandler(a *authmw.AuthService, dir StudentFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req codeLoginReq
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		st, err := dir.StudentByCode(r.Context(), req.Code)
		if err != nil {
			writeError(w, loginErr(err))
			return
		}
		tok, err := a.IssueJWT(st.ID, rbac.RoleStudent)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"access_token": tok, "student": st})
	}
}

// POST /auth/professor {code}
func ProfessorLoginHandler(a *authmw.AuthService, dir ProfessorFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req codeLoginReq
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		p, err := dir.ProfessorByCode(r.Context(), req.Code)
		if err != nil {
			writeError(w, loginErr(err))
			return
		}
		tok, err := a.IssueJWT(p.ID, rbac.RoleProfessor)
		if err != nil {
			writeError(w, err)
			return
		}
		p.Code = ""
		writeJSON(w, http.StatusOK, map[string]any{"access_token": tok, "professor": p})
	}
}

// POST /auth/admin {email, password}
func AdminLoginHandler(a *authmw.AuthService, admins AdminAccounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required"`
		}
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		adm, err := admins.AuthenticateAdmin(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		tok, err := a.IssueJWT(adm.ID, rbac.RoleAdmin)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access_token": tok})
	}
}

// PUT /admin/password {current, new}
func ChangeAdminPasswordHandler(admins AdminAccounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID := authmw.SubjectFromContext(r.Context())
		if adminID == "" {
			writeErr(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
			return
		}
		var req struct {
			Current string `json:"current" validate:"required"`
			New     string `json:"new" validate:"required,min=8,nefield=Current"`
		}
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if err := admins.ChangeAdminPassword(r.Context(), adminID, req.Current, req.New); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
