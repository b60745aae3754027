package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/nurseconnect/lms/internal/auth/middleware"
	"github.com/nurseconnect/lms/internal/quiz"
	"github.com/nurseconnect/lms/internal/rbac"
)

type quizReq struct {
	Title       string          `json:"title" validate:"notblank"`
	Questions   []quiz.Question `json:"questions" validate:"required"`
	Subject     string          `json:"subject" validate:"notblank"`
	Grade       string          `json:"grade" validate:"notblank"`
	MaxAttempts *int            `json:"max_attempts" validate:"omitempty,min=1"`
	ProfessorID string          `json:"professor_id"`
	Hidden      bool            `json:"hidden"`
}

// StatsInvalidator drops cached statistics for a quiz and its owner.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, quizID, professorID string)
}

// viewAs strips answer keys unless the caller may author quizzes.
func viewAs(r *http.Request, q quiz.Quiz) quiz.Quiz {
	if rbac.Privileged(rbac.RoleFromContext(r.Context())) {
		return q
	}
	return q.ForStudent()
}

// hiddenFrom reports whether q must look absent to the caller.
func hiddenFrom(r *http.Request, q quiz.Quiz) bool {
	return q.Hidden && !rbac.Privileged(rbac.RoleFromContext(r.Context()))
}

// requireVisible writes 404 and returns false when the quiz in the URL is
// hidden from the caller. Lookup errors pass through to the handler.
func requireVisible(w http.ResponseWriter, r *http.Request, repo quiz.Repository) bool {
	q, err := repo.Get(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil || !hiddenFrom(r, q) {
		return true
	}
	writeError(w, quiz.ErrNotFound)
	return false
}

// canManage reports whether the caller owns q or is an admin.
func canManage(r *http.Request, q quiz.Quiz) bool {
	p, _ := authmw.PrincipalFromContext(r.Context())
	return p.Role == rbac.RoleAdmin || (p.Role == rbac.RoleProfessor && p.ID == q.ProfessorID)
}

// GET /quizzes?subject=&grade=&professor_id=
func ListQuizzesHandler(repo quiz.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs := r.URL.Query()
		privileged := rbac.Privileged(rbac.RoleFromContext(r.Context()))
		list, err := repo.List(r.Context(), quiz.ListOpts{
			Subject:       strings.TrimSpace(qs.Get("subject")),
			Grade:         strings.TrimSpace(qs.Get("grade")),
			ProfessorID:   strings.TrimSpace(qs.Get("professor_id")),
			IncludeHidden: privileged,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		for i := range list {
			list[i] = viewAs(r, list[i])
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /quizzes/{quizID}
func GetQuizHandler(repo quiz.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := repo.Get(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if hiddenFrom(r, q) {
			writeError(w, quiz.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, viewAs(r, q))
	}
}

// POST /quizzes
func CreateQuizHandler(repo quiz.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quizReq
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		p, _ := authmw.PrincipalFromContext(r.Context())
		owner := req.ProfessorID
		if p.Role == rbac.RoleProfessor {
			owner = p.ID
		}
		if owner == "" {
			writeErr(w, http.StatusBadRequest, "bad_request", "professor_id required")
			return
		}
		q, err := repo.Create(r.Context(), quiz.Quiz{
			Title:       req.Title,
			Questions:   req.Questions,
			Subject:     req.Subject,
			Grade:       req.Grade,
			MaxAttempts: req.MaxAttempts,
			ProfessorID: owner,
			Hidden:      req.Hidden,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

// PUT /quizzes/{quizID}
func UpdateQuizHandler(repo quiz.Repository, stats StatsInvalidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cur, err := repo.Get(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil && !errors.Is(err, quiz.ErrMalformedQuestions) {
			writeError(w, err)
			return
		}
		if !canManage(r, cur) {
			writeErr(w, http.StatusForbidden, "forbidden", "forbidden")
			return
		}
		var req quizReq
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		q, err := repo.Update(r.Context(), quiz.Quiz{
			ID:          cur.ID,
			Title:       req.Title,
			Questions:   req.Questions,
			Subject:     req.Subject,
			Grade:       req.Grade,
			MaxAttempts: req.MaxAttempts,
			ProfessorID: cur.ProfessorID,
			Hidden:      req.Hidden,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		stats.Invalidate(r.Context(), q.ID, q.ProfessorID)
		writeJSON(w, http.StatusOK, q)
	}
}

// DELETE /quizzes/{quizID}; attempts go with the quiz.
func DeleteQuizHandler(repo quiz.Repository, stats StatsInvalidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cur, err := repo.Get(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil && !errors.Is(err, quiz.ErrMalformedQuestions) {
			writeError(w, err)
			return
		}
		if !canManage(r, cur) {
			writeErr(w, http.StatusForbidden, "forbidden", "forbidden")
			return
		}
		if err := repo.Delete(r.Context(), cur.ID); err != nil {
			writeError(w, err)
			return
		}
		stats.Invalidate(r.Context(), cur.ID, cur.ProfessorID)
		w.WriteHeader(http.StatusNoContent)
	}
}
