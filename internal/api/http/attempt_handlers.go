package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nurseconnect/lms/internal/attempt"
	authmw "github.com/nurseconnect/lms/internal/auth/middleware"
	"github.com/nurseconnect/lms/internal/grading"
	"github.com/nurseconnect/lms/internal/quiz"
	"github.com/nurseconnect/lms/internal/rbac"
	"github.com/nurseconnect/lms/internal/stats"
)

type Attempts interface {
	Submit(ctx context.Context, sub attempt.Submission) (grading.Result, error)
	AlreadySolved(ctx context.Context, studentID, quizID string) (attempt.Solved, error)
}

type QuizReports interface {
	QuizSummary(ctx context.Context, quizID string) (stats.QuizSummary, error)
	QuizDetails(ctx context.Context, quizID string) ([]stats.AttemptDetail, error)
}

type submitReq struct {
	StudentID string           `json:"student_id"`
	Answers   []grading.Answer `json:"answers"`
}

// POST /quizzes/{quizID}/submissions
func SubmitAttemptHandler(svc Attempts, quizzes quiz.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireVisible(w, r, quizzes) {
			return
		}
		var req submitReq
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		p, _ := authmw.PrincipalFromContext(r.Context())
		if p.Role == rbac.RoleStudent {
			if req.StudentID == "" {
				req.StudentID = p.ID
			}
			if req.StudentID != p.ID {
				writeErr(w, http.StatusForbidden, "forbidden", "students submit only for themselves")
				return
			}
		}
		if req.StudentID == "" {
			writeErr(w, http.StatusBadRequest, "bad_request", "student_id required")
			return
		}
		res, err := svc.Submit(r.Context(), attempt.Submission{
			StudentID: req.StudentID,
			QuizID:    chi.URLParam(r, "quizID"),
			Answers:   req.Answers,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

// GET /quizzes/{quizID}/solved/{studentID}
func AlreadySolvedHandler(svc Attempts, quizzes quiz.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireVisible(w, r, quizzes) {
			return
		}
		out, err := svc.AlreadySolved(r.Context(), chi.URLParam(r, "studentID"), chi.URLParam(r, "quizID"))
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /quizzes/{quizID}/summary
func QuizSummaryHandler(rep QuizReports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := rep.QuizSummary(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /quizzes/{quizID}/attempts, newest first
func QuizAttemptsHandler(rep QuizReports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := rep.QuizDetails(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}
