package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nurseconnect/lms/internal/stats"
)

type ProfessorReports interface {
	ProfessorSummary(ctx context.Context, professorID string) (stats.ProfessorSummary, error)
	ProfessorQuizStatistics(ctx context.Context, professorID string) ([]stats.QuizStat, error)
}

type ProgressReports interface {
	StudentProgress(ctx context.Context, studentID string) (stats.Progress, error)
}

type ReadMarker interface {
	MarkRead(ctx context.Context, studentID, materialID string) error
}

type PlatformReports interface {
	PlatformCounts(ctx context.Context) (stats.PlatformCounts, error)
}

// GET /professors/{professorID}/summary
func ProfessorSummaryHandler(rep ProfessorReports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := rep.ProfessorSummary(r.Context(), chi.URLParam(r, "professorID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /professors/{professorID}/quiz-statistics
func ProfessorQuizStatisticsHandler(rep ProfessorReports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := rep.ProfessorQuizStatistics(r.Context(), chi.URLParam(r, "professorID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /progress/{studentID}
func StudentProgressHandler(rep ProgressReports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := rep.StudentProgress(r.Context(), chi.URLParam(r, "studentID"))
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, out)
	}
}

// POST /progress/{studentID}/read/{materialID}; repeating it is a no-op.
func MarkReadHandler(m ReadMarker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := m.MarkRead(r.Context(), chi.URLParam(r, "studentID"), chi.URLParam(r, "materialID"))
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /admin/stats
func PlatformStatsHandler(rep PlatformReports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := rep.PlatformCounts(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}
