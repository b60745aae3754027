package http

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authmw "github.com/nurseconnect/lms/internal/auth/middleware"
	"github.com/nurseconnect/lms/internal/directory"
	"github.com/nurseconnect/lms/internal/material"
	"github.com/nurseconnect/lms/internal/quiz"
	"github.com/nurseconnect/lms/internal/rbac"
	"github.com/nurseconnect/lms/internal/stats"
)

// Deps is everything the HTTP surface needs.
type Deps struct {
	Auth      *authmw.AuthService
	DB        *sql.DB
	Directory *directory.SQLStore
	Quizzes   quiz.Repository
	Materials *material.SQLStore
	Attempts  Attempts
	Reports   *stats.Reporter

	CORSOrigins    []string
	RequestTimeout time.Duration
}

// self matches when the caller has role and is the account named by param.
func self(role, param string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		p, ok := authmw.PrincipalFromContext(r.Context())
		return ok && p.Role == role && p.ID == chi.URLParam(r, param)
	}
}

func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	if d.RequestTimeout > 0 {
		r.Use(middleware.Timeout(d.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/student", StudentLoginHandler(d.Auth, d.Directory))
	r.Post("/auth/professor", ProfessorLoginHandler(d.Auth, d.Directory))
	r.Post("/auth/admin", AdminLoginHandler(d.Auth, d.Directory))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := d.DB.PingContext(r.Context()); err != nil {
			writeErr(w, http.StatusServiceUnavailable, "storage", "database unavailable")
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// JWT → live account → RBAC
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(d.Auth), authmw.RequireLiveSubject(d.Directory))

		pr.With(rbac.Require("admin:password")).
			Put("/admin/password", ChangeAdminPasswordHandler(d.Directory))
		pr.With(rbac.Require("admin:stats")).
			Get("/admin/stats", PlatformStatsHandler(d.Reports))

		pr.Route("/quizzes", func(qr chi.Router) {
			qr.With(rbac.Require("quiz:view")).Get("/", ListQuizzesHandler(d.Quizzes))
			qr.With(rbac.Require("quiz:create")).Post("/", CreateQuizHandler(d.Quizzes))
			qr.Route("/{quizID}", func(one chi.Router) {
				one.With(rbac.Require("quiz:view")).Get("/", GetQuizHandler(d.Quizzes))
				one.With(rbac.Require("quiz:update")).Put("/", UpdateQuizHandler(d.Quizzes, d.Reports))
				one.With(rbac.Require("quiz:delete")).Delete("/", DeleteQuizHandler(d.Quizzes, d.Reports))

				one.With(rbac.Require("attempt:submit")).
					Post("/submissions", SubmitAttemptHandler(d.Attempts, d.Quizzes))
				one.With(rbac.RequireOwnerOr("attempt:view-all", self(rbac.RoleStudent, "studentID"))).
					Get("/solved/{studentID}", AlreadySolvedHandler(d.Attempts, d.Quizzes))
				one.With(rbac.Require("stats:view")).Get("/summary", QuizSummaryHandler(d.Reports))
				one.With(rbac.Require("attempt:view-all")).Get("/attempts", QuizAttemptsHandler(d.Reports))
			})
		})

		pr.With(rbac.RequireOwnerOr("stats:view-all", self(rbac.RoleProfessor, "professorID"))).
			Get("/professors/{professorID}/summary", ProfessorSummaryHandler(d.Reports))
		pr.With(rbac.RequireOwnerOr("stats:view-all", self(rbac.RoleProfessor, "professorID"))).
			Get("/professors/{professorID}/quiz-statistics", ProfessorQuizStatisticsHandler(d.Reports))

		pr.With(rbac.RequireOwnerOr("progress:view-all", self(rbac.RoleStudent, "studentID"))).
			Get("/progress/{studentID}", StudentProgressHandler(d.Reports))
		pr.With(rbac.RequireOwnerOr("progress:write-all", self(rbac.RoleStudent, "studentID"))).
			Post("/progress/{studentID}/read/{materialID}", MarkReadHandler(d.Materials))

		pr.Route("/students", func(sr chi.Router) {
			sr.With(rbac.Require("students:list")).Get("/", ListStudentsHandler(d.Directory))
			sr.With(rbac.Require("students:manage")).Post("/", CreateStudentHandler(d.Directory))
			sr.With(rbac.Require("students:manage")).Post("/import", ImportStudentsHandler(d.Directory))
			sr.With(rbac.RequireOwnerOr("students:list", self(rbac.RoleStudent, "studentID"))).
				Get("/{studentID}", GetStudentHandler(d.Directory))
			sr.With(rbac.Require("students:manage")).Put("/{studentID}", UpdateStudentHandler(d.Directory))
			sr.With(rbac.Require("students:manage")).Delete("/{studentID}", DeleteStudentHandler(d.Directory))
		})

		pr.Route("/professors", func(fr chi.Router) {
			fr.With(rbac.Require("professors:list")).Get("/", ListProfessorsHandler(d.Directory))
			fr.With(rbac.Require("professors:manage")).Post("/", CreateProfessorHandler(d.Directory))
			fr.With(rbac.Require("professors:list")).Get("/{professorID}", GetProfessorHandler(d.Directory))
			fr.With(rbac.Require("professors:manage")).Put("/{professorID}", UpdateProfessorHandler(d.Directory))
			fr.With(rbac.Require("professors:manage")).Delete("/{professorID}", DeleteProfessorHandler(d.Directory))
		})

		pr.With(rbac.Require("subject:view")).Get("/subjects", ListSubjectsHandler(d.Directory))
		pr.With(rbac.Require("subject:manage")).Post("/subjects", CreateSubjectHandler(d.Directory))
		pr.With(rbac.Require("subject:manage")).Delete("/subjects/{subjectID}", DeleteSubjectHandler(d.Directory))

		pr.Route("/materials", func(mr chi.Router) {
			mr.With(rbac.Require("material:view")).Get("/", ListMaterialsHandler(d.Materials))
			mr.With(rbac.Require("material:create")).Post("/", CreateMaterialHandler(d.Materials))
			mr.With(rbac.Require("material:view")).Get("/{materialID}", GetMaterialHandler(d.Materials))
			mr.With(rbac.Require("material:update")).Put("/{materialID}", UpdateMaterialHandler(d.Materials))
			mr.With(rbac.Require("material:delete")).Delete("/{materialID}", DeleteMaterialHandler(d.Materials))
		})
	})

	return r
}
