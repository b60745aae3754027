package auth

import (
	"context"
	"log"
	"net/http"

	"github.com/nurseconnect/lms/internal/rbac"
)

// SubjectChecker reports whether an account still exists.
type SubjectChecker interface {
	StudentExists(ctx context.Context, id string) (bool, error)
	ProfessorExists(ctx context.Context, id string) (bool, error)
}

// RequireLiveSubject rejects tokens whose student or professor has been
// deleted since the token was issued. Admin tokens pass through.
func RequireLiveSubject(dir SubjectChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sub := SubjectFromContext(ctx)
			var (
				ok  bool
				err error
			)
			switch rbac.RoleFromContext(ctx) {
			case rbac.RoleAdmin:
				next.ServeHTTP(w, r)
				return
			case rbac.RoleStudent:
				ok, err = dir.StudentExists(ctx, sub)
			case rbac.RoleProfessor:
				ok, err = dir.ProfessorExists(ctx, sub)
			}
			if err != nil {
				log.Printf("auth: subject lookup %s: %v", sub, err)
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			if !ok {
				http.Error(w, "account no longer exists", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
