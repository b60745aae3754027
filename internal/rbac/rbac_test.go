package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckerDefaults(t *testing.T) {
	c := NewChecker(nil)
	require.True(t, c.Has(RoleStudent, "attempt:submit"))
	require.False(t, c.Has(RoleStudent, "quiz:create"))
	require.True(t, c.Has(RoleProfessor, "quiz:create"))
	require.True(t, c.Has(RoleProfessor, "quiz:delete"))
	require.False(t, c.Has(RoleProfessor, "students:write"))
	require.True(t, c.Has(RoleAdmin, "anything:at-all"))
	require.False(t, c.Has("guest", "quiz:view"))

	require.True(t, c.Any(RoleStudent, "quiz:create", "quiz:view"))
	require.False(t, c.All(RoleStudent, "quiz:create", "quiz:view"))
}

func TestRequire(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := Require("stats:view")(ok)

	cases := map[string]int{
		"":            http.StatusForbidden,
		RoleStudent:   http.StatusForbidden,
		RoleProfessor: http.StatusNoContent,
		RoleAdmin:     http.StatusNoContent,
	}
	for role, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithRole(req.Context(), role))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, want, rec.Code, role)
	}
}

func TestRequireOwnerOr(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	owner := false
	h := RequireOwnerOr("progress:view-all", func(*http.Request) bool { return owner })(ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), RoleStudent))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.JSONEq(t, `{"error":"forbidden","code":"forbidden"}`, rec.Body.String())

	owner = true
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
