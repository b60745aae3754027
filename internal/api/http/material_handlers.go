package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nurseconnect/lms/internal/material"
	"github.com/nurseconnect/lms/internal/rbac"
)

// GET /materials?subject=&grade=
func ListMaterialsHandler(store *material.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs := r.URL.Query()
		out, err := store.List(r.Context(), material.ListOpts{
			Subject:       strings.TrimSpace(qs.Get("subject")),
			Grade:         strings.TrimSpace(qs.Get("grade")),
			IncludeHidden: rbac.Privileged(rbac.RoleFromContext(r.Context())),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /materials/{materialID}
func GetMaterialHandler(store *material.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := store.Get(r.Context(), chi.URLParam(r, "materialID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if m.Hidden && !rbac.Privileged(rbac.RoleFromContext(r.Context())) {
			writeError(w, material.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

// POST /materials
func CreateMaterialHandler(store *material.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var m material.Material
		if err := decode(r, &m); err != nil {
			writeError(w, err)
			return
		}
		m.ID = ""
		out, err := store.Create(r.Context(), m)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

// PUT /materials/{materialID}
func UpdateMaterialHandler(store *material.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var m material.Material
		if err := decode(r, &m); err != nil {
			writeError(w, err)
			return
		}
		m.ID = chi.URLParam(r, "materialID")
		out, err := store.Update(r.Context(), m)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// DELETE /materials/{materialID}
func DeleteMaterialHandler(store *material.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(r.Context(), chi.URLParam(r, "materialID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
