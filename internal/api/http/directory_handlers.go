package http

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nurseconnect/lms/internal/directory"
)

// GET /students?grade=
func ListStudentsHandler(dir *directory.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := dir.ListStudents(r.Context(), strings.TrimSpace(r.URL.Query().Get("grade")))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /students/{studentID}
func GetStudentHandler(dir *directory.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := dir.GetStudent(r.Context(), chi.URLParam(r, "studentID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// POST /students; the login code is generated.
func CreateStudentHandler(dir *directory.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var st directory.Student
		if err := decode(r, &st); err != nil {
			writeError(w, err)
			return
		}
		st.ID, st.Code = "", ""
		out, err := dir.CreateStudent(r.Context(), st)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

// PUT /students/{studentID}
func UpdateStudentHandler(dir *directory.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var st directory.Student
		if err := decode(r, &st); err != nil {
			writeError(w, err)
			return
		}
		st.ID = chi.URLParam(r, "studentID")
		out, err := dir.UpdateStudent(r.Context(), st)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// DELETE /students/{studentID}
func DeleteStudentHandler(dir *directory.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := dir.DeleteStudent(r.Context(), chi.URLParam(r, "studentID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /students/import accepts a multipart file= (CSV or JSON) or a raw
// JSON array. Rows are upserted by email.
func ImportStudentsHandler(dir *directory.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			rows []directory.Student
			err  error
		)
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			f, _, ferr := r.FormFile("file")
			if ferr != nil {
				writeErr(w, http.StatusBadRequest, "bad_request", "file required")
				return
			}
			defer f.Close()
			rows, err = readStudentRows(f)
		} else {
			err = json.NewDecoder(r.Body).Decode(&rows)
		}
		if err != nil {
			writeErr(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		for i := range rows {
			if err := validate.Struct(rows[i]); err != nil {
				writeErr(w, http.StatusBadRequest, "validation", fmt.Sprintf("row %d: %v", i+1, err))
				return
			}
		}
		ins, upd, err := dir.ImportStudents(r.Context(), rows)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"inserted": ins, "updated": upd})
	}
}

// readStudentRows sniffs JSON vs CSV by the first non-space byte.
func readStudentRows(f io.Reader) ([]directory.Student, error) {
	br := bufio.NewReader(f)
	for {
		b, err := br.Peek(1)
		if err != nil {
			return nil, errors.New("empty file")
		}
		if b[0] != ' ' && b[0] != '\n' && b[0] != '\r' && b[0] != '\t' {
			break
		}
		_, _ = br.ReadByte()
	}
	if b, _ := br.Peek(1); b[0] == '[' {
		var rows []directory.Student
		if err := json.NewDecoder(br).Decode(&rows); err != nil {
			return nil, fmt.Errorf("bad json: %w", err)
		}
		return rows, nil
	}
	rows, err := directory.ParseStudentsCSV(br)
	if err != nil {
		return nil, fmt.Errorf("bad csv: %w", err)
	}
	return rows, nil
}

// GET /professors?with_subjects=1
func ListProfessorsHandler(dir *directory.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		with := r.URL.Query().Get("with_subjects")
		out, err := dir.ListProfessors(r.Context(), with == "1" || with == "true")
		if err != nil {
			writeError(w, err)
			return
		}
		for i := range out {
			out[i].Code = ""
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /professors/{professorID}
func GetProfessorHandler(dir *directory.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := dir.GetProfessor(r.Context(), chi.URLParam(r, "professorID"))
		if err != nil {
			writeError(w, err)
			return
		}
		p.Code = ""
		writeJSON(w, http.StatusOK, p)
	}
}

// POST /professors; the code is generated when omitted and returned once.
func CreateProfessorHandler(dir *directory.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p directory.Professor
		if err := decode(r, &p); err != nil {
			writeError(w, err)
			return
		}
		p.ID = ""
		out, err := dir.CreateProfessor(r.Context(), p)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

// PUT /professors/{professorID}; an absent subject_ids keeps the current set.
func UpdateProfessorHandler(dir *directory.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p directory.Professor
		if err := decode(r, &p); err != nil {
			writeError(w, err)
			return
		}
		p.ID = chi.URLParam(r, "professorID")
		out, err := dir.UpdateProfessor(r.Context(), p)
		if err != nil {
			writeError(w, err)
			return
		}
		out.Code = ""
		writeJSON(w, http.StatusOK, out)
	}
}

// DELETE /professors/{professorID}
func DeleteProfessorHandler(dir *directory.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := dir.DeleteProfessor(r.Context(), chi.URLParam(r, "professorID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /subjects
func ListSubjectsHandler(dir *directory.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := dir.ListSubjects(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// POST /subjects
func CreateSubjectHandler(dir *directory.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub directory.Subject
		if err := decode(r, &sub); err != nil {
			writeError(w, err)
			return
		}
		out, err := dir.CreateSubject(r.Context(), sub)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

// DELETE /subjects/{subjectID}
func DeleteSubjectHandler(dir *directory.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := dir.DeleteSubject(r.Context(), chi.URLParam(r, "subjectID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
