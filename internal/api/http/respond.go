package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/nurseconnect/lms/internal/attempt"
	"github.com/nurseconnect/lms/internal/directory"
	"github.com/nurseconnect/lms/internal/material"
	"github.com/nurseconnect/lms/internal/quiz"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// report json field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && strings.TrimSpace(s) != ""
	})
}

type errorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

var errBadJSON = errors.New("bad json")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}

// writeError maps domain errors onto HTTP responses.
func writeError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Translate(translator)
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Code: "validation", Fields: fields})
	case errors.Is(err, errBadJSON):
		writeErr(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, attempt.ErrAttemptLimit):
		writeErr(w, http.StatusForbidden, "attempt_limit", "attempt limit reached")
	case errors.Is(err, attempt.ErrInvalidScore):
		writeErr(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, quiz.ErrNotFound),
		errors.Is(err, attempt.ErrNotFound),
		errors.Is(err, directory.ErrNotFound),
		errors.Is(err, material.ErrNotFound):
		writeErr(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, directory.ErrDuplicate):
		writeErr(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, directory.ErrBadCredentials):
		writeErr(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
	case errors.Is(err, quiz.ErrMalformedQuestions):
		log.Printf("malformed quiz: %v", err)
		writeErr(w, http.StatusInternalServerError, "malformed_quiz", "quiz data is malformed")
	default:
		log.Printf("storage error: %v", err)
		writeErr(w, http.StatusInternalServerError, "storage", "internal error")
	}
}

// decode reads a JSON body into dst and validates it.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadJSON, err)
	}
	return validate.Struct(dst)
}
