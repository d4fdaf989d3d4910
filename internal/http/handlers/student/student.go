// Package student contains the HTTP handlers for the Student resource.
//
// Each exported function is a factory: it receives its dependencies once at
// route registration and returns the http.HandlerFunc called per request.
//
//	r.Post("/api/students", student.New(svc))
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/eduadmin/internal/logging"
	"github.com/aanand-mishra/eduadmin/internal/roster"
	"github.com/aanand-mishra/eduadmin/internal/types"
	"github.com/aanand-mishra/eduadmin/internal/utils/response"
)

// Service is the slice of roster.Service the handlers need.
type Service interface {
	List() []types.Student
	Get(id int64) (types.Student, error)
	Create(st types.Student) (types.Student, error)
	Update(id int64, st types.Student) (types.Student, error)
	Delete(id int64) error
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
//
// Request body:
//
//	{ "name": "김철수", "email": "kim@example.com", "phone": "010-1234-5678", "program": "프로그램A" }
//
// 201 with the stored student; 400 on empty/malformed body or validation
// failure; 409 when the email is taken; 500 when the write fails.
// ─────────────────────────────────────────────────────────────────────────────
func New(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.FromContext(r.Context())
		log.Info("creating a student")

		student, ok := decode(w, r)
		if !ok {
			return
		}

		created, err := svc.Create(student)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}

		log.Info("student created", slog.Int64("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/students/{id}
//
// 200 with the student; 400 when {id} is not an integer; 404 when no student
// has that id.
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.FromContext(r.Context())

		id, ok := pathID(w, r)
		if !ok {
			return
		}
		log.Info("getting a student", slog.Int64("id", id))

		student, err := svc.Get(id)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students
//
// 200 with every student in stored order. An empty collection is [] rather
// than null.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).Info("getting all students")
		response.WriteJSON(w, http.StatusOK, svc.List())
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/students/{id}
//
// The body has the same shape as for New and all required fields must be
// sent. id and createdAt are kept; a blank enrollDate keeps the stored one.
//
// 200 with the updated student; 400 on bad id, body or validation; 404 when
// the id is unknown; 409 when another student holds the email.
// ─────────────────────────────────────────────────────────────────────────────
func Update(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.FromContext(r.Context())

		id, ok := pathID(w, r)
		if !ok {
			return
		}
		log.Info("updating a student", slog.Int64("id", id))

		student, ok := decode(w, r)
		if !ok {
			return
		}

		updated, err := svc.Update(id, student)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}

		log.Info("student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/students/{id}
//
// 200 on success; 400 on bad id; 404 when the id is unknown.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.FromContext(r.Context())

		id, ok := pathID(w, r)
		if !ok {
			return
		}
		log.Info("deleting a student", slog.Int64("id", id))

		if err := svc.Delete(id); err != nil {
			writeServiceError(w, log, err)
			return
		}

		log.Info("student deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("invalid id: must be an integer")))
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request) (types.Student, bool) {
	var student types.Student

	err := json.NewDecoder(r.Body).Decode(&student)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return student, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return student, false
	}

	return student, true
}

func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	var verrs validator.ValidationErrors

	switch {
	case errors.As(err, &verrs):
		response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(verrs))
	case errors.Is(err, roster.ErrNotFound):
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
	case errors.Is(err, roster.ErrDuplicateEmail):
		response.WriteJSON(w, http.StatusConflict, response.GeneralError(err))
	default:
		log.Error("student request failed", slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
	}
}
