// Package router wires the HTTP handlers onto a chi router.
//
// Route table:
//
//	GET    /healthz
//	POST   /api/students                  create a student
//	GET    /api/students                  list students
//	POST   /api/students/import           CSV bulk import (?dryRun=true to only check)
//	GET    /api/students/import/template  download the CSV template
//	GET    /api/students/{id}             get one student
//	PUT    /api/students/{id}             update a student
//	DELETE /api/students/{id}             delete a student
//	GET    /api/collections               list collection keys
//	DELETE /api/collections               clear every collection
//	GET    /api/collections/{key}         read a collection
//	PUT    /api/collections/{key}         replace a collection
//	DELETE /api/collections/{key}         remove a collection
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aanand-mishra/eduadmin/internal/http/handlers/collection"
	"github.com/aanand-mishra/eduadmin/internal/http/handlers/imports"
	"github.com/aanand-mishra/eduadmin/internal/http/handlers/student"
	"github.com/aanand-mishra/eduadmin/internal/logging"
	"github.com/aanand-mishra/eduadmin/internal/roster"
	"github.com/aanand-mishra/eduadmin/internal/storage"
	"github.com/aanand-mishra/eduadmin/internal/utils/response"
)

// Options tunes the router.
type Options struct {
	// MaxUploadBytes caps the CSV import body.
	MaxUploadBytes int64

	// Logger receives request and handler logs. Nil means the slog default.
	Logger *slog.Logger
}

// New returns the application handler.
func New(store *storage.Store, svc *roster.Service, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(opts.Logger))
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := response.StatusOK
		if !store.Available() {
			status = "degraded"
		}
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": status})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/students", func(r chi.Router) {
			r.Post("/", student.New(svc))
			r.Get("/", student.GetList(svc))

			r.Post("/import", imports.Upload(svc, opts.MaxUploadBytes))
			r.Get("/import/template", imports.Template())

			r.Get("/{id}", student.GetByID(svc))
			r.Put("/{id}", student.Update(svc))
			r.Delete("/{id}", student.Delete(svc))
		})

		r.Route("/collections", func(r chi.Router) {
			r.Get("/", collection.ListKeys())
			r.Delete("/", collection.ClearAll(store))

			r.Get("/{key}", collection.Get(store))
			r.Put("/{key}", collection.Replace(store))
			r.Delete("/{key}", collection.Remove(store))
		})
	})

	return r
}

// requestLogger logs one line per request with the chi request id.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logging.FromContext(r.Context()).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
