// Package imports serves the student CSV bulk import and its template.
package imports

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/eduadmin/internal/csvimport"
	"github.com/aanand-mishra/eduadmin/internal/logging"
	"github.com/aanand-mishra/eduadmin/internal/roster"
	"github.com/aanand-mishra/eduadmin/internal/utils/response"
)

// FormField is the multipart field carrying the CSV file.
const FormField = "file"

// Importer is implemented by roster.Service.
type Importer interface {
	Import(text string, dryRun bool) (roster.Report, error)
}

// Upload handles POST /api/students/import[?dryRun=true].
//
// The body is either raw CSV text or a multipart form with a "file" field.
// Responses carry a roster.Report:
//
//	200  dry run, or nothing importable
//	201  at least one student imported
//	413  body larger than maxBytes
//	422  nothing could be parsed (empty file, missing headers)
//	500  the students collection could not be saved
func Upload(svc Importer, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.FromContext(r.Context())

		dryRun, err := parseBool(r.URL.Query().Get("dryRun"))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		text, err := readCSV(w, r, maxBytes)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.WriteJSON(w, http.StatusRequestEntityTooLarge,
					response.GeneralError(fmt.Errorf("file exceeds %d bytes", maxBytes)))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		log.Info("importing students", slog.Bool("dry_run", dryRun), slog.Int("bytes", len(text)))

		report, err := svc.Import(text, dryRun)
		if err != nil {
			log.Error("import failed", slog.String("batch_id", report.BatchID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, status(report), report)
	}
}

// Template handles GET /api/students/import/template.
func Template() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := csvimport.DownloadTemplate(w); err != nil {
			logging.FromContext(r.Context()).Error("template download failed", slog.String("error", err.Error()))
		}
	}
}

func status(report roster.Report) int {
	res := report.Result
	switch {
	case len(res.Records) == 0 && len(res.FileErrors) > 0:
		return http.StatusUnprocessableEntity
	case report.Imported > 0:
		return http.StatusCreated
	default:
		return http.StatusOK
	}
}

func parseBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid dryRun %q: must be true or false", v)
	}
	return b, nil
}

func readCSV(w http.ResponseWriter, r *http.Request, maxBytes int64) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return "", err
		}
		return string(body), nil
	}

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return "", err
	}
	file, _, err := r.FormFile(FormField)
	if err != nil {
		return "", fmt.Errorf("multipart field %q: %w", FormField, err)
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
