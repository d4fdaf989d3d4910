// Package collection exposes the raw stored collections for administration:
// read, replace and remove whole collections by key.
package collection

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aanand-mishra/eduadmin/internal/logging"
	"github.com/aanand-mishra/eduadmin/internal/storage"
	"github.com/aanand-mishra/eduadmin/internal/utils/response"
)

// errUnknownKey is reported for keys outside storage.Keys.
var errUnknownKey = errors.New("unknown collection")

// ListKeys handles GET /api/collections.
func ListKeys() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, storage.Keys())
	}
}

// Get handles GET /api/collections/{key}; the stored array is returned as is.
func Get(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := pathKey(w, r)
		if !ok {
			return
		}
		response.WriteJSON(w, http.StatusOK, storage.Read[json.RawMessage](store, key))
	}
}

// Replace handles PUT /api/collections/{key}. The body must be a JSON array.
func Replace(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.FromContext(r.Context())

		key, ok := pathKey(w, r)
		if !ok {
			return
		}

		var items []json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(fmt.Errorf("body must be a JSON array: %w", err)))
			return
		}

		if !storage.Write(store, key, items) {
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(fmt.Errorf("could not save %s", key)))
			return
		}

		log.Info("collection replaced", slog.String("key", string(key)), slog.Int("items", len(items)))
		response.WriteJSON(w, http.StatusOK, map[string]any{"status": response.StatusOK, "items": len(items)})
	}
}

// Remove handles DELETE /api/collections/{key}.
func Remove(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := pathKey(w, r)
		if !ok {
			return
		}

		if !store.Remove(key) {
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(fmt.Errorf("could not remove %s", key)))
			return
		}

		logging.FromContext(r.Context()).Info("collection removed", slog.String("key", string(key)))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// ClearAll handles DELETE /api/collections.
func ClearAll(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !store.ClearAll() {
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(errors.New("some collections could not be removed")))
			return
		}

		logging.FromContext(r.Context()).Warn("all collections cleared")
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	}
}

func pathKey(w http.ResponseWriter, r *http.Request) (storage.Key, bool) {
	raw := chi.URLParam(r, "key")
	key, ok := storage.ParseKey(raw)
	if !ok {
		response.WriteJSON(w, http.StatusNotFound,
			response.GeneralError(fmt.Errorf("%w: %q", errUnknownKey, raw)))
		return "", false
	}
	return key, true
}
