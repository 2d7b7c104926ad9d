package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"decaptrack/internal/models"
)

func respondJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// errorBody is the envelope every failed request gets: a stable category, a
// human-readable message and, for validation failures, per-field detail.
type errorBody struct {
	Error   string             `json:"error"`
	Message string             `json:"message"`
	Fields  models.FieldErrors `json:"fields,omitempty"`
}

func respondError(w http.ResponseWriter, code int, category, message string) {
	respondJSON(w, code, errorBody{Error: category, Message: message})
}

func respondValidation(w http.ResponseWriter, fields models.FieldErrors) {
	respondJSON(w, http.StatusBadRequest, errorBody{
		Error:   "validation_error",
		Message: "request body failed validation",
		Fields:  fields,
	})
}

func respondNotFound(w http.ResponseWriter, what string) {
	respondError(w, http.StatusNotFound, "not_found", what+" not found")
}

func respondInternal(w http.ResponseWriter) {
	respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

// decodeJSON decodes the body rejecting fields outside the entity's declared
// mutable set.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func urlID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// clientIP relies on chi's RealIP middleware having rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func queryInt(r *http.Request, key string) int {
	if s := r.URL.Query().Get(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 0
}
