package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aggregion/dmp-registry/internal/repositories"
)

// CallerHeader carries the caller identity on every request. The
// services check it against the identity each operation acts as.
const CallerHeader = "X-Registry-Caller"

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

func callerFrom(r *http.Request) string {
	return r.Header.Get(CallerHeader)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps the repository error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, repositories.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, repositories.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, repositories.ErrLocked):
		status = http.StatusLocked
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}

// decodeJSON decodes a request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
