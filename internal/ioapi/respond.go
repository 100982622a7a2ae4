package ioapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gnames/fungidb/pkg/store"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// response is the envelope of non-list responses.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	ID      string `json:"id,omitempty"`
	UserID  string `json:"userId,omitempty"`
	User    any    `json:"user,omitempty"`
	Note    any    `json:"note,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, response{Success: false, Message: message})
}

// respondStoreError maps store sentinels to HTTP statuses.
func respondStoreError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, store.ErrDuplicate):
		respondError(w, http.StatusConflict, message)
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, message)
	case errors.Is(err, store.ErrInvalidID):
		respondError(w, http.StatusBadRequest, "Invalid id")
	default:
		slog.Error("Store operation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decode reads a JSON body into v and validates it. On failure it writes
// the response and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Validation failed"
	}
	msgs := make([]string, 0, len(verrs))
	for _, v := range verrs {
		var msg string
		switch v.Tag() {
		case "required":
			msg = v.Field() + " is required"
		case "email":
			msg = v.Field() + " must be a valid email"
		case "min":
			msg = v.Field() + " must be at least " + v.Param() + " characters"
		case "max":
			msg = v.Field() + " must be at most " + v.Param() + " characters"
		default:
			msg = v.Field() + " is invalid"
		}
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, "; ")
}
