package ioapi

import (
	"net/http"
	"time"

	"github.com/gnames/fungidb/pkg/store"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

type noteRequest struct {
	UserID string `json:"userId" validate:"required"`
	store.NoteUpdate
}

// UnmarshalJSON keeps userId, the promoted method of NoteUpdate would
// drop it.
func (nr *noteRequest) UnmarshalJSON(data []byte) error {
	var user struct {
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(data, &user); err != nil {
		return err
	}
	nr.UserID = user.UserID
	return json.Unmarshal(data, &nr.NoteUpdate)
}

func (s *Server) notes(w http.ResponseWriter, r *http.Request) {
	res, err := s.store.Notes(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		respondStoreError(w, err, "Notes not found")
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !s.decode(w, r, &req) {
		return
	}

	n := store.Note{UserID: req.UserID}
	n.Apply(req.NoteUpdate, time.Now().UTC())
	if err := s.store.CreateNote(r.Context(), &n); err != nil {
		respondStoreError(w, err, "Cannot create note")
		return
	}
	respondJSON(w, http.StatusCreated, response{Success: true, ID: n.ID, Note: n})
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	var upd store.NoteUpdate
	if !s.decode(w, r, &upd) {
		return
	}
	if upd.IsEmpty() {
		respondError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	n, err := s.store.UpdateNote(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		respondStoreError(w, err, "Note not found")
		return
	}
	respondJSON(w, http.StatusOK, response{Success: true, ID: n.ID, Note: n})
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteNote(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondStoreError(w, err, "Note not found")
		return
	}
	respondJSON(w, http.StatusOK, response{Success: true})
}
