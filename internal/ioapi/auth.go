package ioapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gnames/fungidb/pkg/store"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		slog.Error("Cannot hash password", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	u := store.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err = s.store.CreateUser(r.Context(), &u); err != nil {
		respondStoreError(w, err, "Email is already registered")
		return
	}

	slog.Info("User registered", "user_id", u.ID)
	respondJSON(w, http.StatusCreated, response{
		Success: true,
		Message: "Registration successful",
		UserID:  u.ID,
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}

	u, err := s.store.UserByEmail(r.Context(), req.Email)
	if err != nil {
		respondStoreError(w, err, "User not found")
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		respondError(w, http.StatusUnauthorized, "Wrong password")
		return
	}
	if err != nil {
		slog.Error("Cannot check password", "user_id", u.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Login successful",
		User:    u,
	})
}
