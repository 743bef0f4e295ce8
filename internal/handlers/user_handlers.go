package handlers

import (
	"encoding/json"
	"net/http"

	"ink-well/internal/engine/actors"
	"ink-well/internal/middleware"
)

// RegisterUserRequest represents a request to register a new author account
type RegisterUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin,omitempty"`
}

// LoginRequest represents a request to log in a user
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries a partial profile edit; empty fields keep
// their stored value.
type UpdateProfileRequest struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	ProfileImg string `json:"profileImg,omitempty"`
	Bio        string `json:"bio,omitempty"`
}

// HandleUserRegistration handles requests to register a new user
func (s *Server) HandleUserRegistration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		var req RegisterUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.GetUserActor(), &actors.RegisterUserMsg{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			IsAdmin:  req.IsAdmin,
		}, "UserActor")
		if err != nil {
			writeError(w, err)
			return
		}

		s.respond(w, result, http.StatusCreated)
	}
}

// HandleUserLogin handles credential login and returns a signed token
func (s *Server) HandleUserLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.GetUserActor(), &actors.LoginMsg{
			Email:    req.Email,
			Password: req.Password,
		}, "UserActor")
		if err != nil {
			writeError(w, err)
			return
		}

		s.respond(w, result, http.StatusOK)
	}
}

// HandleProfile serves the authenticated user's profile (GET) and applies
// partial edits (PATCH).
func (s *Server) HandleProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		switch r.Method {
		case http.MethodGet:
			middleware.Auth(s.handleGetProfile, false)(w, r)
		case http.MethodPatch:
			middleware.Auth(s.handleUpdateProfile, false)(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Missing authenticated identity", http.StatusUnauthorized)
		return
	}

	result, err := s.ask(s.Engine.GetUserActor(), &actors.GetUserProfileMsg{UserID: userID}, "UserActor")
	if err != nil {
		writeError(w, err)
		return
	}

	s.respond(w, result, http.StatusOK)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Missing authenticated identity", http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := s.ask(s.Engine.GetUserActor(), &actors.UpdateProfileMsg{
		UserID:     userID,
		Name:       req.Name,
		Email:      req.Email,
		ProfileImg: req.ProfileImg,
		Bio:        req.Bio,
	}, "UserActor")
	if err != nil {
		writeError(w, err)
		return
	}

	s.respond(w, result, http.StatusOK)
}
