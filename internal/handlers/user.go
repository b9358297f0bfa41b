package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"corkboard/internal/config"
	"corkboard/internal/middleware"
	"corkboard/internal/model"
	"corkboard/internal/service"
)

// UserHandler owns the registration, login/logout and profile endpoints.
type UserHandler struct {
	Users    *service.UserService
	Sessions *service.SessionService
	Logger   *zap.SugaredLogger
	Config   *config.Config
}

func NewUserHandler(users *service.UserService, sessions *service.SessionService, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{Users: users, Sessions: sessions, Logger: logger, Config: cfg}
}

type credentialsRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Bio      string `json:"bio,omitempty"`
}

type profileResponse struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Bio   string `json:"bio,omitempty"`
}

// authResponse carries the CSRF token the client must echo in X-CSRF-Token
// on every mutating request; the session token itself travels only in the
// HttpOnly cookie.
type authResponse struct {
	User      profileResponse `json:"user"`
	CSRFToken string          `json:"csrf_token"`
}

func toProfile(u *model.User) profileResponse {
	return profileResponse{ID: u.ID, Login: u.Login, Bio: u.Bio}
}

// Register creates an account and immediately opens a session for it.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Register: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.Users.Register(r.Context(), req.Login, req.Password, req.Bio)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}

	h.startSession(w, r, user)
}

// Login verifies credentials and opens a session.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Login: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.Users.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}

	h.startSession(w, r, user)
}

func (h *UserHandler) startSession(w http.ResponseWriter, r *http.Request, user *model.User) {
	sess, err := h.Sessions.Start(r.Context(), user.ID)
	if err != nil {
		h.Logger.Errorw("failed to start session", "user_id", user.ID, "error", err)
		writeServiceError(w, h.Logger, err)
		return
	}

	middleware.SetSessionCookie(w, sess.Token, h.Config.EnableHTTPS)
	writeJSON(w, http.StatusOK, authResponse{User: toProfile(user), CSRFToken: sess.CSRFToken})
}

// Logout deletes the server-side session and expires the cookie. Ending an
// already-gone session is not an error.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		if err := h.Sessions.End(r.Context(), sess.Token); err != nil {
			writeServiceError(w, h.Logger, err)
			return
		}
	}

	middleware.ClearSessionCookie(w, h.Config.EnableHTTPS)
	writeJSON(w, http.StatusOK, map[string]string{"result": "logged out"})
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfile(user))
}

// UpdateProfile edits the free-text bio.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req struct {
		Bio string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("UpdateProfile: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.Users.UpdateBio(r.Context(), userID, req.Bio)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfile(user))
}
