package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"corkboard/internal/config"
	"corkboard/internal/middleware"
	"corkboard/internal/service"
)

type Handler struct {
	Router chi.Router
}

// NewHandler wires the route table: a public registration/login surface and
// an authenticated group behind session + CSRF middleware.
func NewHandler(
	userService *service.UserService,
	sessionService *service.SessionService,
	noteService *service.NoteService,
	logger *zap.SugaredLogger,
	cfg *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithSession(sessionService))

	userHandler := NewUserHandler(userService, sessionService, logger, cfg)
	noteHandler := NewNoteHandler(noteService, logger)

	r.Post("/api/user/register", userHandler.Register)
	r.Post("/api/user/login", userHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.WithCSRF)

		r.Post("/api/user/logout", userHandler.Logout)
		r.Get("/api/user/me", userHandler.Me)
		r.Put("/api/user/me", userHandler.UpdateProfile)

		r.Get("/api/notes", noteHandler.List)
		r.Post("/api/notes", noteHandler.Create)
		r.Get("/api/notes/{id}", noteHandler.Get)
		r.Put("/api/notes/{id}", noteHandler.Update)
		r.Delete("/api/notes/{id}", noteHandler.Delete)
	})

	return &Handler{Router: r}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Unrecognized errors become a logged 500.
func writeServiceError(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	var status int
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrNoSession),
		errors.Is(err, service.ErrSessionExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrBadCSRF):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrLoginTaken):
		status = http.StatusConflict
	default:
		logger.Errorw("internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
