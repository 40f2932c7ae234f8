package api

import (
	"time"

	"travelbuk/internal/auth"
	"travelbuk/internal/config"
	"travelbuk/internal/model"
	"travelbuk/internal/notifier"
	"travelbuk/internal/service"
)

// HTTPHandler holds the request handlers and their collaborators.
type HTTPHandler struct {
	cfg         config.Config
	repo        model.Repository
	authManager *auth.Manager

	userService    *service.UserService
	contactService *service.ContactService
}

// NewHTTPHandler wires the handler from explicit dependencies. Nothing is
// reached through package-level state.
func NewHTTPHandler(cfg config.Config, repo model.Repository, dispatcher *notifier.Dispatcher) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}

	handler := &HTTPHandler{
		cfg:            cfg,
		repo:           repo,
		authManager:    authManager,
		userService:    service.NewUserService(repo, dispatcher, cfg.PublicBaseURL),
		contactService: service.NewContactService(repo),
	}

	return handler, nil
}
