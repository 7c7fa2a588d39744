package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mmynk/expenses/internal/auth"
	"github.com/mmynk/expenses/pkg/api"
)

// AuthService exchanges the service password for bearer tokens.
type AuthService struct {
	checker    *auth.PasswordChecker
	jwtManager *auth.JWTManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(checker *auth.PasswordChecker, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		checker:    checker,
		jwtManager: jwtManager,
	}
}

// Register mounts the token route on r.
func (s *AuthService) Register(r *mux.Router) {
	r.HandleFunc(api.TokenPath, s.IssueToken).Methods(http.MethodPost)
}

// IssueToken checks the password and returns a signed JWT.
func (s *AuthService) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req api.TokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	if err := s.checker.Check(req.Password); err != nil {
		slog.Warn("Token request rejected", "remote_addr", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	client := r.UserAgent()
	if client == "" {
		client = "unknown"
	}
	token, expiresAt, err := s.jwtManager.Generate(client)
	if err != nil {
		slog.Error("Failed to generate token", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("failed to generate token"))
		return
	}

	slog.Info("Token issued", "client", client)
	writeJSON(w, http.StatusOK, api.TokenResponse{Token: token, ExpiresAt: expiresAt.Unix()})
}
