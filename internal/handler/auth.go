package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/fittrack/internal/ctxkeys"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/repository"
	"github.com/templui/fittrack/internal/service"
)

type authHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *authHandler {
	return &authHandler{authService: authService}
}

type registerResponse struct {
	Message string            `json:"message"`
	User    model.UserProfile `json:"user"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    model.UserProfile `json:"user"`
}

func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if !decodeJSON(w, r, &input) {
		return
	}

	user, err := h.authService.Register(input)
	if err != nil {
		writeServiceError(w, err, "failed to register user")
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		Message: "User registered successfully",
		User:    user.Profile(),
	})
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, user, err := h.authService.Login(req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrCredentialsRequired):
		writeAuthError(w, http.StatusBadRequest, "Username and password are required")
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		writeAuthError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	case errors.Is(err, service.ErrLoginFailed):
		slog.Error("login failed after authentication", "error", err, "username", req.Username)
		writeAuthError(w, http.StatusInternalServerError, "Internal server error during authentication")
		return
	case err != nil:
		slog.Error("login failed", "error", err, "username", req.Username)
		writeAuthError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   token.Key,
		User:    user.Profile(),
	})
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := ctxkeys.Token(r.Context())

	err := h.authService.Logout(token.Key)
	if errors.Is(err, service.ErrInvalidToken) {
		writeDetail(w, http.StatusUnauthorized, "Invalid token.")
		return
	}
	if err != nil {
		slog.Error("failed to log out", "error", err, "user_id", token.UserID)
		writeDetail(w, http.StatusInternalServerError, detailServerError)
		return
	}

	writeMessage(w, http.StatusOK, "Logout successful")
}

func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	current := ctxkeys.User(r.Context())

	user, err := h.authService.CurrentUser(current.ID)
	if errors.Is(err, repository.ErrUserNotFound) {
		writeDetail(w, http.StatusUnauthorized, "User inactive or deleted.")
		return
	}
	if err != nil {
		slog.Error("failed to get current user", "error", err, "user_id", current.ID)
		writeDetail(w, http.StatusInternalServerError, detailServerError)
		return
	}

	writeJSON(w, http.StatusOK, user.Profile())
}
