package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/recruit-tracker/internal/config"
	"github.com/jonathan/recruit-tracker/internal/dashboard"
	"github.com/jonathan/recruit-tracker/internal/types"
)

// OperatorDirectory finds the operators allowed to sign in.
type OperatorDirectory interface {
	Operator(email string) (config.Operator, bool)
}

// LoginResponse is returned by a successful sign-in.
type LoginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	Identity  dashboard.Identity `json:"identity"`
}

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	operators  OperatorDirectory
	passwords  *config.PasswordConfig
	jwtService *JWTService
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(operators OperatorDirectory, passwords *config.PasswordConfig, jwtService *JWTService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		operators:  operators,
		passwords:  passwords,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login checks the operator's password and issues a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Normalize()

	if err := req.Validate(); err != nil {
		writeJSONError(w, http.StatusBadRequest, validationError(err).Error())
		return
	}

	identity, err := h.authenticate(req.Email, req.Password)
	if err != nil {
		h.logger.Warn("login rejected", "email", req.Email)
		writeJSONError(w, HTTPStatus(err), err.Error())
		return
	}

	token, expiresAt, err := h.jwtService.GenerateToken(identity)
	if err != nil {
		h.logger.Error("failed to generate token", "email", identity.Email, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	h.logger.Info("operator signed in", "email", identity.Email, "role", identity.Role)
	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Identity:  identity,
	})
}

// authenticate runs a bcrypt comparison whether or not the operator exists,
// so response timing does not reveal which emails are configured.
func (h *AuthHandler) authenticate(email, password string) (dashboard.Identity, error) {
	op, ok := h.operators.Operator(email)
	if !ok {
		h.passwords.RejectUnknown(password)
		return dashboard.Identity{}, &ErrInvalidCredentials{}
	}
	if !h.passwords.VerifyPassword(password, op.PasswordHash) {
		return dashboard.Identity{}, &ErrInvalidCredentials{}
	}
	return op.Identity(), nil
}

// validationError turns the first validator failure into an ErrValidation.
func validationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: ve.Field(), Message: fmt.Sprintf("failed on %s", ve.Tag())}
	}
	return &ErrValidation{Field: "request", Message: err.Error()}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
