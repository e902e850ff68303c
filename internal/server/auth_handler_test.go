package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonathan/recruit-tracker/internal/config"
	"github.com/jonathan/recruit-tracker/internal/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// mapDirectory is an in-memory OperatorDirectory.
type mapDirectory map[string]config.Operator

func (m mapDirectory) Operator(email string) (config.Operator, bool) {
	op, ok := m[email]
	return op, ok
}

// setupTestAuthHandler creates an AuthHandler with a single recruiter.
func setupTestAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()
	passwords := &config.PasswordConfig{BcryptCost: bcrypt.MinCost, Pepper: "pepper"}
	hash, err := passwords.HashPassword(testPassword)
	require.NoError(t, err)

	dir := mapDirectory{
		"ana@example.com": {Email: "ana@example.com", Name: "Ana", Role: dashboard.RoleRecruiter, PasswordHash: hash},
	}
	jwtSvc := setupTestJWTService(t, 24)
	return NewAuthHandler(dir, passwords, jwtSvc, nil)
}

func postLogin(h *AuthHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Login(w, req)
	return w
}

func TestAuthHandler_Login_InvalidJSON(t *testing.T) {
	handler := setupTestAuthHandler(t)

	w := postLogin(handler, "invalid json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestAuthHandler_Login_ValidationErrors(t *testing.T) {
	handler := setupTestAuthHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing email", body: `{"password":"x"}`},
		{name: "invalid email", body: `{"email":"ana","password":"x"}`},
		{name: "missing password", body: `{"email":"ana@example.com"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postLogin(handler, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "validation error")
		})
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	handler := setupTestAuthHandler(t)

	w := postLogin(handler, `{"email":"Ana@Example.com","password":"`+testPassword+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	claims, err := handler.jwtService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Subject)
	assert.Equal(t, dashboard.RoleRecruiter, claims.Role)
	assert.Equal(t, resp.Identity, claims.GetIdentity())
}

func TestAuthHandler_Login_PepperMismatch(t *testing.T) {
	handler := setupTestAuthHandler(t)
	handler.passwords = &config.PasswordConfig{BcryptCost: bcrypt.MinCost, Pepper: "other"}

	w := postLogin(handler, `{"email":"ana@example.com","password":"`+testPassword+`"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidationError(t *testing.T) {
	err := validationError(assert.AnError)
	var ve *ErrValidation
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "request", ve.Field)
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}
