package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup_Success(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":        "maya@example.com",
		"password":     "anything",
		"display_name": "Maya",
	})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.NotEmpty(t, envelope.Data.RefreshToken)
	assert.NotEmpty(t, envelope.Data.SessionID)
	assert.Equal(t, "Bearer", envelope.Data.TokenType)
	assert.Equal(t, "maya@example.com", envelope.Data.User.Email)
	assert.Equal(t, "Maya", envelope.Data.User.DisplayName)
	assert.NotEmpty(t, envelope.Data.User.AvatarURL)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.signupUser(t, "taken@example.com", "First")

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":        "taken@example.com",
		"password":     "whatever",
		"display_name": "Second",
	})

	assert.Equal(t, http.StatusConflict, resp.Code)

	var envelope testEnvelope[AuthResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	assert.False(t, envelope.Success)
	assert.NotNil(t, envelope.Error)

	// A differently-cased address does not conflict; emails match exactly.
	resp = ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":        "Taken@Example.com",
		"password":     "whatever",
		"display_name": "Third",
	})
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestSignup_InvalidEmail(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":        "not-an-email",
		"password":     "whatever",
		"display_name": "Someone",
	})

	// Fails validation before reaching the service.
	assert.True(t, resp.Code == http.StatusBadRequest || resp.Code == http.StatusUnprocessableEntity,
		"expected 4xx validation failure, got %d", resp.Code)
}

func TestLogin_KnownEmailAnyPassword(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.signupUser(t, "liam@example.com", "Liam")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "liam@example.com",
		"password": "completely-different-password",
	})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.Equal(t, "liam@example.com", envelope.Data.User.Email)
}

func TestLogin_UnknownEmail(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "nobody@example.com",
		"password": "whatever",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var envelope testEnvelope[AuthResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	assert.False(t, envelope.Success)
}

func TestLogin_EmailMatchesExactly(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.signupUser(t, "maya@example.com", "Maya")

	// Login matches the registered address byte for byte.
	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "Maya@Example.com",
		"password": "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRefresh_RotatesTokens(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":        "rotate@example.com",
		"password":     "pw",
		"display_name": "Rotate",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var signup testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &signup))

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": signup.Data.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var refreshed testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &refreshed))

	assert.NotEqual(t, signup.Data.RefreshToken, refreshed.Data.RefreshToken)
	assert.Equal(t, signup.Data.SessionID, refreshed.Data.SessionID)

	// The old refresh token is dead after rotation.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": signup.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogout_RevokesSession(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":        "leave@example.com",
		"password":     "pw",
		"display_name": "Leaver",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var signup testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &signup))

	// Logout requires a token.
	resp = ts.api.Post("/api/v1/auth/logout", map[string]any{
		"session_id": signup.Data.SessionID,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/auth/logout", map[string]any{
		"session_id": signup.Data.SessionID,
	}, "Authorization: Bearer "+signup.Data.AccessToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	// Refresh token no longer works once the session is gone.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": signup.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogout_OtherUsersSession(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":        "owner@example.com",
		"password":     "pw",
		"display_name": "Owner",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var ownerSignup testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &ownerSignup))

	strangerToken, _ := ts.signupUser(t, "stranger@example.com", "Stranger")

	resp = ts.api.Post("/api/v1/auth/logout", map[string]any{
		"session_id": ownerSignup.Data.SessionID,
	}, "Authorization: Bearer "+strangerToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// The owner's session still works.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": ownerSignup.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestLogoutAll_RevokesEverySession(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.signupUser(t, "everywhere@example.com", "Everywhere")

	// Second session for the same account.
	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "everywhere@example.com",
		"password": "pw",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var second testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &second))

	resp = ts.api.Post("/api/v1/auth/logout-all", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": second.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogoutAll_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/auth/logout-all")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestGetCurrentUser_Success(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, userID := ts.signupUser(t, "me@example.com", "Me")

	resp := ts.api.Get("/api/v1/users/me", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[UserResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.Equal(t, userID, envelope.Data.ID)
	assert.Equal(t, "me@example.com", envelope.Data.Email)
}

func TestGetCurrentUser_Unauthorized(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/api/v1/users/me")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// Garbage tokens are treated the same as no token.
	resp = ts.api.Get("/api/v1/users/me", "Authorization: Bearer not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
