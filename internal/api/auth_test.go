package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/types"
)

func TestRegisterEndpoint(t *testing.T) {
	engine, _, _ := setupTestRouter(t)

	payload := types.RegisterRequest{
		Email:     "alice@example.com",
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Smith",
		Password:  "s3cure-pass",
	}

	w := doRequest(t, engine, http.MethodPost, "/api/v1/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	decodeJSON(t, w, &body)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "alice", body.User.Username)

	t.Run("duplicate email", func(t *testing.T) {
		w := doRequest(t, engine, http.MethodPost, "/api/v1/auth/register", "", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	engine, _, auth := setupTestRouter(t)
	registerUser(t, auth, "alice")

	t.Run("valid credentials", func(t *testing.T) {
		w := doRequest(t, engine, http.MethodPost, "/api/v1/auth/login", "", types.LoginRequest{
			Email:    "alice@example.com",
			Password: "s3cure-pass",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := doRequest(t, engine, http.MethodPost, "/api/v1/auth/login", "", types.LoginRequest{
			Email:    "alice@example.com",
			Password: "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
