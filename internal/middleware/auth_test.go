package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/types"
)

type stubValidator struct {
	claims *types.TokenClaims
	err    error
}

func (s stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	return s.claims, s.err
}

func validClaims() *types.TokenClaims {
	return &types.TokenClaims{
		UserID:   uuid.New(),
		Username: "alice",
	}
}

func runRequest(validator middleware.TokenValidator, handler gin.HandlerFunc, required bool, authHeader string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	mw := middleware.OptionalAuthMiddleware(validator)
	if required {
		mw = middleware.AuthMiddleware(validator)
	}
	engine.GET("/probe", mw, handler)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	claims := validClaims()

	t.Run("valid token sets the actor", func(t *testing.T) {
		var seen uuid.UUID
		w := runRequest(stubValidator{claims: claims}, func(c *gin.Context) {
			seen = middleware.CurrentUser(c).ID
			c.Status(http.StatusOK)
		}, true, "Bearer sometoken")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, claims.UserID, seen)
	})

	t.Run("missing header", func(t *testing.T) {
		w := runRequest(stubValidator{claims: claims}, func(c *gin.Context) {
			c.Status(http.StatusOK)
		}, true, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := runRequest(stubValidator{claims: claims}, func(c *gin.Context) {
			c.Status(http.StatusOK)
		}, true, "Token abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		w := runRequest(stubValidator{err: errors.New("expired")}, func(c *gin.Context) {
			c.Status(http.StatusOK)
		}, true, "Bearer sometoken")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalAuthMiddleware(t *testing.T) {
	claims := validClaims()

	t.Run("anonymous passes with nil actor", func(t *testing.T) {
		w := runRequest(stubValidator{claims: claims}, func(c *gin.Context) {
			assert.Nil(t, middleware.CurrentUser(c))
			assert.Nil(t, middleware.CurrentUserID(c))
			c.Status(http.StatusOK)
		}, false, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("present token still resolves the actor", func(t *testing.T) {
		w := runRequest(stubValidator{claims: claims}, func(c *gin.Context) {
			assert.Equal(t, claims.UserID, middleware.CurrentUser(c).ID)
			c.Status(http.StatusOK)
		}, false, "Bearer sometoken")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("present but invalid token is rejected", func(t *testing.T) {
		w := runRequest(stubValidator{err: errors.New("expired")}, func(c *gin.Context) {
			c.Status(http.StatusOK)
		}, false, "Bearer sometoken")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
