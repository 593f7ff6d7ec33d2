package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

// setupTestRouter wires the full API surface against an in-memory database,
// with a fake image store and no rate limiter.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	auth := service.NewAuthService(db, "test-secret")

	engine := gin.New()
	v1 := engine.Group("/api/v1")

	NewAuthHandler(auth).RegisterRoutes(v1)
	NewUserHandler(service.NewUserService(db), service.NewFollowService(db)).RegisterRoutes(v1, auth)
	NewCatalogHandler(service.NewCatalogService(db)).RegisterRoutes(v1)
	NewRecipeHandler(
		service.NewRecipeService(db, testhelpers.FakeImageStore{}),
		service.NewFavoriteSet(db),
		service.NewShoppingCartSet(db),
		service.NewShoppingListService(db),
	).RegisterRoutes(v1, auth, nil)

	return engine, db, auth
}

// registerUser creates an account through the auth service and returns the
// user with a valid bearer token.
func registerUser(t *testing.T, auth *service.AuthService, username string) (*models.User, string) {
	t.Helper()
	user, token, err := auth.Register(context.Background(), &types.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "s3cure-pass",
	})
	require.NoError(t, err)
	return user, token
}

func doRequest(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
