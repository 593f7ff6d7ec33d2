package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

func TestGetMe(t *testing.T) {
	engine, _, auth := setupTestRouter(t)
	user, token := registerUser(t, auth, "alice")

	w := doRequest(t, engine, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.UserResponse
	decodeJSON(t, w, &resp)
	assert.Equal(t, user.ID, resp.ID)
	assert.Equal(t, "alice", resp.Username)

	t.Run("requires auth", func(t *testing.T) {
		w := doRequest(t, engine, http.MethodGet, "/api/v1/users/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestSubscribeEndpoints(t *testing.T) {
	engine, db, auth := setupTestRouter(t)
	author := testhelpers.CreateUser(t, db, "author")
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	dinner := testhelpers.CreateTag(t, db, "dinner", "#FF0000", "dinner")
	for i := 0; i < 3; i++ {
		testhelpers.CreateRecipe(t, db, author, fmt.Sprintf("Recipe %d", i), []*models.Tag{dinner}, map[*models.Ingredient]int{flour: 100})
	}
	follower, token := registerUser(t, auth, "follower")

	path := fmt.Sprintf("/api/v1/users/%s/subscribe", author.ID)

	t.Run("subscribe with recipes_limit", func(t *testing.T) {
		w := doRequest(t, engine, http.MethodPost, path+"?recipes_limit=2", token, nil)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp types.SubscriptionResponse
		decodeJSON(t, w, &resp)
		assert.Equal(t, "author", resp.Username)
		assert.True(t, resp.IsSubscribed)
		assert.Len(t, resp.Recipes, 2)
		assert.EqualValues(t, 3, resp.RecipesCount)
	})

	t.Run("duplicate subscribe conflicts", func(t *testing.T) {
		w := doRequest(t, engine, http.MethodPost, path, token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("self subscribe conflicts", func(t *testing.T) {
		w := doRequest(t, engine, http.MethodPost, fmt.Sprintf("/api/v1/users/%s/subscribe", follower.ID), token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("subscriptions listing", func(t *testing.T) {
		w := doRequest(t, engine, http.MethodGet, "/api/v1/users/subscriptions", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Count   int64                        `json:"count"`
			Results []types.SubscriptionResponse `json:"results"`
		}
		decodeJSON(t, w, &body)
		assert.EqualValues(t, 1, body.Count)
		require.Len(t, body.Results, 1)
		assert.Equal(t, "author", body.Results[0].Username)
	})

	t.Run("unsubscribe", func(t *testing.T) {
		w := doRequest(t, engine, http.MethodDelete, path, token, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doRequest(t, engine, http.MethodDelete, path, token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetUserShowsSubscriptionFlag(t *testing.T) {
	engine, db, auth := setupTestRouter(t)
	author := testhelpers.CreateUser(t, db, "author")
	_, token := registerUser(t, auth, "viewer")

	w := doRequest(t, engine, http.MethodPost, fmt.Sprintf("/api/v1/users/%s/subscribe", author.ID), token, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, engine, http.MethodGet, "/api/v1/users/"+author.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.UserResponse
	decodeJSON(t, w, &resp)
	assert.True(t, resp.IsSubscribed)

	t.Run("anonymous viewer sees false", func(t *testing.T) {
		w := doRequest(t, engine, http.MethodGet, "/api/v1/users/"+author.ID.String(), "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp types.UserResponse
		decodeJSON(t, w, &resp)
		assert.False(t, resp.IsSubscribed)
	})
}
