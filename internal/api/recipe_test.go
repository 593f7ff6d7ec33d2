package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

func seedCatalog(t *testing.T, db *gorm.DB) (*models.Ingredient, *models.Tag) {
	t.Helper()
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	dinner := testhelpers.CreateTag(t, db, "dinner", "#FF0000", "dinner")
	return flour, dinner
}

func recipePayload(flour *models.Ingredient, dinner *models.Tag) *types.RecipeInput {
	return &types.RecipeInput{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 30,
		Image:       testhelpers.ImageDataURI,
		Ingredients: []types.IngredientLineInput{{ID: flour.ID, Amount: 200}},
		Tags:        []uint{dinner.ID},
	}
}

func TestCreateRecipeEndpoint(t *testing.T) {
	engine, db, auth := setupTestRouter(t)
	flour, dinner := seedCatalog(t, db)
	_, token := registerUser(t, auth, "chef")

	w := doRequest(t, engine, http.MethodPost, "/api/v1/recipes", token, recipePayload(flour, dinner))
	require.Equal(t, http.StatusCreated, w.Code)

	var recipe types.RecipeResponse
	decodeJSON(t, w, &recipe)
	assert.Equal(t, "Pancakes", recipe.Name)
	assert.Equal(t, "chef", recipe.Author.Username)
	assert.False(t, recipe.IsFavorited)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, "flour", recipe.Ingredients[0].Name)
	assert.Equal(t, 200, recipe.Ingredients[0].Amount)
}

func TestCreateRecipeRequiresAuth(t *testing.T) {
	engine, db, _ := setupTestRouter(t)
	flour, dinner := seedCatalog(t, db)

	w := doRequest(t, engine, http.MethodPost, "/api/v1/recipes", "", recipePayload(flour, dinner))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRecipeValidationResponse(t *testing.T) {
	engine, db, auth := setupTestRouter(t)
	flour, dinner := seedCatalog(t, db)
	_, token := registerUser(t, auth, "chef")

	payload := recipePayload(flour, dinner)
	payload.CookingTime = 0

	w := doRequest(t, engine, http.MethodPost, "/api/v1/recipes", token, payload)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	decodeJSON(t, w, &body)
	assert.Contains(t, body.Errors, "cooking_time")
}

func TestUpdateRecipeForbiddenForNonAuthor(t *testing.T) {
	engine, db, auth := setupTestRouter(t)
	flour, dinner := seedCatalog(t, db)
	_, authorToken := registerUser(t, auth, "chef")
	_, strangerToken := registerUser(t, auth, "stranger")

	w := doRequest(t, engine, http.MethodPost, "/api/v1/recipes", authorToken, recipePayload(flour, dinner))
	require.Equal(t, http.StatusCreated, w.Code)
	var recipe types.RecipeResponse
	decodeJSON(t, w, &recipe)

	w = doRequest(t, engine, http.MethodPatch, "/api/v1/recipes/"+recipe.ID.String(), strangerToken, recipePayload(flour, dinner))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteRecipeEndpoint(t *testing.T) {
	engine, db, auth := setupTestRouter(t)
	flour, dinner := seedCatalog(t, db)
	_, token := registerUser(t, auth, "chef")

	w := doRequest(t, engine, http.MethodPost, "/api/v1/recipes", token, recipePayload(flour, dinner))
	require.Equal(t, http.StatusCreated, w.Code)
	var recipe types.RecipeResponse
	decodeJSON(t, w, &recipe)

	w = doRequest(t, engine, http.MethodDelete, "/api/v1/recipes/"+recipe.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, engine, http.MethodGet, "/api/v1/recipes/"+recipe.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoriteEndpoints(t *testing.T) {
	engine, db, auth := setupTestRouter(t)
	chef := testhelpers.CreateUser(t, db, "chef")
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	dinner := testhelpers.CreateTag(t, db, "dinner", "#FF0000", "dinner")
	recipe := testhelpers.CreateRecipe(t, db, chef, "Soup", []*models.Tag{dinner}, map[*models.Ingredient]int{flour: 100})
	_, token := registerUser(t, auth, "viewer")

	path := fmt.Sprintf("/api/v1/recipes/%s/favorite", recipe.ID)

	w := doRequest(t, engine, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var short types.ShortRecipeResponse
	decodeJSON(t, w, &short)
	assert.Equal(t, "Soup", short.Name)

	// double add conflicts
	w = doRequest(t, engine, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, engine, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// removing again is not found
	w = doRequest(t, engine, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRecipesBooleanFilterValidation(t *testing.T) {
	engine, _, auth := setupTestRouter(t)

	t.Run("anonymous caller is rejected", func(t *testing.T) {
		w := doRequest(t, engine, http.MethodGet, "/api/v1/recipes?is_favorited=true", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-boolean value is an error", func(t *testing.T) {
		_, token := registerUser(t, auth, "viewer")
		w := doRequest(t, engine, http.MethodGet, "/api/v1/recipes?is_favorited=maybe", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListRecipesPaginatedShape(t *testing.T) {
	engine, db, _ := setupTestRouter(t)
	chef := testhelpers.CreateUser(t, db, "chef")
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	dinner := testhelpers.CreateTag(t, db, "dinner", "#FF0000", "dinner")
	for i := 0; i < 3; i++ {
		testhelpers.CreateRecipe(t, db, chef, fmt.Sprintf("Recipe %d", i), []*models.Tag{dinner}, map[*models.Ingredient]int{flour: 100})
	}

	w := doRequest(t, engine, http.MethodGet, "/api/v1/recipes?limit=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count   int64                  `json:"count"`
		Results []types.RecipeResponse `json:"results"`
	}
	decodeJSON(t, w, &body)
	assert.EqualValues(t, 3, body.Count)
	assert.Len(t, body.Results, 2)
}

func TestDownloadShoppingCartEndpoint(t *testing.T) {
	engine, db, auth := setupTestRouter(t)
	chef := testhelpers.CreateUser(t, db, "chef")
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	dinner := testhelpers.CreateTag(t, db, "dinner", "#FF0000", "dinner")
	recipe := testhelpers.CreateRecipe(t, db, chef, "Bread", []*models.Tag{dinner}, map[*models.Ingredient]int{flour: 500})
	_, token := registerUser(t, auth, "viewer")

	t.Run("empty cart", func(t *testing.T) {
		w := doRequest(t, engine, http.MethodGet, "/api/v1/recipes/download_shopping_cart", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("renders the document", func(t *testing.T) {
		w := doRequest(t, engine, http.MethodPost, fmt.Sprintf("/api/v1/recipes/%s/shopping_cart", recipe.ID), token, nil)
		require.Equal(t, http.StatusCreated, w.Code)

		w = doRequest(t, engine, http.MethodGet, "/api/v1/recipes/download_shopping_cart", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "viewer_shopping_list.txt")
		assert.Contains(t, w.Body.String(), "flour (g) - 500")
	})
}
