package service

import (
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

func toUserResponse(u *models.User, subscribed bool) types.UserResponse {
	return types.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func toTagResponses(tags []models.Tag) []types.TagResponse {
	out := make([]types.TagResponse, len(tags))
	for i, t := range tags {
		out[i] = types.TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
	}
	return out
}

func toLineResponses(lines []models.RecipeIngredient) []types.IngredientLineResponse {
	out := make([]types.IngredientLineResponse, len(lines))
	for i, l := range lines {
		out[i] = types.IngredientLineResponse{
			ID:              l.IngredientID,
			Name:            l.Ingredient.Name,
			MeasurementUnit: l.Ingredient.MeasurementUnit,
			Amount:          l.Amount,
		}
	}
	return out
}

func toShortRecipe(r *models.Recipe) types.ShortRecipeResponse {
	return types.ShortRecipeResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}
