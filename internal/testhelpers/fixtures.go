package testhelpers

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// ImageDataURI is a 1x1 PNG, small enough to inline in write payloads.
const ImageDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

// FakeImageStore resolves every upload to a deterministic fake URL without
// touching S3.
type FakeImageStore struct{}

func (FakeImageStore) Store(ctx context.Context, data []byte, contentType string) (string, error) {
	return "https://images.test/" + uuid.New().String() + ".png", nil
}

func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateAdmin(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := CreateUser(t, db, username)
	require.NoError(t, db.Model(user).Update("is_admin", true).Error)
	user.IsAdmin = true
	return user
}

func CreateTag(t *testing.T, db *gorm.DB, name, color, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Color: color, Slug: slug}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

// CreateRecipe persists a minimal recipe aggregate directly, bypassing the
// write workflow, for tests that only need existing rows.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, tags []*models.Tag, lines map[*models.Ingredient]int) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		Name:        name,
		Image:       fmt.Sprintf("https://images.test/%s.png", uuid.New()),
		Text:        "test recipe",
		CookingTime: 30,
		AuthorID:    author.ID,
	}
	require.NoError(t, db.Create(recipe).Error)

	for _, tag := range tags {
		require.NoError(t, db.Model(recipe).Association("Tags").Append(tag))
	}
	for ingredient, amount := range lines {
		line := &models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ingredient.ID,
			Amount:       amount,
		}
		require.NoError(t, db.Create(line).Error)
	}
	return recipe
}
