package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// ShoppingItem is one aggregated (ingredient, unit) group with its summed
// amount across every recipe in the user's shopping list.
type ShoppingItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Total           int    `json:"total"`
}

// ShoppingListService computes and renders the consolidated shopping list.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Aggregate sums ingredient amounts across the user's shopping-list recipes,
// grouped by (name, unit) and ordered alphabetically for deterministic output.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]ShoppingItem, error) {
	var items []ShoppingItem
	err := s.db.WithContext(ctx).Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_list_entries ON shopping_list_entries.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_list_entries.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Download renders the aggregated list as a plain-text document. An empty
// membership set is rejected instead of producing an empty file.
func (s *ShoppingListService) Download(ctx context.Context, user *models.User) (string, []byte, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ShoppingListEntry{}).
		Where("user_id = ?", user.ID).
		Count(&count).Error
	if err != nil {
		return "", nil, err
	}
	if count == 0 {
		return "", nil, ErrEmptyShoppingList
	}

	items, err := s.Aggregate(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Shopping list for %s\n\n", user.Username)
	for _, item := range items {
		fmt.Fprintf(&buf, "%s (%s) - %d\n", item.Name, item.MeasurementUnit, item.Total)
	}

	filename := fmt.Sprintf("%s_shopping_list.txt", user.Username)
	return filename, buf.Bytes(), nil
}
