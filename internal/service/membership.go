package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// MembershipSet toggles a (user, recipe) membership row. Favorites and the
// shopping cart share the exact same behavior, so both are instances of this
// one service.
type MembershipSet struct {
	db              *gorm.DB
	conflictMessage string
	newEntry        func(userID, recipeID uuid.UUID) interface{}
	emptyEntry      func() interface{}
}

func NewFavoriteSet(db *gorm.DB) *MembershipSet {
	return &MembershipSet{
		db:              db,
		conflictMessage: "recipe is already in favorites",
		newEntry: func(userID, recipeID uuid.UUID) interface{} {
			return &models.Favorite{UserID: userID, RecipeID: recipeID}
		},
		emptyEntry: func() interface{} { return &models.Favorite{} },
	}
}

func NewShoppingCartSet(db *gorm.DB) *MembershipSet {
	return &MembershipSet{
		db:              db,
		conflictMessage: "recipe is already in the shopping list",
		newEntry: func(userID, recipeID uuid.UUID) interface{} {
			return &models.ShoppingListEntry{UserID: userID, RecipeID: recipeID}
		},
		emptyEntry: func() interface{} { return &models.ShoppingListEntry{} },
	}
}

// Add inserts the membership row and returns the recipe's short projection.
// A duplicate pair is a conflict, never a silent no-op.
func (s *MembershipSet) Add(ctx context.Context, userID, recipeID uuid.UUID) (*types.ShortRecipeResponse, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var count int64
	err := s.db.WithContext(ctx).Model(s.emptyEntry()).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ConflictError{Message: s.conflictMessage}
	}

	if err := s.db.WithContext(ctx).Create(s.newEntry(userID, recipeID)).Error; err != nil {
		// the unique index resolves races between concurrent adds
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: s.conflictMessage}
		}
		return nil, err
	}

	short := toShortRecipe(&recipe)
	return &short, nil
}

// Remove deletes the membership row; a missing row is reported as not found.
func (s *MembershipSet) Remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(s.emptyEntry())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
