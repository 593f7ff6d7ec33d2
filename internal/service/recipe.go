package service

import (
	"context"
	"errors"
	"fmt"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// RecipeFilter narrows a recipe listing. The boolean filters require an
// authenticated viewer and are rejected for anonymous callers.
type RecipeFilter struct {
	TagSlugs         []string
	AuthorID         *uuid.UUID
	IsFavorited      *bool
	IsInShoppingCart *bool
}

// RecipeService handles the recipe write workflow and the read projection.
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
}

func NewRecipeService(db *gorm.DB, images ImageStore) *RecipeService {
	return &RecipeService{
		db:     db,
		images: images,
	}
}

// Create validates and persists a new recipe aggregate in one transaction.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, in *types.RecipeInput) (*types.RecipeResponse, error) {
	if err := validateRecipeInput(in); err != nil {
		return nil, err
	}

	imageURL, err := s.storeImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Name:        in.Name,
		Image:       imageURL,
		Text:        in.Text,
		CookingTime: in.CookingTime,
		AuthorID:    authorID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := s.replaceTags(tx, &recipe, in.Tags); err != nil {
			return err
		}
		return s.insertIngredientLines(tx, recipe.ID, in.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, &authorID, recipe.ID)
}

// Update rebuilds the recipe's child collections from scratch and applies the
// scalar changes, all inside one transaction. A failure mid-way leaves the
// previously persisted aggregate intact.
func (s *RecipeService) Update(ctx context.Context, actor *models.User, id uuid.UUID, in *types.RecipeInput) (*types.RecipeResponse, error) {
	recipe, err := s.getModel(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Allow(actor, ActionUpdate, recipe.AuthorID) {
		return nil, ErrForbidden
	}
	if err := validateRecipeInput(in); err != nil {
		return nil, err
	}

	imageURL, err := s.storeImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := s.replaceTags(tx, recipe, in.Tags); err != nil {
			return err
		}
		if err := s.insertIngredientLines(tx, recipe.ID, in.Ingredients); err != nil {
			return err
		}
		// pub_date and author are immutable
		return tx.Model(recipe).Updates(map[string]interface{}{
			"name":         in.Name,
			"text":         in.Text,
			"cooking_time": in.CookingTime,
			"image":        imageURL,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	var viewerID *uuid.UUID
	if actor != nil {
		viewerID = &actor.ID
	}
	return s.Get(ctx, viewerID, id)
}

// Delete removes a recipe and its owned rows.
func (s *RecipeService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	recipe, err := s.getModel(ctx, id)
	if err != nil {
		return err
	}
	if !Allow(actor, ActionDelete, recipe.AuthorID) {
		return ErrForbidden
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.ShoppingListEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
}

// Get returns a single recipe in the read projection.
func (s *RecipeService) Get(ctx context.Context, viewerID *uuid.UUID, id uuid.UUID) (*types.RecipeResponse, error) {
	var recipe models.Recipe
	err := s.preloaded(s.db.WithContext(ctx)).First(&recipe, "recipes.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	projected, err := s.project(ctx, viewerID, []models.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return &projected[0], nil
}

// List returns one page of recipes in the read projection plus the total
// count of matches.
func (s *RecipeService) List(ctx context.Context, viewerID *uuid.UUID, filter RecipeFilter, page Pagination) (int64, []types.RecipeResponse, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if len(filter.TagSlugs) > 0 {
		query = query.Where("recipes.id IN (?)", s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs))
	}
	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if filter.IsFavorited != nil {
		if viewerID == nil {
			return 0, nil, ErrNotAuthenticated
		}
		if *filter.IsFavorited {
			query = query.Where("recipes.id IN (?)", s.db.Model(&models.Favorite{}).
				Select("recipe_id").Where("user_id = ?", *viewerID))
		}
	}
	if filter.IsInShoppingCart != nil {
		if viewerID == nil {
			return 0, nil, ErrNotAuthenticated
		}
		if *filter.IsInShoppingCart {
			query = query.Where("recipes.id IN (?)", s.db.Model(&models.ShoppingListEntry{}).
				Select("recipe_id").Where("user_id = ?", *viewerID))
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var recipes []models.Recipe
	err := s.preloaded(query).
		Order("recipes.pub_date DESC").
		Limit(page.limit()).
		Offset(page.offset()).
		Find(&recipes).Error
	if err != nil {
		return 0, nil, err
	}

	projected, err := s.project(ctx, viewerID, recipes)
	if err != nil {
		return 0, nil, err
	}
	return total, projected, nil
}

func (s *RecipeService) getModel(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (s *RecipeService) preloaded(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id")
		}).
		Preload("Ingredients.Ingredient")
}

func (s *RecipeService) storeImage(ctx context.Context, dataURI string) (string, error) {
	data, contentType, err := DecodeImageDataURI(dataURI)
	if err != nil {
		return "", NewValidationError("image", err.Error())
	}
	url, err := s.images.Store(ctx, data, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store recipe image: %w", err)
	}
	return url, nil
}

// replaceTags resolves tag ids and sets the full association. An unknown id
// aborts the surrounding transaction.
func (s *RecipeService) replaceTags(tx *gorm.DB, recipe *models.Recipe, tagIDs []uint) error {
	var tags []models.Tag
	if err := tx.Find(&tags, "id IN ?", tagIDs).Error; err != nil {
		return err
	}
	if len(tags) != len(tagIDs) {
		found := make(map[uint]bool, len(tags))
		for _, t := range tags {
			found[t.ID] = true
		}
		for _, id := range tagIDs {
			if !found[id] {
				return NewValidationError("tags", fmt.Sprintf("tag %d does not exist", id))
			}
		}
	}
	return tx.Model(recipe).Association("Tags").Replace(&tags)
}

// insertIngredientLines bulk-resolves the referenced ingredients and
// bulk-inserts one line per input. An unresolvable id aborts the surrounding
// transaction.
func (s *RecipeService) insertIngredientLines(tx *gorm.DB, recipeID uuid.UUID, inputs []types.IngredientLineInput) error {
	ids := make([]uint, len(inputs))
	for i, in := range inputs {
		ids[i] = in.ID
	}

	var ingredients []models.Ingredient
	if err := tx.Find(&ingredients, "id IN ?", ids).Error; err != nil {
		return err
	}
	byID := make(map[uint]models.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID] = ing
	}

	lines := make([]models.RecipeIngredient, 0, len(inputs))
	for _, in := range inputs {
		if _, ok := byID[in.ID]; !ok {
			return NewValidationError("ingredients", fmt.Sprintf("ingredient %d does not exist", in.ID))
		}
		lines = append(lines, models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: in.ID,
			Amount:       in.Amount,
		})
	}
	return tx.Create(&lines).Error
}

// project renders recipes into the read shape, computing the per-viewer flags
// with one batched existence query per membership kind.
func (s *RecipeService) project(ctx context.Context, viewerID *uuid.UUID, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	recipeIDs := make([]uuid.UUID, len(recipes))
	authorIDs := make([]uuid.UUID, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		authorIDs[i] = r.AuthorID
	}

	favorited := map[uuid.UUID]bool{}
	inCart := map[uuid.UUID]bool{}
	subscribed := map[uuid.UUID]bool{}
	if viewerID != nil && len(recipes) > 0 {
		var err error
		if favorited, err = s.membershipFlags(ctx, &models.Favorite{}, *viewerID, recipeIDs); err != nil {
			return nil, err
		}
		if inCart, err = s.membershipFlags(ctx, &models.ShoppingListEntry{}, *viewerID, recipeIDs); err != nil {
			return nil, err
		}
		var followed []uuid.UUID
		err = s.db.WithContext(ctx).Model(&models.Follow{}).
			Where("follower_id = ? AND author_id IN ?", *viewerID, authorIDs).
			Pluck("author_id", &followed).Error
		if err != nil {
			return nil, err
		}
		for _, id := range followed {
			subscribed[id] = true
		}
	}

	out := make([]types.RecipeResponse, len(recipes))
	for i, r := range recipes {
		out[i] = types.RecipeResponse{
			ID:               r.ID,
			Tags:             toTagResponses(r.Tags),
			Author:           toUserResponse(&r.Author, subscribed[r.AuthorID]),
			Ingredients:      toLineResponses(r.Ingredients),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			PubDate:          r.PubDate,
		}
	}
	return out, nil
}

func (s *RecipeService) membershipFlags(ctx context.Context, model interface{}, viewerID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(model).
		Where("user_id = ? AND recipe_id IN ?", viewerID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	flags := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		flags[id] = true
	}
	return flags, nil
}

// validateRecipeInput runs the fail-fast validation sequence for a recipe
// write payload. The first failing rule wins and is reported against its
// field.
func validateRecipeInput(in *types.RecipeInput) error {
	hasLetter := false
	for _, r := range in.Name {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return NewValidationError("name", "name must contain at least one letter")
	}

	if len(in.Ingredients) == 0 {
		return NewValidationError("ingredients", "at least one ingredient is required")
	}
	if len(in.Tags) == 0 {
		return NewValidationError("tags", "at least one tag is required")
	}
	if in.Image == "" {
		return NewValidationError("image", "image is required")
	}

	counts := make(map[uint]int, len(in.Ingredients))
	for _, line := range in.Ingredients {
		counts[line.ID]++
	}
	for id, count := range counts {
		if count > 1 {
			return NewValidationError("ingredients", fmt.Sprintf("ingredient %d is listed more than once", id))
		}
	}

	for _, line := range in.Ingredients {
		if line.Amount < 1 {
			return NewValidationError("ingredients", "amount must be at least 1")
		}
	}

	seenTags := make(map[uint]bool, len(in.Tags))
	for _, id := range in.Tags {
		if seenTags[id] {
			return NewValidationError("tags", fmt.Sprintf("tag %d is listed more than once", id))
		}
		seenTags[id] = true
	}

	if in.CookingTime < 1 {
		return NewValidationError("cooking_time", "cooking time must be at least 1 minute")
	}
	if in.CookingTime > 600 {
		return NewValidationError("cooking_time", "cooking time cannot exceed 600 minutes")
	}
	return nil
}
