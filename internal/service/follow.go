package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// FollowService manages the directed follower -> author graph.
type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Subscribe adds a follow edge and returns the author enriched with their
// recipes. recipesLimit caps the embedded recipe list; zero means no cap.
func (s *FollowService) Subscribe(ctx context.Context, followerID, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionResponse, error) {
	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if followerID == authorID {
		return nil, &ConflictError{Message: "cannot follow yourself"}
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ConflictError{Message: "already subscribed to this author"}
	}

	edge := models.Follow{FollowerID: followerID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Create(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: "already subscribed to this author"}
		}
		return nil, err
	}

	return s.subscriptionResponse(ctx, &author, recipesLimit)
}

// Unsubscribe removes the follow edge; a missing edge is reported as not
// found.
func (s *FollowService) Unsubscribe(ctx context.Context, followerID, authorID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListSubscriptions returns one page of the authors the user follows, each in
// the enriched subscription projection.
func (s *FollowService) ListSubscriptions(ctx context.Context, followerID uuid.UUID, recipesLimit int, page Pagination) (int64, []types.SubscriptionResponse, error) {
	query := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.follower_id = ?", followerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var authors []models.User
	err := query.Order("users.username").
		Limit(page.limit()).
		Offset(page.offset()).
		Find(&authors).Error
	if err != nil {
		return 0, nil, err
	}

	out := make([]types.SubscriptionResponse, 0, len(authors))
	for i := range authors {
		resp, err := s.subscriptionResponse(ctx, &authors[i], recipesLimit)
		if err != nil {
			return 0, nil, err
		}
		out = append(out, *resp)
	}
	return total, out, nil
}

// IsSubscribed reports whether follower currently follows author.
func (s *FollowService) IsSubscribed(ctx context.Context, followerID, authorID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error
	return count > 0, err
}

func (s *FollowService) subscriptionResponse(ctx context.Context, author *models.User, recipesLimit int) (*types.SubscriptionResponse, error) {
	query := s.db.WithContext(ctx).
		Where("author_id = ?", author.ID).
		Order("pub_date DESC")
	if recipesLimit > 0 {
		query = query.Limit(recipesLimit)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}

	var recipesCount int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", author.ID).
		Count(&recipesCount).Error
	if err != nil {
		return nil, err
	}

	shorts := make([]types.ShortRecipeResponse, len(recipes))
	for i := range recipes {
		shorts[i] = toShortRecipe(&recipes[i])
	}

	return &types.SubscriptionResponse{
		UserResponse: toUserResponse(author, true),
		Recipes:      shorts,
		RecipesCount: recipesCount,
	}, nil
}
