package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// UserService serves the user read projection.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Get(ctx context.Context, viewerID *uuid.UUID, id uuid.UUID) (*types.UserResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	subscribed := false
	if viewerID != nil {
		var count int64
		err := s.db.WithContext(ctx).Model(&models.Follow{}).
			Where("follower_id = ? AND author_id = ?", *viewerID, id).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		subscribed = count > 0
	}

	resp := toUserResponse(&user, subscribed)
	return &resp, nil
}

// List returns one page of users with the viewer's is_subscribed flag
// computed in a single batched query.
func (s *UserService) List(ctx context.Context, viewerID *uuid.UUID, page Pagination) (int64, []types.UserResponse, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Order("username").
		Limit(page.limit()).
		Offset(page.offset()).
		Find(&users).Error
	if err != nil {
		return 0, nil, err
	}

	subscribed := map[uuid.UUID]bool{}
	if viewerID != nil && len(users) > 0 {
		ids := make([]uuid.UUID, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		var followed []uuid.UUID
		err := s.db.WithContext(ctx).Model(&models.Follow{}).
			Where("follower_id = ? AND author_id IN ?", *viewerID, ids).
			Pluck("author_id", &followed).Error
		if err != nil {
			return 0, nil, err
		}
		for _, id := range followed {
			subscribed[id] = true
		}
	}

	out := make([]types.UserResponse, len(users))
	for i := range users {
		out[i] = toUserResponse(&users[i], subscribed[users[i].ID])
	}
	return total, out, nil
}
