package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
)

type UserHandler struct {
	users   *service.UserService
	follows *service.FollowService
}

func NewUserHandler(users *service.UserService, follows *service.FollowService) *UserHandler {
	return &UserHandler{
		users:   users,
		follows: follows,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, validator middleware.TokenValidator) {
	requireAuth := middleware.AuthMiddleware(validator)
	optionalAuth := middleware.OptionalAuthMiddleware(validator)

	users := router.Group("/users")
	{
		users.GET("", optionalAuth, h.ListUsers)
		users.GET("/me", requireAuth, h.GetMe)
		users.GET("/subscriptions", requireAuth, h.ListSubscriptions)
		users.GET("/:id", optionalAuth, h.GetUser)
		users.POST("/:id/subscribe", requireAuth, h.Subscribe)
		users.DELETE("/:id/subscribe", requireAuth, h.Unsubscribe)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	total, results, err := h.users.List(c.Request.Context(), middleware.CurrentUserID(c), parsePagination(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, paginatedResponse(total, results))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetMe(c *gin.Context) {
	viewer := middleware.CurrentUser(c)

	user, err := h.users.Get(c.Request.Context(), nil, viewer.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	viewer := middleware.CurrentUser(c)
	subscription, err := h.follows.Subscribe(c.Request.Context(), viewer.ID, id, recipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subscription)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	viewer := middleware.CurrentUser(c)
	if err := h.follows.Unsubscribe(c.Request.Context(), viewer.ID, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	viewer := middleware.CurrentUser(c)

	total, results, err := h.follows.ListSubscriptions(c.Request.Context(), viewer.ID, recipesLimit(c), parsePagination(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, paginatedResponse(total, results))
}

func userID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return uuid.Nil, false
	}
	return id, true
}

func recipesLimit(c *gin.Context) int {
	limit, _ := strconv.Atoi(c.DefaultQuery("recipes_limit", "0"))
	return limit
}
