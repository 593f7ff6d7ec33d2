package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipes      *service.RecipeService
	favorites    *service.MembershipSet
	shoppingCart *service.MembershipSet
	shoppingList *service.ShoppingListService
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	favorites *service.MembershipSet,
	shoppingCart *service.MembershipSet,
	shoppingList *service.ShoppingListService,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:      recipes,
		favorites:    favorites,
		shoppingCart: shoppingCart,
		shoppingList: shoppingList,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, validator middleware.TokenValidator, limiter *middleware.RateLimiter) {
	requireAuth := middleware.AuthMiddleware(validator)
	optionalAuth := middleware.OptionalAuthMiddleware(validator)

	mutating := []gin.HandlerFunc{requireAuth}
	if limiter != nil {
		mutating = append(mutating, limiter.RateLimitMiddleware())
	}

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optionalAuth, h.ListRecipes)
		recipes.GET("/download_shopping_cart", requireAuth, h.DownloadShoppingCart)
		recipes.GET("/:id", optionalAuth, h.GetRecipe)
		recipes.POST("", append(mutating, h.CreateRecipe)...)
		recipes.PUT("/:id", append(mutating, h.UpdateRecipe)...)
		recipes.PATCH("/:id", append(mutating, h.UpdateRecipe)...)
		recipes.DELETE("/:id", requireAuth, h.DeleteRecipe)
		recipes.POST("/:id/favorite", requireAuth, h.AddFavorite)
		recipes.DELETE("/:id/favorite", requireAuth, h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", requireAuth, h.AddToShoppingCart)
		recipes.DELETE("/:id/shopping_cart", requireAuth, h.RemoveFromShoppingCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter := service.RecipeFilter{
		TagSlugs: c.QueryArray("tags"),
	}

	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &authorID
	}

	var err error
	if filter.IsFavorited, err = parseBoolFilter(c, "is_favorited"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid is_favorited value"})
		return
	}
	if filter.IsInShoppingCart, err = parseBoolFilter(c, "is_in_shopping_cart"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid is_in_shopping_cart value"})
		return
	}

	total, results, err := h.recipes.List(c.Request.Context(), middleware.CurrentUserID(c), filter, parsePagination(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, paginatedResponse(total, results))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var input types.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	recipe, err := h.recipes.Create(c.Request.Context(), user.ID, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	var input types.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), middleware.CurrentUser(c), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addMembership(c, h.favorites)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeMembership(c, h.favorites)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	h.addMembership(c, h.shoppingCart)
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	h.removeMembership(c, h.shoppingCart)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	user := middleware.CurrentUser(c)

	filename, data, err := h.shoppingList.Download(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", data)
}

func (h *RecipeHandler) addMembership(c *gin.Context, set *service.MembershipSet) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	short, err := set.Add(c.Request.Context(), user.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, short)
}

func (h *RecipeHandler) removeMembership(c *gin.Context, set *service.MembershipSet) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	if err := set.Remove(c.Request.Context(), user.ID, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func recipeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return uuid.Nil, false
	}
	return id, true
}

// parseBoolFilter returns nil when the parameter is absent; a present but
// non-boolean value is an error rather than a silent no-op.
func parseBoolFilter(c *gin.Context, name string) (*bool, error) {
	raw, exists := c.GetQuery(name)
	if !exists {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
