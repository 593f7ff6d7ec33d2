package types

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// IngredientLineInput is one {ingredient id, amount} line of a recipe write
// payload.
type IngredientLineInput struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeInput is the write shape for recipe create and update. Image is a
// base64 data URI on both paths.
type RecipeInput struct {
	Name        string                `json:"name"`
	Text        string                `json:"text"`
	CookingTime int                   `json:"cooking_time"`
	Image       string                `json:"image"`
	Ingredients []IngredientLineInput `json:"ingredients"`
	Tags        []uint                `json:"tags"`
}
