package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag is read-only reference data.
type Tag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Color string `gorm:"size:7;uniqueIndex;not null" json:"color"`
	Slug  string `gorm:"size:200;uniqueIndex;not null" json:"slug"`
}

// Ingredient is read-only reference data loaded by the CSV import command.
type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:200;not null;index" json:"name"`
	MeasurementUnit string `gorm:"size:200;not null" json:"measurement_unit"`
}

type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Image       string    `gorm:"size:255;not null" json:"image"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CookingTime int       `gorm:"not null;check:chk_cooking_time,cooking_time >= 1 AND cooking_time <= 600" json:"cooking_time"`
	PubDate     time.Time `gorm:"not null;index" json:"pub_date"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`

	Author      User               `gorm:"foreignKey:AuthorID" json:"-"`
	Tags        []Tag              `gorm:"many2many:recipe_tags" json:"-"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.PubDate.IsZero() {
		r.PubDate = time.Now().UTC()
	}
	return nil
}

// RecipeIngredient is owned by its recipe and is rebuilt as a unit whenever
// the recipe's ingredient set changes.
type RecipeIngredient struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uint      `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Amount       int       `gorm:"not null;check:chk_amount,amount >= 1" json:"amount"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID" json:"-"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_pair" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_pair" json:"recipe_id"`
}

func (Favorite) TableName() string {
	return "favorites"
}

type ShoppingListEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_shopping_list_pair" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_shopping_list_pair" json:"recipe_id"`
}

func (ShoppingListEntry) TableName() string {
	return "shopping_list_entries"
}
