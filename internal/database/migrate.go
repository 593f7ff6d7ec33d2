package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// RunMigrations applies the schema for every model.
func RunMigrations(db *gorm.DB) error {
	log.Printf("Running schema migrations")
	return db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingListEntry{},
	)
}
