package main

import (
	"encoding/csv"
	"flag"
	"log"
	"os"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
)

// Imports the ingredient catalog from a CSV file with
// "name,measurement_unit" rows.
func main() {
	path := flag.String("file", "data/ingredients.csv", "path to the ingredients CSV file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2

	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	ingredients := make([]models.Ingredient, 0, len(records))
	for _, record := range records {
		ingredients = append(ingredients, models.Ingredient{
			Name:            record[0],
			MeasurementUnit: record[1],
		})
	}

	if err := db.CreateInBatches(&ingredients, 500).Error; err != nil {
		log.Fatalf("Failed to insert ingredients: %v", err)
	}

	log.Printf("Imported %d ingredients", len(ingredients))
}
