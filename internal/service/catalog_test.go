package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
)

func TestListTags(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCatalogService(db)

	breakfast := testhelpers.CreateTag(t, db, "breakfast", "#FFAA00", "breakfast")
	testhelpers.CreateTag(t, db, "dinner", "#FF0000", "dinner")

	tags, err := svc.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0].Name)

	tag, err := svc.GetTag(context.Background(), breakfast.ID)
	require.NoError(t, err)
	assert.Equal(t, "#FFAA00", tag.Color)

	_, err = svc.GetTag(context.Background(), 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestListIngredientsPrefixSearch(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCatalogService(db)
	ctx := context.Background()

	testhelpers.CreateIngredient(t, db, "Sugar", "g")
	testhelpers.CreateIngredient(t, db, "sunflower oil", "ml")
	testhelpers.CreateIngredient(t, db, "brown sugar", "g")

	t.Run("no prefix returns everything", func(t *testing.T) {
		ingredients, err := svc.ListIngredients(ctx, "")
		require.NoError(t, err)
		assert.Len(t, ingredients, 3)
	})

	t.Run("prefix match is case-insensitive", func(t *testing.T) {
		ingredients, err := svc.ListIngredients(ctx, "su")
		require.NoError(t, err)
		require.Len(t, ingredients, 2)
		assert.Equal(t, "Sugar", ingredients[0].Name)
		assert.Equal(t, "sunflower oil", ingredients[1].Name)
	})

	t.Run("prefix only, no substring match", func(t *testing.T) {
		ingredients, err := svc.ListIngredients(ctx, "sugar")
		require.NoError(t, err)
		require.Len(t, ingredients, 1)
		assert.Equal(t, "Sugar", ingredients[0].Name)
	})
}

func TestGetIngredient(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCatalogService(db)

	flour := testhelpers.CreateIngredient(t, db, "flour", "g")

	ingredient, err := svc.GetIngredient(context.Background(), flour.ID)
	require.NoError(t, err)
	assert.Equal(t, "g", ingredient.MeasurementUnit)

	_, err = svc.GetIngredient(context.Background(), 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
