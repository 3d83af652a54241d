package recipeingredients

import (
	"context"

	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, item *models.RecipeIngredient) error
	ListByRecipe(ctx context.Context, recipeID int64) ([]models.RecipeIngredient, error)
	DeleteByRecipe(ctx context.Context, recipeID int64) (int64, error)
}
