package ingredients

import (
	"context"

	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

type Repository interface {
	GetByName(ctx context.Context, name string) (*models.Ingredient, error)
	Create(ctx context.Context, name string) (*models.Ingredient, error)
}
