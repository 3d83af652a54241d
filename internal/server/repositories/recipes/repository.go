package recipes

import (
	"context"

	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

// Repository reads and writes recipe rows. Every method except
// GetOwnerForUpdate filters by owner, so another user's recipe behaves as
// missing.
type Repository interface {
	Create(ctx context.Context, ownerID int64, in models.RecipeCreate) (*models.Recipe, error)
	GetByOwner(ctx context.Context, ownerID, id int64) (*models.Recipe, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Recipe, error)
	Search(ctx context.Context, ownerID int64, query string) ([]models.Recipe, error)
	GetOwnerForUpdate(ctx context.Context, id int64) (int64, error)
	Update(ctx context.Context, ownerID, id int64, patch models.RecipePatch) (*models.Recipe, error)
	Delete(ctx context.Context, ownerID, id int64) error
	SetImageKey(ctx context.Context, ownerID, id int64, key string) error
}
