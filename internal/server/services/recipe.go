package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/recipebox/internal/server/storage"
)

// ImageStore presigns photo URLs in object storage.
type ImageStore interface {
	PresignPut(ctx context.Context, key string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

// RecipeService implements owner-scoped recipe operations. Reads and writes
// that touch more than one table run in a single transaction.
type RecipeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	images      ImageStore
	newImageKey func(ownerID int64) string
}

func NewRecipeService(db *sql.DB, m repomanager.RepositoryManager, images ImageStore) *RecipeService {
	return &RecipeService{
		db:          db,
		repomanager: m,
		images:      images,
		newImageKey: storage.NewImageKey,
	}
}

// Create stores the recipe and its ingredient lines. Unknown ingredient
// names are added to the vocabulary.
func (s *RecipeService) Create(ctx context.Context, ownerID int64, in models.RecipeCreate) (*models.Recipe, error) {
	var recipe *models.Recipe

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		recipe, err = s.repomanager.Recipes(tx).Create(ctx, ownerID, in)
		if err != nil {
			return err
		}

		links := s.repomanager.RecipeIngredients(tx)
		for _, line := range in.Ingredients {
			ing, err := s.resolveIngredient(ctx, tx, line.Name)
			if err != nil {
				return err
			}
			if err := links.Create(ctx, &models.RecipeIngredient{
				RecipeID:     recipe.ID,
				IngredientID: ing.ID,
				AmountText:   line.AmountText,
			}); err != nil {
				return err
			}
		}

		recipe.Ingredients, err = links.ListByRecipe(ctx, recipe.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error creating recipe: %w", err)
	}
	return recipe, nil
}

func (s *RecipeService) resolveIngredient(ctx context.Context, tx dbx.DBTX, name string) (*models.Ingredient, error) {
	repo := s.repomanager.Ingredients(tx)

	ing, err := repo.GetByName(ctx, name)
	if err == nil {
		return ing, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}
	return repo.Create(ctx, name)
}

// List returns every recipe of the owner in id order.
func (s *RecipeService) List(ctx context.Context, ownerID int64) ([]models.Recipe, error) {
	var result []models.Recipe

	err := dbx.WithReadTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		items, err := s.repomanager.Recipes(tx).ListByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		result, err = s.attachIngredients(ctx, tx, items)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error listing recipes: %w", err)
	}
	return result, nil
}

// Search returns the owner's recipes whose title or description contains
// query, ignoring case.
func (s *RecipeService) Search(ctx context.Context, ownerID int64, query string) ([]models.Recipe, error) {
	var result []models.Recipe

	err := dbx.WithReadTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		items, err := s.repomanager.Recipes(tx).Search(ctx, ownerID, query)
		if err != nil {
			return err
		}
		result, err = s.attachIngredients(ctx, tx, items)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error searching recipes: %w", err)
	}
	return result, nil
}

func (s *RecipeService) attachIngredients(ctx context.Context, tx dbx.DBTX, items []models.Recipe) ([]models.Recipe, error) {
	links := s.repomanager.RecipeIngredients(tx)
	for i := range items {
		ings, err := links.ListByRecipe(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Ingredients = ings
	}
	return items, nil
}

// Get returns one recipe of the owner. Recipes of other users are reported
// as ErrorNotFound.
func (s *RecipeService) Get(ctx context.Context, ownerID, id int64) (*models.Recipe, error) {
	var recipe *models.Recipe

	err := dbx.WithReadTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		recipe, err = s.repomanager.Recipes(tx).GetByOwner(ctx, ownerID, id)
		if err != nil {
			return err
		}
		recipe.Ingredients, err = s.repomanager.RecipeIngredients(tx).ListByRecipe(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error getting recipe: %w", err)
	}
	return recipe, nil
}

// Update applies a partial update. A missing recipe yields ErrorNotFound and
// a recipe of another user yields ErrorForbidden. Ingredients are unchanged.
func (s *RecipeService) Update(ctx context.Context, ownerID, id int64, patch models.RecipePatch) (*models.Recipe, error) {
	var recipe *models.Recipe

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Recipes(tx)

		owner, err := repo.GetOwnerForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if owner != ownerID {
			return common.ErrorForbidden
		}

		recipe, err = repo.Update(ctx, ownerID, id, patch)
		if err != nil {
			return err
		}
		recipe.Ingredients, err = s.repomanager.RecipeIngredients(tx).ListByRecipe(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error updating recipe: %w", err)
	}
	return recipe, nil
}

// Delete removes the recipe and its ingredient lines. Ingredients stay in
// the vocabulary. Missing recipes and recipes of other users both yield
// ErrorNotFound.
func (s *RecipeService) Delete(ctx context.Context, ownerID, id int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Recipes(tx)

		owner, err := repo.GetOwnerForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if owner != ownerID {
			return common.ErrorNotFound
		}

		if _, err := s.repomanager.RecipeIngredients(tx).DeleteByRecipe(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, ownerID, id)
	})
	if err != nil {
		return fmt.Errorf("error deleting recipe: %w", err)
	}
	return nil
}

// CreateImageUpload assigns a fresh photo key to the recipe and returns it
// with a presigned upload URL. A previous photo object is left in storage.
func (s *RecipeService) CreateImageUpload(ctx context.Context, ownerID, id int64) (string, string, error) {
	key := s.newImageKey(ownerID)

	url, err := s.images.PresignPut(ctx, key)
	if err != nil {
		return "", "", fmt.Errorf("error presigning upload: %w", err)
	}

	if err := s.repomanager.Recipes(s.db).SetImageKey(ctx, ownerID, id, key); err != nil {
		return "", "", fmt.Errorf("error saving image key: %w", err)
	}
	return key, url, nil
}

// ImageURL returns a presigned download URL for the recipe photo, or
// ErrorNotFound when the recipe has none.
func (s *RecipeService) ImageURL(ctx context.Context, ownerID, id int64) (string, error) {
	recipe, err := s.repomanager.Recipes(s.db).GetByOwner(ctx, ownerID, id)
	if err != nil {
		return "", fmt.Errorf("error getting recipe: %w", err)
	}
	if recipe.ImageKey == nil {
		return "", fmt.Errorf("recipe has no image: %w", common.ErrorNotFound)
	}

	url, err := s.images.PresignGet(ctx, *recipe.ImageKey)
	if err != nil {
		return "", fmt.Errorf("error presigning download: %w", err)
	}
	return url, nil
}
