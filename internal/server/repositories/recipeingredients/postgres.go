// Package recipeingredients provides the PostgreSQL-backed repository for
// recipe to ingredient association rows.
package recipeingredients

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, item *models.RecipeIngredient) error {
	query :=
		`INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount_text)
		 VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, item.RecipeID, item.IngredientID, item.AmountText); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListByRecipe returns the association rows of one recipe joined with the
// ingredient names, ordered by name. A recipe without ingredients yields an
// empty, non-nil slice.
func (r *PostgresRepository) ListByRecipe(ctx context.Context, recipeID int64) ([]models.RecipeIngredient, error) {
	query :=
		`SELECT ri.recipe_id, ri.ingredient_id, i.name, ri.amount_text
		 FROM recipe_ingredients ri
		 JOIN ingredients i ON i.id = ri.ingredient_id
		 WHERE ri.recipe_id = $1
		 ORDER BY i.name`

	rows, err := r.db.QueryContext(ctx, query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.RecipeIngredient, 0)
	for rows.Next() {
		var item models.RecipeIngredient
		if err := rows.Scan(&item.RecipeID, &item.IngredientID, &item.Name, &item.AmountText); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// DeleteByRecipe removes every association row of the recipe and reports how
// many were removed. Ingredients themselves are kept.
func (r *PostgresRepository) DeleteByRecipe(ctx context.Context, recipeID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipeID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
