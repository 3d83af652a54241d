// Package ingredients provides the PostgreSQL-backed repository for the
// global ingredient vocabulary.
package ingredients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Ingredient, error) {
	query := `SELECT id, name FROM ingredients WHERE name = $1`

	item := &models.Ingredient{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&item.ID, &item.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

// Create inserts the ingredient, or returns the existing row when another
// transaction created the same name first. The no-op update makes RETURNING
// yield the id in both cases.
func (r *PostgresRepository) Create(ctx context.Context, name string) (*models.Ingredient, error) {
	query :=
		`INSERT INTO ingredients (name)
		 VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`

	item := &models.Ingredient{Name: name}
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&item.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}
