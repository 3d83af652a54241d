// Package recipes provides the PostgreSQL-backed recipe repository.
package recipes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

const recipeColumns = `id, owner_id, title, description, cook_time_minutes, image_key`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*models.Recipe, error) {
	var (
		item        models.Recipe
		description sql.NullString
		imageKey    sql.NullString
	)
	if err := row.Scan(&item.ID, &item.OwnerID, &item.Title, &description, &item.CookTimeMinutes, &imageKey); err != nil {
		return nil, err
	}
	if description.Valid {
		item.Description = &description.String
	}
	if imageKey.Valid {
		item.ImageKey = &imageKey.String
	}
	return &item, nil
}

func (r *PostgresRepository) Create(ctx context.Context, ownerID int64, in models.RecipeCreate) (*models.Recipe, error) {
	query :=
		`INSERT INTO recipes (owner_id, title, description, cook_time_minutes)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`

	item := &models.Recipe{
		OwnerID:         ownerID,
		Title:           in.Title,
		Description:     in.Description,
		CookTimeMinutes: in.CookTimeMinutes,
	}

	if err := r.db.QueryRowContext(ctx, query, ownerID, in.Title, in.Description, in.CookTimeMinutes).Scan(&item.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) GetByOwner(ctx context.Context, ownerID, id int64) (*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = $1 AND owner_id = $2`

	item, err := scanRecipe(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE owner_id = $1 ORDER BY id`
	return r.list(ctx, query, ownerID)
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns the owner's recipes whose title or description contains
// query, ignoring case.
func (r *PostgresRepository) Search(ctx context.Context, ownerID int64, query string) ([]models.Recipe, error) {
	pattern := "%" + likeEscaper.Replace(query) + "%"

	q := `SELECT ` + recipeColumns + ` FROM recipes
		 WHERE owner_id = $1
		   AND (title ILIKE $2 ESCAPE '\' OR description ILIKE $2 ESCAPE '\')
		 ORDER BY id`
	return r.list(ctx, q, ownerID, pattern)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.Recipe, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Recipe, 0)
	for rows.Next() {
		item, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// GetOwnerForUpdate locks the recipe row until the surrounding transaction
// ends and returns its owner. It must run inside a transaction.
func (r *PostgresRepository) GetOwnerForUpdate(ctx context.Context, id int64) (int64, error) {
	query := `SELECT owner_id FROM recipes WHERE id = $1 FOR UPDATE`

	var ownerID int64
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return ownerID, nil
}

// Update sets the fields present in patch and returns the refreshed row.
// An empty patch performs no write and returns the current row.
func (r *PostgresRepository) Update(ctx context.Context, ownerID, id int64, patch models.RecipePatch) (*models.Recipe, error) {
	if patch.IsEmpty() {
		return r.GetByOwner(ctx, ownerID, id)
	}

	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.SetDescription {
		add("description", patch.Description)
	}
	if patch.CookTimeMinutes != nil {
		add("cook_time_minutes", *patch.CookTimeMinutes)
	}

	args = append(args, id, ownerID)
	query := fmt.Sprintf(
		`UPDATE recipes SET %s WHERE id = $%d AND owner_id = $%d RETURNING `+recipeColumns,
		strings.Join(sets, ", "), len(args)-1, len(args),
	)

	item, err := scanRecipe(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id int64) error {
	return r.exec(ctx, `DELETE FROM recipes WHERE id = $1 AND owner_id = $2`, id, ownerID)
}

func (r *PostgresRepository) SetImageKey(ctx context.Context, ownerID, id int64, key string) error {
	return r.exec(ctx, `UPDATE recipes SET image_key = $1 WHERE id = $2 AND owner_id = $3`, key, id, ownerID)
}

// exec runs a single-row write and reports ErrorNotFound when no row matched.
func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
