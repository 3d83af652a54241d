package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/server/config"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/ingredients"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/recipeingredients"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/users"
)

// --- helpers ---

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
	}
}

func ptr[T any](v T) *T { return &v }

// --- fake repositories ---

type fakeUsersRepo struct {
	byEmail map[string]*models.User
	byID    map[int64]*models.User
	nextID  int64

	getErr    error
	createErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}, byID: map[int64]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	created := *u
	created.ID = f.nextID
	f.byEmail[u.Email] = &created
	f.byID[created.ID] = &created
	return &created, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeIngredientsRepo struct {
	byName  map[string]*models.Ingredient
	nextID  int64
	created []string

	getErr error
}

func newFakeIngredientsRepo() *fakeIngredientsRepo {
	return &fakeIngredientsRepo{byName: map[string]*models.Ingredient{}}
}

func (f *fakeIngredientsRepo) GetByName(ctx context.Context, name string) (*models.Ingredient, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	ing, ok := f.byName[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return ing, nil
}

func (f *fakeIngredientsRepo) Create(ctx context.Context, name string) (*models.Ingredient, error) {
	f.nextID++
	ing := &models.Ingredient{ID: f.nextID, Name: name}
	f.byName[name] = ing
	f.created = append(f.created, name)
	return ing, nil
}

type fakeLinksRepo struct {
	rows    []models.RecipeIngredient
	ings    *fakeIngredientsRepo
	deleted []int64

	createErr error
	listErr   error
	deleteErr error
}

func (f *fakeLinksRepo) Create(ctx context.Context, item *models.RecipeIngredient) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.rows = append(f.rows, *item)
	return nil
}

func (f *fakeLinksRepo) ListByRecipe(ctx context.Context, recipeID int64) ([]models.RecipeIngredient, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.RecipeIngredient, 0)
	for _, r := range f.rows {
		if r.RecipeID == recipeID {
			r.Name = f.ingredientName(r.IngredientID)
			out = append(out, r)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out, nil
}

func (f *fakeLinksRepo) ingredientName(id int64) string {
	if f.ings == nil {
		return ""
	}
	for name, ing := range f.ings.byName {
		if ing.ID == id {
			return name
		}
	}
	return ""
}

func (f *fakeLinksRepo) DeleteByRecipe(ctx context.Context, recipeID int64) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.deleted = append(f.deleted, recipeID)
	kept := f.rows[:0]
	var n int64
	for _, r := range f.rows {
		if r.RecipeID == recipeID {
			n++
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return n, nil
}

type fakeRecipesRepo struct {
	items  map[int64]*models.Recipe
	nextID int64

	patches  []models.RecipePatch
	imageKey string

	createErr error
	lockErr   error
	updateErr error
}

func newFakeRecipesRepo(items ...models.Recipe) *fakeRecipesRepo {
	f := &fakeRecipesRepo{items: map[int64]*models.Recipe{}}
	for i := range items {
		it := items[i]
		f.items[it.ID] = &it
		if it.ID > f.nextID {
			f.nextID = it.ID
		}
	}
	return f
}

func (f *fakeRecipesRepo) Create(ctx context.Context, ownerID int64, in models.RecipeCreate) (*models.Recipe, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	r := &models.Recipe{ID: f.nextID, OwnerID: ownerID, Title: in.Title, Description: in.Description, CookTimeMinutes: in.CookTimeMinutes}
	f.items[r.ID] = r
	cp := *r
	return &cp, nil
}

func (f *fakeRecipesRepo) GetByOwner(ctx context.Context, ownerID, id int64) (*models.Recipe, error) {
	r, ok := f.items[id]
	if !ok || r.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRecipesRepo) ListByOwner(ctx context.Context, ownerID int64) ([]models.Recipe, error) {
	out := make([]models.Recipe, 0)
	for id := int64(1); id <= f.nextID; id++ {
		if r, ok := f.items[id]; ok && r.OwnerID == ownerID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRecipesRepo) Search(ctx context.Context, ownerID int64, query string) ([]models.Recipe, error) {
	all, _ := f.ListByOwner(ctx, ownerID)
	out := make([]models.Recipe, 0)
	for _, r := range all {
		if r.Title == query || (r.Description != nil && *r.Description == query) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecipesRepo) GetOwnerForUpdate(ctx context.Context, id int64) (int64, error) {
	if f.lockErr != nil {
		return 0, f.lockErr
	}
	r, ok := f.items[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	return r.OwnerID, nil
}

func (f *fakeRecipesRepo) Update(ctx context.Context, ownerID, id int64, patch models.RecipePatch) (*models.Recipe, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.patches = append(f.patches, patch)
	r, ok := f.items[id]
	if !ok || r.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	if patch.Title != nil {
		r.Title = *patch.Title
	}
	if patch.SetDescription {
		r.Description = patch.Description
	}
	if patch.CookTimeMinutes != nil {
		r.CookTimeMinutes = *patch.CookTimeMinutes
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRecipesRepo) Delete(ctx context.Context, ownerID, id int64) error {
	r, ok := f.items[id]
	if !ok || r.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeRecipesRepo) SetImageKey(ctx context.Context, ownerID, id int64, key string) error {
	r, ok := f.items[id]
	if !ok || r.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	r.ImageKey = &key
	f.imageKey = key
	return nil
}

// newFakeRepoManager wires fresh fakes together; seed fills the recipe
// table.
func newFakeRepoManager(seed ...models.Recipe) *fakeRepoManager {
	ings := newFakeIngredientsRepo()
	return &fakeRepoManager{
		u:  newFakeUsersRepo(),
		i:  ings,
		ri: &fakeLinksRepo{ings: ings},
		r:  newFakeRecipesRepo(seed...),
	}
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	i  *fakeIngredientsRepo
	ri *fakeLinksRepo
	r  *fakeRecipesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository          { return m.u }
func (m *fakeRepoManager) Ingredients(db dbx.DBTX) ingredients.Repository {
	return m.i
}
func (m *fakeRepoManager) RecipeIngredients(db dbx.DBTX) recipeingredients.Repository {
	return m.ri
}
func (m *fakeRepoManager) Recipes(db dbx.DBTX) recipes.Repository { return m.r }

type fakeImages struct {
	putURL string
	getURL string
	err    error

	keys []string
}

func (f *fakeImages) PresignPut(ctx context.Context, key string) (string, error) {
	f.keys = append(f.keys, key)
	return f.putURL, f.err
}

func (f *fakeImages) PresignGet(ctx context.Context, key string) (string, error) {
	f.keys = append(f.keys, key)
	return f.getURL, f.err
}
