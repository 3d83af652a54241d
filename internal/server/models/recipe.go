package models

// Recipe belongs to exactly one owner. Description is nil when absent.
// ImageKey is the object-storage key of the recipe photo, nil when none.
type Recipe struct {
	ID              int64
	OwnerID         int64
	Title           string
	Description     *string
	CookTimeMinutes int
	ImageKey        *string
	Ingredients     []RecipeIngredient
}

// Ingredient is a global, owner-agnostic vocabulary entry.
type Ingredient struct {
	ID   int64
	Name string
}

// RecipeIngredient is the association row between a recipe and an
// ingredient, with the free-text quantity. Name is filled by joined reads.
type RecipeIngredient struct {
	RecipeID     int64
	IngredientID int64
	Name         string
	AmountText   string
}

// IngredientInput is one ingredient line of a new recipe.
type IngredientInput struct {
	Name       string
	AmountText string
}

// RecipeCreate holds the fields of a new recipe.
type RecipeCreate struct {
	Title           string
	Description     *string
	CookTimeMinutes int
	Ingredients     []IngredientInput
}

// RecipePatch lists the fields a partial update touches. A nil pointer means
// "leave unchanged". SetDescription with a nil Description clears it.
type RecipePatch struct {
	Title           *string
	SetDescription  bool
	Description     *string
	CookTimeMinutes *int
}

// IsEmpty reports whether the patch changes nothing.
func (p RecipePatch) IsEmpty() bool {
	return p.Title == nil && !p.SetDescription && p.CookTimeMinutes == nil
}
