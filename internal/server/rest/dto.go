package rest

import (
	"encoding/json"

	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/validation"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,emaildomain"`
	Password string `json:"password" validate:"required"`
}

// loginForm follows the OAuth2 password grant: the email goes in username.
type loginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type ingredientRequest struct {
	Name       string  `json:"name" validate:"notblank"`
	AmountText *string `json:"amount_text" validate:"required"`
}

type createRecipeRequest struct {
	Title           string              `json:"title" validate:"required,min=3,max=80"`
	Description     *string             `json:"description"`
	CookTimeMinutes *int                `json:"cook_time_minutes" validate:"required,gte=0,lte=2147483647"`
	Ingredients     []ingredientRequest `json:"ingredients" validate:"unique=Name,dive"`
}

func (r createRecipeRequest) toModel() models.RecipeCreate {
	in := models.RecipeCreate{
		Title:       r.Title,
		Description: r.Description,
		Ingredients: make([]models.IngredientInput, 0, len(r.Ingredients)),
	}
	if r.CookTimeMinutes != nil {
		in.CookTimeMinutes = *r.CookTimeMinutes
	}
	for _, ing := range r.Ingredients {
		line := models.IngredientInput{Name: ing.Name}
		if ing.AmountText != nil {
			line.AmountText = *ing.AmountText
		}
		in.Ingredients = append(in.Ingredients, line)
	}
	return in
}

// optional records whether a JSON key was present and whether it was null.
type optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

type patchRecipeRequest struct {
	Title           optional[string] `json:"title"`
	Description     optional[string] `json:"description"`
	CookTimeMinutes optional[int]    `json:"cook_time_minutes"`
}

// toPatch keeps only the keys present in the body. title and
// cook_time_minutes cannot be null; a null description clears it.
func (r patchRecipeRequest) toPatch() (models.RecipePatch, validation.Errors) {
	var (
		p    models.RecipePatch
		errs validation.Errors
	)

	if r.Title.Set {
		if r.Title.Null {
			errs = append(errs, validation.FieldError{Field: "title", Message: "must not be null"})
		} else {
			v := r.Title.Value
			p.Title = &v
		}
	}
	if r.Description.Set {
		p.SetDescription = true
		if !r.Description.Null {
			v := r.Description.Value
			p.Description = &v
		}
	}
	if r.CookTimeMinutes.Set {
		if r.CookTimeMinutes.Null {
			errs = append(errs, validation.FieldError{Field: "cook_time_minutes", Message: "must not be null"})
		} else {
			v := r.CookTimeMinutes.Value
			p.CookTimeMinutes = &v
		}
	}
	return p, errs
}

type ingredientResponse struct {
	Name       string `json:"name"`
	AmountText string `json:"amount_text"`
}

type recipeResponse struct {
	ID              int64                `json:"id"`
	Title           string               `json:"title"`
	Description     *string              `json:"description"`
	CookTimeMinutes int                  `json:"cook_time_minutes"`
	OwnerID         int64                `json:"owner_id"`
	Ingredients     []ingredientResponse `json:"ingredients"`
}

func newRecipeResponse(r *models.Recipe) recipeResponse {
	out := recipeResponse{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		CookTimeMinutes: r.CookTimeMinutes,
		OwnerID:         r.OwnerID,
		Ingredients:     make([]ingredientResponse, 0, len(r.Ingredients)),
	}
	for _, ing := range r.Ingredients {
		out.Ingredients = append(out.Ingredients, ingredientResponse{Name: ing.Name, AmountText: ing.AmountText})
	}
	return out
}

func newRecipeListResponse(items []models.Recipe) []recipeResponse {
	out := make([]recipeResponse, 0, len(items))
	for i := range items {
		out = append(out, newRecipeResponse(&items[i]))
	}
	return out
}

type imageUploadResponse struct {
	ImageKey  string `json:"image_key"`
	UploadURL string `json:"upload_url"`
}
