package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/recipebox/internal/server/validation"
)

func recipeID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, validation.Errors{{Field: "id", Message: "value is not a valid integer"}}
	}
	return id, nil
}

func (s *Server) createRecipe(c *gin.Context) {
	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, bindError(err))
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.writeError(c, err)
		return
	}

	recipe, err := s.recipes.Create(c.Request.Context(), currentUser(c).ID, req.toModel())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRecipeResponse(recipe))
}

func (s *Server) listRecipes(c *gin.Context) {
	items, err := s.recipes.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeListResponse(items))
}

func (s *Server) searchRecipes(c *gin.Context) {
	q, ok := c.GetQuery("q")
	if !ok {
		s.writeError(c, validation.Errors{{Field: "q", Message: "field required"}})
		return
	}

	items, err := s.recipes.Search(c.Request.Context(), currentUser(c).ID, q)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeListResponse(items))
}

func (s *Server) getRecipe(c *gin.Context) {
	id, err := recipeID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	recipe, err := s.recipes.Get(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeResponse(recipe))
}

func (s *Server) updateRecipe(c *gin.Context) {
	id, err := recipeID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	var req patchRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, bindError(err))
		return
	}
	patch, errs := req.toPatch()
	errs = append(errs, s.validator.Patch(patch)...)
	if len(errs) > 0 {
		s.writeError(c, errs)
		return
	}

	recipe, err := s.recipes.Update(c.Request.Context(), currentUser(c).ID, id, patch)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeResponse(recipe))
}

func (s *Server) deleteRecipe(c *gin.Context) {
	id, err := recipeID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if err := s.recipes.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) createImageUpload(c *gin.Context) {
	id, err := recipeID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	key, url, err := s.recipes.CreateImageUpload(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, imageUploadResponse{ImageKey: key, UploadURL: url})
}

func (s *Server) redirectToImage(c *gin.Context) {
	id, err := recipeID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	url, err := s.recipes.ImageURL(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}
