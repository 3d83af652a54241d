package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/server/validation"
)

// errorResponse is the body of every error reply. Detail is a string, or a
// list of validation.FieldError for invalid input.
type errorResponse struct {
	Detail any `json:"detail"`
}

// writeError maps err to a status code and aborts the request.
func (s *Server) writeError(c *gin.Context, err error) {
	var ve validation.Errors
	switch {
	case errors.As(err, &ve):
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Detail: []validation.FieldError(ve)})
	case errors.Is(err, common.ErrorUnauthorized):
		unauthorized(c, "Could not validate credentials")
	case errors.Is(err, common.ErrorForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{Detail: "Not authorized to perform requested action"})
	case errors.Is(err, common.ErrorNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Detail: "Recipe not found"})
	case errors.Is(err, common.ErrorAlreadyExists):
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Detail: "Email already registered"})
	default:
		s.logger.Error(c.Request.Context(), "request failed", "error", err.Error(), "request_id", c.GetString(requestIDKey))
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Detail: "internal error"})
	}
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Detail: detail})
}

// bindError turns a body decoding failure into a field error.
func bindError(err error) validation.Errors {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		return validation.Errors{{Field: te.Field, Message: "invalid type, expected " + te.Type.String()}}
	}
	return validation.Errors{{Field: "body", Message: "invalid request body"}}
}
