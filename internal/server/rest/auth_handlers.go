package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/dmitrijs2005/recipebox/internal/common"
)

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, bindError(err))
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.writeError(c, err)
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, userResponse{ID: user.ID, Email: user.Email})
}

func (s *Server) login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBindWith(&form, binding.FormPost); err != nil {
		s.writeError(c, bindError(err))
		return
	}
	if err := s.validator.Struct(form); err != nil {
		s.writeError(c, err)
		return
	}

	token, err := s.users.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			unauthorized(c, "Incorrect email or password")
			return
		}
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{AccessToken: token.AccessToken, TokenType: token.TokenType})
}

func (s *Server) me(c *gin.Context) {
	u := currentUser(c)
	c.JSON(http.StatusOK, userResponse{ID: u.ID, Email: u.Email})
}

const healthTimeout = 2 * time.Second

func (s *Server) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn(ctx, "health check failed", "error", err.Error())
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
