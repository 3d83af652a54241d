// Package rest exposes the recipebox HTTP API on top of gin.
package rest

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/services"
	"github.com/dmitrijs2005/recipebox/internal/server/validation"
)

// UserService is the subset of services.UserService the API calls.
type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.Token, error)
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// RecipeService is the subset of services.RecipeService the API calls.
type RecipeService interface {
	Create(ctx context.Context, ownerID int64, in models.RecipeCreate) (*models.Recipe, error)
	List(ctx context.Context, ownerID int64) ([]models.Recipe, error)
	Get(ctx context.Context, ownerID, id int64) (*models.Recipe, error)
	Search(ctx context.Context, ownerID int64, query string) ([]models.Recipe, error)
	Update(ctx context.Context, ownerID, id int64, patch models.RecipePatch) (*models.Recipe, error)
	Delete(ctx context.Context, ownerID, id int64) error
	CreateImageUpload(ctx context.Context, ownerID, id int64) (string, string, error)
	ImageURL(ctx context.Context, ownerID, id int64) (string, error)
}

// Pinger reports database liveness.
type Pinger interface {
	PingContext(ctx context.Context) error
}

const shutdownTimeout = 5 * time.Second

// listen is a seam for tests.
var listen = net.Listen

type Server struct {
	address   string
	logger    logging.Logger
	users     UserService
	recipes   RecipeService
	validator *validation.Validator
	db        Pinger
	engine    *gin.Engine
}

func NewServer(address string, l logging.Logger, us UserService, rs RecipeService, v *validation.Validator, db Pinger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		address:   address,
		logger:    l.With("module", "rest_server"),
		users:     us,
		recipes:   rs,
		validator: v,
		db:        db,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.requestLogger(), gin.CustomRecoveryWithWriter(io.Discard, s.recoverPanic))

	r.GET("/healthz", s.healthz)

	a := r.Group("/auth")
	a.POST("/register", s.register)
	a.POST("/login", s.login)
	a.GET("/users/me", s.requireUser(), s.me)

	g := r.Group("/recipes", s.requireUser())
	g.POST("/", s.createRecipe)
	g.GET("/", s.listRecipes)
	g.GET("/search/", s.searchRecipes)
	g.GET("/:id", s.getRecipe)
	g.PATCH("/:id", s.updateRecipe)
	g.DELETE("/:id", s.deleteRecipe)
	g.PUT("/:id/image", s.createImageUpload)
	g.GET("/:id/image", s.redirectToImage)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info(ctx, "Starting REST server", "address", ln.Addr().String())

	select {
	case <-ctx.Done():
		s.logger.Info(ctx, "Stopping REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
