package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/services"
	"github.com/dmitrijs2005/recipebox/internal/server/validation"
)

const goodToken = "good-token"

var alice = &models.User{ID: 7, Email: "alice@gmail.com"}

type fakeUsers struct {
	regUser *models.User
	regErr  error

	regEmail string

	loginToken *services.Token
	loginErr   error

	currentErr error
}

func (f *fakeUsers) Register(ctx context.Context, email, password string) (*models.User, error) {
	f.regEmail = email
	return f.regUser, f.regErr
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*services.Token, error) {
	return f.loginToken, f.loginErr
}

func (f *fakeUsers) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	if token != goodToken {
		return nil, common.ErrorUnauthorized
	}
	return alice, nil
}

type fakeRecipes struct {
	recipe *models.Recipe
	list   []models.Recipe
	err    error

	key string
	url string

	gotOwner  int64
	gotID     int64
	gotQuery  string
	gotCreate models.RecipeCreate
	gotPatch  models.RecipePatch
	called    bool
}

func (f *fakeRecipes) Create(ctx context.Context, ownerID int64, in models.RecipeCreate) (*models.Recipe, error) {
	f.called, f.gotOwner, f.gotCreate = true, ownerID, in
	return f.recipe, f.err
}

func (f *fakeRecipes) List(ctx context.Context, ownerID int64) ([]models.Recipe, error) {
	f.called, f.gotOwner = true, ownerID
	return f.list, f.err
}

func (f *fakeRecipes) Get(ctx context.Context, ownerID, id int64) (*models.Recipe, error) {
	f.called, f.gotOwner, f.gotID = true, ownerID, id
	return f.recipe, f.err
}

func (f *fakeRecipes) Search(ctx context.Context, ownerID int64, query string) ([]models.Recipe, error) {
	f.called, f.gotOwner, f.gotQuery = true, ownerID, query
	return f.list, f.err
}

func (f *fakeRecipes) Update(ctx context.Context, ownerID, id int64, patch models.RecipePatch) (*models.Recipe, error) {
	f.called, f.gotOwner, f.gotID, f.gotPatch = true, ownerID, id, patch
	return f.recipe, f.err
}

func (f *fakeRecipes) Delete(ctx context.Context, ownerID, id int64) error {
	f.called, f.gotOwner, f.gotID = true, ownerID, id
	return f.err
}

func (f *fakeRecipes) CreateImageUpload(ctx context.Context, ownerID, id int64) (string, string, error) {
	f.called, f.gotOwner, f.gotID = true, ownerID, id
	return f.key, f.url, f.err
}

func (f *fakeRecipes) ImageURL(ctx context.Context, ownerID, id int64) (string, error) {
	f.called, f.gotOwner, f.gotID = true, ownerID, id
	return f.url, f.err
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func newTestServer(us *fakeUsers, rs *fakeRecipes) *Server {
	return NewServer(":0", logging.Nop{}, us, rs, validation.New("@gmail.com"), fakePinger{})
}

type request struct {
	method      string
	path        string
	body        string
	contentType string
	token       string
}

func do(t *testing.T, s *Server, r request) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if r.body != "" {
		body = strings.NewReader(r.body)
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	} else if r.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

type detailBody struct {
	Detail string `json:"detail"`
}

type fieldsBody struct {
	Detail []validation.FieldError `json:"detail"`
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
}


func newRawRequest(method, path, authorization string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}
