package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sportsbooking/internal/domain/model"
	"sportsbooking/internal/handler"
	"sportsbooking/internal/middleware"
	"sportsbooking/internal/token"
	"sportsbooking/internal/usecase"
	"sportsbooking/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type errorBody struct {
	Error string `json:"error"`
}

type testApp struct {
	e       *echo.Echo
	users   *memUsers
	tokens  *memTokens
	catalog *catalog
	access  *token.Signer
}

func newTestApp(t *testing.T, seed ...*model.User) *testApp {
	t.Helper()

	users := newMemUsers(seed...)
	tokens := newMemTokens()
	cat := newCatalog()
	access := token.NewSigner("access-secret", 15*time.Minute)
	refresh := token.NewSigner("refresh-secret", 72*time.Hour)
	tx := fakeTx{repos: txRepos{users: users, tokens: tokens, pricings: pricingRepo{cat}}}

	sessions := usecase.NewSessionUsecase(users, tokens, tx, access, refresh, nil, nil)
	hasher := usecase.NewBcryptPasswordHasher(bcrypt.MinCost)
	authUC := usecase.NewAuthUsecase(users, sessions, tx, hasher, hasher)
	facilityUC := usecase.NewFacilityUsecase(
		facilityRepo{cat}, fieldRepo{cat}, pricingRepo{cat}, reviewRepo{cat}, tx, nil, nil,
		usecase.WithLocation(time.FixedZone("ICT", 7*60*60)),
	)

	e := echo.New()
	e.Validator = validator.New()
	api := e.Group("/api")
	guards := handler.Guards{
		Auth: []echo.MiddlewareFunc{
			middleware.AuthJWT(access, nil, nil),
			middleware.ActiveUserGuard(users),
		},
	}
	handler.NewAuthHandler(authUC, 72*time.Hour, false).RegisterRoutes(api, guards)
	handler.NewFacilityHandler(facilityUC).RegisterRoutes(api)
	handler.NewOwnerHandler(facilityUC).RegisterRoutes(api, guards)

	return &testApp{e: e, users: users, tokens: tokens, catalog: cat, access: access}
}

// Bearerトークンを直接発行する
func (a *testApp) bearer(t *testing.T, u *model.User) string {
	t.Helper()
	raw, _, err := a.access.Sign(token.Payload{UserID: u.ID, Email: u.Email, RoleID: u.RoleID})
	require.NoError(t, err)
	return "Bearer " + raw
}

type reqOpt func(*http.Request)

func withAuth(h string) reqOpt {
	return func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, h) }
}

func withCookie(ck *http.Cookie) reqOpt {
	return func(r *http.Request) { r.AddCookie(ck) }
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}, opts ...reqOpt) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, o := range opts {
		o(req)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func refreshCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "refreshToken" {
			return ck
		}
	}
	return nil
}
