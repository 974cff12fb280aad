package handler

import (
	"net/http"
	"time"

	"sportsbooking/internal/usecase"

	"github.com/labstack/echo/v4"
)

const refreshCookieName = "refreshToken"

// /api/auth のHTTP
type AuthHandler struct {
	uc           *usecase.AuthUsecase
	refreshTTL   time.Duration
	cookieSecure bool
}

// DI
func NewAuthHandler(uc *usecase.AuthUsecase, refreshTTL time.Duration, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		uc:           uc,
		refreshTTL:   refreshTTL,
		cookieSecure: cookieSecure,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"fullName" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Cookieが無いクライアント用
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// refreshTokenはCookieだけで返す
type AuthResponse struct {
	User            usecase.UserDTO `json:"user"`
	AccessToken     string          `json:"accessToken"`
	AccessExpiresAt time.Time       `json:"accessExpiresAt"`
}

type LogoutAllResponse struct {
	Message string `json:"message"`
	Revoked int64  `json:"revoked"`
}

// /api/auth/* を登録
func (h *AuthHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	g := api.Group("/auth")

	g.POST("/register", h.register, guards.rateLimited()...)
	g.POST("/login", h.login, guards.rateLimited()...)
	g.POST("/refresh-token", h.refresh, guards.rateLimited()...)
	g.POST("/logout", h.logout, guards.Auth...)

	g.POST("/logout-all", h.logoutAll, guards.Auth...)
	g.GET("/me", h.me, guards.Auth...)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req RegisterRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	res, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	}, sessionMeta(c))
	if err != nil {
		return writeError(c, err)
	}

	h.setRefreshCookie(c, res.Tokens)
	return c.JSON(http.StatusCreated, toAuthResponse(res))
}

func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	res, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, sessionMeta(c))
	if err != nil {
		return writeError(c, err)
	}

	h.setRefreshCookie(c, res.Tokens)
	return c.JSON(http.StatusOK, toAuthResponse(res))
}

func (h *AuthHandler) refresh(c echo.Context) error {
	raw := h.readRefreshToken(c)
	if raw == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "refresh token is required"})
	}

	res, err := h.uc.Refresh(c.Request().Context(), raw, sessionMeta(c))
	if err != nil {
		// 使えないトークンのCookieは消しておく
		if he, ok := usecase.AsHTTPError(err); ok && he.Status == http.StatusUnauthorized {
			h.clearRefreshCookie(c)
		}
		return writeError(c, err)
	}

	h.setRefreshCookie(c, res.Tokens)
	return c.JSON(http.StatusOK, toAuthResponse(res))
}

func (h *AuthHandler) logout(c echo.Context) error {
	raw := h.readRefreshToken(c)
	if raw == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "refresh token is required"})
	}

	//失効済み/存在しないトークンでも成功扱い
	if err := h.uc.Logout(c.Request().Context(), raw); err != nil {
		return writeError(c, err)
	}

	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

func (h *AuthHandler) logoutAll(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	n, err := h.uc.LogoutAll(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, LogoutAllResponse{Message: "logged out from all devices", Revoked: n})
}

func (h *AuthHandler) me(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Me(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Cookie優先、無ければJSONボディ
func (h *AuthHandler) readRefreshToken(c echo.Context) string {
	if ck, err := c.Cookie(refreshCookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return ""
	}
	return req.RefreshToken
}

// refreshtoken をCookieにセット。
func (h *AuthHandler) setRefreshCookie(c echo.Context, tokens usecase.TokenPair) {
	exp := tokens.RefreshExpiresAt
	if exp.IsZero() {
		exp = time.Now().Add(h.refreshTTL)
	}

	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    tokens.RefreshToken,
		Path:     "/api/auth",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
		Expires:  exp,
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api/auth",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

func sessionMeta(c echo.Context) usecase.SessionMeta {
	return usecase.SessionMeta{
		UserAgent: c.Request().UserAgent(),
		IP:        c.RealIP(),
	}
}

func toAuthResponse(res *usecase.AuthResult) AuthResponse {
	return AuthResponse{
		User:            res.User,
		AccessToken:     res.Tokens.AccessToken,
		AccessExpiresAt: res.Tokens.AccessExpiresAt,
	}
}
