package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/motohunt/motohunt-api/internal/middleware"
	"github.com/motohunt/motohunt-api/internal/service"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	svc          *service.AuthService
	tokenTTL     time.Duration
	secureCookie bool
}

// NewAuthHandler builds the auth endpoints.  secureCookie should be true
// everywhere except local development.
func NewAuthHandler(svc *service.AuthService, tokenTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{svc: svc, tokenTTL: tokenTTL, secureCookie: secureCookie}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a customer account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	id, err := h.svc.Register(ctx, service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"userId":  id,
	})
}

// Login verifies credentials and sets the session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	c.SetCookie(h.sessionCookie(res.Token.Token, int(h.tokenTTL/time.Second), res.Token.Exp))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"user":    res.User,
	})
}

// Logout clears the session cookie.  Tokens are stateless, so a copy of
// the token kept elsewhere stays valid until it expires.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.sessionCookie("", -1, time.Unix(0, 0)))
	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}

// Me returns the profile of the authenticated caller.
func (h *AuthHandler) Me(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.svc.CurrentUser(ctx, req.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

// sessionCookie is HTTP-only and same-site so page scripts cannot read it
// and cross-site requests do not carry it.
func (h *AuthHandler) sessionCookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
