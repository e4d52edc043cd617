package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/labstack/echo/v4"
)

type AuthService interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResult, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResult, error)
	FirebaseLogin(ctx context.Context, idToken string) (*models.AuthResult, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth       AuthService
	cookieName string
	expiresIn  time.Duration
	secure     bool
}

// NewAuthHandler creates a new AuthHandler. The login cookie is marked Secure when secure is set.
func NewAuthHandler(auth AuthService, cookieName string, expiresIn time.Duration, secure bool) *AuthHandler {
	return &AuthHandler{
		auth:       auth,
		cookieName: cookieName,
		expiresIn:  expiresIn,
		secure:     secure,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// Signup handles local user registration
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	result, err := h.auth.Signup(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	h.setLoginCookie(c, result.Token)
	return sendSuccess(c, http.StatusCreated, result)
}

// Login authenticates with username and password
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	result, err := h.auth.Login(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	h.setLoginCookie(c, result.Token)
	return sendSuccess(c, http.StatusOK, result)
}

// Logout overwrites the login cookie with a short-lived placeholder
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    "loggedout",
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
		Secure:   h.secure,
	})
	return sendSuccess(c, http.StatusOK, nil)
}

// FirebaseLogin exchanges a Firebase ID token for a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	result, err := h.auth.FirebaseLogin(c.Request().Context(), req.IDToken)
	if err != nil {
		return err
	}
	h.setLoginCookie(c, result.Token)
	return sendSuccess(c, http.StatusOK, result)
}

func (h *AuthHandler) setLoginCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.expiresIn),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
