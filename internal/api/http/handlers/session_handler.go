package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/soporteit/support-desk/internal/api/dto"
	"github.com/soporteit/support-desk/internal/auth"
	"github.com/soporteit/support-desk/internal/service"
)

// CookieSettings controls the session cookie.
type CookieSettings struct {
	Name   string
	Secure bool
}

// SessionHandler exposes login, logout and session endpoints.
type SessionHandler struct {
	auth   *service.AuthService
	cookie CookieSettings
}

// NewSessionHandler constructs handler.
func NewSessionHandler(authService *service.AuthService, cookie CookieSettings) *SessionHandler {
	return &SessionHandler{auth: authService, cookie: cookie}
}

// Login POST /login.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	result, err := h.auth.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.Session.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.Session.ExpiresAt,
		User: dto.SessionUser{
			ID:       result.Session.UserID,
			Username: result.Session.Username,
			Role:     result.Session.Role,
		},
	}})
}

// Logout POST /logout.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	if p, ok := auth.PrincipalFromContext(c); ok {
		if err := h.auth.Logout(c.UserContext(), p.SessionID); err != nil {
			return err
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}

// Session GET /session.
func (h *SessionHandler) Session(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFromContext(c)
	if !ok {
		return c.JSON(fiber.Map{"data": dto.SessionResponse{Authenticated: false}})
	}
	session, err := h.auth.Session(c.UserContext(), p.SessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return c.JSON(fiber.Map{"data": dto.SessionResponse{Authenticated: false}})
	}
	return c.JSON(fiber.Map{"data": dto.SessionResponse{
		Authenticated: true,
		User: &dto.SessionUser{
			ID:       session.UserID,
			Username: session.Username,
			Role:     session.Role,
		},
		ExpiresAt: &session.ExpiresAt,
	}})
}
