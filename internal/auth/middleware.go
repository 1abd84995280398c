package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/soporteit/support-desk/internal/domain"
	apperrors "github.com/soporteit/support-desk/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	SessionID string
	UserID    int64
	Username  string
	Role      domain.Role
}

// IsAdmin reports whether the caller holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == domain.RoleAdmin
}

// Accounts looks up the stored account behind a session.
type Accounts interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// AuthMiddleware resolves session tokens into principals.
type AuthMiddleware struct {
	tokens     *TokenManager
	sessions   SessionStore
	cookieName string
	accounts   Accounts
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, sessions SessionStore, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions, cookieName: cookieName}
}

// WithAccounts makes every request recheck the stored account. Sessions of
// deleted or deactivated users are revoked and role changes apply at once.
// Sessions opened from environment credentials have no account and skip it.
func (m *AuthMiddleware) WithAccounts(accounts Accounts) *AuthMiddleware {
	m.accounts = accounts
	return m
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	principal, err := m.resolve(c)
	if err != nil {
		return err
	}
	if principal == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// Optional attaches a principal when a valid session is present and never rejects.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	principal, err := m.resolve(c)
	if err == nil && principal != nil {
		c.Locals(principalKey, principal)
	}
	return c.Next()
}

func (m *AuthMiddleware) resolve(c *fiber.Ctx) (*Principal, error) {
	raw, err := m.extractToken(c)
	if err != nil || raw == "" {
		return nil, err
	}

	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid session token")
	}

	session, err := m.sessions.Get(c.UserContext(), claims.SessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, apperrors.NewUnauthorized("session expired")
		}
		return nil, apperrors.MapError(err)
	}
	if err := m.refresh(c.UserContext(), session); err != nil {
		return nil, err
	}

	return &Principal{
		SessionID: session.ID,
		UserID:    session.UserID,
		Username:  session.Username,
		Role:      session.Role,
	}, nil
}

// refresh syncs session with its account, revoking it when the account is
// gone or inactive.
func (m *AuthMiddleware) refresh(ctx context.Context, session *domain.Session) error {
	if m.accounts == nil || session.UserID == 0 {
		return nil
	}
	user, err := m.accounts.GetByID(ctx, session.UserID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}
	if user == nil || !user.Active {
		if err := m.sessions.Delete(ctx, session.ID); err != nil {
			return apperrors.MapError(err)
		}
		return apperrors.NewUnauthorized("session revoked")
	}
	if user.Role == session.Role && user.Username == session.Username {
		return nil
	}
	session.Role = user.Role
	session.Username = user.Username
	if err := m.sessions.Save(ctx, *session); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// extractToken reads the bearer header first, then the session cookie.
func (m *AuthMiddleware) extractToken(c *fiber.Ctx) (string, error) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", apperrors.NewUnauthorized("invalid authorization header")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	return c.Cookies(m.cookieName), nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
