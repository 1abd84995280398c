package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/soporteit/support-desk/internal/auth"
	"github.com/soporteit/support-desk/internal/config"
	"github.com/soporteit/support-desk/internal/domain"
	"github.com/soporteit/support-desk/internal/repository"
	apperrors "github.com/soporteit/support-desk/pkg/util/errorutil"
)

var errInvalidCredentials = apperrors.NewUnauthorized("invalid credentials")

// AuthService coordinates login, logout and session lookup.
type AuthService struct {
	users      repository.UserRepository
	sessions   auth.SessionStore
	tokens     *auth.TokenManager
	cfg        config.AuthConfig
	production bool
	logger     *zap.Logger
	now        func() time.Time
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Sessions   auth.SessionStore
	Tokens     *auth.TokenManager
	Logger     *zap.Logger
	Production bool
}

// LoginResult carries the created session and its signed token.
type LoginResult struct {
	Session domain.Session
	Token   string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		sessions:   deps.Sessions,
		tokens:     deps.Tokens,
		cfg:        cfg,
		production: deps.Production,
		logger:     logger,
		now:        time.Now,
	}
}

// Authenticate verifies credentials and opens a session.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password are required", nil)
	}

	user, err := s.users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return s.authenticateFallback(ctx, username, password)
	case err != nil:
		return nil, apperrors.MapError(err)
	}

	if !user.Active {
		return nil, errInvalidCredentials
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, errInvalidCredentials
	}

	result, err := s.openSession(ctx, user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	if err := s.users.TouchLastAccess(ctx, user.ID, result.Session.CreatedAt); err != nil {
		s.logger.Warn("update last access failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	return result, nil
}

// authenticateFallback accepts the configured admin pair when no stored
// account exists for that username.
func (s *AuthService) authenticateFallback(ctx context.Context, username, password string) (*LoginResult, error) {
	if s.cfg.AdminUsername == "" || username != s.cfg.AdminUsername {
		return nil, errInvalidCredentials
	}
	if s.production && s.cfg.AdminPassword == config.DefaultAdminPassword {
		s.logger.Warn("default admin password refused in production")
		return nil, errInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) != 1 {
		return nil, errInvalidCredentials
	}
	s.logger.Info("admin authenticated through environment credentials", zap.String("username", username))
	return s.openSession(ctx, 0, username, domain.RoleAdmin)
}

func (s *AuthService) openSession(ctx context.Context, userID int64, username string, role domain.Role) (*LoginResult, error) {
	now := s.now().UTC()
	session := domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Username:  username,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL()),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	token, err := s.tokens.GenerateToken(session)
	if err != nil {
		_ = s.sessions.Delete(ctx, session.ID)
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{Session: session, Token: token}, nil
}

// Logout destroys the session. Unknown sessions are ignored.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// Session returns the live session behind id, or nil when anonymous.
func (s *AuthService) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, nil
	}
	session, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, auth.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return session, nil
}
