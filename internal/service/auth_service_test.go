package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soporteit/support-desk/internal/auth"
	"github.com/soporteit/support-desk/internal/config"
	"github.com/soporteit/support-desk/internal/domain"
	"github.com/soporteit/support-desk/internal/repository"
	"github.com/soporteit/support-desk/internal/repository/memory"
	apperrors "github.com/soporteit/support-desk/pkg/util/errorutil"
)

// countingSessions counts saved sessions.
type countingSessions struct {
	auth.SessionStore
	saves int
}

func (c *countingSessions) Save(ctx context.Context, session domain.Session) error {
	c.saves++
	return c.SessionStore.Save(ctx, session)
}

type authFixture struct {
	repos    repository.Set
	sessions *countingSessions
	tokens   *auth.TokenManager
}

func newAuthFixture() *authFixture {
	return &authFixture{
		repos:    memory.NewSet(),
		sessions: &countingSessions{SessionStore: auth.NewMemorySessionStore()},
		tokens:   auth.NewTokenManager("test-secret"),
	}
}

func (f *authFixture) service(cfg config.AuthConfig, production bool) *AuthService {
	return NewAuthService(cfg, AuthDependencies{
		UserRepo:   f.repos.Users,
		Sessions:   f.sessions,
		Tokens:     f.tokens,
		Production: production,
	})
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		SessionTTLHours: 24,
		BcryptCost:      testBcryptCost,
		AdminUsername:   "admin",
		AdminPassword:   "envsecret",
	}
}

func TestAuthenticateOpensSession(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	users := NewUserService(f.repos.Users, testBcryptCost)
	user, err := users.CreateUser(ctx, UserCreateInput{Username: "luis", Password: "secreto1", FullName: "Luis"})
	require.NoError(t, err)
	svc := f.service(testAuthConfig(), false)

	result, err := svc.Authenticate(ctx, "luis", "secreto1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.Session.UserID)
	assert.Equal(t, domain.RoleTechnician, result.Session.Role)
	assert.Equal(t, 24.0, result.Session.ExpiresAt.Sub(result.Session.CreatedAt).Hours())

	claims, err := f.tokens.ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Session.ID, claims.SessionID)

	stored, err := f.repos.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastAccessAt)

	session, err := svc.Session(ctx, result.Session.ID)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "luis", session.Username)

	require.NoError(t, svc.Logout(ctx, result.Session.ID))
	session, err = svc.Session(ctx, result.Session.ID)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestAuthenticateRejectsInactiveUser(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	users := NewUserService(f.repos.Users, testBcryptCost)
	user, err := users.CreateUser(ctx, UserCreateInput{Username: "luis", Password: "secreto1", FullName: "Luis"})
	require.NoError(t, err)
	inactive := false
	_, err = users.UpdateUser(ctx, user.ID, UserPatch{Active: &inactive})
	require.NoError(t, err)

	_, err = f.service(testAuthConfig(), false).Authenticate(ctx, "luis", "secreto1")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	assert.Zero(t, f.sessions.saves)

	stored, err := f.repos.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.LastAccessAt)
}

func TestAuthenticateRejectsWrongPassword(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, err := NewUserService(f.repos.Users, testBcryptCost).CreateUser(ctx, UserCreateInput{Username: "luis", Password: "secreto1", FullName: "Luis"})
	require.NoError(t, err)

	_, err = f.service(testAuthConfig(), false).Authenticate(ctx, "luis", "otra")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	assert.Zero(t, f.sessions.saves)
}

func TestAuthenticateEnvironmentFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("used when no stored admin exists", func(t *testing.T) {
		f := newAuthFixture()
		result, err := f.service(testAuthConfig(), false).Authenticate(ctx, "admin", "envsecret")
		require.NoError(t, err)
		assert.Zero(t, result.Session.UserID)
		assert.Equal(t, domain.RoleAdmin, result.Session.Role)
	})

	t.Run("ignored once the admin row exists", func(t *testing.T) {
		f := newAuthFixture()
		_, err := NewUserService(f.repos.Users, testBcryptCost).CreateUser(ctx, UserCreateInput{Username: "admin", Password: "dbsecret", FullName: "Admin", Role: "admin"})
		require.NoError(t, err)

		_, err = f.service(testAuthConfig(), false).Authenticate(ctx, "admin", "envsecret")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	})

	t.Run("default password refused in production", func(t *testing.T) {
		f := newAuthFixture()
		cfg := testAuthConfig()
		cfg.AdminPassword = config.DefaultAdminPassword

		_, err := f.service(cfg, true).Authenticate(ctx, "admin", config.DefaultAdminPassword)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

		_, err = f.service(cfg, false).Authenticate(ctx, "admin", config.DefaultAdminPassword)
		assert.NoError(t, err)
	})
}
