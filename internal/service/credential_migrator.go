package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/soporteit/support-desk/internal/auth"
	"github.com/soporteit/support-desk/internal/config"
	"github.com/soporteit/support-desk/internal/domain"
	"github.com/soporteit/support-desk/internal/repository"
)

// MigrationReport summarises one credential migration pass.
type MigrationReport struct {
	AdminCreated bool
	Hashed       int
	Stamped      int
}

// CredentialMigrator upgrades stored passwords to bcrypt. It runs before the
// HTTP listener starts and is a no-op once every row carries a scheme.
type CredentialMigrator struct {
	users  repository.UserRepository
	cfg    config.AuthConfig
	logger *zap.Logger
}

// NewCredentialMigrator constructs the migrator.
func NewCredentialMigrator(users repository.UserRepository, cfg config.AuthConfig, logger *zap.Logger) *CredentialMigrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialMigrator{users: users, cfg: cfg, logger: logger}
}

// Run ensures the bootstrap admin exists and converts legacy credentials.
func (m *CredentialMigrator) Run(ctx context.Context) (MigrationReport, error) {
	var report MigrationReport

	created, err := m.ensureAdmin(ctx)
	if err != nil {
		return report, err
	}
	report.AdminCreated = created

	legacy, err := m.users.ListByScheme(ctx, domain.PasswordSchemeUnknown)
	if err != nil {
		return report, fmt.Errorf("list legacy credentials: %w", err)
	}
	for _, user := range legacy {
		if auth.IsBcryptHash(user.PasswordHash) {
			if err := m.users.UpdateCredential(ctx, user.ID, user.PasswordHash, domain.PasswordSchemeBcrypt); err != nil {
				return report, fmt.Errorf("stamp credential for %s: %w", user.Username, err)
			}
			report.Stamped++
			continue
		}
		hash, err := auth.HashPassword(user.PasswordHash, m.cfg.BcryptCost)
		if err != nil {
			return report, fmt.Errorf("hash credential for %s: %w", user.Username, err)
		}
		if err := m.users.UpdateCredential(ctx, user.ID, hash, domain.PasswordSchemeBcrypt); err != nil {
			return report, fmt.Errorf("store credential for %s: %w", user.Username, err)
		}
		report.Hashed++
		m.logger.Info("legacy password hashed", zap.String("username", user.Username))
	}

	if report.AdminCreated || report.Hashed > 0 || report.Stamped > 0 {
		m.logger.Info("credential migration complete",
			zap.Bool("admin_created", report.AdminCreated),
			zap.Int("hashed", report.Hashed),
			zap.Int("stamped", report.Stamped))
	}
	return report, nil
}

// ResetAdminPassword sets a new password for username, creating the admin
// account when it does not exist yet.
func (m *CredentialMigrator) ResetAdminPassword(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return errors.New("username and password are required")
	}
	hash, err := auth.HashPassword(password, m.cfg.BcryptCost)
	if err != nil {
		return err
	}
	user, err := m.users.GetByUsername(ctx, username)
	if errors.Is(err, pgx.ErrNoRows) {
		return m.users.Create(ctx, m.adminRecord(username, hash))
	}
	if err != nil {
		return err
	}
	return m.users.UpdateCredential(ctx, user.ID, hash, domain.PasswordSchemeBcrypt)
}

func (m *CredentialMigrator) ensureAdmin(ctx context.Context) (bool, error) {
	if m.cfg.AdminUsername == "" {
		return false, nil
	}
	_, err := m.users.GetByUsername(ctx, m.cfg.AdminUsername)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("lookup admin: %w", err)
	}
	password := m.cfg.AdminPassword
	if password == "" {
		password = config.DefaultAdminPassword
	}
	hash, err := auth.HashPassword(password, m.cfg.BcryptCost)
	if err != nil {
		return false, err
	}
	if err := m.users.Create(ctx, m.adminRecord(m.cfg.AdminUsername, hash)); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	if password == config.DefaultAdminPassword {
		m.logger.Warn("admin account created with the default password, change it", zap.String("username", m.cfg.AdminUsername))
	}
	return true, nil
}

func (m *CredentialMigrator) adminRecord(username, hash string) *domain.User {
	return &domain.User{
		Username:       username,
		PasswordHash:   hash,
		PasswordScheme: domain.PasswordSchemeBcrypt,
		FullName:       "Administrador",
		Role:           domain.RoleAdmin,
		Active:         true,
	}
}
