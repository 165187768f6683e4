package auth

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/db/models"
)

// LocalProvider handles the emergency local credential: console-local
// accounts stored in the database, used when the identity provider is
// unreachable. Emergency accounts are always superadmin, so the resulting
// permission record carries an unrestricted scope and the record invariant
// (unrestricted iff superadmin) holds without a backend round trip.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new emergency credential provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{db: db}
}

// Authenticate verifies an emergency credential and returns the session's
// permission record. Credential failures return an error; the caller decides
// how to present them (they are authentication failures, not permission
// initialization failures).
func (p *LocalProvider) Authenticate(username, password string) (PermissionRecord, error) {
	var user models.User

	err := p.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PermissionRecord{}, ErrUserNotFound
	}

	if err != nil {
		return PermissionRecord{}, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.Active {
		return PermissionRecord{}, ErrUserAccountDisabled
	}

	if !user.VerifyPassword(password) {
		return PermissionRecord{}, ErrInvalidPassword
	}

	user.LastLoginAt = time.Now()
	p.db.Save(&user)

	return PermissionRecord{
		Success:          true,
		Source:           SourceEmergency,
		ExternalUsername: user.Username,
		LocalUsername:    user.Username,
		Role:             RoleSuperAdmin,
		Scope:            Unrestricted(),
	}, nil
}

// CreateUser creates a new emergency account.
func (p *LocalProvider) CreateUser(username, email, password string) (*models.User, error) {
	var existing models.User

	err := p.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("user %q already exists", username)
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	user := models.User{
		Active:    true,
		Username:  username,
		Email:     email,
		Password:  models.HashPassword(password),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := p.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// ResetPassword replaces an emergency account's password.
func (p *LocalProvider) ResetPassword(username, newPassword string) error {
	return p.db.Model(&models.User{}).
		Where("username = ?", username).
		Update("password", models.HashPassword(newPassword)).Error
}
