package auth

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate user model: %v", err)
	}

	return db
}

func TestLocalProvider_Authenticate(t *testing.T) {
	db := newTestDB(t)
	lp := NewLocalProvider(db)

	user, err := lp.CreateUser("oncall", "oncall@school.example", "s3cr3t")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if !user.Active {
		t.Fatal("new emergency account must be active")
	}

	record, err := lp.Authenticate("oncall", "s3cr3t")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	if !record.Success {
		t.Fatal("expected a success record")
	}

	if record.Role != RoleSuperAdmin {
		t.Errorf("Role = %q, want superadmin", record.Role)
	}

	if !record.Scope.IsUnrestricted() {
		t.Error("emergency session scope must be unrestricted")
	}

	if record.Source != SourceEmergency {
		t.Errorf("Source = %q, want emergency", record.Source)
	}
}

func TestLocalProvider_AuthenticateFailures(t *testing.T) {
	db := newTestDB(t)
	lp := NewLocalProvider(db)

	if _, err := lp.CreateUser("oncall", "", "s3cr3t"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if _, err := lp.Authenticate("oncall", "wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("wrong password: err = %v, want ErrInvalidPassword", err)
	}

	if _, err := lp.Authenticate("nobody", "s3cr3t"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user: err = %v, want ErrUserNotFound", err)
	}

	db.Model(&models.User{}).Where("username = ?", "oncall").Update("active", false)

	if _, err := lp.Authenticate("oncall", "s3cr3t"); !errors.Is(err, ErrUserAccountDisabled) {
		t.Errorf("disabled account: err = %v, want ErrUserAccountDisabled", err)
	}
}

func TestLocalProvider_CreateUserDuplicate(t *testing.T) {
	db := newTestDB(t)
	lp := NewLocalProvider(db)

	if _, err := lp.CreateUser("oncall", "", "one"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if _, err := lp.CreateUser("oncall", "", "two"); err == nil {
		t.Fatal("expected duplicate username error")
	}
}

func TestLocalProvider_ResetPassword(t *testing.T) {
	db := newTestDB(t)
	lp := NewLocalProvider(db)

	if _, err := lp.CreateUser("oncall", "", "old"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if err := lp.ResetPassword("oncall", "new"); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}

	if _, err := lp.Authenticate("oncall", "old"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("old password still accepted: err = %v", err)
	}

	if _, err := lp.Authenticate("oncall", "new"); err != nil {
		t.Errorf("new password rejected: err = %v", err)
	}
}
