package daemon

import (
	"gorm.io/gorm"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/config"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/db/models"
)

func seed(_ *config.Config, db *gorm.DB) {
	// Seed an emergency account if the user table is empty, so the console
	// stays reachable before anyone has logged in through the identity
	// provider. The password must be changed after first login.

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count == 0 {
		db.Create(
			&models.User{
				Username: "admin",
				Password: models.HashPassword("changeme"),
				Active:   true,
			},
		)
	}
}
