package database

import (
	"fmt"

	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate creates the users, students and payments tables if absent.
// Idempotent; safe to run on every startup.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Payment{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
