package main

import (
	"fmt"
	"os"

	"github.com/cafirm/website/backend/internal/config"
	"github.com/cafirm/website/backend/internal/database"
	"github.com/cafirm/website/backend/internal/logger"
	"github.com/cafirm/website/backend/internal/models"
)

// seed migrates the schema and creates the first admin account. Credentials
// come from ADMIN_USERNAME and ADMIN_PASSWORD or from the two arguments.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log().WithError(err).Fatal("load config")
	}
	logger.Init(cfg.Debug, nil)
	log := logger.Log()

	db, err := database.Connect(cfg.Database, false)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}
	fmt.Println("✓ Database migrated successfully")

	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if len(os.Args) == 3 {
		username, password = os.Args[1], os.Args[2]
	}
	if username == "" {
		username = "admin"
	}
	forceAdmin := os.Getenv("ADMIN_FORCE_RESET") == "1"

	var existing models.AdminUser
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		if !forceAdmin || password == "" {
			fmt.Printf("  Admin user already exists: %s\n", username)
			return
		}
		if err := existing.SetPassword(password); err != nil {
			log.WithError(err).Fatal("Failed to hash admin password")
		}
		existing.Role = models.RoleAdmin
		if err := db.Save(&existing).Error; err != nil {
			log.WithError(err).Fatal("Failed to update admin user")
		}
		fmt.Printf("✓ Updated existing admin user password for: %s\n", username)
		return
	}

	if password == "" {
		log.Fatal("ADMIN_PASSWORD is required to create the first admin user")
	}
	user := models.AdminUser{Username: username, Role: models.RoleAdmin}
	if err := user.SetPassword(password); err != nil {
		log.WithError(err).Fatal("Failed to hash admin password")
	}
	if err := db.Create(&user).Error; err != nil {
		log.WithError(err).Fatal("Failed to seed admin user")
	}
	fmt.Printf("✓ Created admin user: %s\n", username)
	fmt.Println("\n✓ Database seeding completed successfully!")
}
