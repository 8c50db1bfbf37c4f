package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
	"github.com/tilldesk/tilldesk-api/internal/config"
	"github.com/tilldesk/tilldesk-api/internal/domain/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Scope entities
		&entity.Organization{},
		&entity.User{},

		// Catalog entities
		&entity.Product{},
		&entity.StockPrediction{},

		// Customer entities
		&entity.Customer{},

		// Cash-desk entities
		&entity.CashdeskSession{},
		&entity.PettyCashTransaction{},
		&entity.SaleDiscount{},
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.PaymentMethod{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the default organization and admin user.
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	orgName := viper.GetString("ORG_NAME")
	if orgName == "" {
		orgName = "Default Store"
	}
	orgSlug := viper.GetString("ORG_SLUG")
	if orgSlug == "" {
		orgSlug = "default"
	}

	var org entity.Organization
	if err := db.Where("slug = ?", orgSlug).First(&org).Error; err != nil {
		org = entity.Organization{
			Name:      orgName,
			Slug:      orgSlug,
			StoreName: orgName,
		}
		if err := db.Create(&org).Error; err != nil {
			return fmt.Errorf("failed to create default organization: %w", err)
		}
		log.Printf("Default organization created: %s", orgSlug)
	}

	// Create admin user if configured via environment variables
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				if adminName == "" {
					adminName = "Store Admin"
				}
				firstName := adminName
				lastName := ""
				if idx := strings.IndexByte(adminName, ' '); idx > 0 {
					firstName = adminName[:idx]
					lastName = adminName[idx+1:]
				}
				adminUser := entity.User{
					OrganizationID: org.ID,
					FirstName:      firstName,
					LastName:       lastName,
					Email:          adminEmail,
					Password:       string(hashedPassword),
					Role:           entity.RoleAdmin,
				}
				if err := db.Create(&adminUser).Error; err != nil {
					log.Printf("Warning: failed to create admin user: %v", err)
				} else {
					log.Printf("Admin user created: %s", adminEmail)
				}
			}
		} else {
			log.Printf("Admin user already exists: %s", adminEmail)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
