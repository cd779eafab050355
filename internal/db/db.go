package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/trichbarbershop/barber-queue/internal/config"
	"github.com/trichbarbershop/barber-queue/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	seedServices(db)

	return db
}

// Migrate runs the schema migration. Split out so tests can reuse it
// against an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.BookingEntry{},
		&models.Service{},
		&models.MagicLinkToken{},
		&models.AuditLog{},
	)
}

// seedServices inserts the default catalog once so a fresh deploy has
// something to show on the booking form.
func seedServices(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Service{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	defaults := []models.Service{
		{Name: "The Cutting Edge", Price: "Rp65K", DurationMin: 45},
		{Name: "Trim & Treat", Price: "Rp85K", DurationMin: 60},
		{Name: "Creambath", Price: "Rp50K", DurationMin: 30},
		{Name: "Mask Off", Price: "Rp40K", DurationMin: 30},
		{Name: "The Trich Experience", Price: "Rp150K", DurationMin: 90, Notes: "Full package, not combinable with single services."},
	}

	if err := db.Create(&defaults).Error; err != nil {
		log.Printf("failed to seed services: %v", err)
	}
}
