package database

import (
	"log"
	"time"

	"restopos/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the MySQL connection and syncs the schema. The retry loop
// covers container startup where the database is not accepting connections yet.
func Connect(dsn string) {
	if dsn == "" {
		log.Fatal("Error: DB_DSN not set. Please configure your database.")
	}

	var err error
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatal("Failed to connect to database after 5 attempts:", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}

	log.Println("Database connected and schema synced")
}

// Migrate syncs the schema; split out so tests can run it against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Area{},
		&models.DiningTable{},
		&models.KitchenStation{},
		&models.Category{},
		&models.Item{},
		&models.ModifierGroup{},
		&models.ModifierOption{},
		&models.ReasonCode{},
		&models.PaymentMethod{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemModifier{},
		&models.OrderCancellation{},
		&models.Discount{},
		&models.OrderDiscount{},
		&models.Payment{},
		&models.Receipt{},
		&models.ReceiptItem{},
	)
}

// Seed inserts the rows the engine cannot run without: the default cash
// tender (checkout falls back to it when no payments are supplied) and an
// initial admin user when the users table is empty.
func Seed(db *gorm.DB, adminUsername, adminPassword string) error {
	var n int64
	if err := db.Model(&models.PaymentMethod{}).Where("code = ?", "cash").Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		if err := db.Create(&models.PaymentMethod{Code: "cash", Name: "Cash", Enabled: true}).Error; err != nil {
			return err
		}
	}

	if err := db.Model(&models.User{}).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := models.User{
			Name:         "Administrator",
			Username:     adminUsername,
			PasswordHash: string(hash),
			Role:         "admin",
			IsActive:     true,
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		log.Printf("Seeded initial admin user %q", adminUsername)
	}
	return nil
}
