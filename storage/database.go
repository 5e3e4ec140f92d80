package storage

import (
	"log"
	"os"

	"rental-office-server/models"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func connectToDB() *gorm.DB {
	// Only load .env in development (when RENDER env var is not set)
	if os.Getenv("RENDER") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Could not load .env file (this is normal in production)")
		}
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Panic("DB_CONNECTION_STRING environment variable is required")
	}

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if dbError != nil {
		log.Panic("error connection to db: " + dbError.Error())
	}

	DB = db
	return db
}

func performMigrations(db *gorm.DB) {
	db.AutoMigrate(
		&models.User{},
		&models.City{},
		&models.District{},
		&models.Owner{},
		&models.OwnerRevenue{},
		&models.OwnerPayment{},
		&models.Unit{},
		&models.UnitImage{},
		&models.Tenant{},
		&models.Review{},
		&models.Rent{},
		&models.OccasionalPayment{},
		&models.Inventory{},
		&models.Notification{},
	)
}

// seedAdmin creates the initial admin account from ADMIN_EMAIL/ADMIN_PASSWORD
// when the users table has no matching row yet.
func seedAdmin(db *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var count int64
	db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Println("could not hash admin password:", err)
		return
	}

	admin := models.User{Email: email, Password: string(hashed), Role: "super_admin"}
	if err := db.Create(&admin).Error; err != nil {
		log.Println("could not seed admin user:", err)
	}
}

func InitializeDB() *gorm.DB {
	db := connectToDB()
	performMigrations(db)
	seedAdmin(db)
	return db
}
