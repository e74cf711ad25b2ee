package database

import (
	"fmt"
	"os"

	"courier-desk/logger"
	logModel "courier-desk/models/log"
	parcelModel "courier-desk/models/parcel"
	paymentModel "courier-desk/models/payment"
	userModel "courier-desk/models/user"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the PostgreSQL connection, migrates the schema and creates
// the supporting indexes.
func InitDB() (*gorm.DB, error) {
	if err := godotenv.Load(); err != nil {
		logger.Warning("No .env file found, reading configuration from environment")
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	user := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE")

	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslmode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := AutoMigrate(db); err != nil {
		logger.Error("Failed to migrate database schema", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := createIndexes(db); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return db, nil
}

// AutoMigrate runs schema migration for all models, dependencies first.
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&userModel.User{},
		&parcelModel.Parcel{},
		&parcelModel.StatusLog{},
		&paymentModel.Payment{},
		&logModel.Log{},
	}

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes(db *gorm.DB) error {
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_parcels_delivery_status ON parcels(delivery_status)").Error; err != nil {
		return fmt.Errorf("failed to create parcel delivery_status index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_parcels_payment ON parcels(payment_method, payment_status)").Error; err != nil {
		return fmt.Errorf("failed to create parcel payment index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create log created_at index: %w", err)
	}

	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
