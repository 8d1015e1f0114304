package storage

import (
	"rentalhouse-server/models"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func connectToDB(dsn string) *gorm.DB {
	if dsn == "" {
		log.Panic().Msg("DB_CONNECTION_STRING is not set in the environment variables")
	}

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if dbError != nil {
		log.Panic().Err(dbError).Msg("Error connecting to the database")
	}

	DB = db
	return db
}

// Migrate creates or updates every table the server uses. Parents go first.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tenant{},
		&models.Owner{},
		&models.Property{},
		&models.PropertyImage{},
		&models.Booking{},
		&models.Payment{},
		&models.Complaint{},
		&models.Review{},
		&models.Message{},
		&models.Notification{},
		&models.AuditLog{},
	)
}

func InitializeDB(dsn string) *gorm.DB {
	db := connectToDB(dsn)
	if err := Migrate(db); err != nil {
		log.Panic().Err(err).Msg("Error migrating the database")
	}
	return db
}
