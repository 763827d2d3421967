package database

import (
	"fmt"
	"time"

	"github.com/Eursukkul/homestay-service/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	if err := Migrate(db); err != nil {
		logrus.Fatalf("failed to migrate: %v", err)
	}
	logrus.Info("postgres connected")

	return db
}

// Migrate creates the tables plus the constraints AutoMigrate cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.House{}, &models.Room{}, &models.Counter{}, &models.Booking{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	stmts := []string{
		// Room codes are unique per house among live rooms.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_room_house_code
		ON rooms (house_id, code_normalized)
		WHERE deleted_at IS NULL`,

		`CREATE EXTENSION IF NOT EXISTS btree_gist`,

		// Two non-cancelled bookings of one room may never share an instant.
		`DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap') THEN
				ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
				EXCLUDE USING gist (
					room_id WITH =,
					tstzrange(check_in, check_out, '[)') WITH &&
				) WHERE (status <> 'cancelled');
			END IF;
		END $$`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
