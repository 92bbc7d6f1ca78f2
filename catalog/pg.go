package catalog

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/imkonsowa/restaurant-recommender/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func OpenPostgres(connStr string) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return db, nil
}

// LoadPostgres reads the whole restaurants table in id order, which defines catalog order.
func LoadPostgres(ctx context.Context, db *gorm.DB) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	if err := db.WithContext(ctx).Order("id").Find(&restaurants).Error; err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}

	return restaurants, nil
}

// Import writes records into the restaurants table in a single transaction.
func Import(ctx context.Context, db *gorm.DB, records []models.Restaurant, batchSize int, truncate bool) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if truncate {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Restaurant{}).Error; err != nil {
				return fmt.Errorf("failed to clear restaurants: %w", err)
			}
		}

		if len(records) == 0 {
			return nil
		}

		if err := tx.CreateInBatches(records, batchSize).Error; err != nil {
			return fmt.Errorf("failed to create restaurants: %w", err)
		}

		return nil
	})
}
