package repository

import (
	"context"

	"gorm.io/gorm"
)

// CounterRepository hands out the next integer for a key. Values are never
// reused, even when the transaction that minted them later cancels its booking.
type CounterRepository interface {
	Next(ctx context.Context, tx *gorm.DB, key string) (int64, error)
}

type counterRepository struct{}

func NewCounterRepository() CounterRepository {
	return &counterRepository{}
}

func (r *counterRepository) Next(ctx context.Context, tx *gorm.DB, key string) (int64, error) {
	var value int64
	err := tx.WithContext(ctx).Raw(`
		INSERT INTO counters (key, value) VALUES (?, 1)
		ON CONFLICT (key) DO UPDATE SET value = counters.value + 1
		RETURNING value
	`, key).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}
