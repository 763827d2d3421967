package models

import (
	"time"

	"gorm.io/gorm"
)

type House struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Code      string         `gorm:"type:varchar(32);not null;uniqueIndex" json:"code"`
	Name      string         `gorm:"not null" json:"name"`
	Address   string         `json:"address"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
