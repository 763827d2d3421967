package models

// Counter backs the "next integer for key" sequence used for order codes.
type Counter struct {
	Key   string `gorm:"primaryKey;type:varchar(64)"`
	Value int64  `gorm:"not null;default:0"`
}
