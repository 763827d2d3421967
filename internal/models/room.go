package models

import (
	"strings"
	"time"

	"github.com/Eursukkul/homestay-service/internal/occupancy"
	"gorm.io/gorm"
)

type RoomType string

const (
	RoomTypeStandard RoomType = "Standard"
	RoomTypeVIP      RoomType = "VIP"
)

// RoomState is the operational state of a room, independent of occupancy.
type RoomState string

const (
	RoomStateActive      RoomState = "active"
	RoomStateInactive    RoomState = "inactive"
	RoomStateMaintenance RoomState = "maintenance"
)

type Room struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	HouseID         uint           `gorm:"not null;index" json:"house_id"`
	Code            string         `gorm:"type:varchar(32);not null" json:"code"`
	CodeNormalized  string         `gorm:"type:varchar(32);not null" json:"-"`
	Name            string         `json:"name"`
	Type            RoomType       `gorm:"type:varchar(20);not null;default:'Standard'" json:"type"`
	State           RoomState      `gorm:"type:varchar(20);not null;default:'active'" json:"state"`
	IsBooked        bool           `gorm:"not null;default:false" json:"is_booked"`
	IsOccupied      bool           `gorm:"not null;default:false" json:"is_occupied"`
	IsDirty         bool           `gorm:"not null;default:false" json:"is_dirty"`
	StatusUpdatedAt *time.Time     `json:"status_updated_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	House *House `gorm:"foreignKey:HouseID" json:"house,omitempty"`
}

// Status returns the canonical status held by the room columns.
func (r Room) Status() occupancy.Status {
	return occupancy.Status{Booked: r.IsBooked, Occupied: r.IsOccupied, Dirty: r.IsDirty}
}

// NormalizeRoomCode is the form used for per-house uniqueness.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), ""))
}

func ValidRoomType(t RoomType) bool {
	return t == RoomTypeStandard || t == RoomTypeVIP
}

func ValidRoomState(s RoomState) bool {
	switch s {
	case RoomStateActive, RoomStateInactive, RoomStateMaintenance:
		return true
	}
	return false
}
