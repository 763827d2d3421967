package models

import (
	"strings"
	"time"

	"github.com/Eursukkul/homestay-service/internal/occupancy"
)

type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusCheckedIn  BookingStatus = "checkedin"
	StatusCheckedOut BookingStatus = "checkedout"
)

// transitions lists the allowed lifecycle moves.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCheckedIn},
	StatusCheckedIn: {StatusCheckedOut},
}

// ParseBookingStatus accepts the lifecycle labels plus the legacy aliases
// "success" and "checked-in"/"checked-out".
func ParseBookingStatus(raw string) (BookingStatus, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	switch s {
	case "pending":
		return StatusPending, true
	case "confirmed", "success":
		return StatusConfirmed, true
	case "cancelled", "canceled":
		return StatusCancelled, true
	case "checkedin":
		return StatusCheckedIn, true
	case "checkedout":
		return StatusCheckedOut, true
	}
	return "", false
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal statuses accept no further edits.
func (s BookingStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCheckedOut
}

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentDeposit PaymentStatus = "deposit"
	PaymentPaid    PaymentStatus = "paid"
)

func ValidPaymentStatus(p PaymentStatus) bool {
	switch p {
	case PaymentUnpaid, PaymentDeposit, PaymentPaid:
		return true
	}
	return false
}

type Booking struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	HouseID       uint          `gorm:"not null;index" json:"house_id"`
	RoomID        uint          `gorm:"not null;index:idx_booking_room_window,priority:1" json:"room_id"`
	OrderCode     string        `gorm:"type:varchar(32);not null;uniqueIndex" json:"order_code"`
	OrderSeq      int64         `gorm:"not null" json:"order_seq"`
	CustomerName  string        `gorm:"not null" json:"customer_name"`
	CustomerPhone string        `gorm:"type:varchar(32)" json:"customer_phone"`
	CheckIn       time.Time     `gorm:"not null;index:idx_booking_room_window,priority:2" json:"check_in"`
	CheckOut      time.Time     `gorm:"not null;index:idx_booking_room_window,priority:3" json:"check_out"`
	Status        BookingStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Price         float64       `gorm:"not null;default:0" json:"price"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`
	Note          string        `gorm:"type:text" json:"note"`
	Source        string        `gorm:"type:varchar(32);not null;default:'direct'" json:"source"`
	CancelledAt   *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	Room *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

func (b *Booking) Window() occupancy.Window {
	return occupancy.Window{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}
