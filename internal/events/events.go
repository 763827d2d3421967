// Package events defines the messages exchanged over the broker.
package events

import "time"

const (
	BookingCreated   = "booking.created"
	BookingUpdated   = "booking.updated"
	BookingCancelled = "booking.cancelled"
	RoomDirtyChanged = "room.dirty_changed"
)

type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  uint      `json:"booking_id"`
	OrderCode  string    `json:"order_code"`
	HouseID    uint      `json:"house_id"`
	RoomID     uint      `json:"room_id"`
	Status     string    `json:"status"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	OccurredAt time.Time `json:"occurred_at"`
}

type RoomEvent struct {
	Type       string    `json:"type"`
	RoomID     uint      `json:"room_id"`
	HouseID    uint      `json:"house_id"`
	IsDirty    bool      `json:"is_dirty"`
	OccurredAt time.Time `json:"occurred_at"`
}
