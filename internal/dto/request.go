package dto

import "time"

type CreateHouseRequest struct {
	Code    string `json:"code" validate:"required,max=32"`
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
}

type CreateRoomRequest struct {
	HouseID uint   `json:"houseId" validate:"required"`
	Code    string `json:"code" validate:"required,max=32"`
	Name    string `json:"name"`
	Type    string `json:"type" validate:"omitempty,oneof=Standard VIP standard vip"`
	State   string `json:"state" validate:"omitempty,oneof=active inactive maintenance"`
}

// CreateBookingRequest carries dates as YYYY-MM-DD or RFC3339; the service
// resolves them against the configured check-in/check-out hours.
type CreateBookingRequest struct {
	RoomID         uint     `json:"roomId" validate:"required"`
	CustomerName   string   `json:"customerName" validate:"required"`
	CustomerPhone  string   `json:"customerPhone"`
	CheckInDate    string   `json:"checkInDate" validate:"required"`
	CheckInHour    *int     `json:"checkInHour" validate:"omitempty,min=0,max=23"`
	CheckInMinute  *int     `json:"checkInMinute" validate:"omitempty,min=0,max=59"`
	CheckOutDate   string   `json:"checkOutDate" validate:"required"`
	CheckOutHour   *int     `json:"checkOutHour" validate:"omitempty,min=0,max=23"`
	CheckOutMinute *int     `json:"checkOutMinute" validate:"omitempty,min=0,max=59"`
	Price          *float64 `json:"price" validate:"omitempty,gte=0"`
	Source         string   `json:"source"`
	PaymentStatus  string   `json:"paymentStatus" validate:"omitempty,oneof=unpaid deposit paid"`
	Note           string   `json:"note"`
}

type UpdateBookingRequest struct {
	RoomID         *uint    `json:"roomId" validate:"omitempty,gt=0"`
	CustomerName   *string  `json:"customerName" validate:"omitempty,min=1"`
	CustomerPhone  *string  `json:"customerPhone"`
	CheckInDate    *string  `json:"checkInDate"`
	CheckInHour    *int     `json:"checkInHour" validate:"omitempty,min=0,max=23"`
	CheckInMinute  *int     `json:"checkInMinute" validate:"omitempty,min=0,max=59"`
	CheckOutDate   *string  `json:"checkOutDate"`
	CheckOutHour   *int     `json:"checkOutHour" validate:"omitempty,min=0,max=23"`
	CheckOutMinute *int     `json:"checkOutMinute" validate:"omitempty,min=0,max=59"`
	Price          *float64 `json:"price" validate:"omitempty,gte=0"`
	Source         *string  `json:"source"`
	PaymentStatus  *string  `json:"paymentStatus"`
	Note           *string  `json:"note"`
	Status         *string  `json:"status"`
}

type RoomStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SetDirtyRequest uses a pointer so a missing flag is distinguishable from false.
type SetDirtyRequest struct {
	IsDirty *bool `json:"isDirty" validate:"required"`
}

// CheckOverlapRequest asks whether a stay would collide with a live booking.
// ExcludeBookingID leaves a booking's own stay out when it is being edited.
type CheckOverlapRequest struct {
	RoomID           uint      `json:"roomId" validate:"required"`
	CheckIn          time.Time `json:"checkIn" validate:"required"`
	CheckOut         time.Time `json:"checkOut" validate:"required,gtfield=CheckIn"`
	ExcludeBookingID uint      `json:"excludeBookingId"`
}

type AvailableRoomsRequest struct {
	HouseID  uint      `json:"houseId" validate:"required"`
	CheckIn  time.Time `json:"checkIn" validate:"required"`
	CheckOut time.Time `json:"checkOut" validate:"required,gtfield=CheckIn"`
}
