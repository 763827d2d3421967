package dto

import (
	"time"

	"github.com/Eursukkul/homestay-service/internal/models"
	"github.com/Eursukkul/homestay-service/internal/occupancy"
	"github.com/Eursukkul/homestay-service/internal/service"
)

type HouseResponse struct {
	ID        uint      `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

// RoomResponse exposes both status shapes: the tag set and the single
// occupancy value with a separate dirty flag.
type RoomResponse struct {
	ID              uint                `json:"id"`
	HouseID         uint                `json:"houseId"`
	Code            string              `json:"code"`
	Name            string              `json:"name"`
	Type            models.RoomType     `json:"type"`
	State           models.RoomState    `json:"state"`
	Status          []occupancy.Tag     `json:"status"`
	Occupancy       occupancy.Occupancy `json:"occupancy"`
	IsDirty         bool                `json:"isDirty"`
	StatusUpdatedAt *time.Time          `json:"statusUpdatedAt,omitempty"`
}

type DirtyResponse struct {
	ID      uint `json:"id"`
	IsDirty bool `json:"isDirty"`
}

type BookingResponse struct {
	ID            uint                 `json:"id"`
	OrderCode     string               `json:"orderCode"`
	HouseID       uint                 `json:"houseId"`
	RoomID        uint                 `json:"roomId"`
	CustomerName  string               `json:"customerName"`
	CustomerPhone string               `json:"customerPhone,omitempty"`
	CheckIn       time.Time            `json:"checkIn"`
	CheckOut      time.Time            `json:"checkOut"`
	Nights        int                  `json:"nights"`
	Status        models.BookingStatus `json:"status"`
	Price         float64              `json:"price"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	Source        string               `json:"source"`
	Note          string               `json:"note,omitempty"`
	CancelledAt   *time.Time           `json:"cancelledAt,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

type CancelResponse struct {
	OK     bool                 `json:"ok"`
	Status models.BookingStatus `json:"status"`
}

type OverlapResponse struct {
	Overlap bool `json:"overlap"`
}

type StatusCountsResponse struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Booked    int `json:"booked"`
	Occupied  int `json:"occupied"`
	Dirty     int `json:"dirty"`
}

type ReconcileResponse struct {
	Rooms   int `json:"rooms"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

type HouseRoomsResponse struct {
	House  HouseResponse        `json:"house"`
	Counts StatusCountsResponse `json:"counts"`
	Rooms  []RoomResponse       `json:"rooms"`
}

type RoomMapResponse struct {
	Houses    []HouseRoomsResponse `json:"houses"`
	Counts    StatusCountsResponse `json:"counts"`
	Reconcile ReconcileResponse    `json:"reconcile"`
}

type RoomStatsResponse struct {
	StatusCountsResponse
	Reconcile ReconcileResponse `json:"reconcile"`
}

type RoomStatusResponse struct {
	Room      RoomResponse      `json:"room"`
	Reconcile ReconcileResponse `json:"reconcile"`
}

type DailyResponse struct {
	Date          string               `json:"date"`
	Stats         StatusCountsResponse `json:"stats"`
	ActiveRooms   int                  `json:"activeRooms"`
	OccupancyRate float64              `json:"occupancyRate"`
	Revenue       float64              `json:"revenue"`
	Arrivals      []BookingResponse    `json:"arrivals"`
	Departures    []BookingResponse    `json:"departures"`
	InHouse       []BookingResponse    `json:"inHouse"`
	Reconcile     ReconcileResponse    `json:"reconcile"`
}

type ErrorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func ToHouseResponse(h *models.House) HouseResponse {
	return HouseResponse{
		ID:        h.ID,
		Code:      h.Code,
		Name:      h.Name,
		Address:   h.Address,
		CreatedAt: h.CreatedAt,
	}
}

func ToRoomResponse(r *models.Room) RoomResponse {
	st := r.Status()
	return RoomResponse{
		ID:              r.ID,
		HouseID:         r.HouseID,
		Code:            r.Code,
		Name:            r.Name,
		Type:            r.Type,
		State:           r.State,
		Status:          st.Tags(),
		Occupancy:       st.Occupancy(),
		IsDirty:         st.Dirty,
		StatusUpdatedAt: r.StatusUpdatedAt,
	}
}

func ToRoomResponses(rooms []models.Room) []RoomResponse {
	out := make([]RoomResponse, 0, len(rooms))
	for i := range rooms {
		out = append(out, ToRoomResponse(&rooms[i]))
	}
	return out
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		OrderCode:     b.OrderCode,
		HouseID:       b.HouseID,
		RoomID:        b.RoomID,
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
		CheckIn:       b.CheckIn,
		CheckOut:      b.CheckOut,
		Nights:        b.Window().Nights(),
		Status:        b.Status,
		Price:         b.Price,
		PaymentStatus: b.PaymentStatus,
		Source:        b.Source,
		Note:          b.Note,
		CancelledAt:   b.CancelledAt,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func ToBookingResponses(bookings []models.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, ToBookingResponse(&bookings[i]))
	}
	return out
}

func ToStatusCounts(c service.StatusCounts) StatusCountsResponse {
	return StatusCountsResponse(c)
}

func ToReconcileResponse(r service.ReconcileReport) ReconcileResponse {
	return ReconcileResponse{Rooms: r.Rooms, Updated: r.Updated, Failed: r.Failed()}
}

func ToRoomMapResponse(m *service.RoomMap) RoomMapResponse {
	resp := RoomMapResponse{
		Houses:    make([]HouseRoomsResponse, 0, len(m.Houses)),
		Counts:    ToStatusCounts(m.Counts),
		Reconcile: ToReconcileResponse(m.Reconcile),
	}
	for i := range m.Houses {
		h := &m.Houses[i]
		resp.Houses = append(resp.Houses, HouseRoomsResponse{
			House:  ToHouseResponse(&h.House),
			Counts: ToStatusCounts(h.Counts),
			Rooms:  ToRoomResponses(h.Rooms),
		})
	}
	return resp
}

func ToDailyResponse(d *service.DailySummary) DailyResponse {
	return DailyResponse{
		Date:          d.Date.Format("2006-01-02"),
		Stats:         ToStatusCounts(d.Stats),
		ActiveRooms:   d.ActiveRooms,
		OccupancyRate: d.OccupancyRate,
		Revenue:       d.Revenue,
		Arrivals:      ToBookingResponses(d.Arrivals),
		Departures:    ToBookingResponses(d.Departures),
		InHouse:       ToBookingResponses(d.InHouse),
		Reconcile:     ToReconcileResponse(d.Reconcile),
	}
}
