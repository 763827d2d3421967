package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Eursukkul/homestay-service/internal/dto"
	"github.com/Eursukkul/homestay-service/internal/models"
	"github.com/Eursukkul/homestay-service/internal/occupancy"
	"github.com/Eursukkul/homestay-service/internal/repository"
	"github.com/Eursukkul/homestay-service/internal/service"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	svc service.BookingService
	loc *time.Location
}

func NewBookingHandler(svc service.BookingService, loc *time.Location) *BookingHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingHandler{svc: svc, loc: loc}
}

func (h *BookingHandler) RegisterRoutes(g *echo.Group) {
	bookings := g.Group("/bookings")
	bookings.POST("", h.CreateBooking)
	bookings.GET("", h.ListBookings)
	bookings.POST("/check-overlap", h.CheckOverlap)
	bookings.GET("/:id", h.GetBooking)
	bookings.PATCH("/:id", h.UpdateBooking)
	bookings.DELETE("/:id", h.CancelBooking)
	bookings.POST("/:id/confirm", h.transition(models.StatusConfirmed))
	bookings.POST("/:id/check-in", h.transition(models.StatusCheckedIn))
	bookings.POST("/:id/check-out", h.transition(models.StatusCheckedOut))
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := bindAndValidate(c, &req, http.StatusBadRequest); err != nil {
		return err
	}

	booking, err := h.svc.CreateBooking(c.Request().Context(), service.CreateBookingInput{
		RoomID:         req.RoomID,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CheckInDate:    req.CheckInDate,
		CheckInHour:    req.CheckInHour,
		CheckInMinute:  req.CheckInMinute,
		CheckOutDate:   req.CheckOutDate,
		CheckOutHour:   req.CheckOutHour,
		CheckOutMinute: req.CheckOutMinute,
		Price:          req.Price,
		Source:         req.Source,
		PaymentStatus:  req.PaymentStatus,
		Note:           req.Note,
	})
	if err != nil {
		return httpError(err, http.StatusBadRequest)
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}
	var req dto.UpdateBookingRequest
	if err := bindAndValidate(c, &req, http.StatusBadRequest); err != nil {
		return err
	}

	booking, err := h.svc.UpdateBooking(c.Request().Context(), id, service.UpdateBookingInput{
		RoomID:         req.RoomID,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CheckInDate:    req.CheckInDate,
		CheckInHour:    req.CheckInHour,
		CheckInMinute:  req.CheckInMinute,
		CheckOutDate:   req.CheckOutDate,
		CheckOutHour:   req.CheckOutHour,
		CheckOutMinute: req.CheckOutMinute,
		Price:          req.Price,
		Source:         req.Source,
		PaymentStatus:  req.PaymentStatus,
		Note:           req.Note,
		Status:         req.Status,
	})
	if err != nil {
		return httpError(err, http.StatusBadRequest)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

// CancelBooking is the DELETE route; the booking is kept with status cancelled.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, err := h.svc.CancelBooking(c.Request().Context(), id)
	if err != nil {
		return httpError(err, http.StatusBadRequest)
	}

	return c.JSON(http.StatusOK, dto.CancelResponse{OK: true, Status: booking.Status})
}

func (h *BookingHandler) transition(to models.BookingStatus) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseID(c)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
		}
		booking, err := h.svc.TransitionBooking(c.Request().Context(), id, to)
		if err != nil {
			return httpError(err, http.StatusBadRequest)
		}
		return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
	}
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		return httpError(err, http.StatusBadRequest)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

// ListBookings filters by houseIds, roomId, status and a from/to window;
// a booking matches the window when its stay intersects it.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	var filter repository.BookingFilter

	houseIDs, err := parseIDList(c.QueryParam("houseIds"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	filter.HouseIDs = houseIDs

	if raw := c.QueryParam("roomId"); raw != "" {
		roomID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid roomId")
		}
		id := uint(roomID)
		filter.RoomID = &id
	}
	if raw := c.QueryParam("status"); raw != "" {
		st, ok := models.ParseBookingStatus(raw)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		filter.Status = &st
	}
	if filter.CheckOutFrom, err = parseQueryTime(c.QueryParam("from"), h.loc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if filter.CheckInBefore, err = parseQueryTime(c.QueryParam("to"), h.loc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	bookings, err := h.svc.ListBookings(c.Request().Context(), filter)
	if err != nil {
		return httpError(err, http.StatusBadRequest)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}

func (h *BookingHandler) CheckOverlap(c echo.Context) error {
	var req dto.CheckOverlapRequest
	if err := bindAndValidate(c, &req, http.StatusBadRequest); err != nil {
		return err
	}

	window := occupancy.Window{CheckIn: req.CheckIn, CheckOut: req.CheckOut}
	overlap, err := h.svc.CheckOverlap(c.Request().Context(), req.RoomID, window, req.ExcludeBookingID)
	if err != nil {
		return httpError(err, http.StatusBadRequest)
	}

	return c.JSON(http.StatusOK, dto.OverlapResponse{Overlap: overlap})
}
