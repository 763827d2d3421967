package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Eursukkul/homestay-service/internal/locker"
	"github.com/Eursukkul/homestay-service/internal/service"
	"github.com/labstack/echo/v4"
)

// httpError maps service errors onto HTTP status codes. Validation failures use
// badInput (400 for most routes, 422 for the dirty flag).
func httpError(err error, badInput int) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(badInput, verr.Error()).SetInternal(verr)
	case errors.Is(err, service.ErrHouseNotFound),
		errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrBookingNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrBookingOverlap),
		errors.Is(err, service.ErrDuplicateRoomCode),
		errors.Is(err, service.ErrDuplicateHouseCode),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrBookingClosed),
		errors.Is(err, service.ErrConcurrentUpdate):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, locker.ErrLockTimeout):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error()).SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
}

func parseID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func bindAndValidate(c echo.Context, req any, badInput int) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(badInput, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return httpError(err, badInput)
	}
	return nil
}
