package handler

import (
	"net/http"

	"github.com/Eursukkul/homestay-service/internal/dto"
	"github.com/Eursukkul/homestay-service/internal/occupancy"
	"github.com/Eursukkul/homestay-service/internal/service"
	"github.com/labstack/echo/v4"
)

type RoomHandler struct {
	svc service.RoomService
}

func NewRoomHandler(svc service.RoomService) *RoomHandler {
	return &RoomHandler{svc: svc}
}

func (h *RoomHandler) RegisterRoutes(g *echo.Group) {
	rooms := g.Group("/rooms")
	rooms.POST("", h.CreateRoom)
	rooms.GET("", h.ListRooms)
	// static segments registered before /:id
	rooms.GET("/room-map", h.RoomMap)
	rooms.GET("/room-stats", h.RoomStats)
	rooms.POST("/available", h.AvailableRooms)
	rooms.GET("/:id", h.GetRoom)
	rooms.DELETE("/:id", h.DeleteRoom)
	rooms.PUT("/:id/status", h.MarkStatus)
	rooms.PATCH("/:id/dirty", h.SetDirty)
}

func (h *RoomHandler) CreateRoom(c echo.Context) error {
	var req dto.CreateRoomRequest
	if err := bindAndValidate(c, &req, http.StatusBadRequest); err != nil {
		return err
	}

	room, err := h.svc.CreateRoom(c.Request().Context(), service.CreateRoomInput{
		HouseID: req.HouseID,
		Code:    req.Code,
		Name:    req.Name,
		Type:    req.Type,
		State:   req.State,
	})
	if err != nil {
		return httpError(err, http.StatusBadRequest)
	}

	return c.JSON(http.StatusCreated, dto.ToRoomResponse(room))
}

func (h *RoomHandler) ListRooms(c echo.Context) error {
	houseIDs, err := parseIDList(c.QueryParam("houseIds"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rooms, err := h.svc.ListRooms(c.Request().Context(), houseIDs)
	if err != nil {
		return httpError(err, http.StatusBadRequest)
	}

	return c.JSON(http.StatusOK, dto.ToRoomResponses(rooms))
}

func (h *RoomHandler) GetRoom(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid room id")
	}

	room, err := h.svc.GetRoom(c.Request().Context(), id)
	if err != nil {
		return httpError(err, http.StatusBadRequest)
	}

	return c.JSON(http.StatusOK, dto.ToRoomResponse(room))
}

func (h *RoomHandler) DeleteRoom(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid room id")
	}

	if err := h.svc.DeleteRoom(c.Request().Context(), id); err != nil {
		return httpError(err, http.StatusBadRequest)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *RoomHandler) RoomMap(c echo.Context) error {
	var filter service.RoomMapFilter

	houseIDs, err := parseIDList(c.QueryParam("houseIds"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	filter.HouseIDs = houseIDs

	if raw := c.QueryParam("status"); raw != "" {
		tag, err := occupancy.ParseTag(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filter.Status = &tag
	}
	if filter.IsDirty, err = parseFlag(c.QueryParam("isDirty")); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	m, err := h.svc.RoomMap(c.Request().Context(), filter)
	if err != nil {
		return httpError(err, http.StatusBadRequest)
	}

	return c.JSON(http.StatusOK, dto.ToRoomMapResponse(m))
}

func (h *RoomHandler) RoomStats(c echo.Context) error {
	houseIDs, err := parseIDList(c.QueryParam("houseIds"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	stats, err := h.svc.Stats(c.Request().Context(), houseIDs)
	if err != nil {
		return httpError(err, http.StatusBadRequest)
	}

	return c.JSON(http.StatusOK, dto.RoomStatsResponse{
		StatusCountsResponse: dto.ToStatusCounts(stats.StatusCounts),
		Reconcile:            dto.ToReconcileResponse(stats.Reconcile),
	})
}

func (h *RoomHandler) AvailableRooms(c echo.Context) error {
	var req dto.AvailableRoomsRequest
	if err := bindAndValidate(c, &req, http.StatusBadRequest); err != nil {
		return err
	}

	rooms, err := h.svc.Available(c.Request().Context(), req.HouseID, occupancy.Window{CheckIn: req.CheckIn, CheckOut: req.CheckOut})
	if err != nil {
		return httpError(err, http.StatusBadRequest)
	}

	return c.JSON(http.StatusOK, dto.ToRoomResponses(rooms))
}

// MarkStatus reconciles first, then sets or clears the dirty tag.
func (h *RoomHandler) MarkStatus(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid room id")
	}
	var req dto.RoomStatusRequest
	if err := bindAndValidate(c, &req, http.StatusBadRequest); err != nil {
		return err
	}

	room, report, err := h.svc.MarkStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return httpError(err, http.StatusBadRequest)
	}

	return c.JSON(http.StatusOK, dto.RoomStatusResponse{
		Room:      dto.ToRoomResponse(room),
		Reconcile: dto.ToReconcileResponse(report),
	})
}

// SetDirty writes the flag directly without reconciling.
func (h *RoomHandler) SetDirty(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid room id")
	}
	var req dto.SetDirtyRequest
	if err := bindAndValidate(c, &req, http.StatusUnprocessableEntity); err != nil {
		return err
	}

	room, err := h.svc.SetDirty(c.Request().Context(), id, *req.IsDirty)
	if err != nil {
		return httpError(err, http.StatusUnprocessableEntity)
	}

	return c.JSON(http.StatusOK, dto.DirtyResponse{ID: room.ID, IsDirty: room.IsDirty})
}
