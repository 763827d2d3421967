package handler

import (
	"net/http"

	"github.com/Eursukkul/homestay-service/internal/dto"
	"github.com/Eursukkul/homestay-service/internal/service"
	"github.com/labstack/echo/v4"
)

type DashboardHandler struct {
	svc service.DashboardService
}

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/dashboard/daily", h.Daily)
}

func (h *DashboardHandler) Daily(c echo.Context) error {
	houseIDs, err := parseIDList(c.QueryParam("houseIds"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	summary, err := h.svc.Daily(c.Request().Context(), c.QueryParam("date"), houseIDs)
	if err != nil {
		return httpError(err, http.StatusBadRequest)
	}

	return c.JSON(http.StatusOK, dto.ToDailyResponse(summary))
}
