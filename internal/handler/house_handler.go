package handler

import (
	"net/http"

	"github.com/Eursukkul/homestay-service/internal/dto"
	"github.com/Eursukkul/homestay-service/internal/models"
	"github.com/Eursukkul/homestay-service/internal/service"
	"github.com/labstack/echo/v4"
)

type HouseHandler struct {
	svc service.HouseService
}

func NewHouseHandler(svc service.HouseService) *HouseHandler {
	return &HouseHandler{svc: svc}
}

func (h *HouseHandler) RegisterRoutes(g *echo.Group) {
	houses := g.Group("/houses")
	houses.POST("", h.CreateHouse)
	houses.GET("", h.ListHouses)
	houses.GET("/:id", h.GetHouse)
}

func (h *HouseHandler) CreateHouse(c echo.Context) error {
	var req dto.CreateHouseRequest
	if err := bindAndValidate(c, &req, http.StatusBadRequest); err != nil {
		return err
	}

	house := &models.House{Code: req.Code, Name: req.Name, Address: req.Address}
	if err := h.svc.CreateHouse(c.Request().Context(), house); err != nil {
		return httpError(err, http.StatusBadRequest)
	}

	return c.JSON(http.StatusCreated, dto.ToHouseResponse(house))
}

func (h *HouseHandler) GetHouse(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid house id")
	}

	house, err := h.svc.GetHouse(c.Request().Context(), id)
	if err != nil {
		return httpError(err, http.StatusBadRequest)
	}

	return c.JSON(http.StatusOK, dto.ToHouseResponse(house))
}

func (h *HouseHandler) ListHouses(c echo.Context) error {
	houses, err := h.svc.ListHouses(c.Request().Context())
	if err != nil {
		return httpError(err, http.StatusBadRequest)
	}

	resp := make([]dto.HouseResponse, len(houses))
	for i := range houses {
		resp[i] = dto.ToHouseResponse(&houses[i])
	}

	return c.JSON(http.StatusOK, resp)
}
