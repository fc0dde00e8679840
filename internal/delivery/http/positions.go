package http

import (
	"net/http"
	"strconv"

	"stock-strategy/internal/service"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupPositions(base *echo.Group) {
	positionsGroup := base.Group("/positions")
	positionsGroup.GET("", h.getPositions)
	positionsGroup.GET("/history", h.getPositionHistory)
	positionsGroup.GET("/sectors", h.getSectorBreakdown)
	positionsGroup.POST("", h.openPosition)
	positionsGroup.DELETE("/:symbol", h.closePosition)
}

func (h *HttpAPIHandler) getPositions(c echo.Context) error {
	ctx := c.Request().Context()

	positions, totalValue, err := h.service.PortfolioService.ActivePositions(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load positions"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"positions":   positions,
		"total_value": totalValue,
	})
}

func (h *HttpAPIHandler) getPositionHistory(c echo.Context) error {
	ctx := c.Request().Context()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	positions, err := h.service.PortfolioService.History(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load position history"})
	}
	return c.JSON(http.StatusOK, positions)
}

func (h *HttpAPIHandler) getSectorBreakdown(c echo.Context) error {
	ctx := c.Request().Context()

	breakdown, err := h.service.PortfolioService.SectorBreakdown(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to compute sector breakdown"})
	}
	return c.JSON(http.StatusOK, breakdown)
}

func (h *HttpAPIHandler) openPosition(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(service.OpenPositionRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	position, err := h.service.PortfolioService.OpenPosition(ctx, *req)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, position)
}

func (h *HttpAPIHandler) closePosition(c echo.Context) error {
	ctx := c.Request().Context()

	symbol := c.Param("symbol")
	reasons := c.QueryParam("reasons")
	if reasons == "" {
		reasons = "Manual close"
	}

	position, err := h.service.PortfolioService.ClosePosition(ctx, symbol, reasons)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, position)
}
