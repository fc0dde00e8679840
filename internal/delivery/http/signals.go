package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupSignals(base *echo.Group) {
	signalsGroup := base.Group("/signals")
	signalsGroup.GET("", h.getSignals)
	signalsGroup.POST("/scan", h.triggerScan)
}

// getSignals returns the cached result of the most recent scan.
func (h *HttpAPIHandler) getSignals(c echo.Context) error {
	signals := h.service.ScannerService.LatestSignals()
	if signals == nil {
		return c.JSON(http.StatusOK, []interface{}{})
	}
	return c.JSON(http.StatusOK, signals)
}

// triggerScan runs a watchlist scan synchronously and returns the signals.
func (h *HttpAPIHandler) triggerScan(c echo.Context) error {
	ctx := c.Request().Context()

	signals, err := h.service.ScannerService.Scan(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "scan failed"})
	}
	return c.JSON(http.StatusOK, signals)
}
