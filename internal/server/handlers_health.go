package server

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Rathna12Thyagu/stake-tracker/internal/version"
)

// handleHealth reports the status surface: last known price and last update
// time, both null until the first successful fetch.
func (s *Server) handleHealth(c echo.Context) error {
	var (
		lastPrice  *float64
		lastUpdate *string
	)
	if price, updatedAt, ok := s.tracker.Snapshot(); ok {
		lastPrice = &price
		formatted := updatedAt.UTC().Format(time.RFC3339)
		lastUpdate = &formatted
	}

	return c.JSON(200, map[string]any{
		"status":      "healthy",
		"symbol":      s.config.Symbol,
		"last_price":  lastPrice,
		"last_update": lastUpdate,
	})
}

func (s *Server) handleLiveness(c echo.Context) error {
	uptime := s.clock.Since(s.startTime).Seconds()
	return c.JSON(200, map[string]any{
		"status": "ok",
		"uptime": uptime,
	})
}

func (s *Server) handleVersion(c echo.Context) error {
	return c.JSON(200, version.Get())
}
