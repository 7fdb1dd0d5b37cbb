package server

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"strconv"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleDashboard(c echo.Context) error {
	valuation := s.book.Valuate(0)

	positions, err := json.Marshal(valuation.Positions)
	if err != nil {
		slog.Error("Failed to marshal positions", "error", err)
		return c.String(500, "Failed to render dashboard")
	}

	data := map[string]any{
		"Symbol":           s.config.Symbol,
		"WSHost":           c.Request().Host,
		"TotalShares":      s.book.TotalShares,
		"AvgPrice":         s.book.AvgPrice.String(),
		"TotalInvestment":  s.book.TotalInvestment().String(),
		"ReconnectDelayMS": s.config.ReconnectDelay.Milliseconds(),
		"PositionsJSON":    template.JS(positions),
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(200)
	return s.dashboardTemplate.Execute(c.Response(), data)
}

// handlePortfolio marks the book at the tracker's last price, or at an
// explicit ?price= override. Before the first successful fetch (and without
// an override) it returns 404: there is nothing to value yet.
func (s *Server) handlePortfolio(c echo.Context) error {
	price, _, ok := s.tracker.Snapshot()

	if raw := c.QueryParam("price"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			return c.JSON(400, map[string]string{"error": "price must be a positive number"})
		}
		price, ok = parsed, true
	}

	if !ok {
		return c.JSON(404, map[string]string{"error": "no price available yet"})
	}

	return c.JSON(200, s.book.Valuate(price))
}
