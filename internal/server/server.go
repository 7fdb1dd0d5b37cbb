package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Rathna12Thyagu/stake-tracker/internal/config"
	"github.com/Rathna12Thyagu/stake-tracker/internal/feed"
	"github.com/Rathna12Thyagu/stake-tracker/internal/portfolio"
	"github.com/Rathna12Thyagu/stake-tracker/internal/quote"
)

//go:embed templates/dashboard.html
var templateFiles embed.FS

type Server struct {
	echo              *echo.Echo
	config            *config.Config
	source            quote.Source
	tracker           *feed.Tracker
	book              portfolio.Book
	clock             clockwork.Clock
	limiter           *ConnectionLimiter
	dashboardTemplate *template.Template
	startTime         time.Time
}

func NewServer(cfg *config.Config, source quote.Source, tracker *feed.Tracker, book portfolio.Book, clock clockwork.Clock) (*Server, error) {
	dashboardTmpl, err := template.ParseFS(templateFiles, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	srv := &Server{
		echo:              e,
		config:            cfg,
		source:            source,
		tracker:           tracker,
		book:              book,
		clock:             clock,
		limiter:           NewConnectionLimiter(int64(cfg.MaxConnections)),
		dashboardTemplate: dashboardTmpl,
		startTime:         clock.Now(),
	}

	srv.registerRoutes()

	return srv, nil
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
