package http

import (
	"golang-stock-advisor/internal/advisor/service"
	"golang-stock-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewServer wires the HTML pages and the /api/v1 JSON routes onto a new Echo instance.
func NewServer(advisorSvc service.AdvisorService, marketSvc service.MarketService, recordSvc service.RecordService, log *logger.Logger) (*echo.Echo, error) {
	renderer, err := NewTemplateRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Use(middleware.Recover())
	e.Use(RequestID())
	e.Use(RequestLogger(log))

	NewPageHandler(advisorSvc, recordSvc, log).RegisterRoutes(e)

	apiV1 := e.Group("/api/v1")
	NewAdviceHandler(advisorSvc, marketSvc, log).RegisterRoutes(apiV1)

	recordHandler := NewRecordHandler(recordSvc, log)
	recordHandler.RegisterRoutes(apiV1.Group("/records"))
	recordHandler.RegisterHealthRoute(apiV1)

	return e, nil
}
