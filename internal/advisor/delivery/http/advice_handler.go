package http

import (
	"net/http"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/service"
	"golang-stock-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AdviceHandler handles HTTP requests for advice generation and market data.
type AdviceHandler struct {
	advisorService service.AdvisorService
	marketService  service.MarketService
	logger         *logger.Logger
}

// NewAdviceHandler creates a new AdviceHandler.
func NewAdviceHandler(advisorService service.AdvisorService, marketService service.MarketService, logger *logger.Logger) *AdviceHandler {
	return &AdviceHandler{advisorService: advisorService, marketService: marketService, logger: logger}
}

// RegisterRoutes registers the advice and market routes to the Echo group.
func (h *AdviceHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/advice", h.GenerateAdvice)
	g.GET("/market/:symbol", h.GetMarketOverview)
	g.GET("/market/:symbol/chart.png", h.GetChart)
	g.GET("/news/:symbol", h.GetNews)
}

// GenerateAdvice godoc
// @Summary Generate analysis and advice
// @Description Run the analyst and advisor agents over market data and news
// @Tags advice
// @Accept  json
// @Produce  json
// @Param   request  body    dto.AdviceRequest   true    "Trading inputs"
// @Success 200 {object} dto.AdviceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /advice [post]
func (h *AdviceHandler) GenerateAdvice(c echo.Context) error {
	var req dto.AdviceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.advisorService.GenerateAdvice(c.Request().Context(), req)
	if err != nil {
		status, msg := adviceErrorStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, resp)
}

// GetMarketOverview godoc
// @Summary Market data for a symbol
// @Description Price history, latest indicators and fundamentals
// @Tags market
// @Produce  json
// @Param   symbol  path    string  true    "Stock symbol"
// @Param   period  query   string  false   "1mo, 3mo, 6mo, 1y, 5y or 10y"
// @Success 200 {object} dto.MarketOverview
// @Failure 400 {object} dto.ErrorResponse
// @Router /market/{symbol} [get]
func (h *AdviceHandler) GetMarketOverview(c echo.Context) error {
	overview, err := h.marketService.GetOverview(c.Request().Context(), c.Param("symbol"), c.QueryParam("period"))
	if err != nil {
		status, msg := adviceErrorStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, overview)
}

// GetChart godoc
// @Summary Chart for a symbol
// @Tags market
// @Produce  png
// @Param   symbol  path    string  true    "Stock symbol"
// @Param   period  query   string  false   "History period"
// @Param   kind    query   string  false   "price or rsi"
// @Router /market/{symbol}/chart.png [get]
func (h *AdviceHandler) GetChart(c echo.Context) error {
	png, err := h.marketService.RenderChart(c.Request().Context(), c.Param("symbol"), c.QueryParam("period"), c.QueryParam("kind"))
	if err != nil {
		status, msg := adviceErrorStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// GetNews godoc
// @Summary Recent news for a symbol
// @Tags market
// @Produce  json
// @Param   symbol  path    string  true    "Stock symbol"
// @Success 200 {array} dto.NewsArticle
// @Router /news/{symbol} [get]
func (h *AdviceHandler) GetNews(c echo.Context) error {
	news, err := h.marketService.GetNews(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		status, msg := adviceErrorStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, news)
}
