package http

import (
	"errors"
	"net/http"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/advisor/service"
	"golang-stock-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

const indexTemplate = "index.html"

var (
	riskOptions    = []string{"Low", "Moderate", "High"}
	horizonOptions = []string{"Short-term", "Long-term"}
)

type pageData struct {
	Request        dto.AdviceRequest
	Periods        []string
	RiskOptions    []string
	HorizonOptions []string
	Advice         *dto.AdviceResponse
	// Content is the advice shown on the page and carried to /save in a hidden field.
	Content      string
	Error        string
	Success      string
	StoreEnabled bool
}

// PageHandler serves the HTML form and its generate, save and retrieve actions.
type PageHandler struct {
	advisorService service.AdvisorService
	recordService  service.RecordService
	logger         *logger.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(advisorService service.AdvisorService, recordService service.RecordService, logger *logger.Logger) *PageHandler {
	return &PageHandler{advisorService: advisorService, recordService: recordService, logger: logger}
}

// RegisterRoutes registers the page routes on the Echo instance.
func (h *PageHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.POST("/generate", h.Generate)
	e.POST("/save", h.Save)
	e.POST("/retrieve", h.Retrieve)
}

func (h *PageHandler) newPage(req dto.AdviceRequest) *pageData {
	if req.RiskTolerance == "" {
		req.RiskTolerance = riskOptions[1]
	}
	if req.InvestmentHorizon == "" {
		req.InvestmentHorizon = horizonOptions[1]
	}
	if req.Period == "" {
		req.Period = service.DefaultPeriod
	}
	return &pageData{
		Request:        req,
		Periods:        repository.ValidPeriods,
		RiskOptions:    riskOptions,
		HorizonOptions: horizonOptions,
		StoreEnabled:   h.recordService.Enabled(),
	}
}

func (h *PageHandler) render(c echo.Context, status int, page *pageData) error {
	return c.Render(status, indexTemplate, page)
}

// Index renders the empty form.
func (h *PageHandler) Index(c echo.Context) error {
	return h.render(c, http.StatusOK, h.newPage(dto.AdviceRequest{}))
}

// Generate runs the advisor and shows the result.
func (h *PageHandler) Generate(c echo.Context) error {
	var req dto.AdviceRequest
	if err := c.Bind(&req); err != nil {
		return h.render(c, http.StatusBadRequest, h.withError(h.newPage(req), msgMissingInputs))
	}
	page := h.newPage(req)

	resp, err := h.advisorService.GenerateAdvice(c.Request().Context(), req)
	if err != nil {
		status, msg := adviceErrorStatus(err)
		return h.render(c, status, h.withError(page, msg))
	}
	page.Advice = resp
	page.Content = resp.Content
	return h.render(c, http.StatusOK, page)
}

// Save stores the advice generated on the page.
func (h *PageHandler) Save(c echo.Context) error {
	var req dto.AdviceRequest
	if err := c.Bind(&req); err != nil {
		return h.render(c, http.StatusBadRequest, h.withError(h.newPage(req), msgMissingInputs))
	}
	page := h.newPage(req)
	page.Content = c.FormValue("content")

	result, err := h.advisorService.SaveAdvice(c.Request().Context(), req, page.Content)
	if err != nil {
		status, msg := adviceErrorStatus(err)
		return h.render(c, status, h.withError(page, msg))
	}
	if !result.OK() {
		return h.render(c, http.StatusInternalServerError, h.withError(page, msgStoreError))
	}
	page.Success = msgSaved
	return h.render(c, http.StatusOK, page)
}

// Retrieve shows previously saved advice for the form inputs.
func (h *PageHandler) Retrieve(c echo.Context) error {
	var req dto.AdviceRequest
	if err := c.Bind(&req); err != nil {
		return h.render(c, http.StatusBadRequest, h.withError(h.newPage(req), msgMissingRetrieveInputs))
	}
	page := h.newPage(req)

	result, err := h.advisorService.RetrieveAdvice(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return h.render(c, http.StatusBadRequest, h.withError(page, msgMissingRetrieveInputs))
		}
		status, msg := adviceErrorStatus(err)
		return h.render(c, status, h.withError(page, msg))
	}
	switch {
	case result.NotFound():
		return h.render(c, http.StatusNotFound, h.withError(page, msgNoPrevious))
	case result.Failed():
		return h.render(c, http.StatusInternalServerError, h.withError(page, msgStoreError))
	}
	page.Content = result.Content
	return h.render(c, http.StatusOK, page)
}

func (h *PageHandler) withError(page *pageData, msg string) *pageData {
	page.Error = msg
	return page
}
