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

// RecordHandler handles HTTP requests for stored analysis records.
type RecordHandler struct {
	recordService service.RecordService
	logger        *logger.Logger
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(recordService service.RecordService, logger *logger.Logger) *RecordHandler {
	return &RecordHandler{recordService: recordService, logger: logger}
}

// RegisterRoutes registers the record routes to the Echo group.
func (h *RecordHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.SaveRecord)
	g.GET("", h.GetRecord)
	g.GET("/all", h.ListRecords)
	g.PUT("", h.UpdateRecord)
	g.DELETE("", h.DeleteRecord)
}

// RegisterHealthRoute registers the health check.
func (h *RecordHandler) RegisterHealthRoute(g *echo.Group) {
	g.GET("/health", h.Health)
}

// SaveRecord godoc
// @Summary Save content
// @Description Insert a new record; duplicates of (topic, parameters) are allowed
// @Tags records
// @Accept  json
// @Produce  json
// @Param   record  body    dto.RecordRequest   true    "Record to save"
// @Success 201 {object} dto.RecordResponse
// @Failure 400 {object} dto.RecordResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /records [post]
func (h *RecordHandler) SaveRecord(c echo.Context) error {
	var req dto.RecordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	result, err := h.recordService.Save(c.Request().Context(), req)
	if err != nil {
		return storeUnavailable(c, err)
	}
	return c.JSON(statusFor(result, http.StatusCreated), service.ToRecordResponse(result))
}

// GetRecord godoc
// @Summary Retrieve content
// @Description Get the content of the earliest record matching topic and parameters
// @Tags records
// @Produce  json
// @Param   topic       query   string  true    "Topic"
// @Param   parameters  query   string  true    "Parameters"
// @Success 200 {object} dto.RecordResponse
// @Failure 404 {object} dto.RecordResponse
// @Router /records [get]
func (h *RecordHandler) GetRecord(c echo.Context) error {
	var req dto.RecordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request parameters"})
	}

	result, err := h.recordService.Retrieve(c.Request().Context(), req)
	if err != nil {
		return storeUnavailable(c, err)
	}
	return c.JSON(statusFor(result, http.StatusOK), service.ToRecordResponse(result))
}

// ListRecords godoc
// @Summary List all records
// @Tags records
// @Produce  json
// @Success 200 {array} entity.AnalysisRecord
// @Router /records/all [get]
func (h *RecordHandler) ListRecords(c echo.Context) error {
	records, err := h.recordService.ListAll(c.Request().Context())
	if err != nil {
		return storeUnavailable(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

// UpdateRecord godoc
// @Summary Update content
// @Description Replace the content of every record matching topic and parameters
// @Tags records
// @Accept  json
// @Produce  json
// @Param   record  body    dto.RecordRequest   true    "Record to update"
// @Success 200 {object} dto.RecordResponse
// @Failure 404 {object} dto.RecordResponse
// @Router /records [put]
func (h *RecordHandler) UpdateRecord(c echo.Context) error {
	var req dto.RecordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	result, err := h.recordService.Update(c.Request().Context(), req)
	if err != nil {
		return storeUnavailable(c, err)
	}
	return c.JSON(statusFor(result, http.StatusOK), service.ToRecordResponse(result))
}

// DeleteRecord godoc
// @Summary Delete content
// @Description Delete every record matching topic and parameters
// @Tags records
// @Produce  json
// @Param   topic       query   string  true    "Topic"
// @Param   parameters  query   string  true    "Parameters"
// @Success 200 {object} dto.RecordResponse
// @Failure 404 {object} dto.RecordResponse
// @Router /records [delete]
func (h *RecordHandler) DeleteRecord(c echo.Context) error {
	var req dto.RecordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request parameters"})
	}

	result, err := h.recordService.Delete(c.Request().Context(), req)
	if err != nil {
		return storeUnavailable(c, err)
	}
	return c.JSON(statusFor(result, http.StatusOK), service.ToRecordResponse(result))
}

// Health godoc
// @Summary Health check
// @Produce  json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *RecordHandler) Health(c echo.Context) error {
	health := h.recordService.Health(c.Request().Context())
	if !health.SchemaExists {
		return c.JSON(http.StatusServiceUnavailable, health)
	}
	return c.JSON(http.StatusOK, health)
}

func statusFor(result repository.Result, okStatus int) int {
	switch {
	case result.OK():
		return okStatus
	case result.NotFound():
		return http.StatusNotFound
	case errors.Is(result.Err, repository.ErrInvalidRecord):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func storeUnavailable(c echo.Context, err error) error {
	if errors.Is(err, service.ErrStoreUnavailable) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": msgStoreUnavailable})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
}
