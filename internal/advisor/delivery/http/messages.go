package http

import (
	"errors"
	"net/http"

	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/advisor/service"
)

const (
	msgMissingInputs         = "Please enter all required trading inputs."
	msgMissingRetrieveInputs = "Please enter the required inputs to retrieve previous analysis."
	msgGenerationFailed      = "Failed to generate analysis and advice. Please try again."
	msgGenerateFirst         = "Please generate the analysis and advice first before saving."
	msgSaved                 = "Analysis and advice saved successfully!"
	msgNoPrevious            = "No previous analysis found for these parameters."
	msgStoreUnavailable      = "Table 'analysis_data' could not be created. Please check your database setup."
	msgStoreError            = "An error occurred while accessing the stored analysis."
)

// adviceErrorStatus maps advisor and market errors to a status code and a user-facing message.
func adviceErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		if errors.Unwrap(err) == nil {
			return http.StatusBadRequest, msgMissingInputs
		}
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidChartKind):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrMissingContent):
		return http.StatusBadRequest, msgGenerateFirst
	case errors.Is(err, service.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, msgStoreUnavailable
	case errors.Is(err, service.ErrGenerationFailed):
		return http.StatusBadGateway, msgGenerationFailed
	case errors.Is(err, repository.ErrNoData):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusBadGateway, err.Error()
	}
}
