package dto

// RecordRequest addresses stored content by topic and parameters.
type RecordRequest struct {
	Topic      string `json:"topic" query:"topic" form:"topic"`
	Parameters string `json:"parameters" query:"parameters" form:"parameters"`
	Content    string `json:"content" form:"content"`
}

// RecordResponse reports the outcome of a record operation.
type RecordResponse struct {
	Outcome string `json:"outcome"`
	Message string `json:"message"`
	Content string `json:"content,omitempty"`
}

// HealthResponse reports whether the record store is usable.
type HealthResponse struct {
	Status       string `json:"status"`
	SchemaExists bool   `json:"schema_exists"`
}

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}
