package dto

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// ValidationErrorResponse carries field-level messages for 422 responses.
type ValidationErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
