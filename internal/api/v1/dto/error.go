package dto

// ErrorResponse is the body of every non-2xx answer except 429.
type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
