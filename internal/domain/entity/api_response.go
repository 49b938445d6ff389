package entity

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Upstream is the Clicksign error kind when the failure came from the API.
	Upstream string `json:"upstream,omitempty"`
}

func NewSuccessResponse(data interface{}, message string) *APIResponse {
	return &APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(code string, message string) *APIResponse {
	return &APIResponse{
		Success: false,
		Message: message,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
	}
}

// NewUpstreamErrorResponse is NewErrorResponse for failures reported by
// Clicksign.
func NewUpstreamErrorResponse(code, upstream, message string) *APIResponse {
	resp := NewErrorResponse(code, message)
	resp.Error.Upstream = upstream
	return resp
}
