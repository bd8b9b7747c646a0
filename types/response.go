package types

// ApiResponse is the uniform envelope for every endpoint.
type ApiResponse struct {
	StatusCode   int         `json:"status_code"`
	Success      bool        `json:"success"`
	ErrorMessage string      `json:"error_message"`
	Result       interface{} `json:"result,omitempty"`
}

// LogEntry carries one request/response record to the async logger.
type LogEntry struct {
	Method       string
	URL          string
	RequestBody  string
	ResponseBody string
	StatusCode   int
}
