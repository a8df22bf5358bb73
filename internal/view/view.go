package view

// Response is the envelope every endpoint returns: payload on success,
// error string plus the offending request on failure.
type Response[T any] struct {
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Request any    `json:"request,omitempty"`
}

// MessageResponse documents the success envelope in swagger annotations.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse documents the failure envelope in swagger annotations.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func CreateResponse[T any](data T, err error, request any, message string) Response[T] {
	resp := Response[T]{
		Data:    data,
		Message: message,
		Request: request,
	}
	if err != nil {
		resp.Error = err.Error()
	}

	return resp
}
