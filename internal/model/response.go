package model

// Response is the envelope returned by every endpoint. Data,
// Message, Error and Pagination are omitted when unset so a
// failure body is just {"success":false,"error":"..."}.
type Response struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes a page slice of a larger owned set.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// OK wraps data in a success envelope.
func OK(data any) Response { return Response{Success: true, Data: data} }

// OKMessage wraps data plus a human-readable message.
func OKMessage(data any, msg string) Response {
	return Response{Success: true, Data: data, Message: msg}
}

// Fail builds a failure envelope with the given error string.
func Fail(err string) Response { return Response{Success: false, Error: err} }
