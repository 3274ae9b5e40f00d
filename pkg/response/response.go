package response

// Meta carries result-set bookkeeping alongside the data payload. The
// pre/post filter counts let a client tell "no data in range" apart from
// "everything filtered out".
type Meta struct {
	Page            int `json:"page,omitempty"`
	Limit           int `json:"limit,omitempty"`
	TotalRows       int `json:"total_rows"`
	PreFilterCount  int `json:"pre_filter_count"`
	PostFilterCount int `json:"post_filter_count"`
}

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Meta       *Meta       `json:"meta,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// SuccessWithMeta returns a success response carrying result-set metadata
func SuccessWithMeta(statusCode int, data interface{}, meta Meta) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
		Meta:       &meta,
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}
