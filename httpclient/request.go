package httpclient

import (
	"encoding/json"
	"fmt"
)

// Request is one outbound call made through an Adapter.
type Request struct {
	Method string
	// Path is joined to Config.BaseURL unless it is already absolute.
	Path string
	// Headers override the adapter defaults for this call.
	Headers map[string]string
	Query   map[string]string
	// Body may be an io.Reader, []byte or string; anything else is sent as JSON.
	Body any
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	// Headers keeps the first value of each header.
	Headers map[string]string
	Body    []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode/100 == 2
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
