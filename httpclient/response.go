package httpclient

import (
	"strings"

	"github.com/tidwall/gjson"
)

const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusNotFound            = 404
	StatusRequestTimeout      = 408
	StatusInternalServerError = 500
)

// Response is the result of dispatching a Request.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// NewResponse builds a response, copying headers so the caller may reuse
// its map.
func NewResponse(status int, body string, headers map[string]string) *Response {
	h := make(map[string]string, len(headers))
	for k, v := range headers {
		h[k] = v
	}
	return &Response{StatusCode: status, Headers: h, Body: body}
}

// Header looks up a header case-insensitively.
func (r *Response) Header(key string) string {
	if v, ok := r.Headers[key]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsJSON() bool {
	return strings.Contains(r.ContentType(), "application/json")
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500
}

// Field reads a value from a JSON body using a gjson path such as
// "message" or "received_headers.X-Trace".
func (r *Response) Field(path string) gjson.Result {
	return gjson.Get(r.Body, path)
}
