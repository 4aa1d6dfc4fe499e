// Package mock provides a fixture Dispatcher that answers a fixed table of
// example.com URLs, including a route that simulates server processing time
// and request timeouts.
package mock

import (
	"encoding/json"
	"time"

	"github.com/utkarsh5026/asynchttp/httpclient"
)

const (
	// Host is the only host the fixture answers for.
	Host = "example.com"

	// DefaultProcessingTime is how long the timeout routes pretend to work.
	DefaultProcessingTime = 100 * time.Millisecond

	mockReason = "Request timeout_ exceeded MOCK_PROCESSING_TIME"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithProcessingTime overrides the simulated processing time.
func WithProcessingTime(d time.Duration) Option {
	return func(m *Dispatcher) {
		if d >= 0 {
			m.processingTime = d
		}
	}
}

// WithSleep replaces time.Sleep, mainly for tests.
func WithSleep(sleep func(time.Duration)) Option {
	return func(m *Dispatcher) {
		if sleep != nil {
			m.sleep = sleep
		}
	}
}

// Dispatcher is an httpclient.Dispatcher backed by canned routes. It holds
// no mutable state after New and is safe for concurrent use.
type Dispatcher struct {
	processingTime time.Duration
	sleep          func(time.Duration)
	router         *Router
}

var _ httpclient.Dispatcher = (*Dispatcher)(nil)

// New creates the fixture dispatcher with its default route table.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		processingTime: DefaultProcessingTime,
		sleep:          time.Sleep,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.router = NewRouter(Host)
	d.router.AddRoute(&Route{
		Name:    "timeout",
		Paths:   []string{"/timeout_sync", "/timeout_async", "/timeout_async_waitfor"},
		Handler: d.timeout,
	})
	d.router.AddRoute(&Route{
		Name:    "echo_headers",
		Paths:   []string{"/echo_headers", "/echo_headers_async"},
		Handler: echoHeaders,
	})
	d.router.AddRoute(&Route{
		Name:    "ok",
		Method:  httpclient.MethodGet,
		Paths:   []string{"/ok"},
		Handler: static(httpclient.StatusOK, map[string]string{"message": "GET success"}),
	})
	d.router.AddRoute(&Route{
		Name:    "created",
		Method:  httpclient.MethodGet,
		Paths:   []string{"/created"},
		Handler: static(httpclient.StatusCreated, map[string]string{"message": "Resource created"}),
	})
	d.router.AddRoute(&Route{
		Name:    "submit",
		Method:  httpclient.MethodPost,
		Paths:   []string{"/submit", "/submit_async"},
		Handler: receivedBody(httpclient.StatusOK, "POST to /submit successful"),
	})
	d.router.AddRoute(&Route{
		Name:    "create_resource",
		Method:  httpclient.MethodPost,
		Paths:   []string{"/create_resource"},
		Handler: receivedBody(httpclient.StatusCreated, "Resource created"),
	})

	return d
}

// ProcessingTime reports the simulated processing time.
func (d *Dispatcher) ProcessingTime() time.Duration {
	return d.processingTime
}

// Execute answers req from the route table. Unknown URLs get a 500 with a
// plain-text body; it never returns an error.
func (d *Dispatcher) Execute(req *httpclient.Request) (*httpclient.Response, error) {
	if route := d.router.Match(req); route != nil {
		return route.Handler(req), nil
	}

	return httpclient.NewResponse(
		httpclient.StatusInternalServerError,
		"Mock Error: Unhandled URL/method. URL: "+req.URL,
		map[string]string{"Content-Type": "text/plain"},
	), nil
}

// timeout sleeps for the processing time, then reports 408 if the request
// allowed less than that. A zero timeout never expires.
func (d *Dispatcher) timeout(req *httpclient.Request) *httpclient.Response {
	d.sleep(d.processingTime)

	if req.Timeout > 0 && d.processingTime > req.Timeout {
		h := defaultHeaders()
		h["X-Mock-Reason"] = mockReason
		return httpclient.NewResponse(
			httpclient.StatusRequestTimeout,
			`{"error":"Request timed out by mock server"}`,
			h,
		)
	}
	return httpclient.NewResponse(httpclient.StatusOK, `{"message":"Processed within timeout"}`, defaultHeaders())
}

type echoBody struct {
	Message         string            `json:"message"`
	Method          string            `json:"method"`
	ReceivedHeaders map[string]string `json:"received_headers"`
}

func echoHeaders(req *httpclient.Request) *httpclient.Response {
	received := req.Headers
	if received == nil {
		received = map[string]string{}
	}

	h := defaultHeaders()
	if v, ok := req.Headers["X-Mirror-Me"]; ok {
		h["X-Mirrored-Back"] = v
	}

	return jsonResponse(httpclient.StatusOK, echoBody{
		Message:         "Request headers received",
		Method:          req.Method,
		ReceivedHeaders: received,
	}, h)
}

type bodyEcho struct {
	Message      string `json:"message"`
	ReceivedBody string `json:"received_body"`
}

func receivedBody(status int, message string) HandlerFunc {
	return func(req *httpclient.Request) *httpclient.Response {
		body := req.Body
		if body == "" {
			body = "empty"
		}
		return jsonResponse(status, bodyEcho{Message: message, ReceivedBody: body}, defaultHeaders())
	}
}

func static(status int, payload any) HandlerFunc {
	return func(*httpclient.Request) *httpclient.Response {
		return jsonResponse(status, payload, defaultHeaders())
	}
}

func jsonResponse(status int, payload any, headers map[string]string) *httpclient.Response {
	b, err := json.Marshal(payload)
	if err != nil {
		// Payloads are plain structs and string maps.
		panic(err)
	}
	return httpclient.NewResponse(status, string(b), headers)
}

func defaultHeaders() map[string]string {
	return map[string]string{
		"Connection":   "close",
		"Content-Type": "application/json",
	}
}
