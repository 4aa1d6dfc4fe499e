package httpclient

import (
	"maps"
	"strings"
	"time"
)

const (
	MethodGet  = "GET"
	MethodPost = "POST"

	// DefaultTimeout is the timeout NewRequest assigns. Zero means no limit.
	DefaultTimeout = 30 * time.Second

	unknownHost = "unknown"
)

// Request describes a single call handed to a Dispatcher.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    string
	Timeout time.Duration
}

// NewRequest creates a request with the default timeout and no headers.
func NewRequest(method, url string) *Request {
	return &Request{
		Method:  method,
		URL:     url,
		Headers: make(map[string]string),
		Timeout: DefaultTimeout,
	}
}

func (r *Request) SetMethod(method string) *Request {
	r.Method = method
	return r
}

func (r *Request) SetURL(url string) *Request {
	r.URL = url
	return r
}

func (r *Request) SetHeader(key, value string) *Request {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
	return r
}

func (r *Request) SetBody(body string) *Request {
	r.Body = body
	return r
}

func (r *Request) SetTimeout(d time.Duration) *Request {
	r.Timeout = d
	return r
}

// Host returns the host portion of an http:// or https:// URL, or
// "unknown" for anything else.
func (r *Request) Host() string {
	host, _ := splitURL(r.URL)
	return host
}

// Path returns the path of an http:// or https:// URL. It is "/" when the
// URL has no path or another scheme.
func (r *Request) Path() string {
	_, path := splitURL(r.URL)
	return path
}

// Clone returns a deep copy, so the copy can be handed to another goroutine
// while the caller keeps mutating the original.
func (r *Request) Clone() *Request {
	c := *r
	c.Headers = maps.Clone(r.Headers)
	if c.Headers == nil {
		c.Headers = make(map[string]string)
	}
	return &c
}

func splitURL(url string) (host, path string) {
	var rest string
	switch {
	case strings.HasPrefix(url, "http://"):
		rest = strings.TrimPrefix(url, "http://")
	case strings.HasPrefix(url, "https://"):
		rest = strings.TrimPrefix(url, "https://")
	default:
		return unknownHost, "/"
	}

	host, path, found := strings.Cut(rest, "/")
	if !found {
		return host, "/"
	}
	return host, "/" + path
}
