package httpclient

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/utkarsh5026/asynchttp/pool"
)

var (
	// ErrNoDispatcher is returned when a Client was built without a Dispatcher.
	ErrNoDispatcher = errors.New("httpclient: no dispatcher configured")

	// ErrNilRequest is returned for a nil *Request.
	ErrNilRequest = errors.New("httpclient: nil request")

	// ErrNilResponse is returned when a dispatcher reports neither a response
	// nor an error.
	ErrNilResponse = errors.New("httpclient: dispatcher returned nil response")
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithPoolOptions sets the options used when the client creates its worker
// pool on the first async call.
func WithPoolOptions(opts ...pool.WorkerPoolOption) ClientOption {
	return func(c *Client) {
		c.poolOpts = append(c.poolOpts, opts...)
	}
}

// WithPool makes the client submit to an existing pool. The caller keeps
// ownership: Close does not shut it down.
func WithPool(wp *pool.WorkerPool[*Response]) ClientOption {
	return func(c *Client) {
		c.pool = wp
	}
}

// WithLogger sets the client logger. Defaults to zap.S().Named("httpclient").
func WithLogger(logger *zap.SugaredLogger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.log = logger
		}
	}
}

// Client sends requests through a Dispatcher, either on the calling
// goroutine or on a shared worker pool.
//
// The pool is created on the first async call and reused afterwards. Close
// drains it; a Client dropped without Close has its pool shut down by a GC
// cleanup.
type Client struct {
	dispatcher Dispatcher
	log        *zap.SugaredLogger
	poolOpts   []pool.WorkerPoolOption

	mu         sync.Mutex
	pool       *pool.WorkerPool[*Response]
	ownsPool   bool
	closed     bool
	cleanup    runtime.Cleanup
	hasCleanup bool
}

// NewClient creates a client. No goroutines are started until the first
// async call.
func NewClient(dispatcher Dispatcher, opts ...ClientOption) *Client {
	c := &Client{
		dispatcher: dispatcher,
		log:        zap.S().Named("httpclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do dispatches req on the calling goroutine. The worker pool is not used.
func (c *Client) Do(req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	return dispatch(c.dispatcher, req)
}

// Get performs a synchronous GET.
func (c *Client) Get(url string) (*Response, error) {
	return c.Do(NewRequest(MethodGet, url))
}

// Post performs a synchronous POST with the given body.
func (c *Client) Post(url, body string) (*Response, error) {
	return c.Do(NewRequest(MethodPost, url).SetBody(body))
}

// AsyncDo queues req on the worker pool and returns a future for the
// response. The request is copied first, so changes the caller makes after
// AsyncDo returns are not seen by the dispatcher.
//
// After Close it returns pool.ErrPoolClosed.
func (c *Client) AsyncDo(req *Request) (*pool.Future[*Response], error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	wp, err := c.workerPool()
	if err != nil {
		return nil, err
	}

	r := req.Clone()
	d := c.dispatcher
	log := c.log.With("request_id", uuid.NewString())

	future, err := wp.Submit(func() (*Response, error) {
		start := time.Now()
		resp, err := dispatch(d, r)
		if err != nil {
			log.Debugw("request failed", "method", r.Method, "url", r.URL, "error", err)
			return nil, err
		}
		log.Debugw("request done",
			"method", r.Method,
			"url", r.URL,
			"status", resp.StatusCode,
			"took", time.Since(start),
		)
		return resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("submit %s %s: %w", r.Method, r.URL, err)
	}
	return future, nil
}

// AsyncGet queues a GET.
func (c *Client) AsyncGet(url string) (*pool.Future[*Response], error) {
	return c.AsyncDo(NewRequest(MethodGet, url))
}

// AsyncPost queues a POST with the given body.
func (c *Client) AsyncPost(url, body string) (*pool.Future[*Response], error) {
	return c.AsyncDo(NewRequest(MethodPost, url).SetBody(body))
}

// Close shuts down the client's pool, waiting for queued requests to finish.
// It is safe to call more than once. Synchronous calls keep working.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	wp, owned := c.pool, c.ownsPool
	if c.hasCleanup {
		c.cleanup.Stop()
	}
	c.mu.Unlock()

	if wp != nil && owned {
		wp.Shutdown()
	}
	c.log.Debug("client closed")
}

// Stats returns the pool counters, or a zero value when no async call has
// been made yet.
func (c *Client) Stats() pool.Stats {
	c.mu.Lock()
	wp := c.pool
	c.mu.Unlock()

	if wp == nil {
		return pool.Stats{}
	}
	return wp.Stats()
}

func (c *Client) workerPool() (*pool.WorkerPool[*Response], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, pool.ErrPoolClosed
	}
	if c.pool != nil {
		return c.pool, nil
	}

	wp := pool.NewWorkerPool[*Response](c.poolOpts...)
	c.pool = wp
	c.ownsPool = true

	// The cleanup must not reference c, or c never becomes unreachable.
	c.cleanup = runtime.AddCleanup(c, func(wp *pool.WorkerPool[*Response]) {
		go wp.Shutdown()
	}, wp)
	c.hasCleanup = true

	c.log.Infow("worker pool created", "workers", wp.WorkerCount())
	return wp, nil
}

func dispatch(d Dispatcher, req *Request) (*Response, error) {
	if d == nil {
		return nil, ErrNoDispatcher
	}

	resp, err := d.Execute(req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, ErrNilResponse
	}
	return resp, nil
}
