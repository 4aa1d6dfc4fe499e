// Package httpclient is a small request/response facade that runs requests
// either on the calling goroutine or asynchronously on a worker pool.
//
// It does not open sockets. Requests are handed to a Dispatcher, which
// produces the Response; the mock subpackage ships a fixture dispatcher with
// a canned route table and simulated processing time.
//
//   - Request/Response value types with fluent setters and header helpers
//   - Sync calls: Do, Get, Post
//   - Async calls: AsyncDo, AsyncGet, AsyncPost returning pool futures
//   - A lazily created worker pool shared by every async call of a Client
package httpclient
