package httpclient

// Dispatcher turns a request into a response. Implementations must be safe
// for concurrent use; async calls run them on pool workers.
type Dispatcher interface {
	Execute(req *Request) (*Response, error)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(req *Request) (*Response, error)

func (f DispatcherFunc) Execute(req *Request) (*Response, error) {
	return f(req)
}
