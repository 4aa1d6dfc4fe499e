package mock

import (
	"github.com/utkarsh5026/asynchttp/httpclient"
)

// HandlerFunc produces the canned response for a matched request.
type HandlerFunc func(req *httpclient.Request) *httpclient.Response

// Route maps a method and one or more paths to a handler. An empty Method
// matches any method.
type Route struct {
	Name    string
	Method  string
	Paths   []string
	Handler HandlerFunc
}

func (r *Route) matches(method, path string) bool {
	if r.Method != "" && r.Method != method {
		return false
	}
	for _, p := range r.Paths {
		if p == path {
			return true
		}
	}
	return false
}

// Router matches requests against routes in registration order. Only
// http:// and https:// URLs on its host are considered, and paths must
// match exactly.
type Router struct {
	host   string
	routes []*Route
}

// NewRouter creates a router serving the given host.
func NewRouter(host string) *Router {
	return &Router{
		host:   host,
		routes: make([]*Route, 0),
	}
}

// AddRoute adds a route to the router.
func (r *Router) AddRoute(route *Route) {
	r.routes = append(r.routes, route)
}

// Match finds the first route for the request, or nil.
func (r *Router) Match(req *httpclient.Request) *Route {
	if req.Host() != r.host {
		return nil
	}

	path := req.Path()
	for _, route := range r.routes {
		if route.matches(req.Method, path) {
			return route
		}
	}
	return nil
}
