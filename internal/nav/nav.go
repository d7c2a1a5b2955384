// Package nav names the storefront views and records navigation between
// them.
package nav

import "sync"

type Route string

const (
	RouteCatalog  Route = "/"
	RouteCart     Route = "/cart"
	RouteCheckout Route = "/checkout"
	RouteLogin    Route = "/login"
	RouteRegister Route = "/register"
	RouteOrders   Route = "/orders"
)

// Navigator moves the front end to another view.
type Navigator interface {
	Navigate(to Route)
}

// History is a Navigator that keeps the visited routes. The zero value
// starts on the catalog.
type History struct {
	mu      sync.Mutex
	visited []Route
	onNav   func(Route)
}

// NewHistory returns a History that also calls onNav, when non-nil, after
// every navigation.
func NewHistory(onNav func(Route)) *History {
	return &History{onNav: onNav}
}

func (h *History) Navigate(to Route) {
	h.mu.Lock()
	h.visited = append(h.visited, to)
	cb := h.onNav
	h.mu.Unlock()

	if cb != nil {
		cb(to)
	}
}

func (h *History) Current() Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.visited) == 0 {
		return RouteCatalog
	}
	return h.visited[len(h.visited)-1]
}

// Visited returns every route navigated to, oldest first.
func (h *History) Visited() []Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Route(nil), h.visited...)
}
