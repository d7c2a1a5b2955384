// Package apitest provides an in-memory stand-in for the product, order and
// user API, for use in tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Route keys accepted by Override and Hits.
const (
	RouteListProducts   = "GET /api/products"
	RouteGetProduct     = "GET /api/products/{id}"
	RouteRecommendation = "GET /api/products/{id}/ai-recommendation"
	RouteAIHealth       = "GET /api/products/ai/health"
	RouteCreateOrder    = "POST /api/orders"
	RouteListOrders     = "GET /api/orders"
	RouteRegister       = "POST /api/users/register"
	RouteLogin          = "POST /api/users/login"
)

type account struct {
	user     clients.User
	password string
}

type Backend struct {
	URL string

	mu              sync.Mutex
	products        []catalog.Product
	recommendations map[int64]string
	aiConfigured    bool
	accounts        map[string]account
	orders          []clients.Order
	nextID          int64
	overrides       map[string]http.HandlerFunc
	hits            map[string]int
	last            map[string]*http.Request
	lastBody        map[string][]byte
}

// New starts a backend that is closed when the test ends.
func New(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		recommendations: map[int64]string{},
		aiConfigured:    true,
		accounts:        map[string]account{},
		nextID:          100,
		overrides:       map[string]http.HandlerFunc{},
		hits:            map[string]int{},
		last:            map[string]*http.Request{},
		lastBody:        map[string][]byte{},
	}

	srv := httptest.NewServer(b.router())
	t.Cleanup(srv.Close)
	b.URL = srv.URL
	return b
}

func (b *Backend) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", b.handle(RouteListProducts, b.listProducts))
		r.Get("/ai/health", b.handle(RouteAIHealth, b.aiHealth))
		r.Get("/{id}", b.handle(RouteGetProduct, b.getProduct))
		r.Get("/{id}/ai-recommendation", b.handle(RouteRecommendation, b.recommendation))
	})
	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", b.handle(RouteCreateOrder, b.createOrder))
		r.Get("/", b.handle(RouteListOrders, b.listOrders))
	})
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", b.handle(RouteRegister, b.register))
		r.Post("/login", b.handle(RouteLogin, b.login))
	})
	return r
}

func (b *Backend) handle(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := readBody(r)

		b.mu.Lock()
		b.hits[route]++
		b.last[route] = r
		b.lastBody[route] = body
		override := b.overrides[route]
		b.mu.Unlock()

		if override != nil {
			override(w, r)
			return
		}
		next(w, r)
	}
}

// Override replaces the handler for route.
func (b *Backend) Override(route string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides[route] = h
}

// Fail makes route answer with status and a JSON {"message": msg} body.
func (b *Backend) Fail(route string, status int, msg string) {
	b.Override(route, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, map[string]string{"message": msg})
	})
}

func (b *Backend) Hits(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[route]
}

// LastRequest returns the most recent request for route and its body.
func (b *Backend) LastRequest(route string) (*http.Request, []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last[route], b.lastBody[route]
}

func (b *Backend) SetProducts(products ...catalog.Product) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.products = products
}

// SetRecommendation sets the raw body returned for a product's analysis.
func (b *Backend) SetRecommendation(id int64, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recommendations[id] = body
}

func (b *Backend) SetAIConfigured(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.aiConfigured = ok
}

// AddUser registers an account directly.
func (b *Backend) AddUser(name, email, password string) clients.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(name, email, password)
}

func (b *Backend) addUserLocked(name, email, password string) clients.User {
	b.nextID++
	u := clients.User{ID: b.nextID, Name: name, Email: email}
	b.accounts[strings.ToLower(email)] = account{user: u, password: password}
	return u
}

func (b *Backend) Orders() []clients.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]clients.Order(nil), b.orders...)
}

func (b *Backend) listProducts(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	products := append([]catalog.Product(nil), b.products...)
	b.mu.Unlock()

	if q := strings.ToLower(r.URL.Query().Get("search")); q != "" {
		filtered := products[:0]
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}
	writeJSON(w, http.StatusOK, products)
}

func (b *Backend) findProduct(r *http.Request) (catalog.Product, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return catalog.Product{}, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.products {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Product{}, false
}

func (b *Backend) getProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := b.findProduct(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) recommendation(w http.ResponseWriter, r *http.Request) {
	p, ok := b.findProduct(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	b.mu.Lock()
	body, ok := b.recommendations[p.ID]
	configured := b.aiConfigured
	b.mu.Unlock()

	if !configured {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "AI recommendation service is currently unavailable"})
		return
	}
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Unable to generate AI recommendation at this time"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func (b *Backend) aiHealth(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	configured := b.aiConfigured
	b.mu.Unlock()

	status := "AI service is ready"
	if !configured {
		status = "AI service not configured - API key missing"
	}
	writeJSON(w, http.StatusOK, clients.AIHealth{Configured: configured, Status: status})
}

func (b *Backend) createOrder(w http.ResponseWriter, r *http.Request) {
	var req clients.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}

	b.mu.Lock()
	b.nextID++
	o := clients.Order{
		ID:              b.nextID,
		UserID:          req.UserID,
		Items:           req.Items,
		TotalAmount:     req.TotalAmount,
		Status:          "PENDING",
		ShippingAddress: req.ShippingAddress,
	}
	b.orders = append(b.orders, o)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, o)
}

func (b *Backend) listOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "userId is required"})
		return
	}

	b.mu.Lock()
	out := []clients.Order{}
	for _, o := range b.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var req clients.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.accounts[strings.ToLower(req.Email)]; exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Email already registered"})
		return
	}
	u := b.addUserLocked(req.Name, req.Email, req.Password)
	writeJSON(w, http.StatusCreated, u)
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req clients.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return
	}

	b.mu.Lock()
	acct, ok := b.accounts[strings.ToLower(req.Email)]
	b.mu.Unlock()

	switch {
	case !ok:
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "No account found for " + req.Email})
	case acct.password != req.Password:
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Wrong password for " + req.Email})
	default:
		writeJSON(w, http.StatusOK, acct.user)
	}
}

// readBody drains the request body and replaces it so handlers can read it
// again.
func readBody(r *http.Request) []byte {
	if r.Body == nil {
		return nil
	}
	raw, _ := io.ReadAll(r.Body)
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	return raw
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
