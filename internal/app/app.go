// Package app is the storefront's root: it owns the cart and the session
// and hands them to every view.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/auth"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/nav"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/prefs"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/recommend"
	"go.uber.org/zap"
)

var (
	ErrUnknownProduct = errors.New("product not found in catalog")
	ErrOutOfStock     = errors.New("product is out of stock")
	ErrSignedOut      = errors.New("sign in to see your orders")
)

type Options struct {
	Config config.Config
	Logger *zap.Logger

	// HTTPClient overrides the instrumented client built from Config.
	HTTPClient *http.Client
	// Scheduler overrides real timers for delayed navigation.
	Scheduler auth.Scheduler
	// OnNavigate is called after every navigation.
	OnNavigate func(nav.Route)
}

type App struct {
	Config config.Config

	Cart    *cart.Cart
	Session *auth.Session
	Nav     *nav.History
	Prefs   *prefs.Store

	Catalog  *catalog.ViewModel
	Panel    *recommend.Panel
	Checkout *checkout.Flow
	Auth     *auth.Flow

	Products *clients.ProductClient
	Orders   *clients.OrderClient
	Users    *clients.UserClient

	api      *clients.Client
	analyzer recommend.Analyzer
	logger   *zap.Logger
}

func New(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = clients.NewHTTPClient(opts.Config.APITimeout)
	}

	api := clients.NewClient("storefront-api", opts.Config.APIBaseURL, httpClient, logger)
	products := clients.NewProductClient(api)
	orders := clients.NewOrderClient(api)
	users := clients.NewUserClient(api)

	var analyzer recommend.Analyzer
	switch opts.Config.AIMode {
	case config.AIModeDirect:
		analyzer = recommend.NewGeminiAnalyzer(opts.Config.AIKey(), opts.Config.GeminiBaseURL, httpClient, logger)
	default:
		analyzer = recommend.NewProxyAnalyzer(products, logger)
	}

	a := &App{
		Config:   opts.Config,
		Cart:     cart.New(),
		Session:  auth.NewSession(),
		Nav:      nav.NewHistory(opts.OnNavigate),
		Prefs:    prefs.NewStore(opts.Config.PrefsPath),
		Products: products,
		Orders:   orders,
		Users:    users,
		api:      api,
		analyzer: analyzer,
		logger:   logger,
	}
	a.Catalog = catalog.NewViewModel(products, logger)
	a.Panel = recommend.NewPanel(analyzer, logger)
	a.Checkout = checkout.NewFlow(a.Cart, a.Nav, orders, a.Session, logger)
	a.Auth = auth.NewFlow(users, a.Session, a.Nav, opts.Scheduler, logger)
	return a
}

// LoadPrefs reads the saved display preference. A missing or unreadable
// file leaves the defaults in place.
func (a *App) LoadPrefs() prefs.Prefs {
	p, err := a.Prefs.Load()
	if err != nil {
		a.logger.Warn("load prefs failed, using defaults", zap.Error(err))
	}
	return p
}

// LoadCatalog fetches the catalog. Startup and retry share it. It returns
// catalog.ErrStale when a newer load replaced this one.
func (a *App) LoadCatalog(ctx context.Context) error {
	return a.Catalog.Load(ctx)
}

// AddToCart adds one unit of a catalog product. Out-of-stock products are
// refused here, where the front end would disable the action; the cart
// itself does not check stock.
func (a *App) AddToCart(id int64) (cart.Line, error) {
	p, ok := a.Catalog.Product(id)
	if !ok {
		return cart.Line{}, fmt.Errorf("%w: %d", ErrUnknownProduct, id)
	}
	if !p.InStock() {
		return cart.Line{}, fmt.Errorf("%w: %s", ErrOutOfStock, p.Name)
	}
	a.Cart.Add(p)
	line, _ := a.Cart.Line(id)
	return line, nil
}

// OpenRecommendation opens the panel on a catalog product. The returned
// token is passed to AwaitRecommendation.
func (a *App) OpenRecommendation(id int64) (catalog.Product, uint64, error) {
	p, ok := a.Catalog.Product(id)
	if !ok {
		return catalog.Product{}, 0, fmt.Errorf("%w: %d", ErrUnknownProduct, id)
	}
	return p, a.Panel.Begin(p), nil
}

// AwaitRecommendation runs the analysis for the panel request under token.
// applied is false when the panel was closed or reopened first.
func (a *App) AwaitRecommendation(ctx context.Context, token uint64) (recommend.PanelView, bool) {
	return a.Panel.Run(ctx, token)
}

// BeginCheckout navigates to checkout and starts a fresh form.
func (a *App) BeginCheckout() error {
	a.Nav.Navigate(nav.RouteCheckout)
	return a.Checkout.Enter()
}

// OrderHistory lists the signed-in user's orders.
func (a *App) OrderHistory(ctx context.Context) ([]clients.Order, error) {
	u := a.Session.Current()
	if u == nil {
		return nil, ErrSignedOut
	}
	return a.Orders.ListByUser(ctx, u.ID)
}

// AIStatus reports whether analyses can be produced. In direct mode the
// answer comes from the local key; otherwise the backend is asked.
func (a *App) AIStatus(ctx context.Context) (*clients.AIHealth, error) {
	if g, ok := a.analyzer.(*recommend.GeminiAnalyzer); ok {
		if g.Configured() {
			return &clients.AIHealth{Configured: true, Status: "AI service is ready"}, nil
		}
		return &clients.AIHealth{Configured: false, Status: "AI service not configured - API key missing"}, nil
	}
	return a.Products.AIHealth(ctx)
}

// Health probes the remote API.
func (a *App) Health(ctx context.Context) []clients.HealthResult {
	probes := clients.DefaultProbes(a.api)
	out := make([]clients.HealthResult, 0, len(probes))
	for _, p := range probes {
		out = append(out, clients.CheckHealth(ctx, p))
	}
	return out
}

// ToggleTheme flips and persists dark mode.
func (a *App) ToggleTheme() (bool, error) {
	return a.Prefs.Toggle()
}
