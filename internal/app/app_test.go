package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apitest"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/auth"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/nav"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/recommend"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type immediate struct{}

func (immediate) AfterFunc(_ time.Duration, fn func()) { fn() }

func testConfig(t *testing.T, baseURL string) config.Config {
	t.Helper()
	return config.Config{
		APIBaseURL: baseURL,
		APITimeout: 5 * time.Second,
		AIMode:     config.AIModeProxy,
		PrefsPath:  filepath.Join(t.TempDir(), "prefs.yaml"),
	}
}

func seed(b *apitest.Backend) {
	b.SetProducts(
		catalog.Product{ID: 1, Name: "A", Price: decimal.NewFromInt(10), Stock: 0, Category: "Books"},
		catalog.Product{ID: 2, Name: "B", Price: decimal.NewFromInt(20), Stock: 5, Category: "Games"},
	)
}

func newApp(t *testing.T) (*App, *apitest.Backend) {
	t.Helper()
	backend := apitest.New(t)
	seed(backend)
	a := New(Options{Config: testConfig(t, backend.URL), Scheduler: immediate{}})
	a.LoadPrefs()
	require.NoError(t, a.LoadCatalog(context.Background()))
	return a, backend
}

func recommendNow(t *testing.T, a *App, id int64) recommend.PanelView {
	t.Helper()
	_, token, err := a.OpenRecommendation(id)
	require.NoError(t, err)
	v, applied := a.AwaitRecommendation(context.Background(), token)
	require.True(t, applied)
	return v
}

func TestLoadCatalog(t *testing.T) {
	a, _ := newApp(t)

	snap := a.Catalog.Snapshot()
	assert.Equal(t, catalog.StateReady, snap.State)
	assert.Len(t, snap.Visible, 2)
	assert.Equal(t, []string{"all", "Books", "Games"}, snap.Categories)
}

func TestAddToCart(t *testing.T) {
	a, _ := newApp(t)

	_, err := a.AddToCart(1)
	assert.ErrorIs(t, err, ErrOutOfStock)

	_, err = a.AddToCart(42)
	assert.ErrorIs(t, err, ErrUnknownProduct)

	_, err = a.AddToCart(2)
	require.NoError(t, err)
	line, err := a.AddToCart(2)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, "44.00", a.Cart.Totals().Total.StringFixed(2))
}

func TestSignedInCheckoutRecordsOrder(t *testing.T) {
	a, backend := newApp(t)
	backend.AddUser("Ada", "ada@example.com", "secret1")

	require.NoError(t, a.Auth.Login(context.Background(), "ada@example.com", "secret1"))
	_, err := a.AddToCart(2)
	require.NoError(t, err)

	require.NoError(t, a.BeginCheckout())
	assert.Equal(t, nav.RouteCheckout, a.Nav.Current())
	require.NoError(t, a.Checkout.SetForm(checkout.Form{
		Email: "ada@example.com", FirstName: "Ada", LastName: "L", Address: "1 Main St",
		City: "Springfield", State: "IL", ZipCode: "62701",
		CardName: "Ada L", CardNumber: "4111111111111111", ExpiryDate: "01/30", CVV: "123",
	}))

	receipt, err := a.Checkout.Submit(context.Background())
	require.NoError(t, err)
	assert.NotZero(t, receipt.OrderID)
	assert.True(t, a.Cart.IsEmpty())
	assert.Equal(t, nav.RouteCatalog, a.Nav.Current())

	recorded := backend.Orders()
	require.Len(t, recorded, 1)
	assert.True(t, recorded[0].TotalAmount.Equal(receipt.Totals.Total))

	history, err := a.OrderHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, receipt.OrderID, history[0].ID)
}

func TestOrderHistoryRequiresSignIn(t *testing.T) {
	a, _ := newApp(t)
	_, err := a.OrderHistory(context.Background())
	assert.ErrorIs(t, err, ErrSignedOut)
}

func TestRegisterNavigatesAfterDelay(t *testing.T) {
	a, _ := newApp(t)

	err := a.Auth.Register(context.Background(), auth.RegistrationForm{
		Name: "Ada", Email: "ada@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.True(t, a.Session.SignedIn())
	assert.Equal(t, nav.RouteCatalog, a.Nav.Current())
}

func TestOpenRecommendation_Proxy(t *testing.T) {
	a, backend := newApp(t)
	backend.SetRecommendation(2, `{"summary":"fun","pros":["p"],"cons":["c"],"recommendation":"r"}`)

	v := recommendNow(t, a, 2)
	assert.Equal(t, recommend.PanelReady, v.State)
	assert.Equal(t, "fun", v.Analysis.Summary)

	backend.SetRecommendation(2, "garbage")
	v = recommendNow(t, a, 2)
	assert.Equal(t, recommend.PanelFailed, v.State)
	assert.Nil(t, v.Analysis)
	assert.NotEmpty(t, v.Error)
}

func TestOpenRecommendation_UnknownProductAndClose(t *testing.T) {
	a, backend := newApp(t)
	backend.SetRecommendation(2, `{"summary":"fun","pros":[],"cons":[],"recommendation":"r"}`)

	_, _, err := a.OpenRecommendation(42)
	assert.ErrorIs(t, err, ErrUnknownProduct)

	p, token, err := a.OpenRecommendation(2)
	require.NoError(t, err)
	assert.Equal(t, "B", p.Name)
	a.Panel.Close()

	v, applied := a.AwaitRecommendation(context.Background(), token)
	assert.False(t, applied)
	assert.Equal(t, recommend.PanelClosed, v.State)
	assert.Zero(t, backend.Hits(apitest.RouteRecommendation))
}

func TestAIStatus(t *testing.T) {
	a, backend := newApp(t)
	st, err := a.AIStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, st.Configured)

	backend.SetAIConfigured(false)
	st, err = a.AIStatus(context.Background())
	require.NoError(t, err)
	assert.False(t, st.Configured)

	cfg := testConfig(t, backend.URL)
	cfg.AIMode = config.AIModeDirect
	direct := New(Options{Config: cfg})
	st, err = direct.AIStatus(context.Background())
	require.NoError(t, err)
	assert.False(t, st.Configured)
}

func TestDirectModeUsesGemini(t *testing.T) {
	gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"summary\":\"direct\",\"pros\":[],\"cons\":[],\"recommendation\":\"r\"}"}]}}]}`))
	}))
	t.Cleanup(gemini.Close)

	backend := apitest.New(t)
	seed(backend)
	cfg := testConfig(t, backend.URL)
	cfg.AIMode = config.AIModeDirect
	cfg.GoogleAPIKey = "k"
	cfg.GeminiBaseURL = gemini.URL

	a := New(Options{Config: cfg})
	require.NoError(t, a.LoadCatalog(context.Background()))

	v := recommendNow(t, a, 2)
	require.Equal(t, recommend.PanelReady, v.State)
	assert.Equal(t, "direct", v.Analysis.Summary)
	assert.Zero(t, backend.Hits(apitest.RouteRecommendation))
}

func TestCatalogFailureThenRetry(t *testing.T) {
	backend := apitest.New(t)
	seed(backend)
	backend.Fail(apitest.RouteListProducts, http.StatusServiceUnavailable, "down")

	a := New(Options{Config: testConfig(t, backend.URL)})
	require.Error(t, a.LoadCatalog(context.Background()))
	snap := a.Catalog.Snapshot()
	assert.Equal(t, catalog.StateFailed, snap.State)
	assert.Equal(t, catalog.LoadFailedMessage, snap.Message)

	backend.Override(apitest.RouteListProducts, nil)
	require.NoError(t, a.LoadCatalog(context.Background()))
	assert.Equal(t, catalog.StateReady, a.Catalog.State())
}

func TestToggleThemePersists(t *testing.T) {
	a, _ := newApp(t)

	on, err := a.ToggleTheme()
	require.NoError(t, err)
	assert.True(t, on)

	again := New(Options{Config: a.Config})
	assert.True(t, again.LoadPrefs().DarkMode)
	assert.True(t, again.Prefs.DarkMode())
}

func TestHealth(t *testing.T) {
	a, _ := newApp(t)
	for _, r := range a.Health(context.Background()) {
		assert.True(t, r.OK, r.Name)
	}
}
