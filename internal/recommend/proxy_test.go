package recommend

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apitest"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProxy(t *testing.T, backend *apitest.Backend) *ProxyAnalyzer {
	t.Helper()
	base := clients.NewClient("product-api", backend.URL, &http.Client{Timeout: 5 * time.Second}, nil)
	return NewProxyAnalyzer(clients.NewProductClient(base), nil)
}

func TestProxyAnalyzer(t *testing.T) {
	desk := catalog.Product{ID: 3, Name: "Desk", Price: decimal.NewFromInt(120)}

	tests := map[string]struct {
		setup   func(b *apitest.Backend)
		want    *Analysis
		wantMsg string
	}{
		"ok": {
			setup: func(b *apitest.Backend) {
				b.SetRecommendation(3, `{"summary":"s","pros":["p"],"cons":["c"],"recommendation":"r"}`)
			},
			want: &Analysis{Summary: "s", Pros: []string{"p"}, Cons: []string{"c"}, Recommendation: "r"},
		},
		"server error field shown verbatim": {
			setup:   func(b *apitest.Backend) { b.SetAIConfigured(false) },
			wantMsg: "AI recommendation service is currently unavailable",
		},
		"no server message": {
			setup: func(b *apitest.Backend) {
				b.Override(apitest.RouteRecommendation, func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusBadGateway)
				})
			},
			wantMsg: "Failed to analyze product: product-api GET /api/products/3/ai-recommendation: status 502",
		},
		"malformed body": {
			setup: func(b *apitest.Backend) {
				b.SetRecommendation(3, `{"summary":"only"}`)
			},
			wantMsg: MsgInvalidResponse,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			backend := apitest.New(t)
			backend.SetProducts(desk)
			tt.setup(backend)

			got, err := newProxy(t, backend).Analyze(context.Background(), desk)
			if tt.want != nil {
				require.NoError(t, err)
				assert.Equal(t, *tt.want, got)
				return
			}

			var ae *AnalysisError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.wantMsg, ae.Message)
			assert.Equal(t, Analysis{}, got)
		})
	}
}

func TestProxyAnalyzer_NetworkFailure(t *testing.T) {
	base := clients.NewClient("product-api", "http://127.0.0.1:1", &http.Client{Timeout: time.Second}, nil)
	a := NewProxyAnalyzer(clients.NewProductClient(base), nil)

	_, err := a.Analyze(context.Background(), catalog.Product{ID: 1})
	var ae *AnalysisError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Message, "Failed to analyze product: ")

	var netErr *clients.NetworkError
	assert.ErrorAs(t, err, &netErr)
}
