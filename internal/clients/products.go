package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

type ProductClient struct{ c *Client }

func NewProductClient(c *Client) *ProductClient { return &ProductClient{c: c} }

func (pc *ProductClient) List(ctx context.Context) ([]catalog.Product, error) {
	var out []catalog.Product
	if err := pc.c.doJSON(ctx, http.MethodGet, "/api/products", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (pc *ProductClient) Get(ctx context.Context, id int64) (*catalog.Product, error) {
	var out catalog.Product
	if err := pc.c.doJSON(ctx, http.MethodGet, productPath(id), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search asks the server to filter by query. The catalog view filters
// locally as well.
func (pc *ProductClient) Search(ctx context.Context, query string) ([]catalog.Product, error) {
	q := url.Values{"search": []string{query}}.Encode()
	var out []catalog.Product
	if err := pc.c.doJSON(ctx, http.MethodGet, "/api/products", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Recommendation returns the raw AI analysis body produced by the backend
// for product id.
func (pc *ProductClient) Recommendation(ctx context.Context, id int64) (json.RawMessage, error) {
	var out json.RawMessage
	if err := pc.c.doJSON(ctx, http.MethodGet, productPath(id)+"/ai-recommendation", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type AIHealth struct {
	Configured bool   `json:"configured"`
	Status     string `json:"status"`
}

func (pc *ProductClient) AIHealth(ctx context.Context) (*AIHealth, error) {
	var out AIHealth
	if err := pc.c.doJSON(ctx, http.MethodGet, "/api/products/ai/health", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func productPath(id int64) string {
	return "/api/products/" + strconv.FormatInt(id, 10)
}
