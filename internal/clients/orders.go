package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// PaymentSummary never carries the full card number or CVV.
type PaymentSummary struct {
	CardholderName string `json:"cardholderName"`
	CardLast4      string `json:"cardLast4"`
}

type OrderRequest struct {
	UserID          int64           `json:"userId"`
	Email           string          `json:"email,omitempty"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShippingAddress string          `json:"shippingAddress"`
	Payment         *PaymentSummary `json:"payment,omitempty"`
}

type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"userId"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          string          `json:"status"`
	ShippingAddress string          `json:"shippingAddress"`
	CreatedAt       string          `json:"createdAt,omitempty"`
}

type OrderClient struct{ c *Client }

func NewOrderClient(c *Client) *OrderClient { return &OrderClient{c: c} }

func (oc *OrderClient) Create(ctx context.Context, req OrderRequest) (*Order, error) {
	var out Order
	if err := oc.c.doJSON(ctx, http.MethodPost, "/api/orders", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (oc *OrderClient) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	q := url.Values{"userId": []string{strconv.FormatInt(userID, 10)}}.Encode()
	var out []Order
	if err := oc.c.doJSON(ctx, http.MethodGet, "/api/orders", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
