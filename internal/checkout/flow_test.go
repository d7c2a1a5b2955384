package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/nav"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type OrderPlacerMock struct {
	CreateFunc func(ctx context.Context, req clients.OrderRequest) (*clients.Order, error)
	calls      []clients.OrderRequest
}

func (m *OrderPlacerMock) Create(ctx context.Context, req clients.OrderRequest) (*clients.Order, error) {
	m.calls = append(m.calls, req)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return &clients.Order{ID: 1, UserID: req.UserID, TotalAmount: req.TotalAmount, Status: "PENDING"}, nil
}

type userSource struct{ u *clients.User }

func (s userSource) Current() *clients.User { return s.u }

func cartWith(products ...catalog.Product) *cart.Cart {
	c := cart.New()
	for _, p := range products {
		c.Add(p)
	}
	return c
}

func lamp() catalog.Product {
	return catalog.Product{ID: 1, Name: "Lamp", Price: decimal.NewFromInt(10), Stock: 4}
}

func TestFlow_EnterEmptyCart(t *testing.T) {
	f := NewFlow(cart.New(), nav.NewHistory(nil), nil, nil, nil)

	assert.ErrorIs(t, f.Enter(), ErrEmptyCart)
	v := f.View()
	assert.True(t, v.Empty)
	assert.Equal(t, StateEditing, v.State)

	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

// Scenario C.
func TestFlow_SubmitPlacesOrder(t *testing.T) {
	c := cartWith(lamp(), lamp())
	history := nav.NewHistory(nil)
	f := NewFlow(c, history, nil, nil, nil)

	require.NoError(t, f.Enter())
	require.NoError(t, f.SetForm(filledForm()))

	before := c.Totals()
	receipt, err := f.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SuccessMessage, receipt.Message)
	assert.Equal(t, "22.00", receipt.Totals.Total.StringFixed(2))
	assert.True(t, before.Total.Equal(receipt.Totals.Total))
	assert.True(t, receipt.Totals.Shipping.IsZero())
	assert.Zero(t, receipt.OrderID)

	assert.True(t, c.IsEmpty())
	assert.Equal(t, nav.RouteCatalog, history.Current())
	assert.Equal(t, StatePlaced, f.State())

	_, err = f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotEditing)
	assert.ErrorIs(t, f.Set(FieldEmail, "x"), ErrNotEditing)
}

func TestFlow_ValidationKeepsEditing(t *testing.T) {
	c := cartWith(lamp())
	history := nav.NewHistory(nil)
	f := NewFlow(c, history, nil, nil, nil)
	require.NoError(t, f.Enter())

	form := filledForm()
	form.ZipCode = ""
	require.NoError(t, f.SetForm(form))

	_, err := f.Submit(context.Background())
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []Field{FieldZipCode}, ve.Missing)

	v := f.View()
	assert.Equal(t, StateEditing, v.State)
	assert.NotEmpty(t, v.Error)
	assert.False(t, c.IsEmpty())
	assert.Empty(t, history.Visited())

	require.NoError(t, f.Set(FieldZipCode, "SW1Y"))
	_, err = f.Submit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, f.View().Error)
}

func TestFlow_RecordsOrderForSignedInUser(t *testing.T) {
	c := cartWith(lamp(), lamp(), catalog.Product{ID: 2, Name: "Bulb", Price: decimal.RequireFromString("2.50")})
	orders := &OrderPlacerMock{CreateFunc: func(ctx context.Context, req clients.OrderRequest) (*clients.Order, error) {
		return &clients.Order{ID: 77, UserID: req.UserID, TotalAmount: req.TotalAmount}, nil
	}}
	f := NewFlow(c, nav.NewHistory(nil), orders, userSource{&clients.User{ID: 5, Email: "ada@example.com"}}, nil)

	require.NoError(t, f.Enter())
	require.NoError(t, f.SetForm(filledForm()))
	receipt, err := f.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, orders.calls, 1)
	req := orders.calls[0]
	assert.Equal(t, int64(5), req.UserID)
	require.Len(t, req.Items, 2)
	assert.Equal(t, 2, req.Items[0].Quantity)
	assert.Equal(t, "24.75", req.TotalAmount.StringFixed(2))
	assert.True(t, req.TotalAmount.Equal(receipt.Totals.Total))
	assert.Equal(t, "1111", req.Payment.CardLast4)
	assert.Equal(t, int64(77), receipt.OrderID)
}

func TestFlow_ChargedAmountMatchesShown(t *testing.T) {
	c := cartWith(catalog.Product{ID: 3, Name: "Pen", Price: decimal.RequireFromString("9.99"), Stock: 2})
	orders := &OrderPlacerMock{}
	f := NewFlow(c, nav.NewHistory(nil), orders, userSource{&clients.User{ID: 5}}, nil)

	require.NoError(t, f.Enter())
	require.NoError(t, f.SetForm(filledForm()))
	receipt, err := f.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, orders.calls, 1)
	shown := receipt.Totals.Total.StringFixed(2)
	assert.Equal(t, "10.99", shown)
	assert.Equal(t, shown, orders.calls[0].TotalAmount.String())
	assert.True(t, receipt.Totals.Tax.Equal(decimal.RequireFromString("1.00")), "tax %s", receipt.Totals.Tax)
}

func TestFlow_OrderFailureReturnsToEditing(t *testing.T) {
	tests := map[string]struct {
		err     error
		wantMsg string
	}{
		"server message": {
			err:     &clients.HTTPError{Service: "order-api", Op: "POST /api/orders", Status: 400, Message: "Product out of stock"},
			wantMsg: "Failed to place order: Product out of stock",
		},
		"network": {
			err:     &clients.NetworkError{Service: "order-api", Op: "POST /api/orders", Err: errors.New("refused")},
			wantMsg: "Failed to place order. Please try again.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := cartWith(lamp())
			history := nav.NewHistory(nil)
			orders := &OrderPlacerMock{CreateFunc: func(ctx context.Context, req clients.OrderRequest) (*clients.Order, error) {
				return nil, tt.err
			}}
			f := NewFlow(c, history, orders, userSource{&clients.User{ID: 1}}, nil)
			require.NoError(t, f.Enter())
			require.NoError(t, f.SetForm(filledForm()))

			_, err := f.Submit(context.Background())
			require.ErrorIs(t, err, tt.err)

			v := f.View()
			assert.Equal(t, StateEditing, v.State)
			assert.Equal(t, tt.wantMsg, v.Error)
			assert.False(t, c.IsEmpty())
			assert.Empty(t, history.Visited())
		})
	}
}

func TestFlow_GuestSkipsOrderRecording(t *testing.T) {
	orders := &OrderPlacerMock{}
	f := NewFlow(cartWith(lamp()), nav.NewHistory(nil), orders, userSource{}, nil)
	require.NoError(t, f.Enter())
	require.NoError(t, f.SetForm(filledForm()))

	_, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders.calls)
}

func TestFlow_EnterResetsForm(t *testing.T) {
	f := NewFlow(cartWith(lamp()), nav.NewHistory(nil), nil, nil, nil)
	require.NoError(t, f.Enter())
	require.NoError(t, f.Set(FieldEmail, "a@b.c"))

	require.NoError(t, f.Enter())
	assert.Equal(t, Form{}, f.View().Form)
}
