package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/nav"
	"go.uber.org/zap"
)

const (
	SuccessMessage    = "Order placed successfully! Thank you for your purchase."
	OrderFailedPrefix = "Failed to place order"
)

var (
	ErrEmptyCart  = errors.New("checkout: cart is empty")
	ErrNotEditing = errors.New("checkout: form is not being edited")
)

type State int

const (
	StateEditing State = iota
	StateSubmitting
	StatePlaced
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StatePlaced:
		return "placed"
	default:
		return "unknown"
	}
}

// OrderPlacer records a placed order.
type OrderPlacer interface {
	Create(ctx context.Context, req clients.OrderRequest) (*clients.Order, error)
}

// UserSource reports the signed-in user, or nil.
type UserSource interface {
	Current() *clients.User
}

// Receipt is the acknowledgement shown after a successful submit.
type Receipt struct {
	Message string
	Lines   []cart.Line
	Totals  cart.Totals
	// OrderID is zero when no order was recorded.
	OrderID int64
}

// View is a consistent read of the flow for rendering.
type View struct {
	State   State
	Empty   bool
	Form    Form
	Lines   []cart.Line
	Totals  cart.Totals
	Error   string
	Receipt *Receipt
}

type Flow struct {
	cart   *cart.Cart
	nav    nav.Navigator
	orders OrderPlacer
	users  UserSource
	logger *zap.Logger

	mu      sync.Mutex
	state   State
	form    Form
	errMsg  string
	receipt *Receipt
}

// NewFlow builds a checkout over c. orders and users may be nil, in which
// case nothing is recorded remotely.
func NewFlow(c *cart.Cart, n nav.Navigator, orders OrderPlacer, users UserSource, logger *zap.Logger) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{cart: c, nav: n, orders: orders, users: users, logger: logger.Named("checkout")}
}

// Enter starts a fresh form. It returns ErrEmptyCart when there is nothing
// to check out; the front end then offers to continue shopping.
func (f *Flow) Enter() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state = StateEditing
	f.form = Form{}
	f.errMsg = ""
	f.receipt = nil
	if f.cart.IsEmpty() {
		return ErrEmptyCart
	}
	return nil
}

func (f *Flow) Set(field Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateEditing {
		return ErrNotEditing
	}
	return f.form.Set(field, value)
}

// SetForm replaces every field at once.
func (f *Flow) SetForm(form Form) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateEditing {
		return ErrNotEditing
	}
	f.form = form
	return nil
}

// Submit validates the form, records the order for a signed-in user,
// clears the cart and returns to the catalog. On any failure the flow stays
// in Editing and the cart is untouched.
func (f *Flow) Submit(ctx context.Context) (*Receipt, error) {
	f.mu.Lock()
	if f.state != StateEditing {
		f.mu.Unlock()
		return nil, ErrNotEditing
	}
	lines := f.cart.Lines()
	if len(lines) == 0 {
		f.mu.Unlock()
		return nil, ErrEmptyCart
	}
	if err := f.form.Validate(); err != nil {
		f.errMsg = err.Error()
		f.mu.Unlock()
		return nil, err
	}
	f.state = StateSubmitting
	f.errMsg = ""
	form := f.form
	f.mu.Unlock()

	totals := cart.ComputeTotals(lines)
	receipt := &Receipt{Message: SuccessMessage, Lines: lines, Totals: totals}

	if user := f.currentUser(); user != nil && f.orders != nil {
		order, err := f.orders.Create(ctx, buildOrder(user, form, lines, totals))
		if err != nil {
			f.logger.Error("create order failed", zap.Int64("user_id", user.ID), zap.Error(err))
			msg := OrderFailedPrefix + ". Please try again."
			if sm := clients.ServerMessage(err); sm != "" {
				msg = OrderFailedPrefix + ": " + sm
			}

			f.mu.Lock()
			f.state = StateEditing
			f.errMsg = msg
			f.mu.Unlock()
			return nil, err
		}
		receipt.OrderID = order.ID
		f.logger.Info("order placed", zap.Int64("order_id", order.ID), zap.String("total", totals.Total.StringFixed(2)))
	}

	f.cart.Clear()

	f.mu.Lock()
	f.state = StatePlaced
	f.receipt = receipt
	f.mu.Unlock()

	if f.nav != nil {
		f.nav.Navigate(nav.RouteCatalog)
	}
	return receipt, nil
}

func (f *Flow) currentUser() *clients.User {
	if f.users == nil {
		return nil
	}
	return f.users.Current()
}

func buildOrder(user *clients.User, form Form, lines []cart.Line, totals cart.Totals) clients.OrderRequest {
	items := make([]clients.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, clients.OrderItem{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Quantity:    l.Quantity,
			Price:       l.Price,
		})
	}
	return clients.OrderRequest{
		UserID:          user.ID,
		Email:           form.Email,
		Items:           items,
		TotalAmount:     totals.Total,
		ShippingAddress: form.ShippingAddress(),
		Payment: &clients.PaymentSummary{
			CardholderName: form.CardName,
			CardLast4:      form.CardLast4(),
		},
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := View{State: f.state, Form: f.form, Error: f.errMsg, Receipt: f.receipt}
	if f.state != StatePlaced {
		v.Lines = f.cart.Lines()
		v.Totals = cart.ComputeTotals(v.Lines)
		v.Empty = len(v.Lines) == 0
	}
	return v
}
