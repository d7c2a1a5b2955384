package shell

import (
	"strconv"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/recommend"
	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string { return "$" + d.StringFixed(2) }

func joinRanges() string {
	ss := make([]string, len(catalog.PriceRanges))
	for i, r := range catalog.PriceRanges {
		ss[i] = string(r)
	}
	return strings.Join(ss, "|")
}

func joinSorts() string {
	ss := make([]string, len(catalog.SortKeys))
	for i, k := range catalog.SortKeys {
		ss[i] = string(k)
	}
	return strings.Join(ss, "|")
}

var fieldLabels = map[checkout.Field]string{
	checkout.FieldEmail:      "Email",
	checkout.FieldFirstName:  "First name",
	checkout.FieldLastName:   "Last name",
	checkout.FieldAddress:    "Address",
	checkout.FieldCity:       "City",
	checkout.FieldState:      "State",
	checkout.FieldZipCode:    "ZIP code",
	checkout.FieldCardName:   "Cardholder name",
	checkout.FieldCardNumber: "Card number",
	checkout.FieldExpiryDate: "Expiry (MM/YY)",
	checkout.FieldCVV:        "CVV",
}

func fieldLabel(f checkout.Field) string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

func stockBadge(p catalog.Product) string {
	switch {
	case !p.InStock():
		return "Out of stock"
	case p.LowStock():
		return "Only " + strconv.Itoa(p.Stock) + " left"
	default:
		return "In stock"
	}
}

func (s *Shell) renderCatalog(snap catalog.Snapshot) {
	switch snap.State {
	case catalog.StateIdle, catalog.StateLoading:
		s.out.printf("Loading products...\n")
		return
	case catalog.StateFailed:
		s.out.printf("%s Type 'retry'.\n", snap.Message)
		return
	}

	c := snap.Criteria
	s.out.printf("Showing %d of %d (search=%q category=%s price=%s sort=%s)\n",
		len(snap.Visible), snap.Total, c.Search, c.Category, c.PriceRange, c.Sort)
	if snap.Empty() {
		s.out.printf("No products found. Type 'clear' to reset the filters.\n")
		return
	}
	for _, p := range snap.Visible {
		s.renderRow(p)
	}
}

func (s *Shell) renderRow(p catalog.Product) {
	rating := "-"
	if p.Rating != nil {
		rating = decimal.NewFromFloat(*p.Rating).StringFixed(1)
	}
	brand := ""
	if p.Brand != "" {
		brand = " (" + p.Brand + ")"
	}
	s.out.printf("  #%-4d %-32s %10s  rating %-3s  %s%s\n",
		p.ID, p.Name+brand, money(p.Price), rating, stockBadge(p), categorySuffix(p))
}

func categorySuffix(p catalog.Product) string {
	if p.Category == "" {
		return ""
	}
	return "  [" + p.Category + "]"
}

func (s *Shell) renderProduct(p catalog.Product) {
	s.out.printf("#%d %s\n", p.ID, p.Name)
	if p.Brand != "" {
		s.out.printf("  Brand:    %s\n", p.Brand)
	}
	if p.Category != "" {
		s.out.printf("  Category: %s\n", p.Category)
	}
	s.out.printf("  Price:    %s\n", money(p.Price))
	s.out.printf("  Stock:    %s\n", stockBadge(p))
	if p.Rating != nil {
		s.out.printf("  Rating:   %s/5\n", decimal.NewFromFloat(*p.Rating).StringFixed(1))
	}
	if p.Description != "" {
		s.out.printf("  %s\n", p.Description)
	}
}

func (s *Shell) renderCart() {
	lines := s.app.Cart.Lines()
	if len(lines) == 0 {
		s.out.printf("Your cart is empty.\n")
		return
	}
	for _, l := range lines {
		s.out.printf("  #%-4d %-32s %3d x %10s = %10s\n", l.ProductID, l.Name, l.Quantity, money(l.Price), money(l.LineTotal()))
	}
	t := s.app.Cart.Totals()
	s.out.printf("  Items:    %d\n", t.ItemCount)
	s.out.printf("  Subtotal: %s\n", money(t.Subtotal))
	s.out.printf("  Shipping: FREE\n")
	s.out.printf("  Tax:      %s\n", money(t.Tax))
	s.out.printf("  Total:    %s\n", money(t.Total))
}

func (s *Shell) renderReceipt(r *checkout.Receipt) {
	s.out.printf("%s\n", r.Message)
	if r.OrderID != 0 {
		s.out.printf("Order #%d\n", r.OrderID)
	}
	s.out.printf("Charged: %s\n", money(r.Totals.Total))
}

func (s *Shell) renderOrders(orders []clients.Order) {
	if len(orders) == 0 {
		s.out.printf("No orders yet.\n")
		return
	}
	for _, o := range orders {
		s.out.printf("  Order #%d  %-10s %10s  %d item(s)  %s\n",
			o.ID, o.Status, money(o.TotalAmount), len(o.Items), o.CreatedAt)
	}
}

func (s *Shell) renderPanel(v recommend.PanelView) {
	switch v.State {
	case recommend.PanelLoading:
		s.out.printf("Analyzing %s...\n", v.Product.Name)
	case recommend.PanelFailed:
		s.out.printf("AI analysis for %s failed: %s\n", v.Product.Name, v.Error)
	case recommend.PanelReady:
		a := v.Analysis
		s.out.printf("AI analysis for %s\n", v.Product.Name)
		s.out.printf("  %s\n", a.Summary)
		s.out.printf("  Pros:\n")
		for _, p := range a.Pros {
			s.out.printf("    + %s\n", p)
		}
		s.out.printf("  Cons:\n")
		for _, c := range a.Cons {
			s.out.printf("    - %s\n", c)
		}
		s.out.printf("  Recommendation: %s\n", a.Recommendation)
	}
}
