package cart

import (
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/shopspring/decimal"
)

// TaxRate is applied to the subtotal. Shipping is always free.
var TaxRate = decimal.RequireFromString("0.10")

type Line struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand,omitempty"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

func lineFor(p catalog.Product) Line {
	return Line{
		ProductID: p.ID,
		Name:      p.Name,
		Brand:     p.Brand,
		ImageURL:  p.ImageURL,
		Price:     p.Price,
		Quantity:  1,
	}
}

func (l Line) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Totals struct {
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
}

// ComputeTotals derives the cart totals from its lines. Tax is rounded to
// cents so the total shown is the total charged.
func ComputeTotals(lines []Line) Totals {
	t := Totals{Subtotal: decimal.Zero, Shipping: decimal.Zero}
	for _, l := range lines {
		t.ItemCount += l.Quantity
		t.Subtotal = t.Subtotal.Add(l.LineTotal())
	}
	t.Tax = t.Subtotal.Mul(TaxRate).Round(2)
	t.Total = t.Subtotal.Add(t.Tax).Add(t.Shipping)
	return t
}
