package catalog

import "github.com/shopspring/decimal"

// LowStockThreshold is the stock level under which a product is flagged as
// running out ("Only N left").
const LowStockThreshold = 10

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Brand       string          `json:"brand,omitempty"`
	Category    string          `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Rating      *float64        `json:"rating,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Images      []string        `json:"images,omitempty"`
}

func (p Product) InStock() bool { return p.Stock > 0 }

func (p Product) LowStock() bool { return p.Stock > 0 && p.Stock < LowStockThreshold }

// RatingOrZero treats a missing rating as 0, which is how rating sorts order
// unrated products.
func (p Product) RatingOrZero() float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}
