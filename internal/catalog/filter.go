package catalog

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// AllCategories is the category sentinel that disables category filtering.
const AllCategories = "all"

type PriceRange string

const (
	PriceAll      PriceRange = "all"
	PriceUnder10  PriceRange = "0-10"
	Price10To25   PriceRange = "10-25"
	Price25To50   PriceRange = "25-50"
	Price50To100  PriceRange = "50-100"
	Price100To500 PriceRange = "100-500"
	PriceOver500  PriceRange = "500+"
)

// PriceRanges lists the selectable ranges in display order.
var PriceRanges = []PriceRange{
	PriceAll, PriceUnder10, Price10To25, Price25To50, Price50To100, Price100To500, PriceOver500,
}

type bounds struct {
	min decimal.Decimal
	max *decimal.Decimal // nil means unbounded
}

func bound(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

var priceBounds = map[PriceRange]bounds{
	PriceUnder10:  {min: decimal.Zero, max: bound(10)},
	Price10To25:   {min: decimal.NewFromInt(10), max: bound(25)},
	Price25To50:   {min: decimal.NewFromInt(25), max: bound(50)},
	Price50To100:  {min: decimal.NewFromInt(50), max: bound(100)},
	Price100To500: {min: decimal.NewFromInt(100), max: bound(500)},
	PriceOver500:  {min: decimal.NewFromInt(500)},
}

func (r PriceRange) Valid() bool {
	if r == PriceAll {
		return true
	}
	_, ok := priceBounds[r]
	return ok
}

// Contains reports whether price falls in r. Both ends are inclusive.
func (r PriceRange) Contains(price decimal.Decimal) bool {
	b, ok := priceBounds[r]
	if !ok {
		return true
	}
	if price.LessThan(b.min) {
		return false
	}
	return b.max == nil || price.LessThanOrEqual(*b.max)
}

type SortKey string

const (
	SortDefault   SortKey = "default"
	SortName      SortKey = "name"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortRating    SortKey = "rating"
)

var SortKeys = []SortKey{SortDefault, SortName, SortPriceAsc, SortPriceDesc, SortRating}

func (k SortKey) Valid() bool {
	return slices.Contains(SortKeys, k)
}

type FilterCriteria struct {
	Search     string
	Category   string
	PriceRange PriceRange
	Sort       SortKey
}

func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		Category:   AllCategories,
		PriceRange: PriceAll,
		Sort:       SortDefault,
	}
}

// ComputeVisible filters products by search, category and price range, in
// that order, then applies a stable sort. The input slice is not modified.
func ComputeVisible(products []Product, c FilterCriteria) []Product {
	needle := strings.ToLower(strings.TrimSpace(c.Search))

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if needle != "" && !matchesSearch(p, needle) {
			continue
		}
		if c.Category != "" && c.Category != AllCategories && p.Category != c.Category {
			continue
		}
		if c.PriceRange != "" && !c.PriceRange.Contains(p.Price) {
			continue
		}
		out = append(out, p)
	}

	if cmp := comparator(c.Sort); cmp != nil {
		slices.SortStableFunc(out, cmp)
	}
	return out
}

func matchesSearch(p Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Brand), needle)
}

func comparator(k SortKey) func(a, b Product) int {
	switch k {
	case SortName:
		return func(a, b Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case SortPriceAsc:
		return func(a, b Product) int { return a.Price.Cmp(b.Price) }
	case SortPriceDesc:
		return func(a, b Product) int { return b.Price.Cmp(a.Price) }
	case SortRating:
		return func(a, b Product) int {
			ra, rb := a.RatingOrZero(), b.RatingOrZero()
			switch {
			case ra > rb:
				return -1
			case ra < rb:
				return 1
			}
			return 0
		}
	default:
		return nil
	}
}

// CategoryOptions returns the "all" sentinel followed by the distinct,
// non-empty categories in the order they first appear.
func CategoryOptions(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := []string{AllCategories}
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
