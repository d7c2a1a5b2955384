package cart_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

type cartTestContext struct {
	cart *cart.Cart
}

func (c *cartTestContext) anEmptyCart() error {
	c.cart = cart.New()
	return nil
}

func (c *cartTestContext) iAddProductPricedToTheCart(id int, price string) error {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	c.cart.Add(catalog.Product{ID: int64(id), Name: fmt.Sprintf("product-%d", id), Price: p, Stock: 10})
	return nil
}

func (c *cartTestContext) iSetTheQuantityOfProductTo(id, q int) error {
	c.cart.UpdateQuantity(int64(id), q)
	return nil
}

func (c *cartTestContext) iClearTheCart() error {
	c.cart.Clear()
	return nil
}

func (c *cartTestContext) theCartHasLines(n int) error {
	if got := len(c.cart.Lines()); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) productHasQuantity(id, q int) error {
	l, ok := c.cart.Line(int64(id))
	if !ok {
		return fmt.Errorf("product %d not in cart", id)
	}
	if l.Quantity != q {
		return fmt.Errorf("expected quantity %d, got %d", q, l.Quantity)
	}
	return nil
}

func (c *cartTestContext) theItemCountIs(n int) error {
	if got := c.cart.Totals().ItemCount; got != n {
		return fmt.Errorf("expected item count %d, got %d", n, got)
	}
	return nil
}

func amountIs(label string, got decimal.Decimal, want string) error {
	if !got.Equal(decimal.RequireFromString(want)) {
		return fmt.Errorf("expected %s %s, got %s", label, want, got)
	}
	return nil
}

func (c *cartTestContext) theSubtotalIs(want string) error {
	return amountIs("subtotal", c.cart.Totals().Subtotal, want)
}

func (c *cartTestContext) theTaxIs(want string) error {
	return amountIs("tax", c.cart.Totals().Tax, want)
}

func (c *cartTestContext) theTotalIs(want string) error {
	return amountIs("total", c.cart.Totals().Total, want)
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.cart = cart.New()
		return ctx, nil
	})

	ctx.Step(`^an empty cart$`, tc.anEmptyCart)
	ctx.Step(`^I add product (\d+) priced (\d+\.\d+) to the cart$`, tc.iAddProductPricedToTheCart)
	ctx.Step(`^I set the quantity of product (\d+) to (-?\d+)$`, tc.iSetTheQuantityOfProductTo)
	ctx.Step(`^I clear the cart$`, tc.iClearTheCart)
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^product (\d+) has quantity (\d+)$`, tc.productHasQuantity)
	ctx.Step(`^the item count is (\d+)$`, tc.theItemCountIs)
	ctx.Step(`^the subtotal is (\d+\.\d+)$`, tc.theSubtotalIs)
	ctx.Step(`^the tax is (\d+\.\d+)$`, tc.theTaxIs)
	ctx.Step(`^the total is (\d+\.\d+)$`, tc.theTotalIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
