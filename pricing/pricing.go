// Package pricing computes cart totals from current catalog prices and an
// optional coupon. It has no side effects; callers pass the coupon row in
// (or nil) so the package stays free of storage concerns.
package pricing

import (
	"github.com/shopspring/decimal"

	"storefront-api/models"
)

// LineInput pairs a cart line with the product it currently resolves to.
type LineInput struct {
	Line    models.CartLine
	Product models.Product
}

// Result is the outcome of one pricing pass.
type Result struct {
	Lines    []models.PricedLine
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Price computes per-line subtotals and the cart total. A coupon discounts
// the subtotal only when the subtotal strictly exceeds the coupon minimum;
// a nil coupon means no discount. The discount is a flat amount and the
// total is clamped at zero so an oversized coupon can never produce a
// negative total.
func Price(lines []LineInput, coupon *models.Coupon) Result {
	res := Result{
		Subtotal: decimal.Zero,
		Discount: decimal.Zero,
	}

	for _, in := range lines {
		sub := in.Product.Price.Mul(decimal.NewFromInt(int64(in.Line.Count)))
		res.Lines = append(res.Lines, models.PricedLine{
			Line:        in.Line,
			ProductName: in.Product.Name,
			UnitPrice:   in.Product.Price,
			Subtotal:    sub,
		})
		res.Subtotal = res.Subtotal.Add(sub)
	}

	res.Total = res.Subtotal
	if coupon != nil && res.Subtotal.GreaterThan(coupon.MinAmount) {
		res.Discount = coupon.DiscountAmount
		res.Total = res.Subtotal.Sub(coupon.DiscountAmount)
		if res.Total.IsNegative() {
			res.Total = decimal.Zero
		}
	}
	return res
}
