package models

import "github.com/shopspring/decimal"

// Coupon is a flat-amount discount. Codes are unique case-insensitively;
// carts and orders reference the code as a plain string, so deleting a
// coupon leaves old orders with their already-applied discount intact.
// StripeID links the row to its mirror in the payment system.
type Coupon struct {
	CouponID       uint            `gorm:"primaryKey" json:"coupon_id"`
	CouponCode     string          `gorm:"size:100;not null;uniqueIndex" json:"coupon_code"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount_amount"`
	MinAmount      decimal.Decimal `gorm:"type:decimal(10,2)" json:"min_amount"`
	StripeID       string          `gorm:"size:100" json:"stripe_id"`
}
