package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartHeader is the per-user cart aggregate root. The unique index on
// UserID enforces at most one open cart per user; the header is created on
// the first line add and removed together with its last line.
type CartHeader struct {
	CartHeaderID uint       `gorm:"primaryKey" json:"cart_header_id"`
	UserID       string     `gorm:"not null;uniqueIndex" json:"user_id"`
	CouponCode   string     `json:"coupon_code"`
	Lines        []CartLine `gorm:"foreignKey:CartHeaderID;constraint:OnDelete:CASCADE" json:"lines"`

	// Contact fields, required only at checkout time.
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartLine holds one product in a cart. At most one line exists per
// (cart, product) pair; re-adding the same product merges quantities.
// Prices are never stored here, they are re-derived from the catalog on
// every pricing pass.
type CartLine struct {
	CartLineID   uint `gorm:"primaryKey" json:"cart_line_id"`
	CartHeaderID uint `gorm:"index;not null" json:"cart_header_id"`
	ProductID    uint `gorm:"not null" json:"product_id"`
	Count        int  `gorm:"not null" json:"count"` // 1..100 inclusive

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PricedLine is a cart line joined with current catalog data and its
// computed subtotal.
type PricedLine struct {
	Line        CartLine        `json:"line"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PricedCart is the cart aggregate after a pricing pass: line subtotals,
// coupon decision and the discounted total. This is the input to order
// creation.
type PricedCart struct {
	Header   CartHeader      `json:"header"`
	Lines    []PricedLine    `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}
