package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog entry the cart and order flows read from. The
// core never mutates the catalog; name and price are copied into order
// lines at checkout.
type Product struct {
	ProductID   uint            `gorm:"primaryKey;autoIncrement" json:"product_id"`
	Name        string          `gorm:"size:200;not null" json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    string          `json:"image_url"`
	CategoryID  uint            `json:"category_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
