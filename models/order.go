package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "Pending"         // Order created, payment session not yet settled
	OrderStatusApproved        OrderStatus = "Approved"        // Payment succeeded
	OrderStatusPaymentRequired OrderStatus = "PaymentRequired" // Gateway wants a new payment method
	OrderStatusPaymentPending  OrderStatus = "PaymentPending"  // Gateway needs additional customer action
	OrderStatusPaymentFailed   OrderStatus = "PaymentFailed"   // Any other intent outcome
	OrderStatusReadyForPickup  OrderStatus = "ReadyForPickup"  // Staff marked the order prepared
	OrderStatusCompleted       OrderStatus = "Completed"       // Handed over to the customer
	OrderStatusCancelled       OrderStatus = "Cancelled"       // Cancelled after a successful refund
	OrderStatusRefunded        OrderStatus = "Refunded"        // Money returned outside the cancel flow
)

// OrderHeader is the immutable snapshot of a checked-out cart. Only the
// status and payment-id fields change after creation, and only through the
// reconciler.
type OrderHeader struct {
	OrderHeaderID uint            `gorm:"primaryKey" json:"order_header_id"`
	UserID        string          `gorm:"not null;index" json:"user_id"`
	OrderRef      string          `gorm:"uniqueIndex" json:"order_ref"`
	CouponCode    string          `json:"coupon_code"`
	Discount      decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount"`
	OrderTotal    decimal.Decimal `gorm:"type:decimal(10,2)" json:"order_total"`
	Status        OrderStatus     `gorm:"type:varchar(20);default:'Pending'" json:"status"`

	// External payment references, filled in by the gateway adapter and the
	// reconciler respectively.
	SessionID       string `json:"session_id"`
	PaymentIntentID string `json:"payment_intent_id"`

	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`

	Lines []OrderLine `gorm:"foreignKey:OrderHeaderID;constraint:OnDelete:CASCADE" json:"lines"`

	OrderTime time.Time `json:"order_time"`
}

// OrderLine freezes the product name and unit price at order-creation
// time; later catalog changes must not show through.
type OrderLine struct {
	OrderLineID   uint            `gorm:"primaryKey" json:"order_line_id"`
	OrderHeaderID uint            `gorm:"index;not null" json:"order_header_id"`
	ProductID     uint            `gorm:"not null" json:"product_id"`
	ProductName   string          `gorm:"size:200;not null" json:"product_name"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Count         int             `json:"count"`
}
