package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-api/models"
)

// OrderStore persists immutable order snapshots and performs the
// compare-and-set status updates the reconciler relies on.
type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// NewOrderFromCart builds an order snapshot from a priced cart. The
// contact fields must be populated and the cart non-empty. Product names
// and unit prices are copied into the lines here; this is the point where
// "price at time of purchase" is fixed. The cart itself is left alone.
func NewOrderFromCart(cart *models.PricedCart) (*models.OrderHeader, error) {
	if cart == nil || len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	h := cart.Header
	if h.Name == "" || h.Phone == "" || h.Email == "" {
		return nil, ErrMissingContact
	}

	order := &models.OrderHeader{
		UserID:     h.UserID,
		OrderRef:   generateOrderRef(),
		CouponCode: h.CouponCode,
		Discount:   cart.Discount,
		OrderTotal: cart.Total.Round(2),
		Status:     models.OrderStatusPending,
		Name:       h.Name,
		Phone:      h.Phone,
		Email:      h.Email,
		OrderTime:  time.Now(),
	}
	for _, pl := range cart.Lines {
		order.Lines = append(order.Lines, models.OrderLine{
			ProductID:   pl.Line.ProductID,
			ProductName: pl.ProductName,
			Price:       pl.UnitPrice,
			Count:       pl.Line.Count,
		})
	}
	return order, nil
}

func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// Create persists the header and its lines in one transaction; no header
// is left behind without its lines.
func (s *OrderStore) Create(order *models.OrderHeader) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

func (s *OrderStore) GetByID(id uint) (*models.OrderHeader, error) {
	var order models.OrderHeader
	err := s.db.Preload("Lines").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) ListAll() ([]models.OrderHeader, error) {
	var orders []models.OrderHeader
	err := s.db.Preload("Lines").Order("order_header_id DESC").Find(&orders).Error
	return orders, err
}

func (s *OrderStore) ListByUser(userID string) ([]models.OrderHeader, error) {
	var orders []models.OrderHeader
	err := s.db.Preload("Lines").
		Where("user_id = ?", userID).
		Order("order_header_id DESC").
		Find(&orders).Error
	return orders, err
}

// SetSessionID records the gateway checkout session on the order.
func (s *OrderStore) SetSessionID(orderID uint, sessionID string) error {
	res := s.db.Model(&models.OrderHeader{}).
		Where("order_header_id = ?", orderID).
		Update("session_id", sessionID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TransitionStatus moves the order to a new status only if its current
// status is one of the allowed source states, optionally recording the
// payment intent id in the same write. The boolean reports whether this
// call performed the transition; a false result with a nil error means
// the order was already past the allowed states, which is how repeated
// reconciliation runs stay idempotent.
func (s *OrderStore) TransitionStatus(orderID uint, from []models.OrderStatus, to models.OrderStatus, intentID string) (bool, error) {
	updates := map[string]interface{}{"status": to}
	if intentID != "" {
		updates["payment_intent_id"] = intentID
	}

	res := s.db.Model(&models.OrderHeader{}).
		Where("order_header_id = ? AND status IN ?", orderID, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
