package store

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront-api/models"
	"storefront-api/pricing"
)

// CartStore owns the per-user cart aggregate. All multi-row mutations run
// inside a transaction with the header row locked, so concurrent upserts
// for the same user serialize instead of losing updates.
type CartStore struct {
	db       *gorm.DB
	products *ProductStore
	coupons  *CouponStore
}

func NewCartStore(db *gorm.DB, products *ProductStore, coupons *CouponStore) *CartStore {
	return &CartStore{db: db, products: products, coupons: coupons}
}

// LineUpsert is one product/quantity pair of an upsert batch.
type LineUpsert struct {
	ProductID uint `json:"product_id" binding:"required"`
	Count     int  `json:"count" binding:"required"`
}

// GetByUser loads the user's cart and prices it against current catalog
// prices and the applied coupon, if any. A user without a cart gets
// (nil, nil), not an error.
func (s *CartStore) GetByUser(userID string) (*models.PricedCart, error) {
	var header models.CartHeader
	err := s.db.Preload("Lines").Where("user_id = ?", userID).First(&header).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.price(header)
}

func (s *CartStore) price(header models.CartHeader) (*models.PricedCart, error) {
	var inputs []pricing.LineInput
	for _, line := range header.Lines {
		product, err := s.products.GetByID(line.ProductID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// Product withdrawn from the catalog after it was added;
				// the line stays in the cart but prices as nothing.
				continue
			}
			return nil, err
		}
		inputs = append(inputs, pricing.LineInput{Line: line, Product: *product})
	}

	var coupon *models.Coupon
	if header.CouponCode != "" {
		c, err := s.coupons.GetByCode(header.CouponCode)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		coupon = c // nil when the code no longer resolves
	}

	res := pricing.Price(inputs, coupon)
	return &models.PricedCart{
		Header:   header,
		Lines:    res.Lines,
		Subtotal: res.Subtotal,
		Discount: res.Discount,
		Total:    res.Total,
	}, nil
}

// Upsert applies a batch of line upserts atomically: the header is created
// on first use, a line for an already-carted product has the incoming
// quantity added to it, and a new product gets a fresh line. The whole
// batch rolls back if any line is invalid.
func (s *CartStore) Upsert(userID string, lines []LineUpsert) error {
	if len(lines) == 0 {
		return nil
	}
	for _, in := range lines {
		if in.Count < 1 || in.Count > 100 {
			return ErrInvalidQuantity
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		header, err := s.lockHeader(tx, userID)
		if err != nil {
			return err
		}

		for _, in := range lines {
			if _, err := s.products.getByID(tx, in.ProductID); err != nil {
				return err
			}

			var line models.CartLine
			err := tx.Where("cart_header_id = ? AND product_id = ?", header.CartHeaderID, in.ProductID).
				First(&line).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				line = models.CartLine{
					CartHeaderID: header.CartHeaderID,
					ProductID:    in.ProductID,
					Count:        in.Count,
				}
				if err := tx.Create(&line).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				line.Count += in.Count
				if line.Count > 100 {
					return ErrInvalidQuantity
				}
				if err := tx.Save(&line).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}

// lockHeader fetches the user's header under a row lock, creating it if
// this is the first add. A duplicate-key error on create means another
// request won the creation race.
func (s *CartStore) lockHeader(tx *gorm.DB, userID string) (*models.CartHeader, error) {
	q := tx.Where("user_id = ?", userID)
	if tx.Dialector.Name() == "postgres" {
		// sqlite (tests) has a single writer and no row locks.
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var header models.CartHeader
	err := q.First(&header).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		header = models.CartHeader{UserID: userID}
		if err := tx.Create(&header).Error; err != nil {
			return nil, err
		}
		return &header, nil
	}
	if err != nil {
		return nil, err
	}
	return &header, nil
}

// ApplyCoupon overwrites the header's coupon code unconditionally; an
// empty code clears it. Validity is decided at pricing time, not here.
func (s *CartStore) ApplyCoupon(userID, code string) error {
	res := s.db.Model(&models.CartHeader{}).
		Where("user_id = ?", userID).
		Update("coupon_code", code)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetContact records the checkout contact fields on the header.
func (s *CartStore) SetContact(userID, name, phone, email string) error {
	res := s.db.Model(&models.CartHeader{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"name": name, "phone": phone, "email": email})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveLine deletes one line; deleting the last line also removes the
// header so empty carts never linger.
func (s *CartStore) RemoveLine(cartLineID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var line models.CartLine
		if err := tx.First(&line, cartLineID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var remaining int64
		if err := tx.Model(&models.CartLine{}).
			Where("cart_header_id = ?", line.CartHeaderID).
			Count(&remaining).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.CartLine{}, line.CartLineID).Error; err != nil {
			return err
		}
		if remaining == 1 {
			if err := tx.Delete(&models.CartHeader{}, line.CartHeaderID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Clear removes the user's header and all its lines. A user without a
// cart is a successful no-op.
func (s *CartStore) Clear(userID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var header models.CartHeader
		err := tx.Where("user_id = ?", userID).First(&header).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.Where("cart_header_id = ?", header.CartHeaderID).
			Delete(&models.CartLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.CartHeader{}, header.CartHeaderID).Error
	})
}
