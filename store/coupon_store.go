package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"storefront-api/models"
)

// CouponStore looks coupons up by case-insensitive code and owns the
// local half of the coupon lifecycle; the Stripe mirror is managed by the
// coupon handlers through the gateway adapter.
type CouponStore struct {
	db *gorm.DB
}

func NewCouponStore(db *gorm.DB) *CouponStore {
	return &CouponStore{db: db}
}

func (s *CouponStore) List() ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := s.db.Order("coupon_id").Find(&coupons).Error
	return coupons, err
}

func (s *CouponStore) GetByID(id uint) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := s.db.First(&coupon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

func (s *CouponStore) GetByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.db.Where("LOWER(coupon_code) = ?", strings.ToLower(code)).First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (s *CouponStore) Create(coupon *models.Coupon) error {
	err := s.db.Create(coupon).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}

func (s *CouponStore) Delete(id uint) error {
	res := s.db.Delete(&models.Coupon{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
