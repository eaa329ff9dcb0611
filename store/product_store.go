package store

import (
	"errors"

	"gorm.io/gorm"

	"storefront-api/models"
)

// ProductStore is the read-only catalog surface the cart and order flows
// consume. Catalog writes happen elsewhere.
type ProductStore struct {
	db *gorm.DB
}

func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

func (s *ProductStore) List() ([]models.Product, error) {
	var products []models.Product
	err := s.db.Order("product_id").Find(&products).Error
	return products, err
}

func (s *ProductStore) GetByID(id uint) (*models.Product, error) {
	return s.getByID(s.db, id)
}

func (s *ProductStore) getByID(tx *gorm.DB, id uint) (*models.Product, error) {
	var product models.Product
	if err := tx.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}
