package store

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront-api/models"
)

// openTestDB gives each test its own in-memory database with the full
// schema migrated.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Coupon{},
		&models.CartHeader{},
		&models.CartLine{},
		&models.OrderHeader{},
		&models.OrderLine{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string) models.Product {
	t.Helper()
	product := models.Product{Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedCoupon(t *testing.T, db *gorm.DB, code, discount, min string) models.Coupon {
	t.Helper()
	coupon := models.Coupon{
		CouponCode:     code,
		DiscountAmount: decimal.RequireFromString(discount),
		MinAmount:      decimal.RequireFromString(min),
	}
	require.NoError(t, db.Create(&coupon).Error)
	return coupon
}
