package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"storefront-api/models"
)

func TestCouponGetByCodeCaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	coupons := NewCouponStore(db)
	seeded := seedCoupon(t, db, "10OFF", "10.00", "20.00")

	for _, code := range []string{"10OFF", "10off", "10Off"} {
		got, err := coupons.GetByCode(code)
		require.NoError(t, err)
		require.Equal(t, seeded.CouponID, got.CouponID)
	}

	_, err := coupons.GetByCode("NOPE")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCouponCreateDuplicateCode(t *testing.T) {
	db := openTestDB(t)
	coupons := NewCouponStore(db)
	seedCoupon(t, db, "10OFF", "10.00", "20.00")

	dup := &models.Coupon{
		CouponCode:     "10OFF",
		DiscountAmount: decimal.RequireFromString("5.00"),
		MinAmount:      decimal.RequireFromString("10.00"),
	}
	require.ErrorIs(t, coupons.Create(dup), ErrConflict)
}

func TestCouponDelete(t *testing.T) {
	db := openTestDB(t)
	coupons := NewCouponStore(db)
	seeded := seedCoupon(t, db, "10OFF", "10.00", "20.00")

	require.NoError(t, coupons.Delete(seeded.CouponID))
	_, err := coupons.GetByID(seeded.CouponID)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, coupons.Delete(seeded.CouponID), ErrNotFound)
}

func TestCouponList(t *testing.T) {
	db := openTestDB(t)
	coupons := NewCouponStore(db)
	seedCoupon(t, db, "10OFF", "10.00", "20.00")
	seedCoupon(t, db, "20OFF", "20.00", "50.00")

	list, err := coupons.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "10OFF", list[0].CouponCode)
	require.Equal(t, "20OFF", list[1].CouponCode)
}
