package couponControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront-api/models"
	"storefront-api/payments"
	"storefront-api/store"
)

// GET /coupons  (admin)
func ListCoupons(coupons *store.CouponStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := coupons.List()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coupons"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": list})
	}
}

// GET /coupons/:couponID  (admin)
func GetCoupon(coupons *store.CouponStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		couponID, err := strconv.ParseUint(c.Param("couponID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "couponID must be numeric"})
			return
		}

		coupon, err := coupons.GetByID(uint(couponID))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coupon"})
			return
		}
		c.JSON(http.StatusOK, coupon)
	}
}

type CreateCouponRequest struct {
	CouponCode     string          `json:"coupon_code" binding:"required,max=100"`
	DiscountAmount decimal.Decimal `json:"discount_amount" binding:"required"`
	MinAmount      decimal.Decimal `json:"min_amount" binding:"required"`
}

// POST /coupons  (admin)
// The gateway mirror is created first; a local row only ever exists with
// its Stripe counterpart already in place.
func CreateCoupon(coupons *store.CouponStore, gateway *payments.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		stripeID, err := gateway.CreateCoupon(c.Request.Context(), req.CouponCode, req.DiscountAmount)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		coupon := models.Coupon{
			CouponCode:     req.CouponCode,
			DiscountAmount: req.DiscountAmount,
			MinAmount:      req.MinAmount,
			StripeID:       stripeID,
		}
		if err := coupons.Create(&coupon); err != nil {
			if errors.Is(err, store.ErrConflict) {
				c.JSON(http.StatusConflict, gin.H{"error": "Coupon code already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Coupon mirrored to gateway but local create failed"})
			return
		}
		c.JSON(http.StatusCreated, coupon)
	}
}

// DELETE /coupons/:couponID  (admin)
// The gateway mirror goes first; if it cannot be removed the local row
// stays and the gateway error is surfaced so operators see the drift.
func DeleteCoupon(coupons *store.CouponStore, gateway *payments.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		couponID, err := strconv.ParseUint(c.Param("couponID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "couponID must be numeric"})
			return
		}

		coupon, err := coupons.GetByID(uint(couponID))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coupon"})
			return
		}

		if err := gateway.DeleteCoupon(c.Request.Context(), coupon.CouponCode); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Gateway coupon not removed: " + err.Error()})
			return
		}

		if err := coupons.Delete(uint(couponID)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gateway coupon removed but local delete failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted successfully"})
	}
}
