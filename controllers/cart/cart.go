package cartControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront-api/store"
)

// GET /cart
func GetCart(carts *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		cart, err := carts.GetByUser(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		if cart == nil {
			c.JSON(http.StatusOK, gin.H{"cart": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

type UpsertCartRequest struct {
	Lines []store.LineUpsert `json:"lines" binding:"required,min=1,dive"`
}

// POST /cart
// Adds products to the cart; a product already in the cart has the
// incoming quantity added to its line. The batch is atomic.
func UpsertCart(carts *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var req UpsertCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if err := carts.Upsert(userID, req.Lines); err != nil {
			switch {
			case errors.Is(err, store.ErrInvalidQuantity):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, store.ErrNotFound):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
			case errors.Is(err, store.ErrConflict):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			}
			return
		}

		cart, err := carts.GetByUser(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

type ApplyCouponRequest struct {
	CouponCode string `json:"coupon_code"`
}

// POST /cart/coupon
// Sets the coupon code on the header; an empty code removes it. The code
// is not validated here, pricing decides applicability.
func ApplyCoupon(carts *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var req ApplyCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if err := carts.ApplyCoupon(userID, req.CouponCode); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No cart for user"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply coupon"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart updated successfully"})
	}
}

// DELETE /cart/lines/:lineID
func RemoveLine(carts *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		lineID, err := strconv.ParseUint(c.Param("lineID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lineID must be numeric"})
			return
		}

		if err := carts.RemoveLine(uint(lineID)); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Cart line not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove line"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart updated successfully"})
	}
}

// DELETE /cart
func ClearCart(carts *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		if err := carts.Clear(userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
