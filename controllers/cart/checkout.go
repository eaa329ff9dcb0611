package cartControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront-api/models"
	"storefront-api/payments"
	"storefront-api/reconcile"
	"storefront-api/store"
)

type CheckoutRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// POST /cart/checkout
// Freezes the cart into an order and opens a payment session. The cart is
// deliberately left intact so a failed or abandoned payment can be
// retried; it is cleared on the confirmation that first observes the
// successful payment.
func Checkout(carts *store.CartStore, orders *store.OrderStore, gateway *payments.Client, publicBaseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if err := carts.SetContact(userID, req.Name, req.Phone, req.Email); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}

		cart, err := carts.GetByUser(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		order, err := store.NewOrderFromCart(cart)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := orders.Create(order); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
			return
		}

		var lines []payments.SessionLine
		for _, line := range order.Lines {
			lines = append(lines, payments.SessionLine{
				Name:      line.ProductName,
				UnitPrice: line.Price,
				Count:     line.Count,
			})
		}
		couponCode := ""
		if order.Discount.IsPositive() {
			couponCode = order.CouponCode
		}

		successURL := fmt.Sprintf("%s/cart/confirmation?order_id=%d", publicBaseURL, order.OrderHeaderID)
		cancelURL := publicBaseURL + "/cart/checkout"

		session, err := gateway.CreateCheckoutSession(c.Request.Context(), lines, couponCode, successURL, cancelURL)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		if err := orders.SetSessionID(order.OrderHeaderID, session.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment session"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"order_id":    order.OrderHeaderID,
			"order_ref":   order.OrderRef,
			"session_id":  session.ID,
			"payment_url": session.URL,
		})
	}
}

// GET /cart/confirmation?order_id=N
// Validates the payment session and reports the resulting order status.
// The cart is cleared only on the call that first sees the payment
// succeed; revisiting the confirmation page changes nothing.
func Confirmation(carts *store.CartStore, orders *store.OrderStore, reconciler *reconcile.Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		isAdmin := c.GetBool("is_admin")

		orderID, err := strconv.ParseUint(c.Query("order_id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order_id must be numeric"})
			return
		}

		order, err := orders.GetByID(uint(orderID))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		if order.UserID != userID && !isAdmin {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		result, err := reconciler.Reconcile(c.Request.Context(), uint(orderID))
		if err != nil {
			var gwErr *payments.GatewayError
			switch {
			case errors.As(err, &gwErr):
				c.JSON(http.StatusBadGateway, gin.H{"error": gwErr.Error()})
			case errors.Is(err, reconcile.ErrNoSession):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate payment"})
			}
			return
		}

		if result.FreshlyApproved {
			if err := carts.Clear(order.UserID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment confirmed but cart could not be cleared"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"order_id": order.OrderHeaderID,
			"status":   result.Status,
			"message":  confirmationMessage(result.Status),
		})
	}
}

func confirmationMessage(status models.OrderStatus) string {
	switch status {
	case models.OrderStatusApproved:
		return "Payment successful! Your order has been confirmed."
	case models.OrderStatusPending:
		return "Your payment is being processed. We'll update you once it's confirmed."
	case models.OrderStatusPaymentRequired:
		return "Payment is required to complete your order."
	case models.OrderStatusPaymentPending:
		return "Additional verification is needed for your payment."
	default:
		return "Payment failed. Please try again."
	}
}
