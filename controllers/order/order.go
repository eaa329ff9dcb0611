package orderControllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-api/models"
	"storefront-api/payments"
	"storefront-api/reconcile"
	"storefront-api/store"
)

// GET /orders?status=approved|readyforpickup|cancelled
// Admins see every order, everyone else their own. The cancelled filter
// also includes refunded orders, they are presented together.
func ListOrders(orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		isAdmin := c.GetBool("is_admin")

		var (
			list []models.OrderHeader
			err  error
		)
		if isAdmin {
			list, err = orders.ListAll()
		} else {
			list, err = orders.ListByUser(userID)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		if status := strings.ToLower(c.Query("status")); status != "" {
			filtered := list[:0]
			for _, o := range list {
				switch status {
				case "approved":
					if o.Status == models.OrderStatusApproved {
						filtered = append(filtered, o)
					}
				case "readyforpickup":
					if o.Status == models.OrderStatusReadyForPickup {
						filtered = append(filtered, o)
					}
				case "cancelled":
					if o.Status == models.OrderStatusCancelled || o.Status == models.OrderStatusRefunded {
						filtered = append(filtered, o)
					}
				}
			}
			list = filtered
		}

		c.JSON(http.StatusOK, gin.H{"data": list})
	}
}

// GET /orders/:orderID
func GetOrder(orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		isAdmin := c.GetBool("is_admin")

		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID must be numeric"})
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
		c.JSON(http.StatusOK, order)
	}
}

// POST /orders/:orderID/ready-for-pickup  (admin)
func ReadyForPickup(reconciler *reconcile.Reconciler) gin.HandlerFunc {
	return adminStatusHandler(func(orderID uint) error {
		return reconciler.MarkReadyForPickup(orderID)
	})
}

// POST /orders/:orderID/complete  (admin)
func CompleteOrder(reconciler *reconcile.Reconciler) gin.HandlerFunc {
	return adminStatusHandler(func(orderID uint) error {
		return reconciler.Complete(orderID)
	})
}

func adminStatusHandler(transition func(orderID uint) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID must be numeric"})
			return
		}

		if err := transition(uint(orderID)); err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			case errors.Is(err, reconcile.ErrInvalidTransition):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully"})
	}
}

// POST /orders/:orderID/cancel
// Only Approved orders can be cancelled, and only after the refund went
// through. A failed refund leaves the order Approved so the caller can
// retry.
func CancelOrder(orders *store.OrderStore, reconciler *reconcile.Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		isAdmin := c.GetBool("is_admin")

		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID must be numeric"})
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

		if err := reconciler.Cancel(c.Request.Context(), uint(orderID)); err != nil {
			var gwErr *payments.GatewayError
			switch {
			case errors.As(err, &gwErr):
				c.JSON(http.StatusBadGateway, gin.H{"error": gwErr.Error()})
			case errors.Is(err, reconcile.ErrInvalidTransition):
				c.JSON(http.StatusConflict, gin.H{"error": "Only approved orders can be cancelled"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order cancelled and refunded successfully"})
	}
}
