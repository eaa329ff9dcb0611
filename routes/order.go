package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "storefront-api/controllers/order"
	"storefront-api/middleware"
)

func SetupOrderRoutes(r *gin.Engine, d Deps) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken(d.Config.JWTSecret))
	{
		orders.GET("", orderControllers.ListOrders(d.Orders))
		orders.GET("/:orderID", orderControllers.GetOrder(d.Orders))
		orders.POST("/:orderID/cancel", orderControllers.CancelOrder(d.Orders, d.Reconciler))

		admin := orders.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("/:orderID/ready-for-pickup", orderControllers.ReadyForPickup(d.Reconciler))
			admin.POST("/:orderID/complete", orderControllers.CompleteOrder(d.Reconciler))
			admin.GET("/export", orderControllers.ExportOrdersToExcel(d.Orders))
		}
	}

	// websocket endpoint for real-time order status updates
	r.GET("/ws/orders", orderControllers.OrderWebSocketHandler)
}
