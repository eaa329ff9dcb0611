package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "storefront-api/controllers/cart"
	"storefront-api/middleware"
)

func SetupCartRoutes(r *gin.Engine, d Deps) {
	cart := r.Group("/cart")
	cart.Use(middleware.ValidateToken(d.Config.JWTSecret))
	{
		cart.GET("", cartControllers.GetCart(d.Carts))
		cart.POST("", cartControllers.UpsertCart(d.Carts))
		cart.POST("/coupon", cartControllers.ApplyCoupon(d.Carts))
		cart.DELETE("/lines/:lineID", cartControllers.RemoveLine(d.Carts))
		cart.DELETE("", cartControllers.ClearCart(d.Carts))

		cart.POST("/checkout", cartControllers.Checkout(d.Carts, d.Orders, d.Gateway, d.Config.PublicBaseURL))
		cart.GET("/confirmation", cartControllers.Confirmation(d.Carts, d.Orders, d.Reconciler))
	}
}
