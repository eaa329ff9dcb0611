package routes

import (
	"github.com/gin-gonic/gin"

	couponControllers "storefront-api/controllers/coupon"
	"storefront-api/middleware"
)

func SetupCouponRoutes(r *gin.Engine, d Deps) {
	coupons := r.Group("/coupons")
	coupons.Use(middleware.ValidateToken(d.Config.JWTSecret), middleware.RequireAdmin())
	{
		coupons.GET("", couponControllers.ListCoupons(d.Coupons))
		coupons.GET("/:couponID", couponControllers.GetCoupon(d.Coupons))
		coupons.POST("", couponControllers.CreateCoupon(d.Coupons, d.Gateway))
		coupons.DELETE("/:couponID", couponControllers.DeleteCoupon(d.Coupons, d.Gateway))
	}
}
