package routes

import (
	"github.com/gin-gonic/gin"

	"storefront-api/config"
	"storefront-api/payments"
	"storefront-api/reconcile"
	"storefront-api/store"
)

// Deps bundles everything the route groups need; main builds one and
// hands it over.
type Deps struct {
	Config     *config.Config
	Carts      *store.CartStore
	Orders     *store.OrderStore
	Coupons    *store.CouponStore
	Products   *store.ProductStore
	Gateway    *payments.Client
	Reconciler *reconcile.Reconciler
}

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	// Public catalog routes (no middleware)
	SetupProductRoutes(r, d)

	// Cart + checkout routes (JWT-protected)
	SetupCartRoutes(r, d)

	// Order routes (JWT-protected, some admin-only)
	SetupOrderRoutes(r, d)

	// Coupon admin routes
	SetupCouponRoutes(r, d)
}
