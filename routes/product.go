package routes

import (
	"github.com/gin-gonic/gin"

	productControllers "storefront-api/controllers/product"
)

func SetupProductRoutes(r *gin.Engine, d Deps) {
	products := r.Group("/products")
	{
		products.GET("", productControllers.ListProducts(d.Products))
		products.GET("/:productID", productControllers.GetProduct(d.Products))
	}
}
