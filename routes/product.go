package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Almiviolad/KaraKata/cache"
	productcontroller "github.com/Almiviolad/KaraKata/controllers/product"
	"github.com/Almiviolad/KaraKata/middleware"
	"github.com/Almiviolad/KaraKata/models"
)

// SetupProductRoutes registers the catalog. Listing and detail are public;
// mutations require an authenticated vendor.
func SetupProductRoutes(r *gin.Engine, db *gorm.DB, pc *cache.ProductCache) {
	products := r.Group("/products")
	{
		products.GET("", productcontroller.GetProducts(db, pc))
		products.GET("/:slug", productcontroller.GetProductBySlug(db, pc))

		vendorOnly := products.Group("")
		vendorOnly.Use(middleware.ValidateToken, middleware.RequireRole(models.RoleVendor))
		{
			vendorOnly.POST("", productcontroller.CreateProduct(db, pc))
			vendorOnly.PUT("/:slug", productcontroller.UpdateProduct(db, pc))
			vendorOnly.DELETE("/:slug", productcontroller.DeleteProduct(db, pc))
		}
	}
}
