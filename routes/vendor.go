package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/Almiviolad/KaraKata/controllers/order"
	productcontroller "github.com/Almiviolad/KaraKata/controllers/product"
	"github.com/Almiviolad/KaraKata/middleware"
	"github.com/Almiviolad/KaraKata/models"
)

// SetupVendorRoutes registers the vendor dashboard endpoints.
func SetupVendorRoutes(r *gin.Engine, db *gorm.DB) {
	vendor := r.Group("/vendor")
	vendor.Use(middleware.ValidateToken, middleware.RequireRole(models.RoleVendor))
	{
		vendor.GET("/dashboard", orderControllers.VendorDashboard(db))
		vendor.GET("/orders", orderControllers.GetVendorOrders(db))
		vendor.GET("/products/export", productcontroller.ExportProductsToExcel(db))
	}
}
