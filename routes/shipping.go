package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	shippingControllers "github.com/Almiviolad/KaraKata/controllers/shipping"
	"github.com/Almiviolad/KaraKata/middleware"
)

// SetupShippingRoutes registers all "/addresses/*" endpoints. Requires JWT
// middleware; every query is scoped to the caller.
func SetupShippingRoutes(r *gin.Engine, db *gorm.DB) {
	addresses := r.Group("/addresses")
	addresses.Use(middleware.ValidateToken)
	{
		addresses.GET("", shippingControllers.GetAddresses(db))
		addresses.POST("", shippingControllers.CreateAddress(db))
		addresses.PUT("/:id", shippingControllers.UpdateAddress(db))
		addresses.DELETE("/:id", shippingControllers.DeleteAddress(db))
	}
}
