package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/Almiviolad/KaraKata/controllers/cart"
	"github.com/Almiviolad/KaraKata/middleware"
)

// SetupCartRoutes registers all "/cart/*" endpoints. Requires JWT middleware.
func SetupCartRoutes(r *gin.Engine, db *gorm.DB) {
	cart := r.Group("/cart")
	cart.Use(middleware.ValidateToken)
	{
		cart.GET("", cartControllers.GetCart(db))
		cart.POST("/add", cartControllers.AddToCart(db))
		cart.PATCH("/:itemID/update", cartControllers.UpdateQuantity(db))
		cart.DELETE("/:itemID/remove", cartControllers.RemoveItem(db))
	}
}
