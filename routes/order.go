package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/Almiviolad/KaraKata/controllers/order"
	"github.com/Almiviolad/KaraKata/middleware"
)

// SetupOrderRoutes registers orders, order items, payments and the order
// event websocket. All require JWT middleware.
func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		orders.GET("", orderControllers.GetUserOrders(db))
		orders.GET("/:orderID", orderControllers.GetOrderByID(db))
		orders.POST("/checkout", orderControllers.CheckoutHandler(db))
		orders.PUT("/:orderID/status", orderControllers.UpdateOrderStatus(db))
	}

	items := r.Group("/order-items")
	items.Use(middleware.ValidateToken)
	{
		items.PUT("/:itemID/status", orderControllers.UpdateOrderItemStatus(db))
		items.PUT("/:itemID/delivery", orderControllers.UpdateItemDelivery(db))
	}

	payments := r.Group("/payments")
	payments.Use(middleware.ValidateToken)
	{
		payments.POST("/:orderID/init", orderControllers.InitPaymentHandler(db))
		payments.GET("/:orderID/verify", orderControllers.VerifyPaymentHandler(db))
	}

	// websocket endpoint for real-time order updates
	r.GET("/ws/orders", middleware.ValidateToken, orderControllers.OrderWebSocketHandler)
}
