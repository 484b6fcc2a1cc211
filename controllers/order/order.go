package orderControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Almiviolad/KaraKata/middleware"
	"github.com/Almiviolad/KaraKata/models"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GET /orders — the caller's orders, newest first.
func GetUserOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Preload("ShippingAddress").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:orderID — own orders only; everyone else gets a 404 so order
// ids cannot be enumerated.
func GetOrderByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		orderID := c.Param("orderID")

		var order models.Order
		if err := db.
			Where("id = ? AND user_id = ?", orderID, userID).
			Preload("Items").
			Preload("ShippingAddress").
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /orders/:orderID/status — admins, or any vendor with at least one item
// in the order. Transitions are checked against the allowed-transition table.
func UpdateOrderStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		roleVal, _ := c.Get("role")
		role, _ := roleVal.(models.Role)
		orderID := c.Param("orderID")

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		newStatus, valid := models.ParseOrderStatus(req.Status)
		if !valid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status choice"})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		if role != models.RoleAdmin {
			var vendorItems int64
			if err := db.Model(&models.OrderItem{}).
				Where("order_id = ? AND vendor_id = ?", order.ID, userID).
				Count(&vendorItems).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check order items"})
				return
			}
			if vendorItems == 0 {
				c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorised to do this"})
				return
			}
		}

		if !order.Status.CanTransitionTo(newStatus) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid status transition from " + string(order.Status) + " to " + string(newStatus),
			})
			return
		}

		if err := db.Model(&order).Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
			return
		}

		broadcastOrderEvent(OrderEvent{Type: "order.status", OrderID: order.ID, Status: newStatus})

		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}
