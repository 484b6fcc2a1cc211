package orderControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Almiviolad/KaraKata/middleware"
	"github.com/Almiviolad/KaraKata/models"
)

type UpdateItemStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// loadItemForVendor fetches an order item and enforces that the caller is an
// admin or the item's denormalized vendor.
func loadItemForVendor(db *gorm.DB, c *gin.Context) (*models.OrderItem, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	roleVal, _ := c.Get("role")
	role, _ := roleVal.(models.Role)

	var item models.OrderItem
	if err := db.First(&item, "id = ?", c.Param("itemID")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order item not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order item"})
		return nil, false
	}

	if role != models.RoleAdmin && item.VendorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorised to do this"})
		return nil, false
	}
	return &item, true
}

// PUT /order-items/:itemID/status — per-item fulfillment state, mutated
// independently of sibling items so multi-vendor orders ship in parts.
func UpdateOrderItemStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateItemStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		newStatus, valid := models.ParseOrderItemStatus(req.Status)
		if !valid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item status choice"})
			return
		}

		item, ok := loadItemForVendor(db, c)
		if !ok {
			return
		}

		if !item.Status.CanTransitionTo(newStatus) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid status transition from " + string(item.Status) + " to " + string(newStatus),
			})
			return
		}

		if err := db.Model(item).Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order item status updated successfully"})
	}
}

// PUT /order-items/:itemID/delivery marks the item delivered; once every
// item in the parent order is delivered the order itself is stamped.
func UpdateItemDelivery(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, ok := loadItemForVendor(db, c)
		if !ok {
			return
		}

		if !item.Status.CanTransitionTo(models.OrderItemStatusDelivered) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid status transition from " + string(item.Status) + " to delivered",
			})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(item).Update("status", models.OrderItemStatusDelivered).Error; err != nil {
				return err
			}

			var undelivered int64
			if err := tx.Model(&models.OrderItem{}).
				Where("order_id = ? AND status <> ?", item.OrderID, models.OrderItemStatusDelivered).
				Count(&undelivered).Error; err != nil {
				return err
			}
			if undelivered == 0 {
				if err := tx.Model(&models.Order{}).Where("id = ?", item.OrderID).
					Updates(map[string]interface{}{
						"is_delivered": true,
						"delivered_at": time.Now(),
					}).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update delivery"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order item marked as delivered"})
	}
}
