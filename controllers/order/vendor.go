package orderControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Almiviolad/KaraKata/middleware"
	"github.com/Almiviolad/KaraKata/models"
)

// VendorOrderSummary is one dashboard row: a paid order projected down to
// the calling vendor's own items. Other vendors' items in the same order
// are invisible.
type VendorOrderSummary struct {
	OrderID         uint                    `json:"order_id"`
	CustomerEmail   string                  `json:"customer_email"`
	Status          models.OrderStatus      `json:"status"`
	CreatedAt       time.Time               `json:"created_at"`
	ShippingAddress *models.ShippingAddress `json:"shipping_address,omitempty"`
	Items           []models.OrderItem      `json:"items"`
}

// GET /vendor/orders — every order containing at least one of the calling
// vendor's items, with all preloads for the vendor's own rows.
func GetVendorOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var orders []models.Order
		if err := db.
			Distinct("orders.*").
			Joins("JOIN order_items ON order_items.order_id = orders.id").
			Where("order_items.vendor_id = ?", vendorID).
			Preload("Items").
			Preload("ShippingAddress").
			Order("orders.created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /vendor/dashboard — the vendor's order items on paid orders, grouped
// in memory by parent order. Single pass over the item set.
func VendorDashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var items []models.OrderItem
		if err := db.
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("order_items.vendor_id = ? AND orders.is_paid = ?", vendorID, true).
			Order("order_items.order_id").
			Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order items"})
			return
		}

		grouped := make(map[uint]*VendorOrderSummary)
		orderIDs := make([]uint, 0)
		for _, item := range items {
			summary, exists := grouped[item.OrderID]
			if !exists {
				summary = &VendorOrderSummary{OrderID: item.OrderID}
				grouped[item.OrderID] = summary
				orderIDs = append(orderIDs, item.OrderID)
			}
			summary.Items = append(summary.Items, item)
		}

		if len(orderIDs) > 0 {
			var orders []models.Order
			if err := db.
				Preload("User").
				Preload("ShippingAddress").
				Where("id IN ?", orderIDs).
				Find(&orders).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
				return
			}
			for _, order := range orders {
				if summary, exists := grouped[order.ID]; exists {
					summary.CustomerEmail = order.User.Email
					summary.Status = order.Status
					summary.CreatedAt = order.CreatedAt
					summary.ShippingAddress = order.ShippingAddress
				}
			}
		}

		// Preserve order-id grouping order in the response.
		summaries := make([]VendorOrderSummary, 0, len(orderIDs))
		for _, id := range orderIDs {
			summaries = append(summaries, *grouped[id])
		}
		c.JSON(http.StatusOK, summaries)
	}
}
