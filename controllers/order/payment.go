package orderControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Almiviolad/KaraKata/middleware"
	"github.com/Almiviolad/KaraKata/models"
)

// generatePaymentRef builds an opaque reference, e.g. 20250908130500-<uuid4>.
// No real gateway is contacted.
func generatePaymentRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// InitPayment stores a fresh payment reference on an unpaid order.
func InitPayment(db *gorm.DB, userID uint, orderID string) (string, error) {
	var order models.Order
	if err := db.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		return "", err
	}
	if order.IsPaid {
		return "", ErrAlreadyPaid
	}

	ref := generatePaymentRef()
	if err := db.Model(&order).Update("payment_reference", ref).Error; err != nil {
		return "", err
	}
	return ref, nil
}

// VerifyPayment marks the order paid and commits inventory: each item's
// product stock is decremented by the item quantity in the same transaction.
// Idempotent — an already-paid order is returned unchanged and stock is
// never decremented twice. There is no floor check; concurrent payments
// against the same low-stock product can drive stock negative.
func VerifyPayment(db *gorm.DB, userID uint, orderID string) (*models.Order, error) {
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").
			Where("id = ? AND user_id = ?", orderID, userID).
			First(&order).Error; err != nil {
			return err
		}

		if order.IsPaid {
			return nil
		}

		now := time.Now()
		if err := tx.Model(&order).Updates(map[string]interface{}{
			"is_paid": true,
			"paid_at": now,
		}).Error; err != nil {
			return err
		}
		order.IsPaid = true
		order.PaidAt = &now

		for _, item := range order.Items {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// POST /payments/:orderID/init
func InitPaymentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		ref, err := InitPayment(db, userID, c.Param("orderID"))
		if err != nil {
			switch {
			case errors.Is(err, ErrAlreadyPaid):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Order already paid"})
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initialise payment"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"payment_reference": ref})
	}
}

// GET /payments/:orderID/verify
func VerifyPaymentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		order, err := VerifyPayment(db, userID, c.Param("orderID"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify payment"})
			return
		}

		broadcastOrderEvent(OrderEvent{Type: "order.paid", OrderID: order.ID, Status: order.Status})

		c.JSON(http.StatusOK, order)
	}
}
