package orderControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Almiviolad/KaraKata/middleware"
	"github.com/Almiviolad/KaraKata/models"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInvalidAddress = errors.New("invalid shipping address")
	ErrAlreadyPaid    = errors.New("order already paid")
)

type CheckoutRequest struct {
	ShippingAddressID uint `json:"shipping_address_id" binding:"required"`
}

// Checkout converts the user's cart into an order inside a single
// transaction. Order items freeze quantity and the snapshotted cart price,
// and copy the product's current vendor for per-vendor queries later. The
// cart items are deleted; the cart row itself survives empty. No stock is
// reserved or decremented here — stock is only touched at payment time.
func Checkout(db *gorm.DB, userID, shippingAddressID uint) (*models.Order, error) {
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		var address models.ShippingAddress
		if err := tx.Where("id = ? AND user_id = ?", shippingAddressID, userID).First(&address).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidAddress
			}
			return err
		}

		order = models.Order{
			UserID:            userID,
			ShippingAddressID: &address.ID,
			Total:             decimal.Zero,
			Status:            models.OrderStatusPending,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		total := decimal.Zero
		for _, item := range cart.Items {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				return err
			}

			orderItem := models.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
				Status:    models.OrderItemStatusPending,
				VendorID:  product.VendorID,
			}
			var vendor models.User
			if err := tx.First(&vendor, product.VendorID).Error; err != nil {
				return err
			}
			orderItem.VendorEmail = vendor.Email

			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
			total = total.Add(item.Subtotal())
		}

		if err := tx.Model(&order).Update("total", total).Error; err != nil {
			return err
		}
		order.Total = total

		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reload with items and address for the response.
	if err := db.Preload("Items").Preload("ShippingAddress").First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// POST /orders/checkout
func CheckoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := Checkout(db, userID, req.ShippingAddressID)
		if err != nil {
			switch {
			case errors.Is(err, ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			case errors.Is(err, ErrInvalidAddress):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shipping address"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
			}
			return
		}

		broadcastOrderEvent(OrderEvent{Type: "order.created", OrderID: order.ID, Status: order.Status})

		c.JSON(http.StatusCreated, order)
	}
}
