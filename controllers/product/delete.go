package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Almiviolad/KaraKata/cache"
	"github.com/Almiviolad/KaraKata/middleware"
	"github.com/Almiviolad/KaraKata/models"
)

// DELETE /products/:slug (owning vendor only). Products referenced by order
// items are protected: the delete fails with 409 so order history keeps a
// valid product reference.
func DeleteProduct(db *gorm.DB, pc *cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		slug := c.Param("slug")

		var product models.Product
		if err := db.Where("slug = ?", slug).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}

		if product.VendorID != vendorID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorised to do this"})
			return
		}

		var referenced int64
		if err := db.Model(&models.OrderItem{}).Where("product_id = ?", product.ID).Count(&referenced).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check product references"})
			return
		}
		if referenced > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Product is referenced by existing orders and cannot be deleted"})
			return
		}

		if err := db.Delete(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}

		pc.Invalidate(c.Request.Context(), product.Slug)

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
