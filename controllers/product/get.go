package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Almiviolad/KaraKata/cache"
	"github.com/Almiviolad/KaraKata/models"
)

// GET /products/:slug (public)
func GetProductBySlug(db *gorm.DB, pc *cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")

		if cached, ok := pc.GetProduct(c.Request.Context(), slug); ok {
			c.JSON(http.StatusOK, cached)
			return
		}

		var product models.Product
		if err := db.Where("slug = ?", slug).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}

		pc.SetProduct(c.Request.Context(), &product)

		c.JSON(http.StatusOK, product)
	}
}
