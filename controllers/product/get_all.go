package productcontroller

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Almiviolad/KaraKata/cache"
	"github.com/Almiviolad/KaraKata/models"
)

// GET /products (public). Filterable by vendor and price range, searchable by
// name/description substring. Plain filters, no relevance ranking.
func GetProducts(db *gorm.DB, pc *cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := c.Query("search")
		vendorIDStr := c.Query("vendor")
		minPriceStr := c.Query("min_price")
		maxPriceStr := c.Query("max_price")
		sortBy := c.DefaultQuery("sort_by", "created_at")
		sortOrder := strings.ToLower(c.DefaultQuery("order", "desc"))
		if sortOrder != "asc" && sortOrder != "desc" {
			sortOrder = "desc"
		}
		if sortBy != "price" && sortBy != "created_at" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort_by"})
			return
		}

		// Only the unfiltered default listing is cached.
		unfiltered := search == "" && vendorIDStr == "" && minPriceStr == "" && maxPriceStr == "" &&
			sortBy == "created_at" && sortOrder == "desc"
		if unfiltered {
			if cached, ok := pc.GetProducts(c.Request.Context()); ok {
				c.JSON(http.StatusOK, cached)
				return
			}
		}

		query := db.Model(&models.Product{})

		if search != "" {
			likePattern := "%" + strings.ToLower(search) + "%"
			query = query.Where(
				"LOWER(name) LIKE ? OR LOWER(description) LIKE ?",
				likePattern, likePattern,
			)
		}

		if vendorIDStr != "" {
			vendorID, err := strconv.ParseUint(vendorIDStr, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vendor"})
				return
			}
			query = query.Where("vendor_id = ?", uint(vendorID))
		}

		if minPriceStr != "" {
			if mp, err := strconv.ParseFloat(minPriceStr, 64); err == nil {
				query = query.Where("price >= ?", mp)
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_price"})
				return
			}
		}
		if maxPriceStr != "" {
			if mp, err := strconv.ParseFloat(maxPriceStr, 64); err == nil {
				query = query.Where("price <= ?", mp)
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
				return
			}
		}

		var products []models.Product
		if err := query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		if unfiltered {
			pc.SetProducts(c.Request.Context(), products)
		}

		c.JSON(http.StatusOK, products)
	}
}
