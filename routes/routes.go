package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Almiviolad/KaraKata/cache"
)

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, db *gorm.DB, pc *cache.ProductCache) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db)

	// Catalog: public reads, vendor-only mutations
	SetupProductRoutes(r, db, pc)

	// JWT-protected user routes
	SetupCartRoutes(r, db)
	SetupOrderRoutes(r, db)
	SetupShippingRoutes(r, db)

	// Vendor-only dashboard routes
	SetupVendorRoutes(r, db)
}
