package cartControllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Almiviolad/KaraKata/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
	))
	return db
}

func cartRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", models.RoleCustomer)
	})
	r.GET("/cart", GetCart(db))
	r.POST("/cart/add", AddToCart(db))
	r.PATCH("/cart/:itemID/update", UpdateQuantity(db))
	r.DELETE("/cart/:itemID/remove", RemoveItem(db))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func seedUserAndProduct(t *testing.T, db *gorm.DB, price string, stock int) (models.User, models.Product) {
	t.Helper()
	user := models.User{Email: "buyer@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	vendor := models.User{Email: "vendor@example.com", PasswordHash: "x", Role: models.RoleVendor}
	require.NoError(t, db.Create(&vendor).Error)
	product := models.Product{
		VendorID: vendor.ID,
		Name:     "Widget",
		Slug:     "widget",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	}
	require.NoError(t, db.Create(&product).Error)
	return user, product
}

func TestAddToCartMergesQuantities(t *testing.T) {
	db := setupTestDB(t)
	user, product := seedUserAndProduct(t, db, "10.00", 20)
	r := cartRouter(db, user.ID)

	body := fmt.Sprintf(`{"product":%d,"quantity":2}`, product.ID)
	w := doJSON(t, r, http.MethodPost, "/cart/add", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/cart/add", body)
	require.Equal(t, http.StatusOK, w.Code)

	// One row, summed quantity — not two rows.
	var items []models.CartItem
	require.NoError(t, db.Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestAddToCartSnapshotsPriceOnce(t *testing.T) {
	db := setupTestDB(t)
	user, product := seedUserAndProduct(t, db, "10.00", 20)
	r := cartRouter(db, user.ID)

	body := fmt.Sprintf(`{"product":%d,"quantity":1}`, product.ID)
	w := doJSON(t, r, http.MethodPost, "/cart/add", body)
	require.Equal(t, http.StatusCreated, w.Code)

	// Price change between adds must not refresh the snapshot.
	require.NoError(t, db.Model(&product).Update("price", decimal.RequireFromString("15.00")).Error)
	w = doJSON(t, r, http.MethodPost, "/cart/add", body)
	require.Equal(t, http.StatusOK, w.Code)

	var item models.CartItem
	require.NoError(t, db.First(&item).Error)
	assert.True(t, decimal.RequireFromString("10.00").Equal(item.Price), "price = %s", item.Price)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedUserAndProduct(t, db, "10.00", 20)
	r := cartRouter(db, user.ID)

	w := doJSON(t, r, http.MethodPost, "/cart/add", `{"product":9999,"quantity":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddToCartDefaultsQuantityToOne(t *testing.T) {
	db := setupTestDB(t)
	user, product := seedUserAndProduct(t, db, "10.00", 20)
	r := cartRouter(db, user.ID)

	w := doJSON(t, r, http.MethodPost, "/cart/add", fmt.Sprintf(`{"product":%d}`, product.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	var item models.CartItem
	require.NoError(t, db.First(&item).Error)
	assert.Equal(t, 1, item.Quantity)
}

func TestUpdateQuantityToZeroFails(t *testing.T) {
	db := setupTestDB(t)
	user, product := seedUserAndProduct(t, db, "10.00", 20)
	r := cartRouter(db, user.ID)

	doJSON(t, r, http.MethodPost, "/cart/add", fmt.Sprintf(`{"product":%d,"quantity":3}`, product.ID))
	var item models.CartItem
	require.NoError(t, db.First(&item).Error)

	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/cart/%d/update", item.ID), `{"quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Row untouched.
	require.NoError(t, db.First(&item, item.ID).Error)
	assert.Equal(t, 3, item.Quantity)
}

func TestUpdateQuantityExceedingStockFails(t *testing.T) {
	db := setupTestDB(t)
	user, product := seedUserAndProduct(t, db, "10.00", 5)
	r := cartRouter(db, user.ID)

	doJSON(t, r, http.MethodPost, "/cart/add", fmt.Sprintf(`{"product":%d,"quantity":1}`, product.ID))
	var item models.CartItem
	require.NoError(t, db.First(&item).Error)

	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/cart/%d/update", item.ID), `{"quantity":6}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/cart/%d/update", item.ID), `{"quantity":5}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRemoveItemNotOwned(t *testing.T) {
	db := setupTestDB(t)
	user, product := seedUserAndProduct(t, db, "10.00", 20)
	r := cartRouter(db, user.ID)

	doJSON(t, r, http.MethodPost, "/cart/add", fmt.Sprintf(`{"product":%d,"quantity":1}`, product.ID))
	var item models.CartItem
	require.NoError(t, db.First(&item).Error)

	// A different user cannot see, let alone remove, the item.
	stranger := models.User{Email: "stranger@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&stranger).Error)
	strangerRouter := cartRouter(db, stranger.ID)

	w := doJSON(t, strangerRouter, http.MethodDelete, fmt.Sprintf("/cart/%d/remove", item.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/cart/%d/remove", item.ID), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetCartComputesTotal(t *testing.T) {
	db := setupTestDB(t)
	user, product := seedUserAndProduct(t, db, "10.00", 20)
	r := cartRouter(db, user.ID)

	doJSON(t, r, http.MethodPost, "/cart/add", fmt.Sprintf(`{"product":%d,"quantity":3}`, product.ID))

	w := doJSON(t, r, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []models.CartItem `json:"items"`
		Total decimal.Decimal   `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.True(t, decimal.RequireFromString("30.00").Equal(resp.Total), "total = %s", resp.Total)
}
