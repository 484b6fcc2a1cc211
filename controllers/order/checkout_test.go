package orderControllers

import (
	"fmt"
	"testing"

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
		&models.ShippingAddress{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

type fixture struct {
	customer models.User
	vendor   models.User
	address  models.ShippingAddress
	cart     models.Cart
}

func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	customer := models.User{Email: "buyer@example.com", PasswordHash: "x", Role: models.RoleCustomer}
	vendor := models.User{Email: "vendor@example.com", PasswordHash: "x", Role: models.RoleVendor}
	require.NoError(t, db.Create(&customer).Error)
	require.NoError(t, db.Create(&vendor).Error)

	address := models.ShippingAddress{UserID: customer.ID, FullName: "Buyer", AddressLine: "1 Market St", City: "Lagos"}
	require.NoError(t, db.Create(&address).Error)

	cart := models.Cart{UserID: customer.ID}
	require.NoError(t, db.Create(&cart).Error)

	return fixture{customer: customer, vendor: vendor, address: address, cart: cart}
}

func seedProduct(t *testing.T, db *gorm.DB, vendorID uint, slug string, price string, stock int) models.Product {
	t.Helper()
	product := models.Product{
		VendorID: vendorID,
		Name:     slug,
		Slug:     slug,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func addCartItem(t *testing.T, db *gorm.DB, cart models.Cart, product models.Product, qty int) models.CartItem {
	t.Helper()
	item := models.CartItem{
		CartID:    cart.CartID,
		ProductID: product.ID,
		Quantity:  qty,
		Price:     product.Price,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func TestCheckoutTotalsAndClearsCart(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixture(t, db)
	productA := seedProduct(t, db, fx.vendor.ID, "product-a", "10.00", 10)
	productB := seedProduct(t, db, fx.vendor.ID, "product-b", "5.00", 10)
	addCartItem(t, db, fx.cart, productA, 2)
	addCartItem(t, db, fx.cart, productB, 1)

	order, err := Checkout(db, fx.customer.ID, fx.address.ID)
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("25.00").Equal(order.Total), "total = %s", order.Total)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.False(t, order.IsPaid)
	require.NotNil(t, order.ShippingAddress)
	assert.Equal(t, fx.address.ID, order.ShippingAddress.ID)

	// Items froze quantity, snapshot price and denormalized vendor.
	for _, item := range order.Items {
		assert.Equal(t, fx.vendor.ID, item.VendorID)
		assert.Equal(t, fx.vendor.Email, item.VendorEmail)
		assert.Equal(t, models.OrderItemStatusPending, item.Status)
	}

	// Cart row survives, empty.
	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", fx.cart.CartID).Count(&remaining).Error)
	assert.Zero(t, remaining)
	var cart models.Cart
	require.NoError(t, db.Where("user_id = ?", fx.customer.ID).First(&cart).Error)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixture(t, db)

	_, err := Checkout(db, fx.customer.ID, fx.address.ID)
	assert.ErrorIs(t, err, ErrEmptyCart)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestCheckoutMissingCart(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixture(t, db)
	require.NoError(t, db.Delete(&fx.cart).Error)

	_, err := Checkout(db, fx.customer.ID, fx.address.ID)
	assert.ErrorIs(t, err, ErrEmptyCart)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestCheckoutForeignAddressRollsBack(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixture(t, db)
	product := seedProduct(t, db, fx.vendor.ID, "product-a", "10.00", 10)
	addCartItem(t, db, fx.cart, product, 1)

	other := models.User{Email: "other@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&other).Error)
	foreign := models.ShippingAddress{UserID: other.ID, FullName: "Other", AddressLine: "2 Side St"}
	require.NoError(t, db.Create(&foreign).Error)

	_, err := Checkout(db, fx.customer.ID, foreign.ID)
	assert.ErrorIs(t, err, ErrInvalidAddress)

	// All-or-nothing: no order, no order items, cart untouched.
	var orders, orderItems, cartItems int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&orderItems).Error)
	require.NoError(t, db.Model(&models.CartItem{}).Count(&cartItems).Error)
	assert.Zero(t, orders)
	assert.Zero(t, orderItems)
	assert.Equal(t, int64(1), cartItems)
}

func TestCheckoutSnapshotPriceNotLivePrice(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixture(t, db)
	product := seedProduct(t, db, fx.vendor.ID, "product-a", "10.00", 10)
	addCartItem(t, db, fx.cart, product, 1)

	// Vendor raises the price after the item entered the cart.
	require.NoError(t, db.Model(&product).Update("price", decimal.RequireFromString("99.00")).Error)

	order, err := Checkout(db, fx.customer.ID, fx.address.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("10.00").Equal(order.Total), "total = %s", order.Total)
}
