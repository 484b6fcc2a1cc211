package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Almiviolad/KaraKata/models"
)

const (
	allProductsKey   = "products:all"
	productKeyPrefix = "product:"
)

// ProductCache is a read-through cache over the public catalog endpoints.
// Every method degrades to a no-op miss on Redis errors so the catalog keeps
// serving from the database when Redis is down.
type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// Connect builds a ProductCache from REDIS_ADDR / REDIS_PASSWORD / REDIS_DB.
// Returns nil when REDIS_ADDR is unset; callers treat a nil cache as a miss.
func Connect() *ProductCache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	dbNum, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           dbNum,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return &ProductCache{rdb: rdb, ttl: 5 * time.Minute}
}

func (c *ProductCache) GetProducts(ctx context.Context) ([]models.Product, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, allProductsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("Redis error (continuing with DB): %v", err)
		}
		return nil, false
	}
	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		log.Printf("Failed to unmarshal cached products (continuing with DB): %v", err)
		return nil, false
	}
	return products, true
}

func (c *ProductCache) SetProducts(ctx context.Context, products []models.Product) {
	if c == nil {
		return
	}
	data, err := json.Marshal(products)
	if err != nil {
		log.Printf("Failed to marshal products: %v", err)
		return
	}
	if err := c.rdb.Set(ctx, allProductsKey, data, c.ttl).Err(); err != nil {
		log.Printf("Failed to cache products: %v", err)
	}
}

func (c *ProductCache) GetProduct(ctx context.Context, slug string) (*models.Product, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, productKeyPrefix+slug).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("Redis error (continuing with DB): %v", err)
		}
		return nil, false
	}
	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		log.Printf("Failed to unmarshal cached product (continuing with DB): %v", err)
		return nil, false
	}
	return &product, true
}

func (c *ProductCache) SetProduct(ctx context.Context, product *models.Product) {
	if c == nil {
		return
	}
	data, err := json.Marshal(product)
	if err != nil {
		log.Printf("Failed to marshal product: %v", err)
		return
	}
	if err := c.rdb.Set(ctx, productKeyPrefix+product.Slug, data, c.ttl).Err(); err != nil {
		log.Printf("Failed to cache product: %v", err)
	}
}

// Invalidate drops the cached entry for a slug and the full listing. Called
// after every catalog mutation and after payment commits stock.
func (c *ProductCache) Invalidate(ctx context.Context, slugs ...string) {
	if c == nil {
		return
	}
	keys := []string{allProductsKey}
	for _, slug := range slugs {
		keys = append(keys, productKeyPrefix+slug)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("Failed to invalidate product cache: %v", err)
	}
}
