package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/sahaza2shakya/PDFchat-app/internal/model"
)

const catalogKey = "pdf:catalog"

// CatalogCache is a read-through cache over the PDF listing. Upload and
// delete invalidate it; a short TTL covers writes from other instances.
type CatalogCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewCatalogCache(client *redisv9.Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &CatalogCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *CatalogCache) Get(ctx context.Context) ([]model.PDFDocument, bool, error) {
	raw, err := c.client.Get(ctx, catalogKey).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get catalog failed: %w", err)
	}

	var docs []model.PDFDocument
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached catalog failed: %w", err)
	}
	return docs, true, nil
}

func (c *CatalogCache) Set(ctx context.Context, docs []model.PDFDocument) error {
	payload, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("marshal catalog cache failed: %w", err)
	}
	if err := c.client.Set(ctx, catalogKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set catalog failed: %w", err)
	}
	return nil
}

func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		return fmt.Errorf("redis delete catalog failed: %w", err)
	}
	return nil
}
