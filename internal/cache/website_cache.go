package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"brandquiz/internal/model"
)

// WebsiteCache stores scrape and classification results per website host
type WebsiteCache interface {
	Get(ctx context.Context, websiteURL string) (*model.WebsiteAnalysis, error)
	Set(ctx context.Context, websiteURL string, analysis *model.WebsiteAnalysis) error
}

type websiteCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewWebsiteCache creates a new website analysis cache
func NewWebsiteCache(client *redis.Client, ttl time.Duration) WebsiteCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &websiteCache{
		client: client,
		ttl:    ttl,
	}
}

// WebsiteKey normalizes a website URL to its cache key
func WebsiteKey(websiteURL string) string {
	raw := strings.TrimSpace(websiteURL)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	host := raw
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		host = u.Hostname()
	}
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	return fmt.Sprintf("website:%s", host)
}

func (c *websiteCache) Get(ctx context.Context, websiteURL string) (*model.WebsiteAnalysis, error) {
	data, err := c.client.Get(ctx, WebsiteKey(websiteURL)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var analysis model.WebsiteAnalysis
	if err := json.Unmarshal([]byte(data), &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (c *websiteCache) Set(ctx context.Context, websiteURL string, analysis *model.WebsiteAnalysis) error {
	data, err := json.Marshal(analysis)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, WebsiteKey(websiteURL), data, c.ttl).Err()
}

type noopWebsiteCache struct{}

// NewNoopWebsiteCache returns a cache that never hits, used without Redis
func NewNoopWebsiteCache() WebsiteCache {
	return noopWebsiteCache{}
}

func (noopWebsiteCache) Get(context.Context, string) (*model.WebsiteAnalysis, error) {
	return nil, nil
}

func (noopWebsiteCache) Set(context.Context, string, *model.WebsiteAnalysis) error {
	return nil
}
