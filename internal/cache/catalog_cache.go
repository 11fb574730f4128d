package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lingoclass/internal/model"
)

const catalogTTL = 10 * time.Minute

// CatalogCache keeps the per-grade course list in Redis. The dashboard is
// the most-hit screen and the catalog only changes on teacher edits.
type CatalogCache interface {
	GetCourses(ctx context.Context, grade string) ([]*model.Course, error)
	SetCourses(ctx context.Context, grade string, courses []*model.Course) error
	InvalidateCourses(ctx context.Context, grade string) error
}

type catalogCache struct {
	client *redis.Client
}

// NewCatalogCache creates a new catalog cache
func NewCatalogCache(client *redis.Client) CatalogCache {
	return &catalogCache{client: client}
}

func (c *catalogCache) key(grade string) string {
	return fmt.Sprintf("catalog:courses:%s", grade)
}

func (c *catalogCache) GetCourses(ctx context.Context, grade string) ([]*model.Course, error) {
	data, err := c.client.Get(ctx, c.key(grade)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var courses []*model.Course
	if err := json.Unmarshal([]byte(data), &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *catalogCache) SetCourses(ctx context.Context, grade string, courses []*model.Course) error {
	data, err := json.Marshal(courses)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(grade), data, catalogTTL).Err()
}

func (c *catalogCache) InvalidateCourses(ctx context.Context, grade string) error {
	return c.client.Del(ctx, c.key(grade)).Err()
}
