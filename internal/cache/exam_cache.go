package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lingoclass/internal/model"
)

const examTTL = 5 * time.Minute

// ExamCache keeps exam definitions in Redis so the take-exam screen does
// not hit MongoDB on every poll. Entries are invalidated on teacher edits.
type ExamCache interface {
	Get(ctx context.Context, examID string) (*model.Exam, error)
	Set(ctx context.Context, exam *model.Exam) error
	Invalidate(ctx context.Context, examID string) error
}

type examCache struct {
	client *redis.Client
}

// NewExamCache creates a new exam cache
func NewExamCache(client *redis.Client) ExamCache {
	return &examCache{client: client}
}

func (c *examCache) key(examID string) string {
	return fmt.Sprintf("exam:%s", examID)
}

func (c *examCache) Get(ctx context.Context, examID string) (*model.Exam, error) {
	data, err := c.client.Get(ctx, c.key(examID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var exam model.Exam
	if err := json.Unmarshal([]byte(data), &exam); err != nil {
		return nil, err
	}
	return &exam, nil
}

func (c *examCache) Set(ctx context.Context, exam *model.Exam) error {
	data, err := json.Marshal(exam)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(exam.ID), data, examTTL).Err()
}

func (c *examCache) Invalidate(ctx context.Context, examID string) error {
	return c.client.Del(ctx, c.key(examID)).Err()
}
