package common

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisQueueService provides queue functionality using Redis Streams
type RedisQueueService struct {
	client *redis.Client
}

// NewRedisQueueService creates a new Redis queue service
func NewRedisQueueService(client *redis.Client) *RedisQueueService {
	return &RedisQueueService{
		client: client,
	}
}

// FeedQueueItem represents one queued feed-processing request
type FeedQueueItem struct {
	WizardID  string `json:"wizard_id"`
	BatchSize int    `json:"batch_size"`
	QueuedBy  string `json:"queued_by"`
}

// EnqueueFeed adds a feed-processing request to the stream.
// XADD stream_name * data <json>
func (s *RedisQueueService) EnqueueFeed(ctx context.Context, streamName string, item *FeedQueueItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal feed item: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: streamName,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}

	if _, err := s.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}

	return nil
}

// ReadFeed blocks for up to block milliseconds waiting for the next queued
// request after lastID, returning the new entry id and the decoded item.
func (s *RedisQueueService) ReadFeed(ctx context.Context, streamName, lastID string, blockMillis int64) (string, *FeedQueueItem, error) {
	res, err := s.client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{streamName, lastID},
		Count:   1,
		Block:   time.Duration(blockMillis) * time.Millisecond,
	}).Result()

	if err == redis.Nil {
		return lastID, nil, nil
	}
	if err != nil {
		return lastID, nil, fmt.Errorf("failed to read stream: %w", err)
	}

	for _, stream := range res {
		for _, msg := range stream.Messages {
			raw, ok := msg.Values["data"].(string)
			if !ok {
				return msg.ID, nil, fmt.Errorf("stream entry %s has no data field", msg.ID)
			}

			var item FeedQueueItem
			if err := json.Unmarshal([]byte(raw), &item); err != nil {
				return msg.ID, nil, fmt.Errorf("failed to unmarshal feed item: %w", err)
			}
			return msg.ID, &item, nil
		}
	}

	return lastID, nil, nil
}
