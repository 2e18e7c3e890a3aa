package applicantinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Abraxas-365/intake/recruitment/applicant"
	"github.com/redis/go-redis/v9"
)

// moveDueScript moves due members of the delayed set onto the ready list
// atomically, so two workers never requeue the same event.
var moveDueScript = redis.NewScript(`
local due = redis.call("ZRANGEBYSCORE", KEYS[1], "-inf", ARGV[1])
for _, member in ipairs(due) do
	redis.call("LPUSH", KEYS[2], member)
	redis.call("ZREM", KEYS[1], member)
end
return #due
`)

// RedisQueue is a Redis list queue of applicant events. It is both the
// default EventPublisher and the EventQueue drained by the worker.
type RedisQueue struct {
	client    *redis.Client
	queueName string
}

var (
	_ applicant.EventPublisher = (*RedisQueue)(nil)
	_ applicant.EventQueue     = (*RedisQueue)(nil)
)

// NewRedisQueue creates a new Redis-based queue
func NewRedisQueue(client *redis.Client, queueName string) *RedisQueue {
	return &RedisQueue{
		client:    client,
		queueName: queueName,
	}
}

func (q *RedisQueue) delayedQueue() string {
	return q.queueName + ":delayed"
}

// Publish adds an event to the queue
func (q *RedisQueue) Publish(ctx context.Context, event applicant.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.ID, err)
	}

	if err := q.client.LPush(ctx, q.queueName, data).Err(); err != nil {
		return fmt.Errorf("enqueue event %s: %w", event.ID, err)
	}

	return nil
}

// Dequeue gets an event from the queue (blocking with timeout)
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		// redis.Nil is returned when timeout occurs
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("dequeue event: %w", err)
	}

	if len(result) < 2 {
		return nil, fmt.Errorf("invalid result from queue: expected 2 elements, got %d", len(result))
	}

	return []byte(result[1]), nil
}

// EnqueueDelayed schedules an event for later processing (for retries)
func (q *RedisQueue) EnqueueDelayed(ctx context.Context, event applicant.Event, delay time.Duration) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal delayed event %s: %w", event.ID, err)
	}

	if err := q.client.ZAdd(ctx, q.delayedQueue(), redis.Z{
		Score:  float64(time.Now().Add(delay).UnixMilli()),
		Member: data,
	}).Err(); err != nil {
		return fmt.Errorf("enqueue delayed event %s: %w", event.ID, err)
	}

	return nil
}

// MoveDelayedToReady moves delayed events that are due to the main queue
func (q *RedisQueue) MoveDelayedToReady(ctx context.Context) (int, error) {
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)

	moved, err := moveDueScript.Run(ctx, q.client, []string{q.delayedQueue(), q.queueName}, now).Int()
	if err != nil {
		return 0, fmt.Errorf("move delayed events to ready: %w", err)
	}
	return moved, nil
}

// GetQueueSize returns the number of events in the queue
func (q *RedisQueue) GetQueueSize(ctx context.Context) (int64, error) {
	size, err := q.client.LLen(ctx, q.queueName).Result()
	if err != nil {
		return 0, fmt.Errorf("get queue size: %w", err)
	}
	return size, nil
}

// GetDelayedQueueSize returns the number of delayed events
func (q *RedisQueue) GetDelayedQueueSize(ctx context.Context) (int64, error) {
	size, err := q.client.ZCard(ctx, q.delayedQueue()).Result()
	if err != nil {
		return 0, fmt.Errorf("get delayed queue size: %w", err)
	}
	return size, nil
}

// Clear removes all events from the queue (use with caution - for testing/maintenance)
func (q *RedisQueue) Clear(ctx context.Context) error {
	pipe := q.client.Pipeline()
	pipe.Del(ctx, q.queueName)
	pipe.Del(ctx, q.delayedQueue())

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("clear queue: %w", err)
	}

	return nil
}

// GetStats returns queue statistics
func (q *RedisQueue) GetStats(ctx context.Context) (map[string]any, error) {
	ready, err := q.GetQueueSize(ctx)
	if err != nil {
		return nil, err
	}

	delayed, err := q.GetDelayedQueueSize(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"queue_name":     q.queueName,
		"ready_events":   ready,
		"delayed_events": delayed,
		"total_events":   ready + delayed,
	}, nil
}
