// Package queue carries ThumbnailJobs from the API to the worker over Redis
// lists with at-least-once delivery.
//
// A job is pushed onto the pending list. Dequeue atomically moves it to a
// processing list; Ack removes it from there once handled. Anything left in
// the processing list after a crash is moved back by Recover, so a job may
// be seen more than once and consumers must be idempotent.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/redis/go-redis/v9"
)

// ErrNoJob is returned by Dequeue when nothing arrived within the timeout.
var ErrNoJob = errors.New("no job")

// Delivery is one dequeued entry. Err is set when the payload could not be
// decoded; such deliveries still have to be acked.
type Delivery struct {
	Job models.ThumbnailJob
	Err error
	raw string
}

type Producer interface {
	Enqueue(ctx context.Context, job models.ThumbnailJob) error
}

type Consumer interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*Delivery, error)
	Ack(ctx context.Context, d *Delivery) error
	Recover(ctx context.Context) (int, error)
}

// RedisQueue implements Producer and Consumer.
type RedisQueue struct {
	rdb        redis.UniversalClient
	pending    string
	processing string
}

func NewRedisQueue(rdb redis.UniversalClient, name string) *RedisQueue {
	return &RedisQueue{rdb: rdb, pending: name, processing: name + ":processing"}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job models.ThumbnailJob) error {
	b, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.pending, b).Err(); err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	return nil
}

// Dequeue blocks up to timeout (rounded up to whole seconds by Redis) for the
// oldest pending job.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*Delivery, error) {
	raw, err := q.rdb.BLMove(ctx, q.pending, q.processing, "RIGHT", "LEFT", timeout).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoJob
		}
		return nil, fmt.Errorf("dequeue: %w", err)
	}

	d := &Delivery{raw: raw}
	if err := json.Unmarshal([]byte(raw), &d.Job); err != nil {
		d.Err = fmt.Errorf("decode job: %w", err)
	}
	return d, nil
}

func (q *RedisQueue) Ack(ctx context.Context, d *Delivery) error {
	if err := q.rdb.LRem(ctx, q.processing, 1, d.raw).Err(); err != nil {
		return fmt.Errorf("ack: %w", err)
	}
	return nil
}

// Recover moves every unacknowledged delivery back to the consuming end of
// the pending list, ahead of newer jobs and in their original delivery order,
// and returns how many were moved.
func (q *RedisQueue) Recover(ctx context.Context) (int, error) {
	n := 0
	for {
		// processing holds the newest delivery on the left
		err := q.rdb.LMove(ctx, q.processing, q.pending, "LEFT", "RIGHT").Err()
		if errors.Is(err, redis.Nil) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("recover: %w", err)
		}
		n++
	}
}

// Len reports the pending and processing list sizes.
func (q *RedisQueue) Len(ctx context.Context) (pending, processing int64, err error) {
	pipe := q.rdb.Pipeline()
	p := pipe.LLen(ctx, q.pending)
	r := pipe.LLen(ctx, q.processing)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("queue len: %w", err)
	}
	return p.Val(), r.Val(), nil
}
