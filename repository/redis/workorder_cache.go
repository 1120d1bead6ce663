package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/gac-shell/domain"
	"github.com/fastygo/gac-shell/repository"
)

const workOrderListKey = "gac:workorders:list"

type workOrderListCache struct {
	client redislib.Cmdable
	ttl    time.Duration
}

// NewWorkOrderListCache stores the serialized work order list under a single key with a TTL.
func NewWorkOrderListCache(client redislib.Cmdable, ttl time.Duration) repository.WorkOrderListCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &workOrderListCache{client: client, ttl: ttl}
}

func (c *workOrderListCache) Get(ctx context.Context) ([]domain.WorkOrder, bool, error) {
	raw, err := c.client.Get(ctx, workOrderListKey).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	orders := make([]domain.WorkOrder, 0)
	if err := json.Unmarshal(raw, &orders); err != nil {
		// A corrupt entry behaves like a miss; the next Set overwrites it.
		return nil, false, nil
	}
	return orders, true, nil
}

func (c *workOrderListCache) Set(ctx context.Context, orders []domain.WorkOrder) error {
	if orders == nil {
		orders = []domain.WorkOrder{}
	}
	payload, err := json.Marshal(orders)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, workOrderListKey, payload, c.ttl).Err()
}

func (c *workOrderListCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, workOrderListKey).Err()
}
