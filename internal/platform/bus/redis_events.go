/*
 * Copyright (c) 2025 ElectroPrime
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2028-08-31
 * Change License: AGPL-3.0
 */

package bus

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// ContentChannel carries change notifications for sibling replicas so they
// can drop cached copies after an admin write.
const ContentChannel = "storefront:content"

type RedisEventBus struct {
	client *redis.Client
}

func NewRedisEventBus(addr string) *RedisEventBus {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
	return &RedisEventBus{client: rdb}
}

func (b *RedisEventBus) Publish(ctx context.Context, channel string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channel, payload).Err()
}
