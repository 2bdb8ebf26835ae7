package redis

import (
	"context"
	"fmt"
	"time"
)

// PreferenceRepository 基于 Redis 的客户端偏好存储，进程重启后保留
type PreferenceRepository struct {
	client *Client
	ttl    time.Duration
}

// NewPreferenceRepository 创建偏好存储，ttl 为 0 时永不过期
func NewPreferenceRepository(client *Client, ttl time.Duration) *PreferenceRepository {
	return &PreferenceRepository{client: client, ttl: ttl}
}

func (r *PreferenceRepository) Get(ctx context.Context, key string) (string, bool, error) {
	val, ok, err := r.client.getString(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("failed to get preference %s: %w", key, err)
	}
	return val, ok, nil
}

func (r *PreferenceRepository) Set(ctx context.Context, key, value string) error {
	if err := r.client.setString(ctx, key, value, r.ttl); err != nil {
		return fmt.Errorf("failed to set preference %s: %w", key, err)
	}
	return nil
}
