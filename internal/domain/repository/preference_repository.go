package repository

import (
	"context"
)

// PreferenceRepository 客户端偏好键值存储
type PreferenceRepository interface {
	// Get 读取偏好，键不存在时 ok 为 false
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
