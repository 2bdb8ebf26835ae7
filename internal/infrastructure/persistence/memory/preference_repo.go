package memory

import (
	"context"
	"sync"
)

// PreferenceRepository 内存偏好存储
type PreferenceRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewPreferenceRepository() *PreferenceRepository {
	return &PreferenceRepository{values: make(map[string]string)}
}

func (r *PreferenceRepository) Get(ctx context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	return v, ok, nil
}

func (r *PreferenceRepository) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}
