// Package theme 管理客户端明暗主题偏好
package theme

import (
	"context"

	"ai-writer-api/internal/domain/entity"
	"ai-writer-api/internal/domain/repository"
	"ai-writer-api/pkg/errors"
	"ai-writer-api/pkg/logger"
)

// Controller 主题控制器，偏好按客户端 ID 持久化
type Controller struct {
	prefs repository.PreferenceRepository
}

// NewController 创建主题控制器
func NewController(prefs repository.PreferenceRepository) *Controller {
	return &Controller{prefs: prefs}
}

// Resolve 读取已保存主题，缺失或非法时按系统偏好推导，并立即写回
func (c *Controller) Resolve(ctx context.Context, clientID string, prefersDark bool) (entity.Theme, error) {
	key := entity.ThemePreferenceKey(clientID)

	raw, ok, err := c.prefs.Get(ctx, key)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeCacheError, "failed to read theme preference")
	}

	t, valid := entity.ParseTheme(raw)
	if !ok || !valid {
		t = entity.DeriveTheme(prefersDark)
		if ok {
			logger.Warn(ctx, "ignoring invalid stored theme", "value", raw)
		}
	}

	if err := c.prefs.Set(ctx, key, string(t)); err != nil {
		return "", errors.Wrap(err, errors.CodeCacheError, "failed to save theme preference")
	}
	return t, nil
}

// Set 设置主题
func (c *Controller) Set(ctx context.Context, clientID string, t entity.Theme) (entity.Theme, error) {
	if _, ok := entity.ParseTheme(string(t)); !ok {
		return "", errors.ErrThemeInvalid
	}
	if err := c.prefs.Set(ctx, entity.ThemePreferenceKey(clientID), string(t)); err != nil {
		return "", errors.Wrap(err, errors.CodeCacheError, "failed to save theme preference")
	}
	return t, nil
}

// Toggle 在明暗之间切换
func (c *Controller) Toggle(ctx context.Context, clientID string) (entity.Theme, error) {
	raw, _, err := c.prefs.Get(ctx, entity.ThemePreferenceKey(clientID))
	if err != nil {
		return "", errors.Wrap(err, errors.CodeCacheError, "failed to read theme preference")
	}
	cur, ok := entity.ParseTheme(raw)
	if !ok {
		cur = entity.ThemeLight
	}
	return c.Set(ctx, clientID, cur.Toggle())
}

// Current 读取当前主题，不写回
func (c *Controller) Current(ctx context.Context, clientID string) (entity.Theme, bool, error) {
	raw, ok, err := c.prefs.Get(ctx, entity.ThemePreferenceKey(clientID))
	if err != nil {
		return "", false, errors.Wrap(err, errors.CodeCacheError, "failed to read theme preference")
	}
	t, valid := entity.ParseTheme(raw)
	return t, ok && valid, nil
}
