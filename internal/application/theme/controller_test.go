package theme

import (
	"context"
	"errors"
	"testing"

	"ai-writer-api/internal/domain/entity"
	"ai-writer-api/internal/infrastructure/persistence/memory"
	apperrors "ai-writer-api/pkg/errors"
)

func TestController_Resolve(t *testing.T) {
	tests := []struct {
		name        string
		stored      string
		hasStored   bool
		prefersDark bool
		want        entity.Theme
	}{
		{"no stored, system light", "", false, false, entity.ThemeLight},
		{"no stored, system dark", "", false, true, entity.ThemeDark},
		{"stored dark wins", "dark", true, false, entity.ThemeDark},
		{"stored light wins", "light", true, true, entity.ThemeLight},
		{"invalid stored falls back", "purple", true, true, entity.ThemeDark},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			prefs := memory.NewPreferenceRepository()
			if tt.hasStored {
				_ = prefs.Set(ctx, entity.ThemePreferenceKey("c1"), tt.stored)
			}

			got, err := NewController(prefs).Resolve(ctx, "c1", tt.prefersDark)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, expected %q", got, tt.want)
			}

			persisted, ok, _ := prefs.Get(ctx, "pref:c1:theme")
			if !ok || persisted != string(tt.want) {
				t.Errorf("persisted = %q, expected %q", persisted, tt.want)
			}
		})
	}
}

func TestController_RoundTripAcrossReload(t *testing.T) {
	ctx := context.Background()
	prefs := memory.NewPreferenceRepository()

	if _, err := NewController(prefs).Set(ctx, "c1", entity.ThemeDark); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// 新控制器模拟页面重新加载
	got, _ := NewController(prefs).Resolve(ctx, "c1", false)
	if got != entity.ThemeDark {
		t.Errorf("Resolve() after reload = %q, expected dark", got)
	}
}

func TestController_Toggle(t *testing.T) {
	ctx := context.Background()
	c := NewController(memory.NewPreferenceRepository())

	_, _ = c.Resolve(ctx, "c1", false)
	got, _ := c.Toggle(ctx, "c1")
	if got != entity.ThemeDark {
		t.Errorf("Toggle() = %q, expected dark", got)
	}
	got, _ = c.Toggle(ctx, "c1")
	if got != entity.ThemeLight {
		t.Errorf("Toggle() = %q, expected light", got)
	}

	cur, ok, _ := c.Current(ctx, "c1")
	if !ok || cur != entity.ThemeLight {
		t.Errorf("Current() = %q, %v", cur, ok)
	}
}

func TestController_SetInvalid(t *testing.T) {
	_, err := NewController(memory.NewPreferenceRepository()).Set(context.Background(), "c1", "sepia")
	if !errors.Is(err, apperrors.ErrThemeInvalid) {
		t.Errorf("Set() error = %v, expected ErrThemeInvalid", err)
	}
}
