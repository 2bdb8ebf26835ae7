package redis

import (
	"testing"
	"time"

	"ai-writer-api/internal/config"
	"ai-writer-api/internal/domain/entity"
)

func TestBuildOptions(t *testing.T) {
	tests := []struct {
		name         string
		cfg          config.RedisConfig
		wantAddr     string
		wantPool     int
		wantDialTime time.Duration
	}{
		{
			name:         "explicit",
			cfg:          config.RedisConfig{Host: "cache", Port: 6380, PoolSize: 32, DialTimeout: time.Second},
			wantAddr:     "cache:6380",
			wantPool:     32,
			wantDialTime: time.Second,
		},
		{
			name:         "defaults",
			cfg:          config.RedisConfig{Host: "localhost", Port: 6379},
			wantAddr:     "localhost:6379",
			wantPool:     defaultPoolSize,
			wantDialTime: defaultDialTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := buildOptions(&tt.cfg)
			if opts.Addr != tt.wantAddr {
				t.Errorf("addr = %q, expected %q", opts.Addr, tt.wantAddr)
			}
			if opts.PoolSize != tt.wantPool {
				t.Errorf("pool size = %d, expected %d", opts.PoolSize, tt.wantPool)
			}
			if opts.DialTimeout != tt.wantDialTime {
				t.Errorf("dial timeout = %v, expected %v", opts.DialTimeout, tt.wantDialTime)
			}
		})
	}
}

func TestNamespacedKeys(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: entity.ThemePreferenceKey("c1"), want: "aiw:pref:c1:theme"},
		{in: BuildRateLimitKey("192.0.2.1", "/api/v1/essays"), want: "aiw:ratelimit:192.0.2.1:/api/v1/essays"},
		{in: "aiw:already", want: "aiw:already"},
	}

	for _, tt := range tests {
		if got := namespaced(tt.in); got != tt.want {
			t.Errorf("namespaced(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}
