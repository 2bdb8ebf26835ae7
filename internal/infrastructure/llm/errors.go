package llm

import "errors"

// ErrNotConfigured 网关未配置凭据
var ErrNotConfigured = errors.New("llm gateway: api key not configured")
