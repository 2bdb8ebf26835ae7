package entity

// OutcomeKind 生成结果类型
type OutcomeKind string

const (
	OutcomeGenerated    OutcomeKind = "generated"
	OutcomeFallback     OutcomeKind = "fallback"
	OutcomeConfigError  OutcomeKind = "config_error"
	OutcomeGatewayError OutcomeKind = "gateway_error"
)

// Outcome 服务边界上的结果联合体：生成文本或固定提示语
type Outcome struct {
	Kind OutcomeKind
	Text string
	Err  error
}

// DisplayText 返回可直接展示的文本
func (o Outcome) DisplayText() string {
	return o.Text
}

// Retryable 网关错误与空响应可重试，配置错误不可
func (k OutcomeKind) Retryable() bool {
	return k == OutcomeGatewayError || k == OutcomeFallback
}

// Retryable 见 OutcomeKind.Retryable
func (o Outcome) Retryable() bool {
	return o.Kind.Retryable()
}
