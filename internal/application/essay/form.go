package essay

import (
	"fmt"
	"strings"

	"ai-writer-api/internal/domain/entity"
	"ai-writer-api/pkg/errors"
)

var (
	ErrCustomWordCountRequired = errors.ErrWordCountInvalid.WithDetail("custom word count is required")
	ErrCustomWordCountRange    = errors.ErrWordCountInvalid.WithDetail(
		fmt.Sprintf("custom word count must be between %d and %d", MinCustomWords, MaxCustomWords))
)

// Form 作文表单，持有默认值并负责提交前校验
type Form struct {
	DefaultWordCountType   entity.WordCountType
	DefaultCustomWordCount int
	DefaultLanguage        string
}

// NewForm 创建带默认值的表单
func NewForm() *Form {
	return &Form{
		DefaultWordCountType:   entity.WordCount500,
		DefaultCustomWordCount: DefaultWordCount,
		DefaultLanguage:        DefaultLanguage,
	}
}

// Defaults 返回表单初始状态
func (f *Form) Defaults() entity.EssayRequest {
	custom := f.DefaultCustomWordCount
	return entity.EssayRequest{
		WordCountType:   f.DefaultWordCountType,
		CustomWordCount: &custom,
		Language:        f.DefaultLanguage,
	}
}

// Normalize 去除空白并为缺省字段填充默认值
// 非 custom 类型时丢弃自定义字数
func (f *Form) Normalize(req entity.EssayRequest) entity.EssayRequest {
	req.Topic = strings.TrimSpace(req.Topic)
	req.Outline = strings.TrimSpace(req.Outline)
	if req.WordCountType == "" {
		req.WordCountType = f.DefaultWordCountType
	}
	if req.Language == "" {
		req.Language = f.DefaultLanguage
	}
	if req.WordCountType != entity.WordCountCustom {
		req.CustomWordCount = nil
	}
	return req
}

// Validate 校验请求，非法请求不会到达生成服务
func (f *Form) Validate(req entity.EssayRequest) error {
	if strings.TrimSpace(req.Topic) == "" {
		return errors.ErrTopicRequired
	}

	if !validWordCountType(req.WordCountType) {
		return errors.ErrWordCountInvalid.WithDetail(fmt.Sprintf("unknown word count type %q", req.WordCountType))
	}
	if req.WordCountType == entity.WordCountCustom {
		if req.CustomWordCount == nil {
			return ErrCustomWordCountRequired
		}
		if n := *req.CustomWordCount; n < MinCustomWords || n > MaxCustomWords {
			return ErrCustomWordCountRange
		}
	}

	if !SupportedLanguage(req.Language) {
		return errors.ErrLanguageInvalid.WithDetail(fmt.Sprintf("unknown language %q", req.Language))
	}
	return nil
}
