package dto

import (
	"time"

	"ai-writer-api/internal/application/essay"
	"ai-writer-api/internal/domain/entity"
)

// GenerateEssayRequest 无状态作文生成请求
type GenerateEssayRequest struct {
	Topic     string `json:"topic" binding:"required,max=500"`
	Outline   string `json:"outline" binding:"max=5000"`
	WordCount int    `json:"word_count" binding:"omitempty,gte=1,lte=5000"`
	Language  string `json:"language" binding:"max=8"`
}

// GenerateTextResponse 无状态生成响应
// Text 总是可直接展示，Status 区分生成内容与各类提示语
type GenerateTextResponse struct {
	Text      string `json:"text"`
	Status    string `json:"status"`
	Retryable bool   `json:"retryable"`
}

// ToGenerateTextResponse 转换生成结果
func ToGenerateTextResponse(out entity.Outcome) *GenerateTextResponse {
	return &GenerateTextResponse{
		Text:      out.DisplayText(),
		Status:    string(out.Kind),
		Retryable: out.Retryable(),
	}
}

// SubmitEssayRequest 工作区内提交作文
type SubmitEssayRequest struct {
	Topic           string `json:"topic" binding:"max=500"`
	Outline         string `json:"outline" binding:"max=5000"`
	WordCountType   string `json:"word_count_type" binding:"max=16"`
	CustomWordCount *int   `json:"custom_word_count,omitempty"`
	Language        string `json:"language" binding:"max=8"`
}

// ToEssayRequest 转换为领域请求
func (r *SubmitEssayRequest) ToEssayRequest() entity.EssayRequest {
	return entity.EssayRequest{
		Topic:           r.Topic,
		Outline:         r.Outline,
		WordCountType:   entity.WordCountType(r.WordCountType),
		CustomWordCount: r.CustomWordCount,
		Language:        r.Language,
	}
}

// EssayResultResponse 作文结果响应
type EssayResultResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Status    string    `json:"status"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

// ToEssayResultResponse 转换作文结果
func ToEssayResultResponse(r *entity.EssayResult) *EssayResultResponse {
	if r == nil {
		return nil
	}
	return &EssayResultResponse{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Status:    string(r.Status),
		Retryable: r.Status.Retryable(),
		Timestamp: r.Timestamp,
	}
}

// EssayHistoryResponse 历史列表响应，最新在前
type EssayHistoryResponse struct {
	Essays []*EssayResultResponse `json:"essays"`
}

// ToEssayHistoryResponse 转换历史列表
func ToEssayHistoryResponse(items []*entity.EssayResult) *EssayHistoryResponse {
	out := make([]*EssayResultResponse, 0, len(items))
	for _, r := range items {
		out = append(out, ToEssayResultResponse(r))
	}
	return &EssayHistoryResponse{Essays: out}
}

// EssayHTMLResponse 作文 HTML 渲染结果
type EssayHTMLResponse struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

// EssayStateResponse 作文流程状态
type EssayStateResponse struct {
	State       string               `json:"state"`
	Current     *EssayResultResponse `json:"current,omitempty"`
	HistorySize int64                `json:"history_size"`
}

// ToEssayStateResponse 转换作文流程快照
func ToEssayStateResponse(s essay.Snapshot) *EssayStateResponse {
	return &EssayStateResponse{
		State:       string(s.State),
		Current:     ToEssayResultResponse(s.Current),
		HistorySize: s.HistorySize,
	}
}

// EssayFormResponse 表单初始值与可选项
type EssayFormResponse struct {
	Defaults       SubmitEssayRequest `json:"defaults"`
	WordCountTypes []string           `json:"word_count_types"`
	Languages      []essay.Language   `json:"languages"`
	MinCustomWords int                `json:"min_custom_words"`
	MaxCustomWords int                `json:"max_custom_words"`
}

// ToEssayFormResponse 由表单构建初始值
func ToEssayFormResponse(form *essay.Form) *EssayFormResponse {
	d := form.Defaults()
	types := make([]string, 0, len(essay.WordCountTypes))
	for _, t := range essay.WordCountTypes {
		types = append(types, string(t))
	}
	return &EssayFormResponse{
		Defaults: SubmitEssayRequest{
			WordCountType:   string(d.WordCountType),
			CustomWordCount: d.CustomWordCount,
			Language:        d.Language,
		},
		WordCountTypes: types,
		Languages:      essay.Languages(),
		MinCustomWords: essay.MinCustomWords,
		MaxCustomWords: essay.MaxCustomWords,
	}
}
