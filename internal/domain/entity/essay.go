// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/google/uuid"
)

// WordCountType 字数选项
type WordCountType string

const (
	WordCount100    WordCountType = "100"
	WordCount500    WordCountType = "500"
	WordCount700    WordCountType = "700"
	WordCount1000   WordCountType = "1000"
	WordCountCustom WordCountType = "custom"
)

// EssayRequest 一次作文生成请求（瞬态，不持久化）
type EssayRequest struct {
	Topic           string        `json:"topic"`
	Outline         string        `json:"outline,omitempty"`
	WordCountType   WordCountType `json:"word_count_type"`
	CustomWordCount *int          `json:"custom_word_count,omitempty"`
	Language        string        `json:"language"`
}

// EssayResult 生成结果，创建后不可变
type EssayResult struct {
	ID          string      `json:"id" gorm:"type:varchar(36);primaryKey"`
	WorkspaceID string      `json:"workspace_id" gorm:"type:varchar(36);index:idx_essay_results_ws_ts,priority:1;not null"`
	Title       string      `json:"title" gorm:"type:text;not null"`
	Content     string      `json:"content" gorm:"type:text;not null"`
	Status      OutcomeKind `json:"status" gorm:"type:varchar(16);not null"`
	Timestamp   time.Time   `json:"timestamp" gorm:"column:created_at;index:idx_essay_results_ws_ts,priority:2;not null"`
}

func (EssayResult) TableName() string {
	return "essay_results"
}

// NewEssayResult 由请求主题与生成结果构建历史条目
func NewEssayResult(workspaceID, topic string, outcome Outcome) *EssayResult {
	return &EssayResult{
		ID:          NewID(),
		WorkspaceID: workspaceID,
		Title:       topic,
		Content:     outcome.DisplayText(),
		Status:      outcome.Kind,
		Timestamp:   time.Now(),
	}
}

// NewID 生成按时间递增的唯一 ID
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
