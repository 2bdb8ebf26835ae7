package entity

import (
	"time"
)

// WorkspaceRecord 工作区登记信息，进程重启或多实例时据此恢复工作区
type WorkspaceRecord struct {
	ID         string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	ClientID   string    `json:"client_id" gorm:"type:varchar(64);not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null"`
	LastSeenAt time.Time `json:"last_seen_at" gorm:"index;not null"`
}

func (WorkspaceRecord) TableName() string {
	return "workspaces"
}
