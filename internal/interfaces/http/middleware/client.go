// Package middleware 提供 HTTP 中间件
package middleware

import (
	"ai-writer-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// ClientIDHeader 浏览器客户端标识头，主题偏好按此归属
	ClientIDHeader = "X-Client-ID"

	clientIDKey          = "client_id"
	clientIDGeneratedKey = "client_id_generated"
	workspaceIDKey       = "workspace_id"

	maxClientIDLen = 64
)

// ClientID 客户端标识注入中间件
// 请求未携带时生成新的标识并通过响应头返回
func ClientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetHeader(ClientIDHeader)
		if clientID == "" || len(clientID) > maxClientIDLen {
			clientID = uuid.NewString()
			c.Set(clientIDGeneratedKey, true)
		}

		c.Set(clientIDKey, clientID)
		ctx := logger.WithContext(c.Request.Context(), logger.ClientIDKey, clientID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(ClientIDHeader, clientID)

		c.Next()
	}
}

// WorkspaceContext 将路径中的工作区 ID 写入日志上下文
func WorkspaceContext(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.Param(param); id != "" {
			c.Set(workspaceIDKey, id)
			trace.SpanFromContext(c.Request.Context()).SetAttributes(attribute.String("workspace.id", id))
			ctx := logger.WithContext(c.Request.Context(), logger.WorkspaceIDKey, id)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// GetClientIDFromGin 获取客户端标识
func GetClientIDFromGin(c *gin.Context) string {
	return c.GetString(clientIDKey)
}

// ClientIDGenerated 客户端标识是否由服务端生成（请求未携带有效标识）
func ClientIDGenerated(c *gin.Context) bool {
	return c.GetBool(clientIDGeneratedKey)
}

// GetWorkspaceIDFromGin 获取工作区 ID
func GetWorkspaceIDFromGin(c *gin.Context) string {
	return c.GetString(workspaceIDKey)
}
